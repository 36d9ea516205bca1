package assessment

import "github.com/dishalabs/disha-gateway/internal/model"

// SectionOrder is the fixed navigation order of the aptitude test. Every
// section appears exactly once; the order defines what "next" and
// "previous" mean at section boundaries.
var SectionOrder = []model.Section{
	model.SectionVerbalSynonyms,
	model.SectionVerbalProverbs,
	model.SectionNumerical,
	model.SectionMechanical,
	model.SectionClerical,
	model.SectionReasoning,
}

// sectionAbility maps each section to the DBDA ability code its raw score
// is reported under.
var sectionAbility = map[model.Section]model.Ability{
	model.SectionVerbalSynonyms: model.AbilityVA,
	model.SectionVerbalProverbs: model.AbilityCA,
	model.SectionNumerical:      model.AbilityNA,
	model.SectionMechanical:     model.AbilityMA,
	model.SectionClerical:       model.AbilityCL,
	model.SectionReasoning:      model.AbilityRA,
}

// AbilityFor returns the DBDA ability code for a section.
func AbilityFor(section model.Section) model.Ability {
	return sectionAbility[section]
}

// SectionIndex returns the position of a section in SectionOrder, or -1 if
// the section is unknown.
func SectionIndex(section model.Section) int {
	for i, s := range SectionOrder {
		if s == section {
			return i
		}
	}
	return -1
}

// Bank is an immutable set of questions keyed by section. Loaded once at
// engine construction; question order within a section is significant.
type Bank map[model.Section][]model.Question

// Questions returns the ordered question list for a section.
func (b Bank) Questions(section model.Section) []model.Question {
	return b[section]
}

// Find locates a question by id and reports which section owns it.
func (b Bank) Find(questionID string) (model.Question, model.Section, bool) {
	for _, section := range SectionOrder {
		for _, q := range b[section] {
			if q.ID == questionID {
				return q, section, true
			}
		}
	}
	return model.Question{}, "", false
}

func mc(id, prompt, correct string, labels ...string) model.Question {
	values := []string{"a", "b", "c", "d"}
	opts := make([]model.Option, len(labels))
	for i, l := range labels {
		opts[i] = model.Option{Value: values[i], Label: l}
	}
	return model.Question{
		ID:            id,
		Prompt:        prompt,
		Type:          model.QuestionTypeMultipleChoice,
		Options:       opts,
		CorrectAnswer: correct,
	}
}

func sd(id, prompt, correct string) model.Question {
	return model.Question{
		ID:     id,
		Prompt: prompt,
		Type:   model.QuestionTypeSameDifferent,
		Options: []model.Option{
			{Value: "same", Label: "Same"},
			{Value: "different", Label: "Different"},
		},
		CorrectAnswer: correct,
	}
}

// DefaultBank returns the bundled deterministic question bank.
func DefaultBank() Bank {
	return Bank{
		model.SectionVerbalSynonyms: {
			mc("vs-1", "Choose the word closest in meaning to ABUNDANT.", "c", "Scarce", "Fragile", "Plentiful", "Distant"),
			mc("vs-2", "Choose the word closest in meaning to CANDID.", "a", "Frank", "Hidden", "Clever", "Careless"),
			mc("vs-3", "Choose the word closest in meaning to DILIGENT.", "b", "Lazy", "Hardworking", "Rude", "Quiet"),
			mc("vs-4", "Choose the word closest in meaning to OBSOLETE.", "d", "Modern", "Useful", "Rare", "Outdated"),
			mc("vs-5", "Choose the word closest in meaning to VIVID.", "a", "Striking", "Dull", "Slow", "Vague"),
		},
		model.SectionVerbalProverbs: {
			mc("vp-1", "\"A stitch in time saves nine\" means:", "b", "Sewing is a valuable skill", "Fixing a problem early prevents bigger trouble", "Nine is a lucky number", "Time heals everything"),
			mc("vp-2", "\"Don't count your chickens before they hatch\" means:", "c", "Farming requires patience", "Counting is difficult", "Do not assume success before it happens", "Chickens are unpredictable"),
			mc("vp-3", "\"The early bird catches the worm\" means:", "a", "Acting promptly brings advantage", "Birds wake up early", "Worms are easy prey", "Morning is the best meal time"),
			mc("vp-4", "\"Every cloud has a silver lining\" means:", "d", "Clouds are valuable", "Weather changes quickly", "Silver is found in nature", "Difficult situations carry some hope"),
			mc("vp-5", "\"Actions speak louder than words\" means:", "b", "Shouting is persuasive", "What people do matters more than what they say", "Words are meaningless", "Silence is golden"),
		},
		model.SectionNumerical: {
			mc("nu-1", "What number continues the series 2, 6, 18, 54, ...?", "c", "108", "126", "162", "216"),
			mc("nu-2", "A shirt priced at 800 is sold at a 15% discount. What is the sale price?", "a", "680", "690", "700", "720"),
			mc("nu-3", "If 3x + 7 = 25, what is x?", "b", "5", "6", "7", "8"),
			mc("nu-4", "What number continues the series 1, 4, 9, 16, 25, ...?", "d", "30", "32", "35", "36"),
			mc("nu-5", "A train covers 240 km in 3 hours. What is its average speed?", "c", "60 km/h", "70 km/h", "80 km/h", "90 km/h"),
		},
		model.SectionMechanical: {
			mc("me-1", "Two meshed gears turn. If the left gear rotates clockwise, the right gear rotates:", "b", "Clockwise", "Counter-clockwise", "Not at all", "In either direction"),
			mc("me-2", "Which class of lever has the fulcrum between the effort and the load?", "a", "First class", "Second class", "Third class", "Fourth class"),
			mc("me-3", "A pulley system with two supporting rope segments lifts a 100 N load. Ignoring friction, the required effort is about:", "c", "200 N", "100 N", "50 N", "25 N"),
			mc("me-4", "Which surface produces the least friction for a sliding block?", "d", "Rubber", "Sandpaper", "Wood", "Polished steel"),
			mc("me-5", "Water pressure at the bottom of a tank depends mainly on:", "b", "Tank width", "Water depth", "Tank colour", "Water temperature"),
		},
		model.SectionClerical: {
			sd("cl-1", "Compare: 48291736 — 48291736", "same"),
			sd("cl-2", "Compare: MEHROTRA & SONS — MEHROTRA & SON", "different"),
			sd("cl-3", "Compare: 5,72,914.08 — 5,72,941.08", "different"),
			sd("cl-4", "Compare: Kothari Trading Co. — Kothari Trading Co.", "same"),
			sd("cl-5", "Compare: J.P. NAGAR PHASE II — J.P. NAGAR PHASE III", "different"),
		},
		model.SectionReasoning: {
			mc("re-1", "Book is to Reading as Fork is to:", "c", "Drawing", "Writing", "Eating", "Stirring"),
			mc("re-2", "Which one does not belong: Rose, Lotus, Marigold, Cabbage?", "d", "Rose", "Lotus", "Marigold", "Cabbage"),
			mc("re-3", "What letter continues the series A, C, F, J, O, ...?", "b", "T", "U", "S", "V"),
			mc("re-4", "All pencils are pens. All pens are inkpots. Therefore:", "a", "All pencils are inkpots", "All inkpots are pencils", "Some inkpots are not pens", "No pencil is an inkpot"),
			mc("re-5", "Pointing to a photo, Ravi says: \"She is the daughter of my grandfather's only son.\" The person is Ravi's:", "c", "Mother", "Aunt", "Sister", "Cousin"),
		},
	}
}

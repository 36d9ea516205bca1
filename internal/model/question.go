package model

// Section identifies one block of the aptitude test. The fixed order of
// sections is owned by the assessment package; every section appears there
// exactly once.
type Section string

const (
	SectionVerbalSynonyms Section = "VERBAL_SYNONYMS"
	SectionVerbalProverbs Section = "VERBAL_PROVERBS"
	SectionNumerical      Section = "NUMERICAL"
	SectionMechanical     Section = "MECHANICAL"
	SectionClerical       Section = "CLERICAL"
	SectionReasoning      Section = "REASONING"
)

// Ability is the DBDA ability code a section's raw score is reported under.
type Ability string

const (
	AbilityCA Ability = "CA"
	AbilityCL Ability = "CL"
	AbilityMA Ability = "MA"
	AbilityNA Ability = "NA"
	AbilityPM Ability = "PM"
	AbilityRA Ability = "RA"
	AbilitySA Ability = "SA"
	AbilityVA Ability = "VA"
)

// QuestionType enumerates supported question formats.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeSameDifferent  QuestionType = "SAME_DIFFERENT"
)

// Option is one selectable answer for a question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question represents a single test question. Questions are immutable after
// bank construction.
type Question struct {
	ID            string       `json:"id"`
	Prompt        string       `json:"prompt"`
	Type          QuestionType `json:"type"`
	Options       []Option     `json:"options"`
	CorrectAnswer string       `json:"-"`
}

// QuestionForClient is a question without the correct answer, as served to
// the presentation layer.
type QuestionForClient struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"prompt"`
	Type    QuestionType `json:"type"`
	Options []Option     `json:"options"`
}

// ForClient strips the correct answer from a question.
func (q Question) ForClient() QuestionForClient {
	return QuestionForClient{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Type:    q.Type,
		Options: q.Options,
	}
}

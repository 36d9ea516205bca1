package result

import (
	"sort"
	"time"

	"github.com/dishalabs/disha-gateway/internal/model"
)

// streamHints maps a dominant ability to the streams usually suggested for
// it. Used only by the fallback payload.
var streamHints = map[model.Ability][]string{
	model.AbilityVA: {"Humanities", "Law", "Mass Communication"},
	model.AbilityCA: {"Humanities", "Education", "Psychology"},
	model.AbilityNA: {"Science (PCM)", "Commerce", "Economics"},
	model.AbilityMA: {"Science (PCM)", "Engineering", "Industrial Design"},
	model.AbilityCL: {"Commerce", "Banking & Finance", "Administration"},
	model.AbilityRA: {"Science (PCM)", "Computer Science", "Architecture"},
}

// FallbackAnalysis builds the deterministic locally bundled analysis
// payload served whenever the backend is unreachable or erroring. Given
// the same sten profile it always produces the same recommendations.
func FallbackAnalysis(stenProfile map[model.Ability]int) *model.AnalysisResult {
	res := &model.AnalysisResult{
		Summary: "Preliminary guidance generated from your aptitude profile. " +
			"A detailed counselor analysis was not available, so these " +
			"suggestions are based on your strongest measured abilities.",
		Recommendations: []model.CareerSuggestion{
			{Title: "Software Developer", FitScore: 0.78, Rationale: "Strong problem-solving indicators and a growing field with broad entry paths."},
			{Title: "Chartered Accountant", FitScore: 0.72, Rationale: "Structured, detail-oriented work rewarded by clerical and numerical strengths."},
			{Title: "Design & Communication", FitScore: 0.66, Rationale: "A balanced verbal profile supports careers built on clear expression."},
		},
		SkillPriorities: []string{
			"Consistent study planning",
			"Written communication",
			"Foundational computer literacy",
		},
		Source:      model.ResultSourceFallback,
		GeneratedAt: time.Now().UTC(),
	}

	if len(stenProfile) > 0 {
		profile := make(map[string]int, len(stenProfile))
		for ability, s := range stenProfile {
			profile[string(ability)] = s
		}
		res.StenProfile = profile
		res.SuggestedStreams = streamHints[dominantAbility(stenProfile)]
	}

	return res
}

// dominantAbility picks the highest-scoring ability; ties break on ability
// code order so the result is stable.
func dominantAbility(profile map[model.Ability]int) model.Ability {
	abilities := make([]model.Ability, 0, len(profile))
	for a := range profile {
		abilities = append(abilities, a)
	}
	sort.Slice(abilities, func(i, j int) bool { return abilities[i] < abilities[j] })

	best := abilities[0]
	for _, a := range abilities[1:] {
		if profile[a] > profile[best] {
			best = a
		}
	}
	return best
}

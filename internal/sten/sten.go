// Package sten converts raw DBDA ability scores into sten scores (1..10)
// using published norm tables for grades 9-12, split by gender.
package sten

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dishalabs/disha-gateway/internal/model"
)

// cutoffs holds the minimum raw score for each sten band, index 0 = sten 1.
type cutoffs [10]int

// norms is keyed by grade → gender → ability.
var norms = map[int]map[string]map[model.Ability]cutoffs{
	9: {
		"male": {
			model.AbilityCA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			model.AbilityCL: {0, 8, 13, 17, 21, 26, 30, 34, 38, 43},
			model.AbilityMA: {0, 3, 4, 6, 7, 9, 10, 12, 13, 15},
			model.AbilityNA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			model.AbilityPM: {0, 5, 10, 13, 17, 21, 24, 27, 30, 33},
			model.AbilityRA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			model.AbilitySA: {0, 11, 17, 23, 29, 35, 41, 47, 53, 59},
			model.AbilityVA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		},
		"female": {
			model.AbilityCA: {0, 2, 3, 4, 6, 7, 8, 9, 10, 12},
			model.AbilityCL: {0, 10, 15, 20, 25, 30, 35, 39, 44, 49},
			model.AbilityMA: {0, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			model.AbilityNA: {0, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			model.AbilityPM: {0, 8, 13, 17, 21, 26, 30, 34, 39, 43},
			model.AbilityRA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			model.AbilitySA: {0, 10, 15, 20, 25, 30, 35, 40, 45, 50},
			model.AbilityVA: {0, 2, 3, 4, 6, 7, 8, 9, 10, 12},
		},
	},
	10: {
		"male": {
			model.AbilityCA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			model.AbilityCL: {0, 9, 14, 18, 23, 28, 32, 37, 42, 47},
			model.AbilityMA: {0, 3, 5, 7, 9, 11, 13, 15, 17, 19},
			model.AbilityNA: {0, 2, 3, 4, 5, 6, 8, 10, 11, 12},
			model.AbilityPM: {0, 7, 10, 14, 17, 21, 24, 28, 31, 35},
			model.AbilityRA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			model.AbilitySA: {0, 12, 18, 24, 31, 37, 43, 49, 55, 61},
			model.AbilityVA: {0, 2, 3, 4, 6, 7, 8, 10, 12, 13},
		},
		"female": {
			model.AbilityCA: {0, 2, 4, 5, 6, 8, 9, 10, 12, 13},
			model.AbilityCL: {0, 10, 16, 21, 26, 32, 37, 42, 47, 53},
			model.AbilityMA: {0, 2, 3, 4, 5, 7, 8, 9, 10, 11},
			model.AbilityNA: {0, 2, 3, 4, 5, 6, 8, 9, 10, 11},
			model.AbilityPM: {0, 8, 13, 17, 21, 26, 30, 34, 39, 43},
			model.AbilityRA: {0, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			model.AbilitySA: {0, 11, 16, 21, 27, 32, 37, 43, 48, 53},
			model.AbilityVA: {0, 2, 4, 5, 7, 8, 10, 11, 13, 15},
		},
	},
	11: {
		"male": {
			model.AbilityCA: {0, 2, 3, 5, 6, 7, 8, 9, 11, 12},
			model.AbilityCL: {0, 10, 15, 20, 25, 30, 35, 40, 45, 50},
			model.AbilityMA: {0, 4, 6, 9, 11, 13, 15, 17, 19, 21},
			model.AbilityNA: {0, 2, 4, 5, 6, 8, 9, 10, 12, 13},
			model.AbilityPM: {0, 7, 11, 15, 19, 22, 26, 30, 34, 38},
			model.AbilityRA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			model.AbilitySA: {0, 13, 19, 26, 32, 39, 45, 52, 58, 65},
			model.AbilityVA: {0, 3, 4, 6, 7, 9, 10, 12, 14, 16},
		},
		"female": {
			model.AbilityCA: {0, 3, 4, 6, 7, 9, 10, 12, 13, 15},
			model.AbilityCL: {0, 11, 17, 22, 28, 34, 39, 45, 51, 56},
			model.AbilityMA: {0, 3, 4, 6, 7, 8, 9, 10, 12, 13},
			model.AbilityNA: {0, 2, 4, 5, 7, 8, 9, 10, 12, 14},
			model.AbilityPM: {0, 8, 13, 17, 21, 26, 30, 34, 39, 43},
			model.AbilityRA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			model.AbilitySA: {0, 12, 18, 24, 31, 37, 43, 49, 55, 61},
			model.AbilityVA: {0, 3, 5, 7, 9, 10, 12, 14, 16, 18},
		},
	},
	12: {
		"male": {
			model.AbilityCA: {0, 1, 4, 6, 8, 11, 13, 15, 17, 19},
			model.AbilityCL: {0, 10, 16, 21, 26, 31, 36, 42, 47, 52},
			model.AbilityMA: {0, 4, 7, 9, 12, 14, 16, 19, 21, 24},
			model.AbilityNA: {0, 1, 4, 6, 8, 9, 11, 13, 16, 19},
			model.AbilityPM: {0, 8, 12, 16, 19, 23, 27, 31, 35, 39},
			model.AbilityRA: {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			model.AbilitySA: {0, 15, 22, 28, 34, 40, 47, 53, 59, 66},
			model.AbilityVA: {0, 1, 4, 7, 10, 13, 16, 18, 21, 22},
		},
		"female": {
			model.AbilityCA: {0, 2, 4, 6, 8, 10, 12, 14, 16, 18},
			model.AbilityCL: {0, 11, 17, 23, 29, 35, 41, 47, 53, 59},
			model.AbilityMA: {0, 3, 5, 6, 8, 10, 11, 13, 15, 17},
			model.AbilityNA: {0, 2, 5, 7, 9, 11, 13, 16, 17, 19},
			model.AbilityPM: {0, 9, 14, 18, 23, 28, 33, 38, 42, 47},
			model.AbilityRA: {0, 2, 3, 4, 5, 6, 7, 8, 9, 11},
			model.AbilitySA: {0, 11, 18, 25, 32, 39, 46, 53, 60, 67},
			model.AbilityVA: {0, 3, 5, 8, 10, 13, 16, 18, 21, 22},
		},
	},
}

// Score converts a raw score into a sten score (1..10) for the given
// ability, grade and gender. It walks the cutoff table from sten 10
// downward and returns the first band the raw score reaches; below all
// cutoffs is sten 1.
func Score(raw int, ability model.Ability, grade int, gender string) (int, error) {
	gradeNorms, ok := norms[grade]
	if !ok {
		return 0, fmt.Errorf("grade %d not supported (9-12)", grade)
	}

	genderNorms, ok := gradeNorms[normalizeGender(gender)]
	if !ok {
		return 0, fmt.Errorf("gender %q not supported", gender)
	}

	table, ok := genderNorms[ability]
	if !ok {
		return 0, fmt.Errorf("ability %q not supported", ability)
	}

	for s := 10; s > 0; s-- {
		if raw >= table[s-1] {
			return s, nil
		}
	}
	return 1, nil
}

// Profile converts a full set of raw ability scores into sten scores.
// Abilities missing from raw are absent from the result.
func Profile(raw map[model.Ability]int, grade int, gender string) (map[model.Ability]int, error) {
	out := make(map[model.Ability]int, len(raw))
	for ability, score := range raw {
		s, err := Score(score, ability, grade, gender)
		if err != nil {
			return nil, err
		}
		out[ability] = s
	}
	return out, nil
}

// ParseRawScore parses a score reported as "achieved/total", a bare
// integer string, or an integer. The second return is false when the
// input is empty or malformed.
func ParseRawScore(input string) (int, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, false
	}

	if idx := strings.Index(s, "/"); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func normalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "female", "f":
		return "female"
	default:
		return "male"
	}
}

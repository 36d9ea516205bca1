package assessment

import (
	"strings"

	"github.com/dishalabs/disha-gateway/internal/model"
)

// ValidateBasicInfo checks the required pre-test profile fields. It is a
// pure function: given the current form data it returns a map of field →
// error message. An empty map means the form is valid and the assessment
// may begin.
func ValidateBasicInfo(info model.BasicInfo) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(info.Name) == "" {
		fields["name"] = "Name is required."
	}
	if info.Grade < 9 || info.Grade > 12 {
		fields["grade"] = "Grade must be between 9 and 12."
	}
	if len(trimmedSubjects(info.Subjects)) == 0 {
		fields["subjects"] = "Select at least one subject."
	}
	if strings.TrimSpace(info.GuardianContact) == "" {
		fields["guardian_contact"] = "A parent or guardian contact is required."
	}

	return fields
}

func trimmedSubjects(subjects []string) []string {
	out := subjects[:0:0]
	for _, s := range subjects {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

package reservation

import (
	"fmt"
	"strings"
)

// FieldIssue describes one invalid submission field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing submission fields. The
// submission was not applied in any part.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = fmt.Sprintf("%s: %s", issue.Field, issue.Message)
	}
	return "invalid application: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Message: message})
}

package domain

import (
	"fmt"
	"strings"
)

const (
	MinChoices = 3
	MaxChoices = 4
)

// Validate checks the authoring rules for a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if len(q.Choices) < MinChoices || len(q.Choices) > MaxChoices {
		return &ValidationError{
			Field:  "choices",
			Reason: fmt.Sprintf("need %d or %d choices, got %d", MinChoices, MaxChoices, len(q.Choices)),
		}
	}
	seen := make(map[string]int, len(q.Choices))
	for i, choice := range q.Choices {
		trimmed := strings.TrimSpace(choice)
		if trimmed == "" {
			return &ValidationError{Field: fmt.Sprintf("choices[%d]", i), Reason: "must not be empty"}
		}
		if j, ok := seen[trimmed]; ok {
			return &ValidationError{Field: fmt.Sprintf("choices[%d]", i), Reason: fmt.Sprintf("duplicates choices[%d]", j)}
		}
		seen[trimmed] = i
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return &ValidationError{Field: "correctIndex", Reason: fmt.Sprintf("%d is outside 0..%d", q.CorrectIndex, len(q.Choices)-1)}
	}
	return nil
}

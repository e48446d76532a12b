package domain

import "fmt"

// ScoreResult is the outcome of a single scoring call. Produced fresh per
// call and never mutated after return. Score is nil whenever scoring could
// not complete (validation failure or unimplemented strategy).
type ScoreResult struct {
	ID             string             `json:"id,omitempty"`
	Score          *float64           `json:"score"`
	Valid          bool               `json:"valid"`
	Errors         []string           `json:"errors"`
	Interpretation string             `json:"interpretation,omitempty"`
	Subscales      map[string]float64 `json:"subscales,omitempty"`
	ItemScores     map[string]float64 `json:"item_scores,omitempty"`
	Details        map[string]any     `json:"details,omitempty"`
}

// NewValidResult builds a successful result carrying a total score.
func NewValidResult(score float64) *ScoreResult {
	return &ScoreResult{
		Score:  &score,
		Valid:  true,
		Errors: []string{},
	}
}

// NewInvalidResult builds a failed result carrying validation messages.
// Partial or garbage scores are never surfaced alongside errors.
func NewInvalidResult(errs ...string) *ScoreResult {
	return &ScoreResult{
		Score:  nil,
		Valid:  false,
		Errors: errs,
	}
}

// MissingRequiredError formats the validation message for an unanswered
// required question.
func MissingRequiredError(questionID string) string {
	return fmt.Sprintf("Missing required question: %s", questionID)
}

// InvalidResponseError formats the validation message for a submitted value
// that is not among a question's options.
func InvalidResponseError(questionID string) string {
	return fmt.Sprintf("Invalid response for %s", questionID)
}

package scoring

import "github.com/psyq-catalog-server/internal/domain"

// NotImplemented is the placeholder strategy for questionnaires whose
// clinical scoring has not yet been validated by a domain expert. It lets
// an instrument appear in the catalog while every scoring call reports the
// configured reason instead of a number.
type NotImplemented struct {
	Reason string
}

// NewNotImplemented creates the placeholder strategy.
func NewNotImplemented(reason string) *NotImplemented {
	if reason == "" {
		reason = "Scoring not implemented"
	}
	return &NotImplemented{Reason: reason}
}

// Name returns the declarative type tag of the strategy.
func (s *NotImplemented) Name() string {
	return "not_implemented"
}

// Calculate always fails with the configured reason, regardless of input.
func (s *NotImplemented) Calculate(resp domain.Response, questions []domain.Question) *domain.ScoreResult {
	return domain.NewInvalidResult(s.Reason)
}

package scoring

import "github.com/psyq-catalog-server/internal/domain"

// SimpleSum adds up the resolved score of every answered question. This is
// the default strategy and covers the majority of clinical instruments.
type SimpleSum struct {
	Missing MissingPolicy
}

// NewSimpleSum creates a simple-sum strategy with the given missing-value
// policy.
func NewSimpleSum(missing MissingPolicy) *SimpleSum {
	if missing == "" {
		missing = MissingError
	}
	return &SimpleSum{Missing: missing}
}

// Name returns the declarative type tag of the strategy.
func (s *SimpleSum) Name() string {
	return "simple_sum"
}

// Calculate validates the responses and sums resolved item scores.
func (s *SimpleSum) Calculate(resp domain.Response, questions []domain.Question) *domain.ScoreResult {
	if errs := ValidateResponses(questions, resp, s.Missing); len(errs) > 0 {
		return domain.NewInvalidResult(errs...)
	}

	total := 0.0
	itemScores := make(map[string]float64)
	var skipped []string

	for _, q := range ActiveQuestions(questions, resp) {
		if q.Type == domain.FREE_TEXT {
			continue
		}

		values := resp.Values(q.ID)
		if len(values) == 0 {
			switch s.Missing {
			case MissingZero:
				itemScores[q.ID] = 0
			case MissingSkip:
				skipped = append(skipped, q.ID)
			}
			continue
		}

		score, ok := answerScore(&q, values)
		if !ok {
			continue
		}
		total += score
		itemScores[q.ID] = score
	}

	result := domain.NewValidResult(total)
	result.ItemScores = itemScores
	if len(skipped) > 0 {
		result.Details = map[string]any{"skipped": skipped}
	}
	return result
}

package scoring

import "github.com/psyq-catalog-server/internal/domain"

// WeightedSum multiplies each item's resolved score by a per-question weight
// before summing. Questions without an entry in Weights use 1.0; weight
// entries for unknown question ids are ignored, keeping definitions
// forward-compatible when items are removed.
//
// Used by instruments like the YMRS, where a subset of items is weighted
// double.
type WeightedSum struct {
	Weights map[string]float64
}

// NewWeightedSum creates a weighted-sum strategy.
func NewWeightedSum(weights map[string]float64) *WeightedSum {
	if weights == nil {
		weights = map[string]float64{}
	}
	return &WeightedSum{Weights: weights}
}

// Name returns the declarative type tag of the strategy.
func (s *WeightedSum) Name() string {
	return "weighted_sum"
}

// Calculate validates the responses and sums weighted item contributions.
func (s *WeightedSum) Calculate(resp domain.Response, questions []domain.Question) *domain.ScoreResult {
	if errs := ValidateResponses(questions, resp, MissingError); len(errs) > 0 {
		return domain.NewInvalidResult(errs...)
	}

	total := 0.0
	itemScores := make(map[string]float64)

	for _, q := range ActiveQuestions(questions, resp) {
		if q.Type == domain.FREE_TEXT {
			continue
		}

		values := resp.Values(q.ID)
		if len(values) == 0 {
			continue
		}

		score, ok := answerScore(&q, values)
		if !ok {
			continue
		}

		weight := 1.0
		if w, found := s.Weights[q.ID]; found {
			weight = w
		}

		contribution := score * weight
		total += contribution
		itemScores[q.ID] = contribution
	}

	result := domain.NewValidResult(total)
	result.ItemScores = itemScores
	result.Details = map[string]any{"weights": s.Weights}
	return result
}

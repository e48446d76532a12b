package scoring

import "github.com/psyq-catalog-server/internal/domain"

// Subscale sums the resolved scores of named question subsets and reports
// each subtotal separately. With CalculateTotal set, a grand total is also
// produced; questions referenced by more than one subscale are counted only
// once in the grand total.
//
// Used by multi-domain instruments such as the PANSS or the FAST.
type Subscale struct {
	Subscales      map[string][]string
	CalculateTotal bool
}

// NewSubscale creates a subscale strategy.
func NewSubscale(subscales map[string][]string, calculateTotal bool) *Subscale {
	if subscales == nil {
		subscales = map[string][]string{}
	}
	return &Subscale{Subscales: subscales, CalculateTotal: calculateTotal}
}

// Name returns the declarative type tag of the strategy.
func (s *Subscale) Name() string {
	return "subscale"
}

// Calculate validates the responses and computes per-subscale subtotals.
// Unanswered required members fail validation; unanswered optional members
// contribute 0 to their subscale.
func (s *Subscale) Calculate(resp domain.Response, questions []domain.Question) *domain.ScoreResult {
	if errs := ValidateResponses(questions, resp, MissingError); len(errs) > 0 {
		return domain.NewInvalidResult(errs...)
	}

	active := make(map[string]*domain.Question)
	for _, q := range ActiveQuestions(questions, resp) {
		q := q
		active[q.ID] = &q
	}

	subscales := make(map[string]float64, len(s.Subscales))
	itemScores := make(map[string]float64)

	for name, ids := range s.Subscales {
		subtotal := 0.0
		for _, id := range ids {
			q, ok := active[id]
			if !ok {
				continue
			}

			values := resp.Values(id)
			if len(values) == 0 {
				continue
			}

			score, resolved := answerScore(q, values)
			if !resolved {
				continue
			}
			subtotal += score
			itemScores[id] = score
		}
		subscales[name] = subtotal
	}

	result := &domain.ScoreResult{Valid: true, Errors: []string{}}
	result.Subscales = subscales
	result.ItemScores = itemScores

	if s.CalculateTotal {
		// itemScores is keyed by question id, so items shared between
		// subscales are naturally counted once here.
		total := 0.0
		for _, score := range itemScores {
			total += score
		}
		result.Score = &total
	}

	return result
}

package domain

// ScoringStrategy encapsulates one scoring algorithm. The engine ships a
// closed set of implementations: simple sum, weighted sum, subscale
// aggregation and the not-implemented placeholder. Strategies never return
// Go errors for malformed respondent input; bad input is reported inside
// the ScoreResult.
type ScoringStrategy interface {
	// Name returns the declarative type tag of the strategy
	// (e.g. "simple_sum"), used by catalog metadata and audit tooling.
	Name() string

	// Calculate validates the responses against the questions and, when
	// validation passes, computes the score. It must not mutate either
	// argument.
	Calculate(resp Response, questions []Question) *ScoreResult
}

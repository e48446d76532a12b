// Package scoring implements the pluggable scoring strategies for
// questionnaire definitions: simple sum, weighted sum, subscale aggregation
// and the not-implemented placeholder, together with the response validation
// shared by all of them.
package scoring

import (
	"fmt"
	"strconv"

	"github.com/psyq-catalog-server/internal/domain"
)

// MissingPolicy controls how a strategy treats unanswered questions.
type MissingPolicy string

const (
	// MissingError fails validation when a required question is unanswered.
	MissingError MissingPolicy = "error"
	// MissingZero substitutes 0 for unanswered questions.
	MissingZero MissingPolicy = "zero"
	// MissingSkip omits unanswered questions from the sum and records them.
	MissingSkip MissingPolicy = "skip"
)

// IsValid validates the missing-value policy.
func (p MissingPolicy) IsValid() bool {
	switch p {
	case MissingError, MissingZero, MissingSkip:
		return true
	default:
		return false
	}
}

// ParseMissingPolicy coerces a definition-file string into a MissingPolicy.
// An empty string defaults to MissingError.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	if s == "" {
		return MissingError, nil
	}
	p := MissingPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: missing_value_handling %q", domain.ErrInvalidDefinition, s)
	}
	return p, nil
}

// ActiveQuestions filters out conditional questions whose trigger answer
// does not match. Inactive questions are neither required nor scorable for
// this response set.
func ActiveQuestions(questions []domain.Question, resp domain.Response) []domain.Question {
	active := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if !questionActive(&q, resp) {
			continue
		}
		active = append(active, q)
	}
	return active
}

func questionActive(q *domain.Question, resp domain.Response) bool {
	if !q.IsConditional() {
		return true
	}
	values := resp.Values(q.ConditionalOn)
	for _, v := range values {
		if v == q.ConditionalValue {
			return true
		}
	}
	return false
}

// ValidateResponses applies the validation policy that runs before any
// arithmetic: missing required answers and answers outside a question's
// option values are collected as error strings. An empty slice means the
// response set is scorable.
func ValidateResponses(questions []domain.Question, resp domain.Response, missing MissingPolicy) []string {
	var errs []string

	for _, q := range ActiveQuestions(questions, resp) {
		values := resp.Values(q.ID)
		if len(values) == 0 {
			if q.Required && missing == MissingError {
				errs = append(errs, domain.MissingRequiredError(q.ID))
			}
			continue
		}

		if q.Type != domain.MULTI_CHOICE && len(values) > 1 {
			errs = append(errs, domain.InvalidResponseError(q.ID))
			continue
		}

		if len(q.Options) > 0 {
			for _, v := range values {
				if q.OptionIndex(v) < 0 {
					errs = append(errs, domain.InvalidResponseError(q.ID))
					break
				}
			}
			continue
		}

		if q.Type == domain.NUMERIC_ENTRY {
			if _, err := strconv.ParseFloat(values[0], 64); err != nil {
				errs = append(errs, domain.InvalidResponseError(q.ID))
			}
		}
	}

	return errs
}

// answerScore resolves the numeric contribution of an answered question.
// Free-text questions never contribute; multi-choice answers sum their
// selected options.
func answerScore(q *domain.Question, values []string) (float64, bool) {
	if q.Type == domain.FREE_TEXT {
		return 0, false
	}
	total := 0.0
	for _, v := range values {
		s, ok := q.ScoreFor(v)
		if !ok {
			return 0, false
		}
		total += s
	}
	return total, len(values) > 0
}

// Package questionnaire binds a loaded definition and its scoring strategy
// into a runnable instance exposing validate and score operations.
package questionnaire

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/psyq-catalog-server/internal/domain"
	"github.com/psyq-catalog-server/internal/scoring"
)

// Questionnaire is an instantiated clinical instrument. The wrapped
// definition is read-only; instances are safe to share across concurrent
// scoring calls.
type Questionnaire struct {
	def *domain.Definition
}

// New wraps a built definition. The definition must carry a code, at least
// one question and a bound strategy; the loader guarantees all three, so a
// failure here signals a hand-assembled definition.
func New(def *domain.Definition) (*Questionnaire, error) {
	if def == nil || def.Code == "" {
		return nil, fmt.Errorf("%w: missing code", domain.ErrInvalidDefinition)
	}
	if len(def.Questions) == 0 {
		return nil, fmt.Errorf("%w: questionnaire %s has no questions", domain.ErrInvalidDefinition, def.Code)
	}
	if def.Strategy == nil {
		return nil, fmt.Errorf("%w: questionnaire %s has no scoring strategy", domain.ErrInvalidDefinition, def.Code)
	}
	return &Questionnaire{def: def}, nil
}

// Code returns the questionnaire's catalog code.
func (q *Questionnaire) Code() string {
	return q.def.Code
}

// Definition exposes the underlying read-only definition.
func (q *Questionnaire) Definition() *domain.Definition {
	return q.def
}

// Metadata returns the catalog entry for this instrument.
func (q *Questionnaire) Metadata() domain.Metadata {
	return q.def.Metadata()
}

// Validate checks a response set against the definition without scoring it.
// Missing required answers and out-of-range values are returned as messages;
// an empty slice means the responses are scorable.
func (q *Questionnaire) Validate(resp domain.Response) []string {
	return scoring.ValidateResponses(q.def.Questions, resp, scoring.MissingError)
}

// Score runs the bound strategy over the responses and attaches the
// interpretation band when one matches the computed total. A fresh result
// is produced per call; the definition is never mutated.
func (q *Questionnaire) Score(resp domain.Response) *domain.ScoreResult {
	result := q.def.Strategy.Calculate(resp, q.def.Questions)
	result.ID = uuid.NewString()

	if result.Valid && result.Score != nil {
		if label, ok := q.def.InterpretationFor(*result.Score); ok {
			result.Interpretation = label
		}
	}

	return result
}

// Schema renders the questionnaire in the shape consumed by form-rendering
// clients: metadata plus the ordered question and option lists.
func (q *Questionnaire) Schema() map[string]any {
	questions := make([]map[string]any, 0, len(q.def.Questions))
	for _, question := range q.def.Questions {
		options := make([]map[string]any, 0, len(question.Options))
		for _, opt := range question.Options {
			entry := map[string]any{
				"value": opt.Value,
				"label": opt.Label,
			}
			if opt.Score != nil {
				entry["score"] = *opt.Score
			}
			if opt.ConditionalTrigger != "" {
				entry["conditional_trigger"] = opt.ConditionalTrigger
			}
			options = append(options, entry)
		}

		entry := map[string]any{
			"id":       question.ID,
			"text":     question.Text,
			"type":     question.Type.String(),
			"required": question.Required,
			"options":  options,
		}
		if question.Group != "" {
			entry["group"] = question.Group
		}
		if question.HelpText != "" {
			entry["help_text"] = question.HelpText
		}
		if question.ConditionalOn != "" {
			entry["conditional_on"] = question.ConditionalOn
			entry["conditional_value"] = question.ConditionalValue
		}
		questions = append(questions, entry)
	}

	return map[string]any{
		"code":                       q.def.Code,
		"name":                       q.def.Name,
		"description":                q.def.Description,
		"pathology_domain":           q.def.Pathology.String(),
		"respondent_type":            q.def.Respondent.String(),
		"estimated_duration_minutes": q.def.EstimatedDurationMinutes,
		"version":                    q.def.Version,
		"total_questions":            len(q.def.Questions),
		"questions":                  questions,
	}
}

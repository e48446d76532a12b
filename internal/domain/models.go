package domain

import "strconv"

// AnswerOption is one selectable answer for a question. Values are
// normalized to strings at build time so that string and numeric submissions
// round-trip identically. Immutable once built.
type AnswerOption struct {
	Value              string   `json:"value"`
	Label              string   `json:"label"`
	Score              *float64 `json:"score,omitempty"`
	ConditionalTrigger string   `json:"conditional_trigger,omitempty"`
}

// EffectiveScore resolves the numeric contribution of this option: the
// explicit score when present, otherwise the numeric parse of the value.
func (o *AnswerOption) EffectiveScore() (float64, bool) {
	if o.Score != nil {
		return *o.Score, true
	}
	v, err := strconv.ParseFloat(o.Value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Question is a single item of a questionnaire. Immutable once built.
type Question struct {
	ID               string         `json:"id"`
	Text             string         `json:"text"`
	Options          []AnswerOption `json:"options"`
	Type             QuestionType   `json:"type"`
	Required         bool           `json:"required"`
	ReverseScored    bool           `json:"reverse_scored,omitempty"`
	ConditionalOn    string         `json:"conditional_on,omitempty"`
	ConditionalValue string         `json:"conditional_value,omitempty"`
	Group            string         `json:"group,omitempty"`
	HelpText         string         `json:"help_text,omitempty"`
}

// OptionIndex returns the ordinal position of the option matching the
// normalized value, or -1 when the value is not among the options.
func (q *Question) OptionIndex(value string) int {
	for i := range q.Options {
		if q.Options[i].Value == value {
			return i
		}
	}
	return -1
}

// OptionByValue returns the option matching the normalized value, or nil.
func (q *Question) OptionByValue(value string) *AnswerOption {
	if i := q.OptionIndex(value); i >= 0 {
		return &q.Options[i]
	}
	return nil
}

// IsConditional reports whether this question is gated on another answer.
func (q *Question) IsConditional() bool {
	return q.ConditionalOn != ""
}

// ScoreFor resolves the numeric score for a submitted value.
//
// Reverse-scored questions invert by ordinal position: the answer at
// position i scores as the option at position N-1-i, preserving the
// 1..N -> N..1 inversion regardless of the actual score magnitudes.
// Questions without options (numeric entry) score the value itself.
func (q *Question) ScoreFor(value string) (float64, bool) {
	if len(q.Options) == 0 {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	i := q.OptionIndex(value)
	if i < 0 {
		return 0, false
	}
	if q.ReverseScored {
		i = len(q.Options) - 1 - i
	}
	return q.Options[i].EffectiveScore()
}

// Band is one interpretation range for a total score, e.g. 0-12 "Remission".
// A nil Max means the band is open-ended ("26+").
type Band struct {
	Min      float64  `json:"min"`
	Max      *float64 `json:"max,omitempty"`
	Label    string   `json:"label"`
	Severity string   `json:"severity,omitempty"`
}

// Contains reports whether the score falls inside this band (bounds inclusive).
func (b *Band) Contains(score float64) bool {
	if score < b.Min {
		return false
	}
	return b.Max == nil || score <= *b.Max
}

// Definition is the fully-built, read-only description of a questionnaire:
// metadata, ordered questions, interpretation bands and the bound scoring
// strategy. Constructed once by the loader; never mutated afterwards.
type Definition struct {
	Code                     string
	Name                     string
	Description              string
	Pathology                PathologyDomain
	Respondent               RespondentType
	Questions                []Question
	VisitTypes               []string
	EstimatedDurationMinutes int
	Version                  string
	Interpretation           []Band
	Strategy                 ScoringStrategy
}

// QuestionByID returns the question with the given id, or nil.
func (d *Definition) QuestionByID(id string) *Question {
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			return &d.Questions[i]
		}
	}
	return nil
}

// QuestionsInGroup returns all questions tagged with the given subscale group.
func (d *Definition) QuestionsInGroup(group string) []Question {
	var out []Question
	for _, q := range d.Questions {
		if q.Group == group {
			out = append(out, q)
		}
	}
	return out
}

// InterpretationFor returns the band label matching the score, if any band
// is configured and matches.
func (d *Definition) InterpretationFor(score float64) (string, bool) {
	for i := range d.Interpretation {
		if d.Interpretation[i].Contains(score) {
			return d.Interpretation[i].Label, true
		}
	}
	return "", false
}

// Metadata is the catalog entry for a questionnaire, exposed by the registry
// and the API without shipping the full question list.
type Metadata struct {
	Code                     string          `json:"code"`
	Name                     string          `json:"name"`
	Description              string          `json:"description"`
	Pathology                PathologyDomain `json:"pathology_domain"`
	Respondent               RespondentType  `json:"respondent_type"`
	TotalQuestions           int             `json:"total_questions"`
	VisitTypes               []string        `json:"visit_types,omitempty"`
	EstimatedDurationMinutes int             `json:"estimated_duration_minutes,omitempty"`
	Version                  string          `json:"version"`
	ScoringStrategy          string          `json:"scoring_strategy"`
}

// Metadata derives the catalog entry from a definition.
func (d *Definition) Metadata() Metadata {
	strategy := ""
	if d.Strategy != nil {
		strategy = d.Strategy.Name()
	}
	return Metadata{
		Code:                     d.Code,
		Name:                     d.Name,
		Description:              d.Description,
		Pathology:                d.Pathology,
		Respondent:               d.Respondent,
		TotalQuestions:           len(d.Questions),
		VisitTypes:               d.VisitTypes,
		EstimatedDurationMinutes: d.EstimatedDurationMinutes,
		Version:                  d.Version,
		ScoringStrategy:          strategy,
	}
}

// AdministeredAt reports whether the questionnaire is part of the given visit.
func (d *Definition) AdministeredAt(visitType string) bool {
	for _, v := range d.VisitTypes {
		if v == visitType {
			return true
		}
	}
	return false
}

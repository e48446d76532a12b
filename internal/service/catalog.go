// Package service provides the catalog facade consumed by the HTTP, MCP and
// CLI surfaces: questionnaire discovery, response validation and scoring.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/psyq-catalog-server/internal/domain"
	"github.com/psyq-catalog-server/internal/registry"
)

// Catalog exposes high-level questionnaire operations over the registry.
// It is a pure function of its inputs: nothing is persisted across calls.
type Catalog struct {
	registry *registry.Registry
	logger   *logrus.Logger
}

// NewCatalog creates the catalog service.
func NewCatalog(logger *logrus.Logger, reg *registry.Registry) *Catalog {
	if logger == nil {
		logger = logrus.New()
	}
	return &Catalog{registry: reg, logger: logger}
}

// ValidationOutcome is the result of validating a response set.
type ValidationOutcome struct {
	Valid            bool     `json:"valid"`
	Errors           []string `json:"errors"`
	MissingQuestions []string `json:"missing_questions"`
}

// ScoreRequest is one scoring call, as submitted by API or CLI callers.
type ScoreRequest struct {
	Code      string          `json:"code"`
	Responses domain.Response `json:"responses"`
}

// ScoreOutcome wraps a ScoreResult with call-level status, matching the
// shape batch callers and the HTTP layer serialize.
type ScoreOutcome struct {
	Success           bool                `json:"success"`
	QuestionnaireCode string              `json:"questionnaire_code"`
	Scores            *domain.ScoreResult `json:"scores"`
	Errors            []string            `json:"errors"`
}

// List returns catalog metadata for every registered questionnaire.
func (c *Catalog) List() []domain.Metadata {
	return c.registry.AllMetadata()
}

// ListByPathology returns catalog metadata for the questionnaires targeting
// the given clinical domain.
func (c *Catalog) ListByPathology(pathology string) ([]domain.Metadata, error) {
	pd, err := domain.ParsePathologyDomain(pathology)
	if err != nil {
		return nil, err
	}

	var out []domain.Metadata
	for _, code := range c.registry.ListByPathology(pd) {
		md, err := c.registry.Metadata(code)
		if err != nil {
			continue
		}
		out = append(out, *md)
	}
	return out, nil
}

// Details returns the full schema of a questionnaire, including questions
// and options, for form-rendering clients.
func (c *Catalog) Details(code string) (map[string]any, error) {
	q, err := c.registry.Create(code)
	if err != nil {
		return nil, err
	}
	return q.Schema(), nil
}

// Questions returns just the question list of a questionnaire.
func (c *Catalog) Questions(code string) ([]map[string]any, error) {
	schema, err := c.Details(code)
	if err != nil {
		return nil, err
	}
	questions, _ := schema["questions"].([]map[string]any)
	return questions, nil
}

// Validate checks a response set without computing a score. An unknown code
// yields a failed outcome rather than an error: bad input from callers is
// data, not a fault.
func (c *Catalog) Validate(code string, resp domain.Response) ValidationOutcome {
	q, err := c.registry.Create(code)
	if err != nil {
		return ValidationOutcome{
			Valid:            false,
			Errors:           []string{fmt.Sprintf("Questionnaire '%s' not found", code)},
			MissingQuestions: []string{},
		}
	}

	errs := q.Validate(resp)

	var missing []string
	for _, question := range q.Definition().Questions {
		if !question.Required {
			continue
		}
		if _, answered := resp.Get(question.ID); !answered {
			missing = append(missing, question.ID)
		}
	}

	if errs == nil {
		errs = []string{}
	}
	if missing == nil {
		missing = []string{}
	}
	return ValidationOutcome{
		Valid:            len(errs) == 0,
		Errors:           errs,
		MissingQuestions: missing,
	}
}

// Score validates and scores a response set against a questionnaire.
func (c *Catalog) Score(code string, resp domain.Response) ScoreOutcome {
	start := time.Now()

	q, err := c.registry.Create(code)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.logger.WithError(err).WithField("code", code).Error("Failed to instantiate questionnaire")
		}
		return ScoreOutcome{
			Success:           false,
			QuestionnaireCode: code,
			Errors:            []string{fmt.Sprintf("Questionnaire '%s' not found", code)},
		}
	}

	result := q.Score(resp)

	c.logger.WithFields(logrus.Fields{
		"code":            q.Code(),
		"valid":           result.Valid,
		"answered_items":  len(resp),
		"processing_time": time.Since(start),
	}).Info("Questionnaire scored")

	return ScoreOutcome{
		Success:           result.Valid,
		QuestionnaireCode: q.Code(),
		Scores:            result,
		Errors:            result.Errors,
	}
}

// ScoreBatch scores several questionnaires in one call, one outcome per
// request in input order.
func (c *Catalog) ScoreBatch(requests []ScoreRequest) []ScoreOutcome {
	outcomes := make([]ScoreOutcome, 0, len(requests))
	for _, req := range requests {
		outcomes = append(outcomes, c.Score(req.Code, req.Responses))
	}
	return outcomes
}

// VisitQuestionnaires returns the catalog entries administered at a visit
// type, optionally filtered by pathology domain.
func (c *Catalog) VisitQuestionnaires(visitType, pathology string) ([]domain.Metadata, error) {
	var pd *domain.PathologyDomain
	if pathology != "" {
		parsed, err := domain.ParsePathologyDomain(pathology)
		if err != nil {
			return nil, err
		}
		pd = &parsed
	}

	var out []domain.Metadata
	for _, q := range c.registry.ListByVisitType(visitType, pd) {
		out = append(out, q.Metadata())
	}
	return out, nil
}

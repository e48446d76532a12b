package domain

import "errors"

// Configuration errors. These are fatal: they are raised while loading a
// definition or populating the registry and must never surface inside a
// ScoreResult. Bad respondent input, by contrast, is reported as data in
// ScoreResult.Errors and never as a Go error.
var (
	ErrNotFound               = errors.New("questionnaire not found")
	ErrDuplicateCode          = errors.New("questionnaire code already registered")
	ErrUnknownScoringType     = errors.New("unknown scoring strategy type")
	ErrMissingField           = errors.New("missing required definition field")
	ErrInvalidQuestionType    = errors.New("invalid question type")
	ErrInvalidPathologyDomain = errors.New("invalid pathology domain")
	ErrInvalidRespondentType  = errors.New("invalid respondent type")
	ErrInvalidDefinition      = errors.New("invalid questionnaire definition")
)

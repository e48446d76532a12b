// Package domain contains the core business entities for the clinical
// questionnaire catalog: questionnaire definitions, questions, answer
// options, respondent answers and score results.
//
// Definitions are built once by the loader and treated as read-only for the
// lifetime of the process; scoring never mutates a definition.
package domain

import (
	"fmt"
	"strings"
)

// QuestionType determines how a question is presented and validated.
type QuestionType string

const (
	SINGLE_CHOICE QuestionType = "single_choice"
	MULTI_CHOICE  QuestionType = "multi_choice"
	NUMERIC_ENTRY QuestionType = "numeric_entry"
	FREE_TEXT     QuestionType = "free_text"
)

// PathologyDomain is the clinical condition category a questionnaire targets.
type PathologyDomain string

const (
	BIPOLAR         PathologyDomain = "bipolar"
	SCHIZOPHRENIA   PathologyDomain = "schizophrenia"
	DEPRESSION      PathologyDomain = "depression"
	AUTISM_SPECTRUM PathologyDomain = "autism_spectrum"
	ANXIETY         PathologyDomain = "anxiety"
	ADHD            PathologyDomain = "adhd"
	ADDICTION       PathologyDomain = "addiction"
	GENERAL         PathologyDomain = "general"
)

// RespondentType identifies who completes the questionnaire.
type RespondentType string

const (
	SELF_REPORT     RespondentType = "self_report"
	CLINICIAN_RATED RespondentType = "clinician_rated"
	CAREGIVER       RespondentType = "caregiver"
	MIXED           RespondentType = "mixed"
)

// IsValid validates the question type.
func (qt QuestionType) IsValid() bool {
	switch qt {
	case SINGLE_CHOICE, MULTI_CHOICE, NUMERIC_ENTRY, FREE_TEXT:
		return true
	default:
		return false
	}
}

// String returns the string representation of the question type.
func (qt QuestionType) String() string {
	return string(qt)
}

// IsValid validates the pathology domain.
func (pd PathologyDomain) IsValid() bool {
	switch pd {
	case BIPOLAR, SCHIZOPHRENIA, DEPRESSION, AUTISM_SPECTRUM, ANXIETY, ADHD, ADDICTION, GENERAL:
		return true
	default:
		return false
	}
}

// String returns the string representation of the pathology domain.
func (pd PathologyDomain) String() string {
	return string(pd)
}

// IsValid validates the respondent type.
func (rt RespondentType) IsValid() bool {
	switch rt {
	case SELF_REPORT, CLINICIAN_RATED, CAREGIVER, MIXED:
		return true
	default:
		return false
	}
}

// String returns the string representation of the respondent type.
func (rt RespondentType) String() string {
	return string(rt)
}

// ParseQuestionType coerces a definition-file string into a QuestionType.
// It accepts either the canonical value ("single_choice") or the symbolic
// name case-insensitively ("SINGLE_CHOICE").
func ParseQuestionType(s string) (QuestionType, error) {
	qt := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	if !qt.IsValid() {
		return "", fmt.Errorf("%w: question type %q", ErrInvalidQuestionType, s)
	}
	return qt, nil
}

// ParsePathologyDomain coerces a definition-file string into a
// PathologyDomain, with the same case-insensitive fallback as
// ParseQuestionType.
func ParsePathologyDomain(s string) (PathologyDomain, error) {
	pd := PathologyDomain(strings.ToLower(strings.TrimSpace(s)))
	if !pd.IsValid() {
		return "", fmt.Errorf("%w: pathology domain %q", ErrInvalidPathologyDomain, s)
	}
	return pd, nil
}

// ParseRespondentType coerces a definition-file string into a RespondentType.
func ParseRespondentType(s string) (RespondentType, error) {
	rt := RespondentType(strings.ToLower(strings.TrimSpace(s)))
	if !rt.IsValid() {
		return "", fmt.Errorf("%w: respondent type %q", ErrInvalidRespondentType, s)
	}
	return rt, nil
}

// AllPathologyDomains lists every recognised pathology domain, in catalog order.
func AllPathologyDomains() []PathologyDomain {
	return []PathologyDomain{
		BIPOLAR, SCHIZOPHRENIA, DEPRESSION, AUTISM_SPECTRUM, ANXIETY, ADHD, ADDICTION, GENERAL,
	}
}

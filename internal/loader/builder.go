// Package loader turns declarative questionnaire definitions (JSON or YAML
// records) into fully-built domain.Definition values with a bound scoring
// strategy. All structural problems are fatal load errors: a questionnaire
// that cannot be loaded correctly must never instantiate with wrong
// semantics.
package loader

import (
	"fmt"
	"strings"

	"github.com/psyq-catalog-server/internal/domain"
	"github.com/psyq-catalog-server/internal/scoring"
)

// BuildDefinition assembles a Definition from a decoded declarative record.
// Builders perform type coercion only; clinical correctness is out of scope.
func BuildDefinition(raw map[string]any) (*domain.Definition, error) {
	code, err := requireString(raw, "code")
	if err != nil {
		return nil, err
	}
	name, err := requireString(raw, "name")
	if err != nil {
		return nil, fmt.Errorf("questionnaire %s: %w", code, err)
	}

	pathologyRaw, err := requireString(raw, "pathology_domain")
	if err != nil {
		return nil, fmt.Errorf("questionnaire %s: %w", code, err)
	}
	pathology, err := domain.ParsePathologyDomain(pathologyRaw)
	if err != nil {
		return nil, fmt.Errorf("questionnaire %s: %w", code, err)
	}

	respondentRaw, err := requireString(raw, "respondent_type")
	if err != nil {
		return nil, fmt.Errorf("questionnaire %s: %w", code, err)
	}
	respondent, err := domain.ParseRespondentType(respondentRaw)
	if err != nil {
		return nil, fmt.Errorf("questionnaire %s: %w", code, err)
	}

	questions, err := buildQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("questionnaire %s: %w", code, err)
	}

	strategy, err := buildScoring(raw)
	if err != nil {
		return nil, fmt.Errorf("questionnaire %s: %w", code, err)
	}

	bands, err := buildBands(raw)
	if err != nil {
		return nil, fmt.Errorf("questionnaire %s: %w", code, err)
	}

	version := optString(raw, "version")
	if version == "" {
		version = "1.0"
	}

	return &domain.Definition{
		Code:                     code,
		Name:                     name,
		Description:              optString(raw, "description"),
		Pathology:                pathology,
		Respondent:               respondent,
		Questions:                questions,
		VisitTypes:               optStringSlice(raw, "visit_types"),
		EstimatedDurationMinutes: optInt(raw, "estimated_duration_minutes"),
		Version:                  version,
		Interpretation:           bands,
		Strategy:                 strategy,
	}, nil
}

func buildQuestions(raw map[string]any) ([]domain.Question, error) {
	list, ok := raw["questions"].([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w: questions", domain.ErrMissingField)
	}

	questions := make([]domain.Question, 0, len(list))
	seen := make(map[string]bool, len(list))

	for i, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: question %d is not a record", domain.ErrInvalidDefinition, i)
		}
		q, err := buildQuestion(record)
		if err != nil {
			return nil, err
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate question id %q", domain.ErrInvalidDefinition, q.ID)
		}
		seen[q.ID] = true
		questions = append(questions, q)
	}

	return questions, nil
}

func buildQuestion(raw map[string]any) (domain.Question, error) {
	var q domain.Question

	id, err := requireString(raw, "id")
	if err != nil {
		return q, err
	}
	text, err := requireString(raw, "text")
	if err != nil {
		return q, fmt.Errorf("question %s: %w", id, err)
	}

	qType := domain.SINGLE_CHOICE
	if typeRaw := optString(raw, "type"); typeRaw != "" {
		qType, err = domain.ParseQuestionType(typeRaw)
		if err != nil {
			return q, fmt.Errorf("question %s: %w", id, err)
		}
	}

	options, err := buildOptions(raw, id, qType)
	if err != nil {
		return q, err
	}

	q = domain.Question{
		ID:               id,
		Text:             text,
		Options:          options,
		Type:             qType,
		Required:         optBoolDefault(raw, "required", true),
		ReverseScored:    optBoolDefault(raw, "reverse_scored", false),
		ConditionalOn:    optString(raw, "conditional_on"),
		ConditionalValue: normalizeOpt(raw, "conditional_value"),
		Group:            optString(raw, "group"),
		HelpText:         optString(raw, "help_text"),
	}

	if q.ReverseScored {
		for i := range q.Options {
			if _, ok := q.Options[i].EffectiveScore(); !ok {
				return q, fmt.Errorf("%w: reverse-scored question %q has option %q without a numeric score",
					domain.ErrInvalidDefinition, id, q.Options[i].Value)
			}
		}
	}

	return q, nil
}

func buildOptions(raw map[string]any, questionID string, qType domain.QuestionType) ([]domain.AnswerOption, error) {
	list, present := raw["options"].([]any)
	if !present || len(list) == 0 {
		// Free-text and numeric-entry questions carry no answer options.
		if qType == domain.FREE_TEXT || qType == domain.NUMERIC_ENTRY {
			return nil, nil
		}
		return nil, fmt.Errorf("question %s: %w: options", questionID, domain.ErrMissingField)
	}

	options := make([]domain.AnswerOption, 0, len(list))
	for i, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: question %q option %d is not a record", domain.ErrInvalidDefinition, questionID, i)
		}
		opt, err := buildOption(record)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", questionID, err)
		}
		options = append(options, opt)
	}
	return options, nil
}

func buildOption(raw map[string]any) (domain.AnswerOption, error) {
	var opt domain.AnswerOption

	value, err := requireString(raw, "value")
	if err != nil {
		return opt, err
	}
	label, err := requireString(raw, "label")
	if err != nil {
		return opt, fmt.Errorf("option %s: %w", value, err)
	}

	opt = domain.AnswerOption{
		Value:              value,
		Label:              label,
		Score:              optFloatPtr(raw, "score"),
		ConditionalTrigger: optString(raw, "conditional_trigger"),
	}
	return opt, nil
}

func buildScoring(raw map[string]any) (domain.ScoringStrategy, error) {
	block, present := raw["scoring"].(map[string]any)
	if !present {
		return scoring.NewSimpleSum(scoring.MissingError), nil
	}

	scoringType := optString(block, "type")
	if scoringType == "" {
		scoringType = "simple_sum"
	}

	switch scoringType {
	case "simple_sum":
		policy, err := scoring.ParseMissingPolicy(optString(block, "missing_value_handling"))
		if err != nil {
			return nil, err
		}
		return scoring.NewSimpleSum(policy), nil

	case "weighted_sum":
		weights, err := buildWeights(block)
		if err != nil {
			return nil, err
		}
		return scoring.NewWeightedSum(weights), nil

	case "subscale":
		subscales, err := buildSubscales(block)
		if err != nil {
			return nil, err
		}
		return scoring.NewSubscale(subscales, optBoolDefault(block, "calculate_total", true)), nil

	case "not_implemented":
		return scoring.NewNotImplemented(optString(block, "reason")), nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownScoringType, scoringType)
	}
}

func buildWeights(block map[string]any) (map[string]float64, error) {
	raw, present := block["weights"].(map[string]any)
	if !present {
		return map[string]float64{}, nil
	}
	weights := make(map[string]float64, len(raw))
	for id, v := range raw {
		w, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: weight for %q is not numeric", domain.ErrInvalidDefinition, id)
		}
		weights[id] = w
	}
	return weights, nil
}

func buildSubscales(block map[string]any) (map[string][]string, error) {
	raw, present := block["subscales"].(map[string]any)
	if !present || len(raw) == 0 {
		return nil, fmt.Errorf("%w: subscales", domain.ErrMissingField)
	}
	subscales := make(map[string][]string, len(raw))
	for name, v := range raw {
		ids, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: subscale %q is not a list of question ids", domain.ErrInvalidDefinition, name)
		}
		members := make([]string, 0, len(ids))
		for _, id := range ids {
			members = append(members, domain.NormalizeValue(id))
		}
		subscales[name] = members
	}
	return subscales, nil
}

func buildBands(raw map[string]any) ([]domain.Band, error) {
	list, present := raw["interpretation"].([]any)
	if !present {
		return nil, nil
	}

	bands := make([]domain.Band, 0, len(list))
	for i, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: interpretation band %d is not a record", domain.ErrInvalidDefinition, i)
		}
		minValue, ok := toFloat(record["min"])
		if !ok {
			return nil, fmt.Errorf("%w: interpretation band %d min", domain.ErrMissingField, i)
		}
		label, err := requireString(record, "label")
		if err != nil {
			return nil, fmt.Errorf("interpretation band %d: %w", i, err)
		}
		band := domain.Band{
			Min:      minValue,
			Max:      optFloatPtr(record, "max"),
			Label:    label,
			Severity: optString(record, "severity"),
		}
		bands = append(bands, band)
	}
	return bands, nil
}

// Coercion helpers. Definition files may carry numbers where the model wants
// strings (option values, conditional values); everything funnels through
// domain.NormalizeValue for round-trip stability.

func requireString(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingField, key)
	}
	s := domain.NormalizeValue(v)
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingField, key)
	}
	return s, nil
}

func optString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func normalizeOpt(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return domain.NormalizeValue(v)
}

func optBoolDefault(m map[string]any, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

func optInt(m map[string]any, key string) int {
	if f, ok := toFloat(m[key]); ok {
		return int(f)
	}
	return 0
}

func optFloatPtr(m map[string]any, key string) *float64 {
	if f, ok := toFloat(m[key]); ok {
		return &f
	}
	return nil
}

func optStringSlice(m map[string]any, key string) []string {
	list, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, domain.NormalizeValue(v))
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

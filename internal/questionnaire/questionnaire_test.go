package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psyq-catalog-server/internal/domain"
	"github.com/psyq-catalog-server/internal/scoring"
)

func floatPtr(v float64) *float64 { return &v }

func maniaDefinition() *domain.Definition {
	options := []domain.AnswerOption{
		{Value: "0", Label: "Absent"},
		{Value: "1", Label: "Mild"},
		{Value: "2", Label: "Moderate"},
		{Value: "3", Label: "Marked"},
		{Value: "4", Label: "Severe"},
	}
	return &domain.Definition{
		Code:       "ASRM",
		Name:       "Altman Self-Rating Mania Scale",
		Pathology:  domain.BIPOLAR,
		Respondent: domain.SELF_REPORT,
		Questions: []domain.Question{
			{ID: "q1", Text: "Positive mood", Type: domain.SINGLE_CHOICE, Options: options, Required: true},
			{ID: "q2", Text: "Self-confidence", Type: domain.SINGLE_CHOICE, Options: options, Required: true},
		},
		Version: "1.0",
		Interpretation: []domain.Band{
			{Min: 0, Max: floatPtr(5), Label: "Low probability of mania", Severity: "minimal"},
			{Min: 6, Label: "High probability of mania", Severity: "elevated"},
		},
		Strategy: scoring.NewSimpleSum(scoring.MissingError),
	}
}

func TestNewRejectsIncompleteDefinitions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Definition)
	}{
		{name: "missing code", mutate: func(d *domain.Definition) { d.Code = "" }},
		{name: "no questions", mutate: func(d *domain.Definition) { d.Questions = nil }},
		{name: "no strategy", mutate: func(d *domain.Definition) { d.Strategy = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := maniaDefinition()
			tt.mutate(def)
			_, err := New(def)
			assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
		})
	}
}

func TestScoreAttachesInterpretation(t *testing.T) {
	q, err := New(maniaDefinition())
	require.NoError(t, err)

	result := q.Score(domain.Response{"q1": "4", "q2": "3"})

	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 7.0, *result.Score)
	assert.Equal(t, "High probability of mania", result.Interpretation)
	assert.NotEmpty(t, result.ID, "every scoring call gets a result id")
}

func TestScoreBelowCutoff(t *testing.T) {
	q, err := New(maniaDefinition())
	require.NoError(t, err)

	result := q.Score(domain.Response{"q1": "1", "q2": "2"})

	require.True(t, result.Valid)
	assert.Equal(t, "Low probability of mania", result.Interpretation)
}

func TestScoreInvalidSkipsInterpretation(t *testing.T) {
	q, err := New(maniaDefinition())
	require.NoError(t, err)

	result := q.Score(domain.Response{"q1": "1"})

	assert.False(t, result.Valid)
	assert.Nil(t, result.Score)
	assert.Empty(t, result.Interpretation)
	assert.Equal(t, []string{"Missing required question: q2"}, result.Errors)
}

func TestScoreResultIDsAreUnique(t *testing.T) {
	q, err := New(maniaDefinition())
	require.NoError(t, err)

	resp := domain.Response{"q1": "1", "q2": "1"}
	first := q.Score(resp)
	second := q.Score(resp)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestValidate(t *testing.T) {
	q, err := New(maniaDefinition())
	require.NoError(t, err)

	assert.Empty(t, q.Validate(domain.Response{"q1": "1", "q2": "1"}))
	assert.Equal(t, []string{"Invalid response for q1", "Missing required question: q2"},
		q.Validate(domain.Response{"q1": "9"}))
}

func TestSchema(t *testing.T) {
	q, err := New(maniaDefinition())
	require.NoError(t, err)

	schema := q.Schema()
	assert.Equal(t, "ASRM", schema["code"])
	assert.Equal(t, "bipolar", schema["pathology_domain"])
	assert.Equal(t, 2, schema["total_questions"])

	questions, ok := schema["questions"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0]["id"])
	assert.Equal(t, "single_choice", questions[0]["type"])

	options, ok := questions[0]["options"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, options, 5)
	assert.Equal(t, "0", options[0]["value"])
	assert.Equal(t, "Absent", options[0]["label"])
}

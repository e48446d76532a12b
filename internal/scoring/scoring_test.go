package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psyq-catalog-server/internal/domain"
)

func choiceQuestion(id string, max int) domain.Question {
	options := make([]domain.AnswerOption, 0, max+1)
	for v := 0; v <= max; v++ {
		options = append(options, domain.AnswerOption{
			Value: domain.NormalizeValue(v),
			Label: "level " + domain.NormalizeValue(v),
		})
	}
	return domain.Question{
		ID:       id,
		Text:     "item " + id,
		Type:     domain.SINGLE_CHOICE,
		Options:  options,
		Required: true,
	}
}

func TestSimpleSumHappyPath(t *testing.T) {
	questions := []domain.Question{
		choiceQuestion("q1", 4),
		choiceQuestion("q2", 4),
		choiceQuestion("q3", 4),
	}
	resp := domain.Response{"q1": "2", "q2": "3", "q3": "1"}

	result := NewSimpleSum(MissingError).Calculate(resp, questions)

	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 6.0, *result.Score)
	assert.Empty(t, result.Errors)
	assert.Equal(t, map[string]float64{"q1": 2, "q2": 3, "q3": 1}, result.ItemScores)
}

func TestSimpleSumNormalizesNumericSubmissions(t *testing.T) {
	// 2, 2.0 and "2" are the same answer.
	questions := []domain.Question{choiceQuestion("q1", 4), choiceQuestion("q2", 4), choiceQuestion("q3", 4)}

	for _, resp := range []domain.Response{
		{"q1": 2, "q2": 2, "q3": 2},
		{"q1": 2.0, "q2": 2.0, "q3": 2.0},
		{"q1": "2", "q2": "2", "q3": "2"},
	} {
		result := NewSimpleSum(MissingError).Calculate(resp, questions)
		require.True(t, result.Valid)
		require.NotNil(t, result.Score)
		assert.Equal(t, 6.0, *result.Score)
	}
}

func TestSimpleSumMissingRequired(t *testing.T) {
	questions := []domain.Question{choiceQuestion("q1", 4), choiceQuestion("q2", 4)}
	resp := domain.Response{"q1": "2"}

	result := NewSimpleSum(MissingError).Calculate(resp, questions)

	assert.False(t, result.Valid)
	assert.Nil(t, result.Score, "no partial score alongside errors")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Missing required question: q2", result.Errors[0])
}

func TestSimpleSumInvalidResponse(t *testing.T) {
	questions := []domain.Question{choiceQuestion("q1", 4)}
	resp := domain.Response{"q1": "9"}

	result := NewSimpleSum(MissingError).Calculate(resp, questions)

	assert.False(t, result.Valid)
	assert.Nil(t, result.Score)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Invalid response for q1", result.Errors[0])
}

func TestSimpleSumZeroPolicy(t *testing.T) {
	questions := []domain.Question{choiceQuestion("q1", 4), choiceQuestion("q2", 4), choiceQuestion("q3", 4)}
	resp := domain.Response{"q1": "3"}

	result := NewSimpleSum(MissingZero).Calculate(resp, questions)

	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 3.0, *result.Score)
	assert.Equal(t, 0.0, result.ItemScores["q2"])
	assert.Equal(t, 0.0, result.ItemScores["q3"])
}

func TestSimpleSumSkipPolicy(t *testing.T) {
	questions := []domain.Question{choiceQuestion("q1", 4), choiceQuestion("q2", 4), choiceQuestion("q3", 4)}
	resp := domain.Response{"q1": "3", "q3": "1"}

	result := NewSimpleSum(MissingSkip).Calculate(resp, questions)

	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 4.0, *result.Score)
	assert.NotContains(t, result.ItemScores, "q2")
	require.NotNil(t, result.Details)
	assert.Equal(t, []string{"q2"}, result.Details["skipped"])
}

func TestSimpleSumReverseScoring(t *testing.T) {
	reversed := choiceQuestion("q2", 4)
	reversed.ReverseScored = true
	questions := []domain.Question{choiceQuestion("q1", 4), reversed}
	resp := domain.Response{"q1": "1", "q2": "1"}

	result := NewSimpleSum(MissingError).Calculate(resp, questions)

	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	// q2 answered 1 on a 0..4 scale scores as 3.
	assert.Equal(t, 4.0, *result.Score)
	assert.Equal(t, 3.0, result.ItemScores["q2"])
}

func TestSimpleSumIgnoresFreeText(t *testing.T) {
	questions := []domain.Question{
		choiceQuestion("q1", 4),
		{ID: "notes", Text: "Anything else?", Type: domain.FREE_TEXT, Required: false},
	}
	resp := domain.Response{"q1": "2", "notes": "felt better this week"}

	result := NewSimpleSum(MissingError).Calculate(resp, questions)

	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 2.0, *result.Score)
	assert.NotContains(t, result.ItemScores, "notes")
}

func TestSimpleSumNumericEntry(t *testing.T) {
	questions := []domain.Question{
		{ID: "vas", Text: "Health today", Type: domain.NUMERIC_ENTRY, Required: true},
	}

	result := NewSimpleSum(MissingError).Calculate(domain.Response{"vas": 72}, questions)
	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 72.0, *result.Score)

	result = NewSimpleSum(MissingError).Calculate(domain.Response{"vas": "rather well"}, questions)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Invalid response for vas"}, result.Errors)
}

func TestMultiChoiceSumsSelections(t *testing.T) {
	q := choiceQuestion("q1", 4)
	q.Type = domain.MULTI_CHOICE
	questions := []domain.Question{q}

	result := NewSimpleSum(MissingError).Calculate(domain.Response{"q1": []any{"1", "3"}}, questions)

	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 4.0, *result.Score)
}

func TestSingleChoiceRejectsMultipleValues(t *testing.T) {
	questions := []domain.Question{choiceQuestion("q1", 4)}

	result := NewSimpleSum(MissingError).Calculate(domain.Response{"q1": []any{"1", "2"}}, questions)

	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Invalid response for q1"}, result.Errors)
}

func TestConditionalQuestionExemptWhenInactive(t *testing.T) {
	questions := []domain.Question{
		{
			ID:       "screen",
			Text:     "Any episodes?",
			Type:     domain.SINGLE_CHOICE,
			Required: true,
			Options: []domain.AnswerOption{
				{Value: "yes", Label: "Yes", Score: floatPtr(1)},
				{Value: "no", Label: "No", Score: floatPtr(0)},
			},
		},
		{
			ID:               "followup",
			Text:             "How severe?",
			Type:             domain.SINGLE_CHOICE,
			Required:         true,
			ConditionalOn:    "screen",
			ConditionalValue: "yes",
			Options: []domain.AnswerOption{
				{Value: "mild", Label: "Mild", Score: floatPtr(1)},
				{Value: "severe", Label: "Severe", Score: floatPtr(2)},
			},
		},
	}

	// Trigger not matched: the follow-up is neither required nor scored.
	result := NewSimpleSum(MissingError).Calculate(domain.Response{"screen": "no"}, questions)
	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.0, *result.Score)

	// Trigger matched: the follow-up becomes required.
	result = NewSimpleSum(MissingError).Calculate(domain.Response{"screen": "yes"}, questions)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Missing required question: followup"}, result.Errors)

	// Trigger matched and answered.
	result = NewSimpleSum(MissingError).Calculate(domain.Response{"screen": "yes", "followup": "severe"}, questions)
	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 3.0, *result.Score)
}

func TestWeightedSum(t *testing.T) {
	questions := []domain.Question{
		choiceQuestion("q1", 4),
		choiceQuestion("q2", 4),
		choiceQuestion("q3", 4),
	}
	weights := map[string]float64{"q2": 2.0, "q3": 0.5}
	resp := domain.Response{"q1": "1", "q2": "1", "q3": "4"}

	result := NewWeightedSum(weights).Calculate(resp, questions)

	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	// 1*1.0 + 1*2.0 + 4*0.5
	assert.Equal(t, 5.0, *result.Score)
	assert.Equal(t, 1.0, result.ItemScores["q1"])
	assert.Equal(t, 2.0, result.ItemScores["q2"])
	assert.Equal(t, 2.0, result.ItemScores["q3"])
}

func TestWeightedSumIgnoresUnknownWeightIDs(t *testing.T) {
	questions := []domain.Question{choiceQuestion("q1", 4)}
	weights := map[string]float64{"q1": 3.0, "removed_item": 10.0}

	result := NewWeightedSum(weights).Calculate(domain.Response{"q1": "2"}, questions)

	require.True(t, result.Valid)
	require.NotNil(t, result.Score)
	assert.Equal(t, 6.0, *result.Score)
}

func TestWeightedSumValidatesBeforeArithmetic(t *testing.T) {
	questions := []domain.Question{choiceQuestion("q1", 4), choiceQuestion("q2", 4)}

	result := NewWeightedSum(nil).Calculate(domain.Response{"q1": "2"}, questions)

	assert.False(t, result.Valid)
	assert.Nil(t, result.Score)
	assert.Equal(t, []string{"Missing required question: q2"}, result.Errors)
}

func TestSubscale(t *testing.T) {
	questions := []domain.Question{
		choiceQuestion("q1", 4),
		choiceQuestion("q2", 4),
		choiceQuestion("q3", 4),
		choiceQuestion("q4", 4),
	}
	subscales := map[string][]string{
		"mood":   {"q1", "q2"},
		"energy": {"q3", "q4"},
	}
	resp := domain.Response{"q1": "1", "q2": "2", "q3": "3", "q4": "4"}

	result := NewSubscale(subscales, true).Calculate(resp, questions)

	require.True(t, result.Valid)
	assert.Equal(t, 3.0, result.Subscales["mood"])
	assert.Equal(t, 7.0, result.Subscales["energy"])
	require.NotNil(t, result.Score)
	assert.Equal(t, 10.0, *result.Score)
}

func TestSubscaleSharedItemCountedOnceInTotal(t *testing.T) {
	questions := []domain.Question{
		choiceQuestion("q1", 4),
		choiceQuestion("q2", 4),
	}
	subscales := map[string][]string{
		"a": {"q1", "q2"},
		"b": {"q2"},
	}
	resp := domain.Response{"q1": "1", "q2": "3"}

	result := NewSubscale(subscales, true).Calculate(resp, questions)

	require.True(t, result.Valid)
	assert.Equal(t, 4.0, result.Subscales["a"])
	assert.Equal(t, 3.0, result.Subscales["b"])
	require.NotNil(t, result.Score)
	// q2 appears in both subscales but the grand total counts it once.
	assert.Equal(t, 4.0, *result.Score)
}

func TestSubscaleWithoutTotal(t *testing.T) {
	questions := []domain.Question{choiceQuestion("q1", 4)}
	subscales := map[string][]string{"only": {"q1"}}

	result := NewSubscale(subscales, false).Calculate(domain.Response{"q1": "2"}, questions)

	assert.True(t, result.Valid)
	assert.Nil(t, result.Score)
	assert.Equal(t, 2.0, result.Subscales["only"])
}

func TestNotImplemented(t *testing.T) {
	strategy := NewNotImplemented("Awaiting clinical validation of the scoring algorithm")
	questions := []domain.Question{choiceQuestion("q1", 4)}

	result := strategy.Calculate(domain.Response{"q1": "2"}, questions)

	assert.False(t, result.Valid)
	assert.Nil(t, result.Score)
	assert.Equal(t, []string{"Awaiting clinical validation of the scoring algorithm"}, result.Errors)
	assert.Equal(t, "not_implemented", strategy.Name())
}

func TestNotImplementedDefaultReason(t *testing.T) {
	result := NewNotImplemented("").Calculate(domain.Response{}, nil)
	assert.Equal(t, []string{"Scoring not implemented"}, result.Errors)
}

func TestParseMissingPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    MissingPolicy
		wantErr bool
	}{
		{input: "", want: MissingError},
		{input: "error", want: MissingError},
		{input: "zero", want: MissingZero},
		{input: "skip", want: MissingSkip},
		{input: "impute", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMissingPolicy(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidDefinition, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func floatPtr(v float64) *float64 { return &v }

package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psyq-catalog-server/internal/domain"
	"github.com/psyq-catalog-server/internal/registry"
	"github.com/psyq-catalog-server/internal/scoring"
	"github.com/psyq-catalog-server/internal/service"
)

func newTestMCPServer(t *testing.T) *Server {
	t.Helper()

	options := []domain.AnswerOption{
		{Value: "0", Label: "No"},
		{Value: "1", Label: "Yes"},
	}

	reg := registry.New(nil)
	require.NoError(t, reg.RegisterDefinition(&domain.Definition{
		Code:       "ASRM",
		Name:       "Altman Self-Rating Mania Scale",
		Pathology:  domain.BIPOLAR,
		Respondent: domain.SELF_REPORT,
		Questions: []domain.Question{
			{ID: "q1", Text: "item one", Type: domain.SINGLE_CHOICE, Options: options, Required: true},
			{ID: "q2", Text: "item two", Type: domain.SINGLE_CHOICE, Options: options, Required: true},
		},
		Version:  "1.0",
		Strategy: scoring.NewSimpleSum(scoring.MissingError),
	}))

	return NewServer(service.NewCatalog(nil, reg), nil)
}

func TestHandleList(t *testing.T) {
	s := newTestMCPServer(t)

	_, out, err := s.handleList(context.Background(), nil, listInput{})
	require.NoError(t, err)
	require.Len(t, out.Questionnaires, 1)
	assert.Equal(t, "ASRM", out.Questionnaires[0].Code)

	_, out, err = s.handleList(context.Background(), nil, listInput{Pathology: "depression"})
	require.NoError(t, err)
	assert.Empty(t, out.Questionnaires)

	_, _, err = s.handleList(context.Background(), nil, listInput{Pathology: "cardiology"})
	assert.Error(t, err)
}

func TestHandleGet(t *testing.T) {
	s := newTestMCPServer(t)

	_, out, err := s.handleGet(context.Background(), nil, getInput{Code: "asrm"})
	require.NoError(t, err)
	assert.Equal(t, "ASRM", out.Schema["code"])

	_, _, err = s.handleGet(context.Background(), nil, getInput{Code: "NOPE"})
	assert.Error(t, err)
}

func TestHandleScore(t *testing.T) {
	s := newTestMCPServer(t)

	_, outcome, err := s.handleScore(context.Background(), nil, scoreInput{
		Code:      "ASRM",
		Responses: map[string]any{"q1": "1", "q2": "1"},
	})
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.Scores)
	require.NotNil(t, outcome.Scores.Score)
	assert.Equal(t, 2.0, *outcome.Scores.Score)

	_, outcome, err = s.handleScore(context.Background(), nil, scoreInput{
		Code:      "ASRM",
		Responses: map[string]any{"q1": "1"},
	})
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, []string{"Missing required question: q2"}, outcome.Errors)
}

// Package mcp exposes the questionnaire catalog to AI agents over the Model
// Context Protocol: catalog discovery, schema retrieval and scoring map onto
// three tools backed by the same service facade as the HTTP API.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/psyq-catalog-server/internal/domain"
	"github.com/psyq-catalog-server/internal/service"
)

// Server is the MCP server for the questionnaire catalog.
type Server struct {
	catalog   *service.Catalog
	logger    *logrus.Logger
	mcpServer *mcp.Server
}

// NewServer creates the MCP server and registers the catalog tools.
func NewServer(catalog *service.Catalog, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		catalog: catalog,
		logger:  logger,
	}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    "psyq-catalog-server",
		Version: "1.0.0",
	}, nil)

	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server started on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

type listInput struct {
	Pathology string `json:"pathology,omitempty" jsonschema:"optional pathology domain filter, e.g. bipolar"`
}

type listOutput struct {
	Questionnaires []domain.Metadata `json:"questionnaires"`
}

type getInput struct {
	Code string `json:"code" jsonschema:"questionnaire code, e.g. ASRM"`
}

type getOutput struct {
	Schema map[string]any `json:"schema"`
}

type scoreInput struct {
	Code      string         `json:"code" jsonschema:"questionnaire code"`
	Responses map[string]any `json:"responses" jsonschema:"mapping of question id to submitted answer"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_questionnaires",
		Description: "List the clinical questionnaires in the catalog, optionally filtered by pathology domain",
	}, s.handleList)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_questionnaire",
		Description: "Get the full schema of a questionnaire: metadata, questions and answer options",
	}, s.handleGet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "score_questionnaire",
		Description: "Validate a set of answers against a questionnaire and compute its score",
	}, s.handleScore)
}

func (s *Server) handleList(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, listOutput, error) {
	if input.Pathology != "" {
		list, err := s.catalog.ListByPathology(input.Pathology)
		if err != nil {
			return nil, listOutput{}, fmt.Errorf("list questionnaires: %w", err)
		}
		return nil, listOutput{Questionnaires: list}, nil
	}
	return nil, listOutput{Questionnaires: s.catalog.List()}, nil
}

func (s *Server) handleGet(ctx context.Context, req *mcp.CallToolRequest, input getInput) (*mcp.CallToolResult, getOutput, error) {
	schema, err := s.catalog.Details(input.Code)
	if err != nil {
		return nil, getOutput{}, fmt.Errorf("get questionnaire %s: %w", input.Code, err)
	}
	return nil, getOutput{Schema: schema}, nil
}

func (s *Server) handleScore(ctx context.Context, req *mcp.CallToolRequest, input scoreInput) (*mcp.CallToolResult, service.ScoreOutcome, error) {
	outcome := s.catalog.Score(input.Code, domain.Response(input.Responses))

	s.logger.WithFields(logrus.Fields{
		"code":    input.Code,
		"success": outcome.Success,
	}).Debug("MCP scoring call completed")

	return nil, outcome, nil
}

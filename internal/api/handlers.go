package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/psyq-catalog-server/internal/domain"
	"github.com/psyq-catalog-server/internal/service"
)

// serverVersion is reported by the health endpoint.
const serverVersion = "1.0.0"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   serverVersion,
	})
}

func (s *Server) handleListQuestionnaires(c *gin.Context) {
	if pathology := c.Query("pathology"); pathology != "" {
		list, err := s.catalog.ListByPathology(pathology)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"questionnaires": list})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questionnaires": s.catalog.List()})
}

func (s *Server) handleGetQuestionnaire(c *gin.Context) {
	schema, err := s.catalog.Details(c.Param("code"))
	if err != nil {
		s.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, schema)
}

func (s *Server) handleGetQuestions(c *gin.Context) {
	questions, err := s.catalog.Questions(c.Param("code"))
	if err != nil {
		s.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

type responseBody struct {
	Responses domain.Response `json:"responses" binding:"required"`
}

func (s *Server) handleValidate(c *gin.Context) {
	var body responseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must carry a 'responses' object"})
		return
	}

	c.JSON(http.StatusOK, s.catalog.Validate(c.Param("code"), body.Responses))
}

func (s *Server) handleScore(c *gin.Context) {
	var body responseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must carry a 'responses' object"})
		return
	}

	outcome := s.catalog.Score(c.Param("code"), body.Responses)
	if outcome.Scores == nil {
		// Unknown questionnaire code.
		c.JSON(http.StatusNotFound, outcome)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

type batchScoreBody struct {
	Questionnaires []service.ScoreRequest `json:"questionnaires" binding:"required"`
}

func (s *Server) handleBatchScore(c *gin.Context) {
	var body batchScoreBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must carry a 'questionnaires' array"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": s.catalog.ScoreBatch(body.Questionnaires)})
}

func (s *Server) handleVisitQuestionnaires(c *gin.Context) {
	list, err := s.catalog.VisitQuestionnaires(c.Param("type"), c.Query("pathology"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questionnaires": list})
}

func (s *Server) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.logger.WithError(err).Error("Questionnaire lookup failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// Package api exposes the claim intake and inspection HTTP surface:
// submit a claim, poll its run record, browse the reviewer leaderboard.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veriverse/veriverse/internal/model"
	"github.com/veriverse/veriverse/internal/store"
	"github.com/veriverse/veriverse/internal/validate"
	"github.com/veriverse/veriverse/internal/voting"
)

// Server holds the handlers' collaborators
type Server struct {
	store     *store.Store
	queue     *store.Queue
	reviewers []model.Reviewer
	validator *validate.Validator // nil disables /runs/:id/sources
	logger    *zap.Logger
}

// NewServer creates the API server. A nil logger disables logging.
func NewServer(st *store.Store, q *store.Queue, reviewers []model.Reviewer, validator *validate.Validator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(reviewers) == 0 {
		reviewers = voting.DefaultReviewers
	}
	return &Server{
		store:     st,
		queue:     q,
		reviewers: reviewers,
		validator: validator,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes mounted
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/prompts", s.submitPrompt)
	r.GET("/runs/:id", s.getRun)
	r.GET("/runs/:id/sources", s.validateRunSources)
	r.GET("/leaderboard", s.getLeaderboard)
	r.GET("/health", s.health)
	return r
}

type submitRequest struct {
	Prompt    string `json:"prompt" binding:"required"`
	Requester string `json:"requester"`
}

// submitPrompt accepts a claim, creates its queued run record, and
// enqueues the orchestration job
func (s *Server) submitPrompt(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	run := &model.Run{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Requester: req.Requester,
		Status:    model.StatusQueued,
		Topics:    ClassifyTopics(prompt),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(run); err != nil {
		s.logger.Error("create run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create run"})
		return
	}
	if err := s.queue.Enqueue(model.Job{RunID: run.ID, Prompt: run.Prompt}); err != nil {
		s.logger.Error("enqueue failed", zap.String("run_id", run.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not enqueue claim"})
		return
	}

	s.logger.Info("claim accepted",
		zap.String("run_id", run.ID), zap.Strings("topics", run.Topics))
	c.JSON(http.StatusAccepted, gin.H{
		"run_id": run.ID,
		"status": run.Status,
		"topics": run.Topics,
	})
}

// getRun returns the full run record
func (s *Server) getRun(c *gin.Context) {
	run, err := s.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		s.logger.Error("get run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// validateRunSources runs the advisory accessibility check over the run's
// cited source URLs
func (s *Server) validateRunSources(c *gin.Context) {
	if s.validator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "source validation is disabled"})
		return
	}

	run, err := s.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load run"})
		return
	}

	statuses := s.validator.ValidateSources(c.Request.Context(), run.Sources)
	c.JSON(http.StatusOK, gin.H{
		"run_id":  run.ID,
		"sources": statuses,
	})
}

// getLeaderboard returns the ranked reviewer reward table
func (s *Server) getLeaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"leaderboard": voting.Leaderboard(s.reviewers)})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/assessment"
	"github.com/dishalabs/disha-gateway/internal/model"
	"github.com/dishalabs/disha-gateway/internal/response"
	"github.com/dishalabs/disha-gateway/internal/store"
	"github.com/dishalabs/disha-gateway/internal/validator"
)

// AssessmentHandler handles assessment session endpoints.
type AssessmentHandler struct {
	sessions *store.SessionManager
	log      zerolog.Logger
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(sessions *store.SessionManager, log zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		sessions: sessions,
		log:      log.With().Str("component", "assessment_handler").Logger(),
	}
}

// CreateSession godoc
// POST /api/v1/assessment/sessions
// Creates a new assessment session positioned at the basic info step.
func (h *AssessmentHandler) CreateSession(c *gin.Context) {
	engine := h.sessions.Create()
	response.Success(c, http.StatusCreated, engine.State())
}

// GetSession godoc
// GET /api/v1/assessment/sessions/:session_id
// Returns the current session snapshot.
func (h *AssessmentHandler) GetSession(c *gin.Context) {
	engine, ok := h.sessions.Get(c.Param("session_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, engine.State())
}

// GetPaper godoc
// GET /api/v1/assessment/sessions/:session_id/paper
// Returns the full test paper, without correct answers.
func (h *AssessmentHandler) GetPaper(c *gin.Context) {
	engine, ok := h.sessions.Get(c.Param("session_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sections": engine.Paper()})
}

// UpdateBasicInfo godoc
// PUT /api/v1/assessment/sessions/:session_id/basic-info
// Validates the pre-test profile and, when complete, unlocks the test.
func (h *AssessmentHandler) UpdateBasicInfo(c *gin.Context) {
	engine, ok := h.sessions.Get(c.Param("session_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var req model.UpdateBasicInfoRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	fields, err := engine.CompleteBasicInfo(model.BasicInfo{
		Name:            req.Name,
		Grade:           req.Grade,
		Gender:          req.Gender,
		SchoolName:      req.SchoolName,
		Subjects:        req.Subjects,
		GuardianContact: req.GuardianContact,
	})
	if err != nil {
		failTransition(c, err)
		return
	}
	if len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrBasicInfoIncomplete, fields)
		return
	}

	response.Success(c, http.StatusOK, engine.State())
}

// RecordAnswer godoc
// PUT /api/v1/assessment/sessions/:session_id/answers
// Records one answer; re-selection overwrites. The cursor does not move.
func (h *AssessmentHandler) RecordAnswer(c *gin.Context) {
	engine, ok := h.sessions.Get(c.Param("session_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var req model.RecordAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := engine.RecordAnswer(req.QuestionID, req.Value); err != nil {
		failTransition(c, err)
		return
	}
	response.Success(c, http.StatusOK, engine.State())
}

// Navigate godoc
// POST /api/v1/assessment/sessions/:session_id/navigate
// Applies one navigation intent: question steps, section advance/retreat,
// or a jump to an accessible section.
func (h *AssessmentHandler) Navigate(c *gin.Context) {
	engine, ok := h.sessions.Get(c.Param("session_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var err error
	switch req.Action {
	case model.NavNextQuestion:
		err = engine.NextQuestion()
	case model.NavPrevQuestion:
		err = engine.PrevQuestion()
	case model.NavAdvanceSection:
		err = engine.AdvanceSection()
	case model.NavRetreatSection:
		err = engine.RetreatSection()
	case model.NavJumpSection:
		err = engine.JumpToSection(req.Target)
	}
	if err != nil {
		failTransition(c, err)
		return
	}
	response.Success(c, http.StatusOK, engine.State())
}

// Submit godoc
// POST /api/v1/assessment/sessions/:session_id/submit
// Finalizes the session and hands the answers off for analysis. Repeating
// the call returns the same result session id.
func (h *AssessmentHandler) Submit(c *gin.Context) {
	engine, ok := h.sessions.Get(c.Param("session_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	resultID, err := engine.Submit()
	if err != nil {
		failTransition(c, err)
		return
	}

	store.SessionsSubmitted.Inc()
	h.log.Info().
		Str("session_id", engine.ID()).
		Str("result_session_id", resultID).
		Msg("Assessment submitted")

	response.Success(c, http.StatusOK, gin.H{
		"result_session_id": resultID,
		"state":             engine.State(),
	})
}

// DeleteSession godoc
// DELETE /api/v1/assessment/sessions/:session_id
// Tears the session down: its countdown stops and its state is dropped.
func (h *AssessmentHandler) DeleteSession(c *gin.Context) {
	h.sessions.Teardown(c.Param("session_id"))
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// failTransition maps an engine sentinel to its HTTP error response.
func failTransition(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assessment.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrSessionSubmitted)
	case errors.Is(err, assessment.ErrNotInAssessment):
		response.Fail(c, http.StatusConflict, response.ErrNavigationBlocked)
	case errors.Is(err, assessment.ErrSectionBoundary),
		errors.Is(err, assessment.ErrNotLastQuestion),
		errors.Is(err, assessment.ErrNotFirstQuestion),
		errors.Is(err, assessment.ErrNoNextSection):
		response.Fail(c, http.StatusConflict, response.ErrNavigationBlocked)
	case errors.Is(err, assessment.ErrSectionLocked):
		response.Fail(c, http.StatusConflict, response.ErrSectionLocked)
	case errors.Is(err, assessment.ErrUnknownSection):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.Is(err, assessment.ErrUnknownQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownQuestion)
	case errors.Is(err, assessment.ErrSubmitUnreachable):
		response.Fail(c, http.StatusConflict, response.ErrSubmitUnreachable)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

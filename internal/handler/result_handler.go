package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/response"
	"github.com/dishalabs/disha-gateway/internal/result"
	"github.com/dishalabs/disha-gateway/internal/store"
	"github.com/dishalabs/disha-gateway/internal/validator"
)

// ResultHandler handles result session endpoints.
type ResultHandler struct {
	registry *store.ResultRegistry
	log      zerolog.Logger
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(registry *store.ResultRegistry, log zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		registry: registry,
		log:      log.With().Str("component", "result_handler").Logger(),
	}
}

// StartResultRequest is the payload for starting result resolution.
// SessionID is the backend-issued analysis session id; leaving it empty
// resolves locally with the bundled fallback.
type StartResultRequest struct {
	SessionID string `json:"session_id"`
}

// StartResolution godoc
// POST /api/v1/results
// Starts (or resumes) resolution of an analysis session. Reuses the live
// engine when the same session id is started twice.
func (h *ResultHandler) StartResolution(c *gin.Context) {
	var req StartResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	fallback := result.FallbackAnalysis(nil)

	var engine *result.Engine
	if req.SessionID == "" {
		engine = h.registry.StartLocal(fallback)
	} else {
		engine = h.registry.StartRemote(req.SessionID, fallback)
	}

	response.Success(c, http.StatusAccepted, engine.Snapshot())
}

// GetResult godoc
// GET /api/v1/results/:session_id
// Returns the current result session snapshot.
func (h *ResultHandler) GetResult(c *gin.Context) {
	engine, ok := h.registry.Get(c.Param("session_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrResultNotFound)
		return
	}
	response.Success(c, http.StatusOK, engine.Snapshot())
}

// CancelResult godoc
// DELETE /api/v1/results/:session_id
// Stops polling for a result session. The last known snapshot stays
// retrievable.
func (h *ResultHandler) CancelResult(c *gin.Context) {
	if !h.registry.Cancel(c.Param("session_id")) {
		response.Fail(c, http.StatusNotFound, response.ErrResultNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

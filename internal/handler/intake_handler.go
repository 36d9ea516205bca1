package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/intake"
	"github.com/dishalabs/disha-gateway/internal/response"
	"github.com/dishalabs/disha-gateway/internal/result"
	"github.com/dishalabs/disha-gateway/internal/store"
)

// IntakeHandler handles upskilling profile submissions.
type IntakeHandler struct {
	client   *result.Client
	registry *store.ResultRegistry
	maxBytes int64
	log      zerolog.Logger
}

// NewIntakeHandler creates a new IntakeHandler. client may be nil when no
// counselor backend is configured; submissions then resolve locally.
func NewIntakeHandler(client *result.Client, registry *store.ResultRegistry, maxUploadBytes int64, log zerolog.Logger) *IntakeHandler {
	return &IntakeHandler{
		client:   client,
		registry: registry,
		maxBytes: maxUploadBytes,
		log:      log.With().Str("component", "intake_handler").Logger(),
	}
}

// SubmitUpskilling godoc
// POST /api/v1/profiles/upskilling
// Accepts a multipart profile (resume plus optional JSON blobs), validates
// it locally, forwards it to the counselor backend and starts a result
// session for the returned id. If the backend is unusable the result
// session resolves with the bundled fallback instead.
func (h *IntakeHandler) SubmitUpskilling(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrResumeRequired)
		return
	}

	if err := intake.ValidateResume(fileHeader.Filename, fileHeader.Size, h.maxBytes); err != nil {
		failIntake(c, err)
		return
	}

	message := c.PostForm("initial_message")
	if err := intake.ValidateMessage(message); err != nil {
		failIntake(c, err)
		return
	}

	fields := map[string]string{}
	for _, name := range []string{"github_profile", "linkedin_profile", "academic_status"} {
		raw := c.PostForm(name)
		if err := intake.ValidateOptionalJSON(name, raw); err != nil {
			fields[name] = err.Error()
		}
	}
	if len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	resume, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if int64(len(resume)) > h.maxBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}

	sub := &intake.Submission{
		ResumeFilename:  fileHeader.Filename,
		Resume:          resume,
		GithubProfile:   json.RawMessage(c.PostForm("github_profile")),
		LinkedinProfile: json.RawMessage(c.PostForm("linkedin_profile")),
		AcademicStatus:  json.RawMessage(c.PostForm("academic_status")),
		InitialMessage:  message,
	}

	fallback := result.FallbackAnalysis(nil)

	if h.client == nil {
		engine := h.registry.StartLocal(fallback)
		response.Success(c, http.StatusAccepted, engine.Snapshot())
		return
	}

	sessionID, err := h.client.SubmitUpskilling(c.Request.Context(), sub)
	if err != nil {
		// The profile was valid; the user still gets a result session,
		// just a locally resolved one.
		h.log.Warn().Err(err).Msg("Upskilling submission failed, resolving locally")
		engine := h.registry.StartLocal(fallback)
		response.Success(c, http.StatusAccepted, engine.Snapshot())
		return
	}

	engine := h.registry.StartRemote(sessionID, fallback)
	response.Success(c, http.StatusAccepted, engine.Snapshot())
}

// failIntake maps an intake sentinel to its HTTP error response.
func failIntake(c *gin.Context, err error) {
	switch {
	case errors.Is(err, intake.ErrResumeRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrResumeRequired)
	case errors.Is(err, intake.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, intake.ErrFileTooLarge):
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
	case errors.Is(err, intake.ErrMessageTooShort):
		response.Fail(c, http.StatusBadRequest, response.ErrMessageTooShort)
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	}
}

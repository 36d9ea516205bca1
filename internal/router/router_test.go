package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishalabs/disha-gateway/internal/assessment"
	"github.com/dishalabs/disha-gateway/internal/config"
	"github.com/dishalabs/disha-gateway/internal/handler"
	"github.com/dishalabs/disha-gateway/internal/model"
	"github.com/dishalabs/disha-gateway/internal/response"
	"github.com/dishalabs/disha-gateway/internal/result"
	"github.com/dishalabs/disha-gateway/internal/store"
	"github.com/dishalabs/disha-gateway/internal/sten"
	"github.com/dishalabs/disha-gateway/internal/validator"
)

// envelope mirrors the API response wrapper for test decoding.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

// newTestServer wires the full gateway with no counselor backend, so
// every result session resolves locally.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	validator.Setup()

	cfg := &config.Config{
		GinMode:           gin.TestMode,
		AssessmentSeconds: 2700,
		MaxUploadBytes:    5 * 1024 * 1024,
	}

	log := zerolog.Nop()
	registry := store.NewResultRegistry(t.Context(), nil, cfg.PollInterval, store.NewMemoryCache(), log)

	submitFn := func(sub assessment.Submission) (string, error) {
		stenProfile, err := sten.Profile(sub.RawScores, sub.BasicInfo.Grade, sub.BasicInfo.Gender)
		if err != nil {
			stenProfile = nil
		}
		return registry.StartLocal(result.FallbackAnalysis(stenProfile)).SessionID(), nil
	}
	sessions := store.NewSessionManager(t.Context(), assessment.DefaultBank(), cfg.AssessmentSeconds, submitFn, log)

	handlers := &Handlers{
		Assessment: handler.NewAssessmentHandler(sessions, log),
		Intake:     handler.NewIntakeHandler(nil, registry, cfg.MaxUploadBytes, log),
		Result:     handler.NewResultHandler(registry, log),
		WS:         handler.NewWSHandler(registry, log, nil),
	}

	srv := httptest.NewServer(SetupRouter(handlers, cfg))
	t.Cleanup(srv.Close)
	t.Cleanup(sessions.Shutdown)
	t.Cleanup(registry.Shutdown)
	return srv
}

func doJSON(t *testing.T, method, url string, payload interface{}) (*http.Response, envelope) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		buf, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(buf)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func createSession(t *testing.T, base string) string {
	t.Helper()
	resp, env := doJSON(t, http.MethodPost, base+"/api/v1/assessment/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var state model.SessionState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.NotEmpty(t, state.SessionID)
	return state.SessionID
}

func enterAssessment(t *testing.T, base, id string) {
	t.Helper()
	resp, env := doJSON(t, http.MethodPut, base+"/api/v1/assessment/sessions/"+id+"/basic-info", gin.H{
		"name":             "Asha Verma",
		"grade":            11,
		"gender":           "female",
		"school_name":      "St. Mary's School",
		"subjects":         []string{"Mathematics"},
		"guardian_contact": "+91 98765 43210",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "basic info rejected: %+v", env.Error)
}

func navigate(t *testing.T, base, id string, action model.NavAction) (*http.Response, envelope) {
	t.Helper()
	return doJSON(t, http.MethodPost, base+"/api/v1/assessment/sessions/"+id+"/navigate", gin.H{
		"action": action,
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv.URL)

	// Basic info gate: an incomplete form reports field errors.
	resp, env := doJSON(t, http.MethodPut, srv.URL+"/api/v1/assessment/sessions/"+id+"/basic-info", gin.H{
		"grade": 11,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(response.ErrBasicInfoIncomplete), env.Error.Code)
	assert.Contains(t, env.Error.Fields, "name")

	enterAssessment(t, srv.URL, id)

	// Paper has every section, no correct answers anywhere.
	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/assessment/sessions/"+id+"/paper", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(env.Data), "correct")

	// Record an answer.
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/v1/assessment/sessions/"+id+"/answers", gin.H{
		"question_id": "vs-1",
		"value":       "c",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown question id is rejected.
	resp, env = doJSON(t, http.MethodPut, srv.URL+"/api/v1/assessment/sessions/"+id+"/answers", gin.H{
		"question_id": "zz-1",
		"value":       "a",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(response.ErrUnknownQuestion), env.Error.Code)

	// Advancing from the middle of a section is blocked.
	resp, env = navigate(t, srv.URL, id, model.NavAdvanceSection)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(response.ErrNavigationBlocked), env.Error.Code)
}

func TestSubmitFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv.URL)
	enterAssessment(t, srv.URL, id)

	// Submitting early is blocked.
	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/v1/assessment/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(response.ErrSubmitUnreachable), env.Error.Code)

	// Walk to the last question of the last section.
	sections := len(assessment.SectionOrder)
	for s := 0; s < sections; s++ {
		for q := 0; q < 4; q++ {
			resp, _ = navigate(t, srv.URL, id, model.NavNextQuestion)
			require.Equal(t, http.StatusOK, resp.StatusCode)
		}
		if s < sections-1 {
			resp, _ = navigate(t, srv.URL, id, model.NavAdvanceSection)
			require.Equal(t, http.StatusOK, resp.StatusCode)
		}
	}

	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/v1/assessment/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var submitted struct {
		ResultSessionID string             `json:"result_session_id"`
		State           model.SessionState `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	require.NotEmpty(t, submitted.ResultSessionID)
	assert.True(t, submitted.State.IsComplete)

	// With no backend configured the result resolves immediately with the
	// bundled fallback.
	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/results/"+submitted.ResultSessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session model.ResultSession
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, model.ResultStatusCompleted, session.Status)
	require.NotNil(t, session.Payload)
	assert.Equal(t, model.ResultSourceFallback, session.Payload.Source)
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/v1/assessment/sessions/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, string(response.ErrNotFound), env.Error.Code)

	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/v1/results/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, string(response.ErrResultNotFound), env.Error.Code)
}

func TestUpskillingIntakeValidation(t *testing.T) {
	srv := newTestServer(t)

	post := func(filename, message string) (*http.Response, envelope) {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		if filename != "" {
			part, err := w.CreateFormFile("resume", filename)
			require.NoError(t, err)
			_, err = part.Write([]byte("%PDF-1.4 fake"))
			require.NoError(t, err)
		}
		require.NoError(t, w.WriteField("initial_message", message))
		require.NoError(t, w.Close())

		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/profiles/upskilling", &body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", w.FormDataContentType())

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var env envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		return resp, env
	}

	longMessage := strings.TrimSpace(strings.Repeat("goal ", 25))

	// Missing resume.
	resp, env := post("", longMessage)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(response.ErrResumeRequired), env.Error.Code)

	// Wrong file type.
	resp, env = post("resume.txt", longMessage)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(response.ErrUnsupportedFile), env.Error.Code)

	// Message too short.
	resp, env = post("resume.pdf", "too short")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(response.ErrMessageTooShort), env.Error.Code)

	// Valid submission with no backend resolves locally.
	resp, env = post("resume.pdf", longMessage)
	require.Equal(t, http.StatusAccepted, resp.StatusCode, "unexpected error: %+v", env.Error)

	var session model.ResultSession
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, model.ResultStatusCompleted, session.Status)
}

package result

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/intake"
	"github.com/dishalabs/disha-gateway/internal/model"
)

// StatusUpdate is the validated outcome of one status query. Exactly one
// variant applies: a terminal Completed carries Results, a terminal Failed
// carries Error, and Pending/Processing carry neither.
type StatusUpdate struct {
	Status  model.ResultStatus
	Results *model.AnalysisResult
	Error   string
}

// Client talks to the external counselor job service over its documented
// HTTP contract.
type Client struct {
	baseURL  string
	vertical string
	httpc    *http.Client
	log      zerolog.Logger
}

// NewClient creates a counselor API client. vertical selects the
// submission endpoint family (e.g. "college" → POST /college-upskilling).
func NewClient(baseURL, vertical string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		vertical: vertical,
		httpc:    &http.Client{Timeout: 30 * time.Second},
		log:      log.With().Str("component", "counselor_client").Logger(),
	}
}

// envelope mirrors the backend's APIResponse wrapper.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	SessionID string          `json:"session_id"`
}

// statusData is the data block of GET /status/{session_id}.
type statusData struct {
	Status  string                `json:"status"`
	Results *model.AnalysisResult `json:"results"`
	Error   string                `json:"error"`
}

// FetchStatus issues one GET /status/{session_id} query and decodes the
// response into a validated StatusUpdate. Any transport problem, malformed
// body, unknown status string or success=false envelope is returned as an
// error; the engine degrades those to the local fallback.
func (c *Client) FetchStatus(ctx context.Context, sessionID string) (*StatusUpdate, error) {
	url := fmt.Sprintf("%s/status/%s", c.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint: bad status %s", resp.Status)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode status envelope: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("status endpoint reported failure: %s", env.Error)
	}

	var data statusData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode status data: %w", err)
	}

	status := model.ResultStatus(data.Status)
	switch status {
	case model.ResultStatusPending, model.ResultStatusProcessing:
		return &StatusUpdate{Status: status}, nil
	case model.ResultStatusCompleted:
		if data.Results != nil {
			data.Results.Source = model.ResultSourceBackend
		}
		return &StatusUpdate{Status: status, Results: data.Results}, nil
	case model.ResultStatusFailed:
		return &StatusUpdate{Status: status, Error: data.Error}, nil
	default:
		return nil, fmt.Errorf("unknown session status %q", data.Status)
	}
}

// SubmitUpskilling posts a resume-based profile as multipart form data to
// POST /{vertical}-upskilling and returns the backend-issued session id.
// The free-text message is JSON-encoded into its form field, which is what
// the backend expects.
func (c *Client) SubmitUpskilling(ctx context.Context, sub *intake.Submission) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("resume", sub.ResumeFilename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, bytes.NewReader(sub.Resume)); err != nil {
		return "", err
	}

	msgJSON, err := json.Marshal(sub.InitialMessage)
	if err != nil {
		return "", err
	}
	fields := map[string]string{"initial_message": string(msgJSON)}
	if len(sub.GithubProfile) > 0 {
		fields["github_profile"] = string(sub.GithubProfile)
	}
	if len(sub.LinkedinProfile) > 0 {
		fields["linkedin_profile"] = string(sub.LinkedinProfile)
	}
	if len(sub.AcademicStatus) > 0 {
		fields["academic_status"] = string(sub.AcademicStatus)
	}
	for key, val := range fields {
		if err := w.WriteField(key, val); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s-upskilling", c.baseURL, c.vertical)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.submit(req)
}

// SchoolStudentSubmission is the payload for a finished aptitude test.
type SchoolStudentSubmission struct {
	BasicInfo      model.BasicInfo
	RawScores      map[model.Ability]int
	InitialMessage string
}

// SubmitSchoolStudent posts assessment raw scores to POST /school-students
// and returns the backend-issued session id. The backend converts raw
// scores into sten scores itself using the student's grade and gender.
func (c *Client) SubmitSchoolStudent(ctx context.Context, sub *SchoolStudentSubmission) (string, error) {
	scores := make(map[string]int, len(sub.RawScores))
	for ability, raw := range sub.RawScores {
		scores[string(ability)] = raw
	}

	payload := map[string]interface{}{
		"demographic_info": map[string]interface{}{
			"name":          sub.BasicInfo.Name,
			"current_grade": sub.BasicInfo.Grade,
			"gender":        sub.BasicInfo.Gender,
			"school_name":   sub.BasicInfo.SchoolName,
		},
		"dbda_scores": scores,
		// The interest inventory is not part of the aptitude test; the
		// backend requires the block, so send a neutral one.
		"cii_results": map[string]int{
			"artistic": 0, "scientific": 0, "social": 0,
			"conventional": 0, "enterprising": 0, "realistic": 0,
		},
		"initial_message": sub.InitialMessage,
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/school-students", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.submit(req)
}

// submit executes a submission request and extracts the session id.
func (c *Client) submit(req *http.Request) (string, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("submission: bad status %s", resp.Status)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode submission envelope: %w", err)
	}
	if !env.Success {
		return "", fmt.Errorf("submission rejected: %s", env.Error)
	}
	if env.SessionID == "" {
		return "", fmt.Errorf("submission accepted but no session id returned")
	}

	c.log.Info().Str("session_id", env.SessionID).Msg("Submission accepted")
	return env.SessionID, nil
}

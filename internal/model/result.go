package model

import "time"

// ResultStatus enumerates result acquisition lifecycle states.
// Completed and Failed are terminal; no automatic transition leaves them.
type ResultStatus string

const (
	ResultStatusPending    ResultStatus = "pending"
	ResultStatusProcessing ResultStatus = "processing"
	ResultStatusCompleted  ResultStatus = "completed"
	ResultStatusFailed     ResultStatus = "failed"
)

// ResultSession is a snapshot of one result acquisition run. Payload is set
// only on the transition into Completed, Error only on the transition into
// Failed.
type ResultSession struct {
	SessionID        string          `json:"session_id"`
	Status           ResultStatus    `json:"status"`
	ProgressEstimate int             `json:"progress_estimate"`
	Payload          *AnalysisResult `json:"payload,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// CareerSuggestion is one recommended direction in an analysis payload.
type CareerSuggestion struct {
	Title     string  `json:"title"`
	FitScore  float64 `json:"fit_score"`
	Rationale string  `json:"rationale"`
}

// AnalysisResult is the analysis payload produced by the counselor backend
// (or the bundled fallback when the backend is unusable).
type AnalysisResult struct {
	Summary          string             `json:"summary"`
	StenProfile      map[string]int     `json:"sten_profile,omitempty"`
	Recommendations  []CareerSuggestion `json:"recommendations"`
	SkillPriorities  []string           `json:"skill_priorities,omitempty"`
	SuggestedStreams []string           `json:"suggested_streams,omitempty"`
	Source           string             `json:"source"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// Fallback payload sources.
const (
	ResultSourceBackend  = "counselor_api"
	ResultSourceFallback = "local_fallback"
)

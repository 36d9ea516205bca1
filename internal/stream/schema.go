package stream

import "github.com/dishalabs/disha-gateway/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing   Action = "ping"
	ActionCancel Action = "cancel"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState Event = "state"
	EventError Event = "error"
	EventPong  Event = "pong"
)

// StateMessage carries one result session snapshot. Terminal snapshots
// (completed or failed) are the last message before the server closes.
type StateMessage struct {
	Event            Event                 `json:"event"`
	SessionID        string                `json:"session_id"`
	Status           model.ResultStatus    `json:"status"`
	ProgressEstimate int                   `json:"progress_estimate"`
	Results          *model.AnalysisResult `json:"results,omitempty"`
	Error            string                `json:"error,omitempty"`
}

type ErrorMessage struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongMessage struct {
	Event Event `json:"event"`
}

// StateOf converts a result session snapshot into its wire form.
func StateOf(snap model.ResultSession) StateMessage {
	return StateMessage{
		Event:            EventState,
		SessionID:        snap.SessionID,
		Status:           snap.Status,
		ProgressEstimate: snap.ProgressEstimate,
		Results:          snap.Payload,
		Error:            snap.Error,
	}
}

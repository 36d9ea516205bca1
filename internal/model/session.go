package model

// Step enumerates the top-level assessment flow states.
type Step string

const (
	StepBasicInfo  Step = "BASIC_INFO"
	StepAssessment Step = "ASSESSMENT"
	StepSubmitted  Step = "SUBMITTED"
)

// BasicInfo holds the pre-test profile a student fills in before the
// assessment unlocks.
type BasicInfo struct {
	Name            string   `json:"name"`
	Grade           int      `json:"grade"`
	Gender          string   `json:"gender"`
	SchoolName      string   `json:"school_name"`
	Subjects        []string `json:"subjects"`
	GuardianContact string   `json:"guardian_contact"`
}

// SessionState is a read-only snapshot of an assessment session, as served
// to the presentation layer. Mutation happens exclusively through the
// engine's transition methods.
type SessionState struct {
	SessionID         string                `json:"session_id"`
	CurrentStep       Step                  `json:"current_step"`
	CurrentSection    Section               `json:"current_section"`
	QuestionIndex     int                   `json:"question_index"`
	Answers           map[Section]AnswerSet `json:"answers"`
	BasicInfoComplete bool                  `json:"basic_info_complete"`
	SectionProgress   map[Section]bool      `json:"section_progress"`
	IsComplete        bool                  `json:"is_complete"`
	RemainingSeconds  int                   `json:"remaining_seconds"`
	PercentComplete   float64               `json:"percent_complete"`
	Clock             string                `json:"clock"`
}

// AnswerSet maps question id → selected option value within one section.
// Last write wins on re-selection.
type AnswerSet map[string]string

// UpdateBasicInfoRequest is the payload for submitting basic information.
type UpdateBasicInfoRequest struct {
	Name            string   `json:"name"`
	Grade           int      `json:"grade"`
	Gender          string   `json:"gender" binding:"omitempty,oneof=male female"`
	SchoolName      string   `json:"school_name"`
	Subjects        []string `json:"subjects"`
	GuardianContact string   `json:"guardian_contact"`
}

// RecordAnswerRequest is the payload for recording one answer.
type RecordAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Value      string `json:"value" binding:"required"`
}

// NavAction enumerates navigation intents within the assessment.
type NavAction string

const (
	NavNextQuestion   NavAction = "next_question"
	NavPrevQuestion   NavAction = "prev_question"
	NavAdvanceSection NavAction = "advance_section"
	NavRetreatSection NavAction = "retreat_section"
	NavJumpSection    NavAction = "jump_section"
)

// NavigateRequest is the payload for a navigation intent. Target is only
// consulted for jump_section.
type NavigateRequest struct {
	Action NavAction `json:"action" binding:"required,oneof=next_question prev_question advance_section retreat_section jump_section"`
	Target Section   `json:"target" binding:"omitempty"`
}

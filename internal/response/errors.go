package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Assessment-specific ───────────────────────────────────────────
	ErrBasicInfoIncomplete ErrCode = "BASIC_INFO_INCOMPLETE"
	ErrNavigationBlocked   ErrCode = "NAVIGATION_BLOCKED"
	ErrSectionLocked       ErrCode = "SECTION_LOCKED"
	ErrSubmitUnreachable   ErrCode = "SUBMIT_UNREACHABLE"
	ErrUnknownQuestion     ErrCode = "UNKNOWN_QUESTION"
	ErrSessionSubmitted    ErrCode = "SESSION_ALREADY_SUBMITTED"

	// ─── Intake ────────────────────────────────────────────────────────
	ErrResumeRequired  ErrCode = "RESUME_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrMessageTooShort ErrCode = "MESSAGE_TOO_SHORT"

	// ─── Results ───────────────────────────────────────────────────────
	ErrResultNotFound ErrCode = "RESULT_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Assessment-specific ───────────────────────────────────────────
	case ErrBasicInfoIncomplete:
		return "Please complete all required basic information fields."
	case ErrNavigationBlocked:
		return "This navigation step is not allowed from the current position."
	case ErrSectionLocked:
		return "This section is not accessible yet."
	case ErrSubmitUnreachable:
		return "The test can only be submitted from the last question of the last section."
	case ErrUnknownQuestion:
		return "The question does not belong to the current section."
	case ErrSessionSubmitted:
		return "This assessment has already been submitted."

	// ─── Intake ────────────────────────────────────────────────────────
	case ErrResumeRequired:
		return "A resume file is required."
	case ErrUnsupportedFile:
		return "Unsupported file type. Please upload a PDF, DOC or DOCX file."
	case ErrFileTooLarge:
		return "File size exceeds the allowed limit."
	case ErrMessageTooShort:
		return "Please describe your goals in at least 20 words."

	// ─── Results ───────────────────────────────────────────────────────
	case ErrResultNotFound:
		return "No analysis session found for this identifier."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

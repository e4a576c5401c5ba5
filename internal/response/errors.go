package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrStaffAccessOnly   ErrCode = "STAFF_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Exam lifecycle ────────────────────────────────────────────────
	ErrExamInvalid ErrCode = "EXAM_INVALID"

	// ─── Submission workflow ───────────────────────────────────────────
	ErrExamNotOpen      ErrCode = "EXAM_NOT_YET_OPEN"
	ErrExamClosed       ErrCode = "EXAM_CLOSED"
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"
	ErrEmptyEssay       ErrCode = "EMPTY_ESSAY"

	// ─── Grading workflow ──────────────────────────────────────────────
	ErrNotExamCreator     ErrCode = "NOT_EXAM_CREATOR"
	ErrScoreOutOfRange    ErrCode = "SCORE_OUT_OF_RANGE"
	ErrSubmissionNotFound ErrCode = "SUBMISSION_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailTaken:
		return "This email address is already registered."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrStaffAccessOnly:
		return "This resource is restricted to staff."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Exam lifecycle ────────────────────────────────────────────────
	case ErrExamInvalid:
		return "The exam definition is invalid."

	// ─── Submission workflow ───────────────────────────────────────────
	case ErrExamNotOpen:
		return "This exam has not opened yet."
	case ErrExamClosed:
		return "This exam is closed for submissions."
	case ErrAlreadySubmitted:
		return "You have already submitted an essay for this exam."
	case ErrEmptyEssay:
		return "The essay text must not be empty."

	// ─── Grading workflow ──────────────────────────────────────────────
	case ErrNotExamCreator:
		return "Only the exam's creator may access its submissions."
	case ErrScoreOutOfRange:
		return "The score is outside the valid range for this exam."
	case ErrSubmissionNotFound:
		return "The submission was not found."

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

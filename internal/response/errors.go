package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrInsufficientRole ErrCode = "INSUFFICIENT_ROLE"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation          ErrCode = "VALIDATION_ERROR"
	ErrInvalidID           ErrCode = "INVALID_ID"
	ErrInvalidPayload      ErrCode = "INVALID_PAYLOAD"
	ErrInvalidQuestion     ErrCode = "INVALID_QUESTION"
	ErrSubjectTypeConflict ErrCode = "SUBJECT_TYPE_CONFLICT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrUploadFailed ErrCode = "UPLOAD_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrTokenRequired:
		return "Missing or invalid Authorization header."
	case ErrTokenInvalid:
		return "Invalid token."
	case ErrInsufficientRole:
		return "Insufficient role."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidQuestion:
		return "Question fields do not match the declared question type."
	case ErrSubjectTypeConflict:
		return "Math and Physics contests cannot have programming questions"
	case ErrNotFound:
		return "Resource not found."
	case ErrUploadFailed:
		return "File upload failed."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

package errors

// ErrorCode is the machine-readable code returned in API error bodies
type ErrorCode string

const (
	ErrorCode_HTTP_OK          ErrorCode = "OK"
	ErrorCode_INTERNAL         ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_INVALID_PAYLOAD  ErrorCode = "INVALID_PAYLOAD"
	ErrorCode_NOT_FOUND        ErrorCode = "NOT_FOUND"
	ErrorCode_UNAUTHENTICATED  ErrorCode = "UNAUTHENTICATED"

	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = "AUTH_INVALID_TOKEN"
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = "AUTH_TOKEN_EXPIRED"

	ErrorCode_NO_TRANSCRIPT     ErrorCode = "NO_TRANSCRIPT"
	ErrorCode_MEETING_NOT_FOUND ErrorCode = "MEETING_NOT_FOUND"
	ErrorCode_AI_SUMMARY_FAILED ErrorCode = "AI_SUMMARY_FAILED"
	ErrorCode_REQUEST_CANCELLED ErrorCode = "REQUEST_CANCELLED"

	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = "INTEGRATION_STORAGE_FAILED"
	ErrorCode_DB_QUERY_FAILED            ErrorCode = "DB_QUERY_FAILED"
)

// String returns the code as sent on the wire
func (c ErrorCode) String() string {
	return string(c)
}

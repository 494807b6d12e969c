package http_common

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const (
	CodeServerNotReady = "SERVER_NOT_READY"
	CodeInvalidPayload = "INVALID_PAYLOAD"
	CodeInternal       = "INTERNAL"
)

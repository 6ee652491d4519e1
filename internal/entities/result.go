package entities

import "fmt"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MaxLimit bounds every caller supplied result count.
const MaxLimit = 100

// Error codes returned in the "error" field of a failed tool call.
const (
	CodeTimeout         = "timeout"
	CodeRequestFailed   = "request_failed"
	CodeInvalidResponse = "invalid_response"
	CodeRateLimited     = "rate_limited"
	CodeMissingAPIKey   = "missing_api_key"
	CodeNotFound        = "not_found"
	CodeRSSParseFailed  = "rss_parse_failed"
	CodeInvalidRequest  = "invalid_request"
)

// ProviderFailed is the code for a non-2xx answer or a provider reported failure.
func ProviderFailed(provider string) string {
	return provider + "_failed"
}

// ToolError is a classified tool failure. It renders as {status:"error", error, message, ...details}.
type ToolError struct {
	Code    string
	Message string
	Details map[string]any
}

func NewToolError(code, message string) *ToolError {
	return &ToolError{Code: code, Message: message}
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// With attaches an extra field to the rendered payload.
func (e *ToolError) With(key string, value any) *ToolError {
	if e.Details == nil {
		e.Details = make(map[string]any, 2)
	}
	e.Details[key] = value
	return e
}

func (e *ToolError) Payload() map[string]any {
	res := make(map[string]any, len(e.Details)+3)
	for k, v := range e.Details {
		res[k] = v
	}
	res["status"] = StatusError
	res["error"] = e.Code
	res["message"] = e.Message
	return res
}

package upstream

import (
	"errors"
	"fmt"
	"net/http"

	"web3_tools/internal/entities"
)

// Kind is the closed set of outbound failure classes.
type Kind string

const (
	KindTimeout   Kind = "timeout"
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindParse     Kind = "parse"
)

type Error struct {
	Kind       Kind
	Provider   string
	URL        string
	StatusCode int
	// Body holds the first bytes of a non-2xx answer.
	Body []byte
	Err  error
}

func newError(kind Kind, provider, rawURL string, err error) *Error {
	return &Error{Kind: kind, Provider: provider, URL: redact(rawURL), Err: err}
}

// NewParseError marks a decode failure that happened after a successful call.
func NewParseError(provider, rawURL string, err error) *Error {
	return newError(KindParse, provider, rawURL, err)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Provider, e.Kind, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) RateLimited() bool {
	return e.Kind == KindStatus && e.StatusCode == http.StatusTooManyRequests
}

// Classify maps an outbound failure onto the tool error vocabulary.
func Classify(provider string, err error) *entities.ToolError {
	var toolErr *entities.ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}
	var upErr *Error
	if !errors.As(err, &upErr) {
		return entities.NewToolError(entities.CodeRequestFailed, fmt.Sprintf("%s request failed: %v", provider, err))
	}
	switch upErr.Kind {
	case KindTimeout:
		return entities.NewToolError(entities.CodeTimeout, fmt.Sprintf("%s request timed out", provider))
	case KindStatus:
		if upErr.RateLimited() {
			return entities.NewToolError(entities.CodeRateLimited, fmt.Sprintf("%s rate limit exceeded", provider))
		}
		return entities.NewToolError(
			entities.ProviderFailed(provider),
			fmt.Sprintf("%s returned status %d", provider, upErr.StatusCode),
		).With("status_code", upErr.StatusCode)
	case KindParse:
		return entities.NewToolError(entities.CodeInvalidResponse, fmt.Sprintf("invalid response from %s: %v", provider, upErr.Err))
	default:
		return entities.NewToolError(entities.CodeRequestFailed, fmt.Sprintf("%s request failed: %v", provider, upErr.Err))
	}
}

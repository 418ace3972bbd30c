package gateway

import (
	"errors"
	"fmt"
)

// FallbackMessage is shown when a failure carries no usable server message.
const FallbackMessage = "Failed to analyze image. Please try again."

// TimeoutMessage is shown when the backend does not answer in time.
const TimeoutMessage = "Analysis timed out. Please try again."

// EmptyImageMessage matches the backend's validation message.
const EmptyImageMessage = "Image is required"

// ErrRequestFailed matches every error returned by SubmitImage via errors.Is.
var ErrRequestFailed = errors.New("analysis request failed")

// Kind categorizes a request failure.
type Kind int

const (
	// KindTransport indicates the backend could not be reached or the
	// connection broke mid-exchange.
	KindTransport Kind = iota
	// KindProtocol indicates a malformed or unsuccessful response envelope.
	KindProtocol
	// KindValidation indicates the request was rejected before sending.
	KindValidation
	// KindTimeout indicates the bounded wait for the response expired.
	KindTimeout
)

// String returns a human-readable kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindValidation:
		return "validation"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// RequestError is the single failure condition surfaced by the gateway.
// Message is safe to show to users; Err holds the underlying cause, if any.
type RequestError struct {
	Kind    Kind
	Message string
	Status  int // HTTP status, 0 if no response was received
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is makes every RequestError match ErrRequestFailed.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Message extracts the user-facing text from err. Errors that did not come
// from the gateway yield FallbackMessage.
func Message(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return FallbackMessage
}

// KindOf returns the Kind of a gateway error, and false for other errors.
func KindOf(err error) (Kind, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind, true
	}
	return 0, false
}

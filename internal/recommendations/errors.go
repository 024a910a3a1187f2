package recommendations

import "errors"

var (
	// ErrInvalidSelection means the bean or machine id is unknown.
	ErrInvalidSelection = errors.New("invalid bean or machine selection")
	// ErrGenerationFailed covers every AI path failure. It is always
	// recovered by falling back and never reaches a client.
	ErrGenerationFailed = errors.New("recommendation generation failed")
	// ErrInternal is any other failure while handling a request.
	ErrInternal = errors.New("internal error")
)

// Client-facing envelope messages.
const (
	MessageInvalidSelection = "Invalid bean or machine selection"
	MessageInternal         = "Internal server error"
)

// MessageFor maps an error to the only text a client may see.
func MessageFor(err error) string {
	if errors.Is(err, ErrInvalidSelection) {
		return MessageInvalidSelection
	}
	return MessageInternal
}

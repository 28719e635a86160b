package errors

import "fmt"

var (
	ErrNotReady            = fmt.Errorf("session not ready")
	ErrInvalidReference    = fmt.Errorf("message references an unknown conversation or sender")
	ErrUpstreamUnavailable = fmt.Errorf("upstream service unavailable")
	ErrMalformedResponse   = fmt.Errorf("malformed upstream response")
	ErrChannelUnavailable  = fmt.Errorf("signaling channel not connected")
	ErrPersistenceRejected = fmt.Errorf("score persistence rejected")
	ErrSessionClosed       = fmt.Errorf("session closed")
	ErrWorkerPanic         = fmt.Errorf("worker panic")
)

package moqt

import (
	"errors"
	"fmt"

	"github.com/quicmoq/moqt/internal/message"
)

// Sentinel errors for invariant violations the application can check with
// errors.Is.
var (
	ErrClosedSession   = errors.New("moqt: session closed")
	ErrServerClosed    = errors.New("moqt: server closed")
	ErrSetupTimeout    = errors.New("moqt: setup deadline exceeded")
	ErrInvalidScheme   = errors.New("moqt: unsupported URL scheme")
	ErrUnsupportedVersion = errors.New("moqt: server selected a version that was not proposed")
	ErrInvalidRole     = errors.New("moqt: operation not permitted by negotiated role")
	ErrCancelled       = errors.New("moqt: cancelled")
	ErrSubscribeIDReuse = errors.New("moqt: subscribeID already in use")
	ErrUnknownSubscribeID = errors.New("moqt: SUBSCRIBE_OK/ERROR for an id that is not pending")
)

// ProtocolViolation is a session-fatal error: a control-stream parse
// failure, an out-of-role message, or any other violation of the wire
// protocol's invariants. It closes the transport with Code.
type ProtocolViolation struct {
	Code   uint64
	Reason string
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("moqt: protocol violation (code %d): %s", e.Code, e.Reason)
}

// SubscribeError reports a SUBSCRIBE_ERROR received for a pending
// subscription, or synthesized locally when a subscribe cannot be sent.
type SubscribeError struct {
	Code            message.SubscribeErrorCode
	Reason          string
	RetryTrackAlias message.TrackAlias
	HasRetryAlias   bool
}

func (e *SubscribeError) Error() string {
	if e.Reason != "" {
		return "moqt: subscribe error: " + e.Reason
	}
	if reason, ok := message.DefaultSubscribeErrorReason[e.Code]; ok {
		return "moqt: subscribe error: " + reason
	}
	return "moqt: subscribe error"
}

// AnnounceError reports an ANNOUNCE_ERROR received for a pending announce.
type AnnounceError struct {
	Code   message.AnnounceErrorCode
	Reason string
}

func (e *AnnounceError) Error() string {
	if e.Reason != "" {
		return "moqt: announce error: " + e.Reason
	}
	if reason, ok := message.DefaultAnnounceErrorReason[e.Code]; ok {
		return "moqt: announce error: " + reason
	}
	return "moqt: announce error"
}

package moqt

import (
	"context"

	"github.com/quicmoq/moqt/internal/message"
)

// Announce is the application's request to advertise a namespace it can
// serve.
type Announce struct {
	TrackNamespace string
	Parameters     message.Parameters
}

// announcePromise is the subscriber-of-announce-side bookkeeping for one
// outstanding ANNOUNCE, resolved by an inbound ANNOUNCE_OK/ANNOUNCE_ERROR.
type announcePromise struct {
	doneCh chan struct{}
	err    *AnnounceError
}

func newAnnouncePromise() *announcePromise {
	return &announcePromise{doneCh: make(chan struct{})}
}

func (p *announcePromise) resolve(err *AnnounceError) {
	p.err = err
	close(p.doneCh)
}

// Wait blocks until the ANNOUNCE resolves, or ctx is done.
func (p *announcePromise) Wait(ctx context.Context) error {
	select {
	case <-p.doneCh:
		if p.err != nil {
			return p.err
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IncomingAnnounce is delivered to the application for a namespace a peer
// has advertised. The application resolves it with Accept or Reject.
type IncomingAnnounce struct {
	TrackNamespace string
	Parameters     message.Parameters

	session *Session
}

// Accept sends ANNOUNCE_OK, confirming the namespace is of interest.
func (a *IncomingAnnounce) Accept() error {
	return a.session.writeControl(message.FrameAnnounceOk, message.AnnounceOkMessage{TrackNamespace: a.TrackNamespace})
}

// Reject sends ANNOUNCE_ERROR with code and reason.
func (a *IncomingAnnounce) Reject(code message.AnnounceErrorCode, reason string) error {
	if reason == "" {
		reason = message.DefaultAnnounceErrorReason[code]
	}
	return a.session.writeControl(message.FrameAnnounceError, message.AnnounceErrorMessage{
		TrackNamespace: a.TrackNamespace,
		Code:           code,
		Reason:         reason,
	})
}

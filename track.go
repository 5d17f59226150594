package moqt

import (
	"context"
	"sync"

	"github.com/quicmoq/moqt/internal/message"
)

// Re-exports of the wire codec's domain enums, so callers never need to
// import internal/message directly.
type (
	SubscribeID      = message.SubscribeID
	TrackAlias       = message.TrackAlias
	GroupOrder       = message.GroupOrder
	LocationType     = message.LocationType
	AbsoluteLocation = message.AbsoluteLocation
	Role             = message.Role
)

const (
	GroupOrderDefault     = message.GroupOrderDefault
	GroupOrderOldestFirst = message.GroupOrderOldestFirst
	GroupOrderNewestFirst = message.GroupOrderNewestFirst

	LocationLatestGroup   = message.LocationLatestGroup
	LocationLatestObject  = message.LocationLatestObject
	LocationAbsoluteStart = message.LocationAbsoluteStart
	LocationAbsoluteRange = message.LocationAbsoluteRange

	RolePublisher           = message.RolePublisher
	RoleSubscriber          = message.RoleSubscriber
	RolePublisherSubscriber = message.RolePublisherSubscriber
)

// roleIncludesSubscriber reports whether r permits issuing Subscribe, per
// SPEC_FULL.md's ROLE-gated operation validation.
func roleIncludesSubscriber(r Role) bool {
	return r == RoleSubscriber || r == RolePublisherSubscriber
}

// roleIncludesPublisher reports whether r permits issuing Publish or
// accepting a SUBSCRIBE, per SPEC_FULL.md's ROLE-gated operation
// validation.
func roleIncludesPublisher(r Role) bool {
	return r == RolePublisher || r == RolePublisherSubscriber
}

// ForwardPreference is the publisher-chosen delivery mode for an object.
type ForwardPreference = message.ForwardPreference

const (
	ForwardTrack    = message.ForwardTrack
	ForwardGroup    = message.ForwardGroup
	ForwardObject   = message.ForwardObject
	ForwardDatagram = message.ForwardDatagram
)

// FullTrackName identifies a track by namespace and name.
type FullTrackName struct {
	Namespace string
	Name      string
}

// SubscribeRequest is the application's request to subscribe to a track.
type SubscribeRequest struct {
	TrackAlias         TrackAlias
	Track              FullTrackName
	SubscriberPriority byte
	GroupOrder         GroupOrder
	LocationType       LocationType
	Start              AbsoluteLocation
	End                AbsoluteLocation
	Parameters         message.Parameters
}

// TrackHandle is the subscriber-side view of a live or pending
// subscription: an application awaits Ready, then drains Objects until the
// subscription ends.
type TrackHandle struct {
	subscribeID SubscribeID
	track       FullTrackName

	ctx    context.Context
	cancel context.CancelCauseFunc

	readyCh   chan struct{}
	readyOnce sync.Once
	readyMu   sync.Mutex
	ok        SubscribeOkInfo
	subErr    *SubscribeError

	objectsCh chan *ObjectSource

	mu          sync.Mutex
	closed      bool
	sourcesByID map[objectKey]*ObjectSource
}

// SubscribeOkInfo is the negotiated result of an accepted subscription.
type SubscribeOkInfo struct {
	ExpiresMs     uint64
	GroupOrder    GroupOrder
	ContentExists bool
	Latest        AbsoluteLocation
	Parameters    message.Parameters
}

func newTrackHandle(parent context.Context, subscribeID SubscribeID, track FullTrackName, objectQueueSize int) *TrackHandle {
	ctx, cancel := context.WithCancelCause(parent)
	return &TrackHandle{
		subscribeID: subscribeID,
		track:       track,
		ctx:         ctx,
		cancel:      cancel,
		readyCh:     make(chan struct{}),
		objectsCh:   make(chan *ObjectSource, objectQueueSize),
		sourcesByID: make(map[objectKey]*ObjectSource),
	}
}

// SubscribeID returns the subscription's connection-scoped identifier.
func (h *TrackHandle) SubscribeID() SubscribeID { return h.subscribeID }

// Track returns the subscribed track's full name.
func (h *TrackHandle) Track() FullTrackName { return h.track }

// Ready blocks until the subscription is accepted or refused, or ctx is
// done.
func (h *TrackHandle) Ready(ctx context.Context) (SubscribeOkInfo, error) {
	select {
	case <-h.readyCh:
		h.readyMu.Lock()
		defer h.readyMu.Unlock()
		if h.subErr != nil {
			return SubscribeOkInfo{}, h.subErr
		}
		return h.ok, nil
	case <-h.ctx.Done():
		return SubscribeOkInfo{}, context.Cause(h.ctx)
	case <-ctx.Done():
		return SubscribeOkInfo{}, ctx.Err()
	}
}

func (h *TrackHandle) resolveOk(info SubscribeOkInfo) {
	h.readyOnce.Do(func() {
		h.readyMu.Lock()
		h.ok = info
		h.readyMu.Unlock()
		close(h.readyCh)
	})
}

func (h *TrackHandle) resolveError(subErr *SubscribeError) {
	h.readyOnce.Do(func() {
		h.readyMu.Lock()
		h.subErr = subErr
		h.readyMu.Unlock()
		close(h.readyCh)
	})
}

// resolveErrorOnce resolves the ready promise with cause if it has not
// already resolved, used when the session tears down while a subscribe is
// still pending.
func (h *TrackHandle) resolveErrorOnce(cause error) {
	h.resolveError(&SubscribeError{Reason: cause.Error()})
}

// Objects returns the channel of newly observed ObjectSources. It is
// closed when the subscription ends (SUBSCRIBE_DONE or cancellation).
func (h *TrackHandle) Objects() <-chan *ObjectSource {
	return h.objectsCh
}

// Fin cancels local interest in the subscription by canceling the handle's
// context with ErrCancelled: Done closes and a pending Ready returns
// ErrCancelled. Fin does not close the handle's ObjectSources or its
// Objects channel, and does not send UNSUBSCRIBE.
func (h *TrackHandle) Fin() {
	h.cancel(ErrCancelled)
}

// Done is canceled when the subscription ends, locally or remotely.
func (h *TrackHandle) Done() <-chan struct{} {
	return h.ctx.Done()
}

type objectKey struct {
	group uint64
	id    uint64
}

func (h *TrackHandle) sourceFor(group, id uint64, queueSize int) (*ObjectSource, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := objectKey{group, id}
	if src, ok := h.sourcesByID[key]; ok {
		return src, false
	}
	src := newObjectSource(group, id, queueSize)
	h.sourcesByID[key] = src
	return src, true
}

func (h *TrackHandle) closeAllSources(cause error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, src := range h.sourcesByID {
		src.closeWithError(cause)
	}
}

// pushObject enqueues src on the Objects channel, holding mu across the send
// so it can never race with closeObjects: either the handle is already
// closed (dropped) or the close happens-after this send returns. ctx.Done
// unblocks a full channel instead of deadlocking closeObjects behind it.
func (h *TrackHandle) pushObject(src *ObjectSource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	select {
	case h.objectsCh <- src:
	case <-h.ctx.Done():
	}
}

// closeObjects closes the Objects channel at most once, per spec §4.5/§6:
// the channel closes when the subscription ends, whether via SUBSCRIBE_DONE
// or local/session cancellation. Safe to call concurrently with pushObject.
func (h *TrackHandle) closeObjects() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.objectsCh)
}

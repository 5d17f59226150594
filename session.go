package moqt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/quicmoq/moqt/internal/message"
	"github.com/quicmoq/moqt/quic"
)

// Session is one MoQT connection's state machine: the setup handshake,
// subscription and announce bookkeeping, and object dispatch described in
// spec §4.5. A Session is constructed by Dial (client) or by a Server
// accepting a connection; callers do not construct one directly.
type Session struct {
	isClient bool
	conn     quic.Connection
	control  quic.Stream
	cfg      *Config
	logger   *slog.Logger

	// role is this endpoint's own negotiated ROLE, gating Subscribe/Publish
	// per SPEC_FULL.md's ROLE-gated operation validation.
	role Role

	ctx    context.Context
	cancel context.CancelCauseFunc

	state atomic.Int32

	readyCh  chan struct{}
	readyErr error

	controlOut chan []byte
	events      chan interface{}

	mu              sync.Mutex
	nextSubscribeID uint64
	subscriberSubs  map[SubscribeID]*TrackHandle
	publisherSubs   map[SubscribeID]*publisherSubscription
	publishRecords  map[publishKey]*publishRecord
	announcesOut    map[string]*announcePromise

	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newSession(isClient bool, conn quic.Connection, control quic.Stream, cfg *Config, role Role) *Session {
	ctx, cancel := context.WithCancelCause(context.Background())
	sessionID := control.StreamID()
	logger := cfg.logger().With("session_id", sessionID, "role", roleLabel(isClient))
	return &Session{
		isClient:       isClient,
		conn:           conn,
		control:        control,
		cfg:            cfg,
		logger:         logger,
		role:           role,
		ctx:            ctx,
		cancel:         cancel,
		readyCh:        make(chan struct{}),
		controlOut:     make(chan []byte, cfg.controlQueueSize()),
		events:         make(chan interface{}, cfg.controlQueueSize()),
		subscriberSubs: make(map[SubscribeID]*TrackHandle),
		publisherSubs:  make(map[SubscribeID]*publisherSubscription),
		publishRecords: make(map[publishKey]*publishRecord),
		announcesOut:   make(map[string]*announcePromise),
	}
}

func roleLabel(isClient bool) string {
	if isClient {
		return "client"
	}
	return "server"
}

// ControlMessages returns the lazy stream of inbound control events the
// application must service: *IncomingSubscribe, *SubscribeUpdateEvent,
// *IncomingAnnounce, *TrackStatusRequestEvent, *GoAwayEvent.
func (s *Session) ControlMessages() <-chan interface{} {
	return s.events
}

// Done is canceled when the session closes, locally or remotely.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// SetupComplete blocks until the setup handshake reaches Ready, or fails.
func (s *Session) SetupComplete(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return s.readyErr
	case <-s.ctx.Done():
		return context.Cause(s.ctx)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) setState(st sessionState) {
	s.state.Store(int32(st))
}

func (s *Session) getState() sessionState {
	return sessionState(s.state.Load())
}

// start launches the session's background loops. Called once setup has
// completed (by Dial or the accepting Server), per spec's build-first
// ordering of the setup handshake before Ready-gated operations.
func (s *Session) start() {
	s.wg.Add(3)
	go s.runControlWriter()
	go s.runControlReader()
	go s.runUniStreamAcceptor()
	s.wg.Add(1)
	go s.runDatagramReceiver()
}

func (s *Session) runControlWriter() {
	defer s.wg.Done()
	for {
		select {
		case b := <-s.controlOut:
			if _, err := s.control.Write(b); err != nil {
				s.fatal(&ProtocolViolation{Reason: "control write failed: " + err.Error()})
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// writeControl serializes msg with frameType and enqueues it on the
// control write goroutine, blocking if the outbound buffer is full.
func (s *Session) writeControl(frameType message.FrameType, body message.Appendable) error {
	b := message.WriteControlMessage(frameType, body)
	select {
	case s.controlOut <- b:
		return nil
	case <-s.ctx.Done():
		return context.Cause(s.ctx)
	}
}

func (s *Session) runControlReader() {
	defer s.wg.Done()
	driver := message.NewControlDriver(s.dispatchControl)
	buf := make([]byte, 4096)
	for {
		n, err := s.control.Read(buf)
		if n > 0 {
			if ferr := driver.Feed(buf[:n]); ferr != nil {
				s.fatal(&ProtocolViolation{Reason: "control parse failed: " + ferr.Error()})
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.fatal(ErrClosedSession)
			} else {
				s.fatal(&ProtocolViolation{Reason: "control read failed: " + err.Error()})
			}
			return
		}
	}
}

func (s *Session) dispatchControl(frameType message.FrameType, msg interface{}) error {
	switch m := msg.(type) {
	case message.SubscribeOkMessage:
		s.handleSubscribeOk(m)
	case message.SubscribeErrorMessage:
		s.handleSubscribeError(m)
	case message.SubscribeMessage:
		s.handleIncomingSubscribe(m)
	case message.SubscribeUpdateMessage:
		s.handleSubscribeUpdate(m)
	case message.SubscribeDoneMessage:
		s.handleSubscribeDone(m)
	case message.UnsubscribeMessage:
		s.handleUnsubscribe(m)
	case message.AnnounceMessage:
		s.emit(&IncomingAnnounce{TrackNamespace: m.TrackNamespace, Parameters: m.Parameters, session: s})
	case message.AnnounceOkMessage:
		s.resolveAnnounce(m.TrackNamespace, nil)
	case message.AnnounceErrorMessage:
		s.resolveAnnounce(m.TrackNamespace, &AnnounceError{Code: m.Code, Reason: m.Reason})
	case message.UnannounceMessage:
		// Fire-and-forget withdrawal; nothing to resolve.
	case message.AnnounceCancelMessage:
		// Fire-and-forget withdrawal; nothing to resolve.
	case message.TrackStatusRequestMessage:
		s.emit(&TrackStatusRequestEvent{Track: FullTrackName{Namespace: m.TrackNamespace, Name: m.TrackName}, session: s})
	case message.TrackStatusMessage:
		// Dropped: TRACK_STATUS is not delivered on ControlMessages, and
		// there is no pending promise to resolve.
	case message.GoAwayMessage:
		s.setState(stateClosing)
		s.emit(&GoAwayEvent{NewSessionURI: m.NewSessionURI})
	default:
		return &ProtocolViolation{Reason: "unexpected control frame type on established session"}
	}
	return nil
}

func (s *Session) emit(ev interface{}) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

func (s *Session) handleSubscribeOk(m message.SubscribeOkMessage) {
	s.mu.Lock()
	handle, ok := s.subscriberSubs[m.SubscribeID]
	s.mu.Unlock()
	if !ok {
		s.fatal(ErrUnknownSubscribeID)
		return
	}
	handle.resolveOk(SubscribeOkInfo{
		ExpiresMs:     m.ExpiresMs,
		GroupOrder:    m.GroupOrder,
		ContentExists: m.ContentExists,
		Latest:        m.Latest,
		Parameters:    m.Parameters,
	})
}

func (s *Session) handleSubscribeError(m message.SubscribeErrorMessage) {
	s.mu.Lock()
	handle, ok := s.subscriberSubs[m.SubscribeID]
	if ok {
		delete(s.subscriberSubs, m.SubscribeID)
	}
	s.mu.Unlock()
	if !ok {
		s.fatal(ErrUnknownSubscribeID)
		return
	}
	subErr := &SubscribeError{Code: m.Code, Reason: m.Reason}
	if m.Code == message.SubscribeErrorRetryTrackAlias {
		subErr.RetryTrackAlias = m.RetryTrackAlias
		subErr.HasRetryAlias = true
	}
	handle.resolveError(subErr)
}

func (s *Session) handleIncomingSubscribe(m message.SubscribeMessage) {
	s.mu.Lock()
	_, reused := s.publisherSubs[m.SubscribeID]
	s.mu.Unlock()
	if reused {
		// spec §3: subscribeID values are assigned by the requester and must
		// not be reused while still active; reject rather than silently
		// overwrite the existing publisherSubs entry.
		_ = s.writeControl(message.FrameSubscribeError, message.SubscribeErrorMessage{
			SubscribeID: m.SubscribeID,
			Code:        message.SubscribeErrorInternal,
			Reason:      ErrSubscribeIDReuse.Error(),
		})
		return
	}
	s.emit(&IncomingSubscribe{
		SubscribeID:        m.SubscribeID,
		TrackAlias:         m.TrackAlias,
		Track:              FullTrackName{Namespace: m.TrackNamespace, Name: m.TrackName},
		SubscriberPriority: m.SubscriberPriority,
		GroupOrder:         m.GroupOrder,
		LocationType:       m.LocationType,
		Start:              m.Start,
		End:                m.End,
		Parameters:         m.Parameters,
		session:            s,
	})
}

// handleSubscribeUpdate delivers an inbound SUBSCRIBE_UPDATE to the
// application, per spec §6's frame layout. Unlike SUBSCRIBE, it carries no
// response frame of its own and does not reject an unknown SubscribeID: a
// peer that raced UNSUBSCRIBE against its own UPDATE is not a protocol
// violation, so the event is simply dropped if the subscription is gone.
func (s *Session) handleSubscribeUpdate(m message.SubscribeUpdateMessage) {
	s.mu.Lock()
	sub, ok := s.publisherSubs[m.SubscribeID]
	if ok {
		sub.priority = m.SubscriberPriority
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	s.emit(&SubscribeUpdateEvent{
		SubscribeID:        m.SubscribeID,
		Start:              m.Start,
		End:                m.End,
		SubscriberPriority: m.SubscriberPriority,
		Parameters:         m.Parameters,
	})
}

func (s *Session) handleSubscribeDone(m message.SubscribeDoneMessage) {
	s.mu.Lock()
	handle, ok := s.subscriberSubs[m.SubscribeID]
	if ok {
		delete(s.subscriberSubs, m.SubscribeID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	handle.closeAllSources(nil)
	handle.Fin()
	handle.closeObjects()
}

func (s *Session) handleUnsubscribe(m message.UnsubscribeMessage) {
	s.mu.Lock()
	delete(s.publisherSubs, m.SubscribeID)
	s.mu.Unlock()
}

func (s *Session) resolveAnnounce(namespace string, announceErr *AnnounceError) {
	s.mu.Lock()
	p, ok := s.announcesOut[namespace]
	if ok {
		delete(s.announcesOut, namespace)
	}
	s.mu.Unlock()
	if ok {
		p.resolve(announceErr)
	}
}

// fatal tears the session down per spec §4.5/§7: cancel all handles,
// resolve all pending promises with cause, close the transport. Safe to
// call more than once (e.g. Close triggering the control reader's own
// error path); only the first call takes effect.
func (s *Session) fatal(cause error) {
	s.closeOnce.Do(func() {
		s.setState(stateClosed)
		s.cancel(cause)

		s.mu.Lock()
		subs := s.subscriberSubs
		s.subscriberSubs = make(map[SubscribeID]*TrackHandle)
		announces := s.announcesOut
		s.announcesOut = make(map[string]*announcePromise)
		s.mu.Unlock()

		for _, handle := range subs {
			handle.closeAllSources(cause)
			handle.resolveErrorOnce(cause)
			handle.Fin()
			handle.closeObjects()
		}
		for _, p := range announces {
			p.resolve(&AnnounceError{Reason: cause.Error()})
		}

		s.control.CancelRead(0)
		_ = s.control.Close()
		code := quic.ApplicationErrorCode(0)
		var pv *ProtocolViolation
		if errors.As(cause, &pv) {
			code = quic.ApplicationErrorCode(pv.Code)
		}
		_ = s.conn.CloseWithError(code, cause.Error())
	})
}

// Close gracefully tears the session down from the local side.
func (s *Session) Close() error {
	s.fatal(ErrClosedSession)
	s.wg.Wait()
	return nil
}

// GoAway enters Closing and asks the peer to migrate to newSessionURI.
func (s *Session) GoAway(newSessionURI string) error {
	s.setState(stateClosing)
	return s.writeControl(message.FrameGoAway, message.GoAwayMessage{NewSessionURI: newSessionURI})
}

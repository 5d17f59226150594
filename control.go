package moqt

import (
	"github.com/quicmoq/moqt/internal/message"
)

// IncomingSubscribe is delivered to the application (the publisher side)
// for an inbound SUBSCRIBE. The application resolves it with Accept or
// Reject.
type IncomingSubscribe struct {
	SubscribeID        SubscribeID
	TrackAlias         TrackAlias
	Track              FullTrackName
	SubscriberPriority byte
	GroupOrder         GroupOrder
	LocationType       LocationType
	Start              AbsoluteLocation
	End                AbsoluteLocation
	Parameters         message.Parameters

	session *Session
}

// Accept sends SUBSCRIBE_OK and records the subscription's priority and
// negotiated group order under its subscribeID, per spec §4.5's publish
// flow.
func (s *IncomingSubscribe) Accept(info SubscribeOkInfo) error {
	if !roleIncludesPublisher(s.session.role) {
		return ErrInvalidRole
	}

	s.session.mu.Lock()
	s.session.publisherSubs[s.SubscribeID] = &publisherSubscription{
		priority:   s.SubscriberPriority,
		groupOrder: info.GroupOrder,
	}
	s.session.mu.Unlock()

	return s.session.writeControl(message.FrameSubscribeOk, message.SubscribeOkMessage{
		SubscribeID:   message.SubscribeID(s.SubscribeID),
		ExpiresMs:     info.ExpiresMs,
		GroupOrder:    info.GroupOrder,
		ContentExists: info.ContentExists,
		Latest:        info.Latest,
		Parameters:    info.Parameters,
	})
}

// Reject sends SUBSCRIBE_ERROR with code and reason. If the code is
// RetryTrackAlias, retryAlias is carried so the subscriber may reissue with
// it.
func (s *IncomingSubscribe) Reject(code message.SubscribeErrorCode, reason string, retryAlias TrackAlias) error {
	if reason == "" {
		reason = message.DefaultSubscribeErrorReason[code]
	}
	return s.session.writeControl(message.FrameSubscribeError, message.SubscribeErrorMessage{
		SubscribeID:     message.SubscribeID(s.SubscribeID),
		Code:            code,
		Reason:          reason,
		RetryTrackAlias: retryAlias,
	})
}

// publisherSubscription is the publisher-side bookkeeping for an accepted
// SUBSCRIBE, per spec §3's publisher subscription state.
type publisherSubscription struct {
	priority   byte
	groupOrder GroupOrder
}

// TrackStatusRequestEvent is delivered to the application for an inbound
// TRACK_STATUS_REQUEST; the application answers with Respond.
type TrackStatusRequestEvent struct {
	Track   FullTrackName
	session *Session
}

// Respond sends TRACK_STATUS back to the requester.
func (e *TrackStatusRequestEvent) Respond(status message.TrackStatusCode, latest AbsoluteLocation) error {
	return e.session.writeControl(message.FrameTrackStatus, message.TrackStatusMessage{
		TrackNamespace: e.Track.Namespace,
		TrackName:      e.Track.Name,
		StatusCode:     status,
		Latest:         latest,
	})
}

// GoAwayEvent is delivered to the application when the peer sends GOAWAY.
type GoAwayEvent struct {
	NewSessionURI string
}

// SubscribeUpdateEvent is delivered to the application (the publisher side)
// for an inbound SUBSCRIBE_UPDATE, narrowing a live subscription's range or
// priority. SUBSCRIBE_UPDATE carries no response frame of its own; the
// application updates whatever bookkeeping or delivery it keeps keyed by
// SubscribeID and continues publishing.
type SubscribeUpdateEvent struct {
	SubscribeID        SubscribeID
	Start              AbsoluteLocation
	End                AbsoluteLocation
	SubscriberPriority byte
	Parameters         message.Parameters
}

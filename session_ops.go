package moqt

import (
	"context"

	"github.com/quicmoq/moqt/internal/message"
)

// Subscribe requests delivery of objects from a track, per spec §4.5's
// subscriber flow. It sends SUBSCRIBE and then blocks until the publisher
// accepts or refuses it, or ctx is done; on refusal it returns the
// TrackHandle together with the *SubscribeError.
func (s *Session) Subscribe(ctx context.Context, req SubscribeRequest) (*TrackHandle, error) {
	if s.getState() != stateReady {
		return nil, ErrClosedSession
	}
	if !roleIncludesSubscriber(s.role) {
		return nil, ErrInvalidRole
	}

	s.mu.Lock()
	subID := SubscribeID(s.nextSubscribeID)
	s.nextSubscribeID++
	handle := newTrackHandle(s.ctx, subID, req.Track, s.cfg.objectQueueSize())
	s.subscriberSubs[subID] = handle
	s.mu.Unlock()

	err := s.writeControl(message.FrameSubscribe, message.SubscribeMessage{
		SubscribeID:        subID,
		TrackAlias:         req.TrackAlias,
		TrackNamespace:     req.Track.Namespace,
		TrackName:          req.Track.Name,
		SubscriberPriority: req.SubscriberPriority,
		GroupOrder:         req.GroupOrder,
		LocationType:       req.LocationType,
		Start:              req.Start,
		End:                req.End,
		Parameters:         req.Parameters,
	})
	if err != nil {
		s.mu.Lock()
		delete(s.subscriberSubs, subID)
		s.mu.Unlock()
		return nil, err
	}

	if _, err := handle.Ready(ctx); err != nil {
		return handle, err
	}
	return handle, nil
}

// Unsubscribe cancels a live subscription and releases its TrackHandle,
// per spec §4.5's UNSUBSCRIBE flow.
func (s *Session) Unsubscribe(subscribeID SubscribeID) error {
	s.mu.Lock()
	handle, ok := s.subscriberSubs[subscribeID]
	if ok {
		delete(s.subscriberSubs, subscribeID)
	}
	s.mu.Unlock()
	if !ok {
		return ErrUnknownSubscribeID
	}
	handle.closeAllSources(ErrCancelled)
	handle.Fin()
	handle.closeObjects()
	return s.writeControl(message.FrameUnsubscribe, message.UnsubscribeMessage{SubscribeID: subscribeID})
}

// Announce advertises a namespace this endpoint can serve, blocking until
// the peer answers with ANNOUNCE_OK/ANNOUNCE_ERROR or ctx is done.
func (s *Session) Announce(ctx context.Context, a Announce) error {
	if s.getState() != stateReady {
		return ErrClosedSession
	}

	promise := newAnnouncePromise()
	s.mu.Lock()
	s.announcesOut[a.TrackNamespace] = promise
	s.mu.Unlock()

	if err := s.writeControl(message.FrameAnnounce, message.AnnounceMessage{
		TrackNamespace: a.TrackNamespace,
		Parameters:     a.Parameters,
	}); err != nil {
		s.mu.Lock()
		delete(s.announcesOut, a.TrackNamespace)
		s.mu.Unlock()
		return err
	}

	return promise.Wait(ctx)
}

// Unannounce withdraws a previously advertised namespace.
func (s *Session) Unannounce(namespace string) error {
	return s.writeControl(message.FrameUnannounce, message.UnannounceMessage{TrackNamespace: namespace})
}

// AnnounceCancel tells a peer holding our announce that it is being
// withdrawn with a reason.
func (s *Session) AnnounceCancel(namespace string, code message.AnnounceErrorCode, reason string) error {
	if reason == "" {
		reason = message.DefaultAnnounceErrorReason[code]
	}
	return s.writeControl(message.FrameAnnounceCancel, message.AnnounceCancelMessage{
		TrackNamespace: namespace,
		Code:           code,
		Reason:         reason,
	})
}

// TrackStatusRequest asks a peer for the current status of a track it may
// or may not be publishing.
func (s *Session) TrackStatusRequest(track FullTrackName) error {
	return s.writeControl(message.FrameTrackStatusRequest, message.TrackStatusRequestMessage{
		TrackNamespace: track.Namespace,
		TrackName:      track.Name,
	})
}

// Publish writes one chunk of an object's payload, starting at offset, to
// the publisher-side data stream selected by header's (SubscribeID,
// Forward) pair, opening a new stream the first time a given PublishKey is
// seen and reusing it for subsequent objects of the same Track/Group per
// spec §4.5's PublishKey stream-reuse rule. offset == 0 starts a new
// object and emits its sub-header (carrying header.Length, the object's
// total size); a nonzero offset continues the same object and must equal
// the running payload offset spec §3 tracks per open stream. endOfMessage
// closes the underlying stream for Group/Track modes once the caller has
// no more objects to send on it; Object and Datagram modes always complete
// in one call.
func (s *Session) Publish(header ObjectHeader, offset uint64, payload []byte, endOfMessage bool) error {
	if s.getState() != stateReady {
		return ErrClosedSession
	}
	if !roleIncludesPublisher(s.role) {
		return ErrInvalidRole
	}

	switch header.Forward {
	case ForwardDatagram:
		if offset != 0 {
			return &ProtocolViolation{Reason: "datagram objects cannot have a nonzero offset"}
		}
		return s.publishDatagram(header, payload)
	default:
		return s.publishStream(header, offset, payload, endOfMessage)
	}
}

// PublishStatus sends a status-only object carrying no payload (e.g.
// ObjectStatusEndOfGroup), per spec §6's publishStatus operation.
// endOfMessage closes the underlying stream, per Publish's semantics.
func (s *Session) PublishStatus(header ObjectHeader, endOfMessage bool) error {
	header.Length = 0
	return s.Publish(header, 0, nil, endOfMessage)
}

func (s *Session) publishDatagram(header ObjectHeader, payload []byte) error {
	preamble := message.ObjectPreamble{
		SubscribeID: header.SubscribeID,
		TrackAlias:  header.TrackAlias,
		Group:       header.Group,
		ObjectID:    header.ObjectID,
		Priority:    header.Priority,
		Status:      header.Status,
	}
	return s.conn.SendDatagram(message.WriteObjectDatagram(preamble, payload))
}

func (s *Session) publishStream(header ObjectHeader, offset uint64, payload []byte, endOfMessage bool) error {
	key := newPublishKey(header.SubscribeID, header.Forward, header.Group, header.ObjectID)

	s.mu.Lock()
	rec, open := s.publishRecords[key]
	s.mu.Unlock()

	if !open {
		if offset != 0 {
			return &ProtocolViolation{Reason: "first Publish call for a stream must start the object at offset 0"}
		}
		stream, err := s.conn.OpenUniStreamSync(s.ctx)
		if err != nil {
			return err
		}
		var headerBytes []byte
		switch header.Forward {
		case ForwardTrack:
			headerBytes = message.WriteDataStreamHeader(message.FrameStreamHeaderTrack, message.StreamHeaderTrack{
				SubscribeID: header.SubscribeID,
				TrackAlias:  header.TrackAlias,
				Priority:    header.Priority,
			})
		case ForwardGroup:
			headerBytes = message.WriteDataStreamHeader(message.FrameStreamHeaderGroup, message.StreamHeaderGroup{
				SubscribeID: header.SubscribeID,
				TrackAlias:  header.TrackAlias,
				Group:       header.Group,
				Priority:    header.Priority,
			})
		default: // ForwardObject
			headerBytes = message.WriteDataStreamHeader(message.FrameObjectStream, message.ObjectPreamble{
				SubscribeID: header.SubscribeID,
				TrackAlias:  header.TrackAlias,
				Group:       header.Group,
				ObjectID:    header.ObjectID,
				Priority:    header.Priority,
				Status:      header.Status,
			})
		}
		if _, err := stream.Write(headerBytes); err != nil {
			return err
		}
		rec = &publishRecord{send: stream, streamID: stream.StreamID()}
		s.mu.Lock()
		s.publishRecords[key] = rec
		s.mu.Unlock()
	}

	if offset == 0 {
		// Starting a new object on this stream: emit its sub-header
		// carrying the full length and reset the running payload offset
		// spec §3 tracks for it.
		rec.objectLength = header.Length
		rec.offset = 0
		switch header.Forward {
		case ForwardTrack:
			sub := message.TrackObjectSubHeader{Group: header.Group, ID: header.ObjectID, Length: header.Length, Status: header.Status}
			if _, err := rec.send.Write(sub.Append(nil)); err != nil {
				return err
			}
		case ForwardGroup:
			sub := message.GroupObjectSubHeader{ID: header.ObjectID, Length: header.Length, Status: header.Status}
			if _, err := rec.send.Write(sub.Append(nil)); err != nil {
				return err
			}
		}
	} else if offset != rec.offset {
		return &ProtocolViolation{Reason: "Publish offset does not continue the object's running payload offset"}
	}

	if len(payload) > 0 {
		if _, err := rec.send.Write(payload); err != nil {
			return err
		}
		rec.offset += uint64(len(payload))
	}

	if header.Forward == ForwardObject {
		endOfMessage = true
	}
	if endOfMessage {
		s.mu.Lock()
		delete(s.publishRecords, key)
		s.mu.Unlock()
		return rec.send.Close()
	}
	return nil
}

// SubscribeDone tells a subscriber its subscription has ended and no
// further objects will be delivered, per spec §6's publisher-sent
// subscribeDone operation, and releases the publisher-side bookkeeping
// Accept recorded for it.
func (s *Session) SubscribeDone(subscribeID SubscribeID, statusCode uint64, reason string, contentExists bool, finalObject AbsoluteLocation) error {
	s.mu.Lock()
	delete(s.publisherSubs, subscribeID)
	s.mu.Unlock()
	return s.writeControl(message.FrameSubscribeDone, message.SubscribeDoneMessage{
		SubscribeID:   subscribeID,
		StatusCode:    statusCode,
		Reason:        reason,
		ContentExists: contentExists,
		FinalObject:   finalObject,
	})
}

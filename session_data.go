package moqt

import (
	"errors"
	"io"

	"github.com/quicmoq/moqt/internal/message"
	"github.com/quicmoq/moqt/quic"
)

func (s *Session) runUniStreamAcceptor() {
	defer s.wg.Done()
	for {
		stream, err := s.conn.AcceptUniStream(s.ctx)
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.handleDataStream(stream)
	}
}

func (s *Session) handleDataStream(stream quic.ReceiveStream) {
	defer s.wg.Done()

	var subID SubscribeID

	driver := message.NewDataStreamDriver(
		func(frameType message.FrameType, trackHeader message.StreamHeaderTrack, groupHeader message.StreamHeaderGroup, single message.ObjectPreamble) {
			switch frameType {
			case message.FrameObjectStream:
				subID = single.SubscribeID
			case message.FrameStreamHeaderTrack:
				subID = trackHeader.SubscribeID
			case message.FrameStreamHeaderGroup:
				subID = groupHeader.SubscribeID
			}
		},
		func(ev message.ObjectEvent) error {
			return s.deliverObjectEvent(subID, ev)
		},
	)

	buf := make([]byte, 4096)
	for {
		n, err := stream.Read(buf)
		var feedErr error
		if n > 0 {
			feedErr = driver.Feed(buf[:n], false)
		}
		if feedErr == nil && err != nil {
			if errors.Is(err, io.EOF) {
				feedErr = driver.Feed(nil, true)
			} else {
				s.closeDataStreamWithError(stream, err)
				return
			}
		}
		if feedErr != nil {
			s.closeDataStreamWithError(stream, feedErr)
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) closeDataStreamWithError(stream quic.ReceiveStream, cause error) {
	s.logger.Warn("data stream parse error, closing stream", "error", cause)
	stream.CancelRead(quic.StreamErrorCode(ProtocolErrorCode))
}

// ProtocolErrorCode is the stream-level error code used to close a data
// stream that failed to parse, per spec §4.5/§7: such failures are
// non-fatal to the session.
const ProtocolErrorCode = 0x1

func (s *Session) runDatagramReceiver() {
	defer s.wg.Done()
	for {
		b, err := s.conn.ReceiveDatagram(s.ctx)
		if err != nil {
			return
		}
		preamble, payload, err := message.ParseObjectDatagram(message.NewCursor(b))
		if err != nil {
			s.logger.Warn("datagram parse error, dropping", "error", err)
			continue
		}
		ev := message.ObjectEvent{
			Group:       preamble.Group,
			ObjectID:    preamble.ObjectID,
			Status:      preamble.Status,
			Payload:     payload,
			EndOfObject: true,
		}
		if err := s.deliverObjectEvent(preamble.SubscribeID, ev); err != nil {
			s.logger.Warn("datagram delivery error", "error", err)
		}
	}
}

func (s *Session) deliverObjectEvent(subID SubscribeID, ev message.ObjectEvent) error {
	s.mu.Lock()
	handle, ok := s.subscriberSubs[subID]
	s.mu.Unlock()
	if !ok {
		// Object arrived for a subscription we no longer track (e.g. just
		// unsubscribed); drop it silently per spec §4.5 teardown semantics.
		return nil
	}

	src, isNew := handle.sourceFor(ev.Group, ev.ObjectID, s.cfg.objectQueueSize())
	if isNew {
		handle.pushObject(src)
	}
	if len(ev.Payload) > 0 {
		src.pushChunk(ev.Payload)
	}
	if ev.EndOfObject {
		src.close()
	}
	return nil
}

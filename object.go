package moqt

import (
	"context"
	"io"

	"github.com/quicmoq/moqt/internal/message"
	"github.com/quicmoq/moqt/quic"
)

// ObjectStatus is the terminal status of an object, carried on the wire
// when the object has no payload bytes of its own.
type ObjectStatus = message.ObjectStatus

const (
	ObjectStatusNormal             = message.ObjectStatusNormal
	ObjectStatusDoesNotExist       = message.ObjectStatusDoesNotExist
	ObjectStatusEndOfGroup         = message.ObjectStatusEndOfGroup
	ObjectStatusEndOfTrackAndGroup = message.ObjectStatusEndOfTrackAndGroup
)

// ObjectHeader identifies one object within a subscription. Length is the
// object's total payload length, carried in the Track/Group-mode sub-header
// the first time an object is published (offset 0); it is ignored for
// Object and Datagram mode, which always deliver a whole object in one call.
type ObjectHeader struct {
	SubscribeID SubscribeID
	TrackAlias  TrackAlias
	Group       uint64
	ObjectID    uint64
	Priority    byte
	Status      ObjectStatus
	Forward     ForwardPreference
	Length      uint64
}

// ObjectSource is the subscriber-side view of a single object: its group
// and object ID plus a payload delivered as a sequence of chunks. Payload
// concatenates the chunks in wire order until the object completes. The
// object's status and the rest of its wire header are not kept.
type ObjectSource struct {
	Group    uint64
	ObjectID uint64

	chunks chan []byte
	doneCh chan struct{}
	err    error
}

func newObjectSource(group, id uint64, queueSize int) *ObjectSource {
	return &ObjectSource{
		Group:    group,
		ObjectID: id,
		chunks:   make(chan []byte, queueSize),
		doneCh:   make(chan struct{}),
	}
}

func (s *ObjectSource) pushChunk(b []byte) {
	if len(b) == 0 {
		return
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	select {
	case s.chunks <- cp:
	case <-s.doneCh:
	}
}

func (s *ObjectSource) close() {
	select {
	case <-s.doneCh:
	default:
		close(s.doneCh)
	}
}

func (s *ObjectSource) closeWithError(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
	s.close()
}

// Payload reads the object's full payload by concatenating its chunks
// until end-of-object, cancellation, or ctx is done.
func (s *ObjectSource) Payload(ctx context.Context) ([]byte, error) {
	var out []byte
	for {
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				return out, nil
			}
			out = append(out, chunk...)
		case <-s.doneCh:
			// Drain whatever was already queued before reporting done.
			for {
				select {
				case chunk := <-s.chunks:
					out = append(out, chunk...)
					continue
				default:
				}
				break
			}
			if s.err != nil {
				return out, s.err
			}
			return out, nil
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
}

var _ io.Closer = (*ObjectSource)(nil)

// Close releases the ObjectSource's resources early, as if it had reached
// end-of-object.
func (s *ObjectSource) Close() error {
	s.close()
	return nil
}

// publishKey identifies an open publisher-side data stream, per spec
// §4.5's PublishKey: Track-mode collapses to just the subscription, Group
// to (subscription, group), Object/Datagram to (subscription, group,
// object).
type publishKey struct {
	subscribeID SubscribeID
	forward     ForwardPreference
	group       uint64
	object      uint64
}

func newPublishKey(subscribeID SubscribeID, forward ForwardPreference, group, object uint64) publishKey {
	switch forward {
	case ForwardTrack:
		return publishKey{subscribeID: subscribeID, forward: forward}
	case ForwardGroup:
		return publishKey{subscribeID: subscribeID, forward: forward, group: group}
	default:
		return publishKey{subscribeID: subscribeID, forward: forward, group: group, object: object}
	}
}

// publishRecord is an open publisher-side data stream kept alive across
// Publish calls that share a PublishKey, per spec §4.5's stream-reuse rule.
// objectLength and offset track spec §3's running payload offset for the
// object currently in flight on this stream: offset advances with every
// chunk written and resets to 0 each time a new object's sub-header
// (offset == 0 on the incoming Publish call) is emitted.
type publishRecord struct {
	send         quic.SendStream
	streamID     quic.StreamID
	objectLength uint64
	offset       uint64
}

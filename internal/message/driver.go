package message

// ControlCallback receives one fully-decoded control message at a time, in
// wire order.
type ControlCallback func(frameType FrameType, msg interface{}) error

// ControlDriver buffers bytes off a control stream and invokes a callback
// once per complete frame, retrying on ErrUnderflow as more bytes arrive.
type ControlDriver struct {
	cursor    *Cursor
	onMessage ControlCallback
}

// NewControlDriver returns a driver that calls onMessage for each decoded
// control frame.
func NewControlDriver(onMessage ControlCallback) *ControlDriver {
	return &ControlDriver{cursor: NewCursor(nil), onMessage: onMessage}
}

// Feed appends b to the driver's buffer and decodes as many complete
// frames as are now available. A non-underflow error is session-fatal per
// spec §4.2/§4.4 and is returned to the caller unchanged.
func (d *ControlDriver) Feed(b []byte) error {
	d.cursor.Grow(b)
	for {
		frameType, msg, err := ParseControlMessage(d.cursor)
		if err == ErrUnderflow {
			d.cursor.Compact()
			return nil
		}
		if err != nil {
			return err
		}
		if err := d.onMessage(frameType, msg); err != nil {
			return err
		}
	}
}

// ObjectEvent is one payload chunk (possibly the last) of an object
// observed on a data stream.
type ObjectEvent struct {
	Group       uint64
	ObjectID    uint64
	Status      ObjectStatus
	Payload     []byte
	EndOfObject bool
}

// DataStreamCallback receives object events in wire order for a single
// unidirectional data stream.
type DataStreamCallback func(ObjectEvent) error

// DataStreamDriver decodes a single Track/Group/Object-mode unidirectional
// stream: it parses the stream header once, then repeatedly parses object
// sub-headers and payload chunks, emitting one ObjectEvent per chunk.
type DataStreamDriver struct {
	cursor *Cursor

	headerParsed bool
	frameType    FrameType
	trackHeader  StreamHeaderTrack
	groupHeader  StreamHeaderGroup
	singlePreamble ObjectPreamble

	onHeader func(frameType FrameType, trackHeader StreamHeaderTrack, groupHeader StreamHeaderGroup, singlePreamble ObjectPreamble)
	onEvent  DataStreamCallback

	inObject      bool
	remaining     uint64
	curGroup      uint64
	curObjectID   uint64
}

// NewDataStreamDriver returns a driver for one data stream. onHeader fires
// once, after the stream's header frame is decoded; onEvent fires once per
// payload chunk (and once more, with EndOfObject set and no payload, for a
// zero-length status-only object).
func NewDataStreamDriver(
	onHeader func(frameType FrameType, trackHeader StreamHeaderTrack, groupHeader StreamHeaderGroup, singlePreamble ObjectPreamble),
	onEvent DataStreamCallback,
) *DataStreamDriver {
	return &DataStreamDriver{cursor: NewCursor(nil), onHeader: onHeader, onEvent: onEvent}
}

// Feed appends b (possibly empty, if streamEnded is the only new
// information) and drives the state machine as far as the buffered bytes
// allow. streamEnded signals that the transport delivered EOF, which is how
// an OBJECT_STREAM's open-ended payload is known to have completed.
func (d *DataStreamDriver) Feed(b []byte, streamEnded bool) error {
	d.cursor.Grow(b)

	if !d.headerParsed {
		frameType, msg, err := ParseDataStreamHeader(d.cursor)
		if err == ErrUnderflow {
			return nil
		}
		if err != nil {
			return err
		}
		d.frameType = frameType
		switch m := msg.(type) {
		case ObjectPreamble:
			d.singlePreamble = m
		case StreamHeaderTrack:
			d.trackHeader = m
		case StreamHeaderGroup:
			d.groupHeader = m
		}
		d.headerParsed = true
		if d.onHeader != nil {
			d.onHeader(frameType, d.trackHeader, d.groupHeader, d.singlePreamble)
		}
	}

	switch d.frameType {
	case FrameObjectStream:
		return d.feedSingleObject(streamEnded)
	case FrameStreamHeaderTrack, FrameStreamHeaderGroup:
		return d.feedMultiObject(streamEnded)
	default:
		return nil
	}
}

func (d *DataStreamDriver) feedSingleObject(streamEnded bool) error {
	if n := d.cursor.Len(); n > 0 {
		chunk, _ := d.cursor.ReadBytes(uint64(n))
		if err := d.onEvent(ObjectEvent{
			Group:    d.singlePreamble.Group,
			ObjectID: d.singlePreamble.ObjectID,
			Status:   d.singlePreamble.Status,
			Payload:  chunk,
		}); err != nil {
			return err
		}
	}
	if streamEnded {
		return d.onEvent(ObjectEvent{
			Group:       d.singlePreamble.Group,
			ObjectID:    d.singlePreamble.ObjectID,
			Status:      d.singlePreamble.Status,
			EndOfObject: true,
		})
	}
	return nil
}

func (d *DataStreamDriver) feedMultiObject(streamEnded bool) error {
	for {
		if !d.inObject {
			mark := d.cursor.Mark()
			var (
				length uint64
				status ObjectStatus
				err    error
			)
			if d.frameType == FrameStreamHeaderTrack {
				var sub TrackObjectSubHeader
				sub, err = parseTrackObjectSubHeader(d.cursor)
				d.curGroup, d.curObjectID, length, status = sub.Group, sub.ID, sub.Length, sub.Status
			} else {
				var sub GroupObjectSubHeader
				sub, err = parseGroupObjectSubHeader(d.cursor)
				d.curGroup, d.curObjectID, length, status = d.groupHeader.Group, sub.ID, sub.Length, sub.Status
			}
			if err == ErrUnderflow {
				d.cursor.Reset(mark)
				d.cursor.Compact()
				return nil
			}
			if err != nil {
				return err
			}
			if length == 0 {
				if err := d.onEvent(ObjectEvent{
					Group:       d.curGroup,
					ObjectID:    d.curObjectID,
					Status:      status,
					EndOfObject: true,
				}); err != nil {
					return err
				}
				continue
			}
			d.inObject = true
			d.remaining = length
		}

		avail := uint64(d.cursor.Len())
		if avail == 0 {
			return nil
		}
		if avail > d.remaining {
			avail = d.remaining
		}
		chunk, _ := d.cursor.ReadBytes(avail)
		d.remaining -= avail
		done := d.remaining == 0
		if err := d.onEvent(ObjectEvent{
			Group:       d.curGroup,
			ObjectID:    d.curObjectID,
			Status:      ObjectStatusNormal,
			Payload:     chunk,
			EndOfObject: done,
		}); err != nil {
			return err
		}
		if done {
			d.inObject = false
			continue
		}
		return nil
	}
}

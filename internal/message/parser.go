package message

// Appendable is any message body that can serialize itself onto a growing
// byte slice.
type Appendable interface {
	Append(b []byte) []byte
}

// WriteControlMessage serializes a control frame: the frame-type tag
// followed by the body, in the exact field order ParseControlMessage
// expects to read them back.
func WriteControlMessage(frameType FrameType, body Appendable) []byte {
	b := AppendVarint(nil, uint64(frameType))
	return body.Append(b)
}

// ParseControlMessage reads one control-stream frame: its type tag and
// then its body. On ErrUnderflow the cursor is left exactly where it
// started, so the caller can append more bytes and retry the identical
// call.
func ParseControlMessage(c *Cursor) (FrameType, interface{}, error) {
	mark := c.Mark()
	tag, err := c.ReadVarint()
	if err != nil {
		return 0, nil, err
	}
	frameType := FrameType(tag)

	var (
		msg interface{}
		ferr error
	)
	switch frameType {
	case FrameClientSetup:
		msg, ferr = parseClientSetup(c)
	case FrameServerSetup:
		msg, ferr = parseServerSetup(c)
	case FrameSubscribe:
		msg, ferr = parseSubscribe(c)
	case FrameSubscribeUpdate:
		msg, ferr = parseSubscribeUpdate(c)
	case FrameSubscribeOk:
		msg, ferr = parseSubscribeOk(c)
	case FrameSubscribeError:
		msg, ferr = parseSubscribeError(c)
	case FrameUnsubscribe:
		msg, ferr = parseUnsubscribe(c)
	case FrameSubscribeDone:
		msg, ferr = parseSubscribeDone(c)
	case FrameAnnounce:
		msg, ferr = parseAnnounce(c)
	case FrameAnnounceOk:
		msg, ferr = parseAnnounceOk(c)
	case FrameAnnounceError:
		msg, ferr = parseAnnounceError(c)
	case FrameUnannounce:
		msg, ferr = parseUnannounce(c)
	case FrameAnnounceCancel:
		msg, ferr = parseAnnounceCancel(c)
	case FrameTrackStatusRequest:
		msg, ferr = parseTrackStatusRequest(c)
	case FrameTrackStatus:
		msg, ferr = parseTrackStatus(c)
	case FrameGoAway:
		msg, ferr = parseGoAway(c)
	default:
		c.Reset(mark)
		return frameType, nil, &InvalidMessage{Reason: "unknown control frame type"}
	}
	if ferr != nil {
		c.Reset(mark)
		return frameType, nil, ferr
	}
	return frameType, msg, nil
}

// WriteDataStreamHeader serializes the header that opens a unidirectional
// data stream.
func WriteDataStreamHeader(frameType FrameType, body Appendable) []byte {
	b := AppendVarint(nil, uint64(frameType))
	return body.Append(b)
}

// ParseDataStreamHeader reads the single header frame that opens a
// unidirectional data stream: OBJECT_STREAM, STREAM_HEADER_TRACK, or
// STREAM_HEADER_GROUP. OBJECT_DATAGRAM uses the same ObjectPreamble shape
// but arrives whole in a datagram, parsed directly via ParseObjectDatagram.
func ParseDataStreamHeader(c *Cursor) (FrameType, interface{}, error) {
	mark := c.Mark()
	tag, err := c.ReadVarint()
	if err != nil {
		return 0, nil, err
	}
	frameType := FrameType(tag)

	var (
		msg  interface{}
		ferr error
	)
	switch frameType {
	case FrameObjectStream:
		msg, ferr = parseObjectPreamble(c)
	case FrameStreamHeaderTrack:
		msg, ferr = parseStreamHeaderTrack(c)
	case FrameStreamHeaderGroup:
		msg, ferr = parseStreamHeaderGroup(c)
	default:
		c.Reset(mark)
		return frameType, nil, &InvalidMessage{Reason: "unknown data stream header frame type"}
	}
	if ferr != nil {
		c.Reset(mark)
		return frameType, nil, ferr
	}
	return frameType, msg, nil
}

// ParseObjectDatagram decodes a full OBJECT_DATAGRAM: tag, preamble, and
// the remaining bytes as payload. Unlike stream framing, a datagram always
// arrives as one complete unit, so payload parsing needs no driver support.
func ParseObjectDatagram(c *Cursor) (ObjectPreamble, []byte, error) {
	mark := c.Mark()
	tag, err := c.ReadVarint()
	if err != nil {
		return ObjectPreamble{}, nil, err
	}
	if FrameType(tag) != FrameObjectDatagram {
		c.Reset(mark)
		return ObjectPreamble{}, nil, &InvalidMessage{Reason: "expected OBJECT_DATAGRAM frame type"}
	}
	preamble, err := parseObjectPreamble(c)
	if err != nil {
		c.Reset(mark)
		return ObjectPreamble{}, nil, err
	}
	payload := c.buf[c.off:]
	c.off = len(c.buf)
	return preamble, payload, nil
}

// WriteObjectDatagram serializes a full OBJECT_DATAGRAM: tag, preamble, and
// payload.
func WriteObjectDatagram(preamble ObjectPreamble, payload []byte) []byte {
	b := AppendVarint(nil, uint64(FrameObjectDatagram))
	b = preamble.Append(b)
	b = append(b, payload...)
	return b
}

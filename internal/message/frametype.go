package message

// FrameType is the varint tag that opens every control message and every
// data-stream header.
type FrameType uint64

const (
	FrameObjectStream       FrameType = 0x00
	FrameObjectDatagram     FrameType = 0x01
	FrameSubscribeUpdate    FrameType = 0x02
	FrameSubscribe          FrameType = 0x03
	FrameSubscribeOk        FrameType = 0x04
	FrameSubscribeError     FrameType = 0x05
	FrameAnnounce           FrameType = 0x06
	FrameAnnounceOk         FrameType = 0x07
	FrameAnnounceError      FrameType = 0x08
	FrameUnannounce         FrameType = 0x09
	FrameUnsubscribe        FrameType = 0x0A
	FrameSubscribeDone      FrameType = 0x0B
	FrameAnnounceCancel     FrameType = 0x0C
	FrameTrackStatusRequest FrameType = 0x0D
	FrameTrackStatus        FrameType = 0x0E
	FrameGoAway             FrameType = 0x10
	FrameClientSetup        FrameType = 0x40
	FrameServerSetup        FrameType = 0x41
	FrameStreamHeaderTrack  FrameType = 0x50
	FrameStreamHeaderGroup  FrameType = 0x51
)

// GroupOrder is the negotiated or requested delivery order of groups within
// a track.
type GroupOrder byte

const (
	GroupOrderDefault    GroupOrder = 0
	GroupOrderOldestFirst GroupOrder = 1
	GroupOrderNewestFirst GroupOrder = 2
)

// LocationType selects which of AbsoluteLocation's fields a SUBSCRIBE
// populates.
type LocationType uint64

const (
	LocationLatestGroup  LocationType = 1
	LocationLatestObject LocationType = 2
	LocationAbsoluteStart LocationType = 3
	LocationAbsoluteRange LocationType = 4
)

// ForwardPreference is the publisher-chosen delivery mode for an object.
type ForwardPreference int

const (
	ForwardTrack ForwardPreference = iota
	ForwardGroup
	ForwardObject
	ForwardDatagram
)

// ObjectStatus is the terminal status of an object or group carried on the
// wire when the object itself has no payload.
type ObjectStatus uint64

const (
	ObjectStatusNormal            ObjectStatus = 0
	ObjectStatusDoesNotExist      ObjectStatus = 1
	ObjectStatusEndOfGroup        ObjectStatus = 2
	ObjectStatusEndOfTrackAndGroup ObjectStatus = 3
)

// AbsoluteLocation is a (group, object) pair, lexicographically ordered.
type AbsoluteLocation struct {
	Group  uint64
	Object uint64
}

func (l AbsoluteLocation) append(b []byte) []byte {
	b = AppendVarint(b, l.Group)
	b = AppendVarint(b, l.Object)
	return b
}

func readAbsoluteLocation(c *Cursor) (AbsoluteLocation, error) {
	mark := c.Mark()
	group, err := c.ReadVarint()
	if err != nil {
		return AbsoluteLocation{}, err
	}
	object, err := c.ReadVarint()
	if err != nil {
		c.Reset(mark)
		return AbsoluteLocation{}, err
	}
	return AbsoluteLocation{Group: group, Object: object}, nil
}

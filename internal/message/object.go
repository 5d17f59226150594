package message

// maxObjectStatus is the highest valid ObjectStatus value; anything above
// it is a parse error.
const maxObjectStatus = uint64(ObjectStatusEndOfTrackAndGroup)

func readObjectStatus(c *Cursor) (ObjectStatus, error) {
	v, err := c.ReadVarint()
	if err != nil {
		return 0, err
	}
	if v > maxObjectStatus {
		return 0, &ParseError{Field: "status", Value: v}
	}
	return ObjectStatus(v), nil
}

// ObjectPreamble is the fixed header that opens an OBJECT_STREAM or
// OBJECT_DATAGRAM; the remaining bytes to the end of the stream or datagram
// are the object's payload and are read directly by the codec driver.
type ObjectPreamble struct {
	SubscribeID SubscribeID
	TrackAlias  TrackAlias
	Group       uint64
	ObjectID    uint64
	Priority    byte
	Status      ObjectStatus
}

func (m ObjectPreamble) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(m.SubscribeID))
	b = AppendVarint(b, uint64(m.TrackAlias))
	b = AppendVarint(b, m.Group)
	b = AppendVarint(b, m.ObjectID)
	b = AppendUint8(b, m.Priority)
	b = AppendVarint(b, uint64(m.Status))
	return b
}

func parseObjectPreamble(c *Cursor) (ObjectPreamble, error) {
	mark := c.Mark()
	fail := func(err error) (ObjectPreamble, error) {
		c.Reset(mark)
		return ObjectPreamble{}, err
	}
	subID, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	alias, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	group, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	id, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	priority, err := c.ReadUint8()
	if err != nil {
		return fail(err)
	}
	status, err := readObjectStatus(c)
	if err != nil {
		return fail(err)
	}
	return ObjectPreamble{
		SubscribeID: SubscribeID(subID),
		TrackAlias:  TrackAlias(alias),
		Group:       group,
		ObjectID:    id,
		Priority:    priority,
		Status:      status,
	}, nil
}

// StreamHeaderTrack opens a Track-mode data stream: one stream carries every
// group of a single track.
type StreamHeaderTrack struct {
	SubscribeID SubscribeID
	TrackAlias  TrackAlias
	Priority    byte
}

func (m StreamHeaderTrack) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(m.SubscribeID))
	b = AppendVarint(b, uint64(m.TrackAlias))
	b = AppendUint8(b, m.Priority)
	return b
}

func parseStreamHeaderTrack(c *Cursor) (StreamHeaderTrack, error) {
	mark := c.Mark()
	fail := func(err error) (StreamHeaderTrack, error) {
		c.Reset(mark)
		return StreamHeaderTrack{}, err
	}
	subID, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	alias, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	priority, err := c.ReadUint8()
	if err != nil {
		return fail(err)
	}
	return StreamHeaderTrack{SubscribeID: SubscribeID(subID), TrackAlias: TrackAlias(alias), Priority: priority}, nil
}

// TrackObjectSubHeader is repeated on a Track-mode stream, one per object.
type TrackObjectSubHeader struct {
	Group  uint64
	ID     uint64
	Length uint64
	Status ObjectStatus
}

func (m TrackObjectSubHeader) Append(b []byte) []byte {
	b = AppendVarint(b, m.Group)
	b = AppendVarint(b, m.ID)
	b = AppendVarint(b, m.Length)
	if m.Length == 0 {
		b = AppendVarint(b, uint64(m.Status))
	}
	return b
}

func parseTrackObjectSubHeader(c *Cursor) (TrackObjectSubHeader, error) {
	mark := c.Mark()
	fail := func(err error) (TrackObjectSubHeader, error) {
		c.Reset(mark)
		return TrackObjectSubHeader{}, err
	}
	group, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	id, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	length, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	var status ObjectStatus
	if length == 0 {
		status, err = readObjectStatus(c)
		if err != nil {
			return fail(err)
		}
	}
	return TrackObjectSubHeader{Group: group, ID: id, Length: length, Status: status}, nil
}

// StreamHeaderGroup opens a Group-mode data stream: one stream carries every
// object of a single group.
type StreamHeaderGroup struct {
	SubscribeID SubscribeID
	TrackAlias  TrackAlias
	Group       uint64
	Priority    byte
}

func (m StreamHeaderGroup) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(m.SubscribeID))
	b = AppendVarint(b, uint64(m.TrackAlias))
	b = AppendVarint(b, m.Group)
	b = AppendUint8(b, m.Priority)
	return b
}

func parseStreamHeaderGroup(c *Cursor) (StreamHeaderGroup, error) {
	mark := c.Mark()
	fail := func(err error) (StreamHeaderGroup, error) {
		c.Reset(mark)
		return StreamHeaderGroup{}, err
	}
	subID, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	alias, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	group, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	priority, err := c.ReadUint8()
	if err != nil {
		return fail(err)
	}
	return StreamHeaderGroup{SubscribeID: SubscribeID(subID), TrackAlias: TrackAlias(alias), Group: group, Priority: priority}, nil
}

// GroupObjectSubHeader is repeated on a Group-mode stream, one per object.
type GroupObjectSubHeader struct {
	ID     uint64
	Length uint64
	Status ObjectStatus
}

func (m GroupObjectSubHeader) Append(b []byte) []byte {
	b = AppendVarint(b, m.ID)
	b = AppendVarint(b, m.Length)
	if m.Length == 0 {
		b = AppendVarint(b, uint64(m.Status))
	}
	return b
}

func parseGroupObjectSubHeader(c *Cursor) (GroupObjectSubHeader, error) {
	mark := c.Mark()
	fail := func(err error) (GroupObjectSubHeader, error) {
		c.Reset(mark)
		return GroupObjectSubHeader{}, err
	}
	id, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	length, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	var status ObjectStatus
	if length == 0 {
		status, err = readObjectStatus(c)
		if err != nil {
			return fail(err)
		}
	}
	return GroupObjectSubHeader{ID: id, Length: length, Status: status}, nil
}

package message

// TrackStatusCode reports whether a track is live, finished, or unknown to
// the responding peer.
type TrackStatusCode uint64

const (
	TrackStatusInProgress  TrackStatusCode = 0x0
	TrackStatusDoesNotExist TrackStatusCode = 0x1
	TrackStatusNotStarted   TrackStatusCode = 0x2
	TrackStatusFinished     TrackStatusCode = 0x3
)

// TrackStatusRequestMessage asks a publisher for a track's current status.
type TrackStatusRequestMessage struct {
	TrackNamespace string
	TrackName      string
}

func (m TrackStatusRequestMessage) Append(b []byte) []byte {
	b = AppendString(b, m.TrackNamespace)
	b = AppendString(b, m.TrackName)
	return b
}

func parseTrackStatusRequest(c *Cursor) (TrackStatusRequestMessage, error) {
	mark := c.Mark()
	ns, err := c.ReadString()
	if err != nil {
		return TrackStatusRequestMessage{}, err
	}
	name, err := c.ReadString()
	if err != nil {
		c.Reset(mark)
		return TrackStatusRequestMessage{}, err
	}
	return TrackStatusRequestMessage{TrackNamespace: ns, TrackName: name}, nil
}

// TrackStatusMessage answers a TRACK_STATUS_REQUEST. Latest always carries
// two varints on the wire, zeroed when the status code makes them
// meaningless; see the Open Question resolutions in DESIGN.md.
type TrackStatusMessage struct {
	TrackNamespace string
	TrackName      string
	StatusCode     TrackStatusCode
	Latest         AbsoluteLocation
}

func (m TrackStatusMessage) Append(b []byte) []byte {
	b = AppendString(b, m.TrackNamespace)
	b = AppendString(b, m.TrackName)
	b = AppendVarint(b, uint64(m.StatusCode))
	b = m.Latest.append(b)
	return b
}

func parseTrackStatus(c *Cursor) (TrackStatusMessage, error) {
	mark := c.Mark()
	fail := func(err error) (TrackStatusMessage, error) {
		c.Reset(mark)
		return TrackStatusMessage{}, err
	}
	ns, err := c.ReadString()
	if err != nil {
		return fail(err)
	}
	name, err := c.ReadString()
	if err != nil {
		return fail(err)
	}
	status, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	latest, err := readAbsoluteLocation(c)
	if err != nil {
		return fail(err)
	}
	return TrackStatusMessage{
		TrackNamespace: ns,
		TrackName:      name,
		StatusCode:     TrackStatusCode(status),
		Latest:         latest,
	}, nil
}

package message

// Version is a MoQT protocol version number negotiated during setup.
type Version uint64

// ClientSetupMessage is sent once by the client to open a session.
type ClientSetupMessage struct {
	Versions   []Version
	Parameters Parameters
}

// Append serializes the message body (without the frame type tag) to b.
func (m ClientSetupMessage) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(len(m.Versions)))
	for _, v := range m.Versions {
		b = AppendVarint(b, uint64(v))
	}
	b = m.Parameters.append(b)
	return b
}

func parseClientSetup(c *Cursor) (ClientSetupMessage, error) {
	mark := c.Mark()
	count, err := c.ReadVarint()
	if err != nil {
		return ClientSetupMessage{}, err
	}
	if count > uint64(c.Len()) {
		// Every version takes at least one byte on the wire; a count this
		// large cannot possibly be backed by the bytes on hand yet, so treat
		// it as underflow instead of trusting it as an allocation hint.
		c.Reset(mark)
		return ClientSetupMessage{}, ErrUnderflow
	}
	versions := make([]Version, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := c.ReadVarint()
		if err != nil {
			c.Reset(mark)
			return ClientSetupMessage{}, err
		}
		versions = append(versions, Version(v))
	}
	params, err := readParameters(c)
	if err != nil {
		c.Reset(mark)
		return ClientSetupMessage{}, err
	}
	return ClientSetupMessage{Versions: versions, Parameters: params}, nil
}

// ServerSetupMessage is sent once by the server in reply, selecting exactly
// one of the client's proposed versions.
type ServerSetupMessage struct {
	SelectedVersion Version
	Parameters      Parameters
}

func (m ServerSetupMessage) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(m.SelectedVersion))
	b = m.Parameters.append(b)
	return b
}

func parseServerSetup(c *Cursor) (ServerSetupMessage, error) {
	mark := c.Mark()
	v, err := c.ReadVarint()
	if err != nil {
		return ServerSetupMessage{}, err
	}
	params, err := readParameters(c)
	if err != nil {
		c.Reset(mark)
		return ServerSetupMessage{}, err
	}
	return ServerSetupMessage{SelectedVersion: Version(v), Parameters: params}, nil
}

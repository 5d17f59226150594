package message

// GoAwayMessage asks the receiving peer to migrate to a new session URI and
// begins graceful shutdown of the current one.
type GoAwayMessage struct {
	NewSessionURI string
}

func (m GoAwayMessage) Append(b []byte) []byte {
	return AppendString(b, m.NewSessionURI)
}

func parseGoAway(c *Cursor) (GoAwayMessage, error) {
	uri, err := c.ReadString()
	if err != nil {
		return GoAwayMessage{}, err
	}
	return GoAwayMessage{NewSessionURI: uri}, nil
}

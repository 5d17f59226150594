package message

// AnnounceErrorCode is the reason ANNOUNCE_ERROR or ANNOUNCE_CANCEL gives
// for refusing or withdrawing a namespace advertisement.
type AnnounceErrorCode uint64

const (
	AnnounceErrorInternal        AnnounceErrorCode = 0x0
	AnnounceErrorDuplicated      AnnounceErrorCode = 0x1
	AnnounceErrorInvalidStatus   AnnounceErrorCode = 0x2
	AnnounceErrorUninterested    AnnounceErrorCode = 0x3
	AnnounceErrorBannedPrefix    AnnounceErrorCode = 0x4
	AnnounceErrorInvalidPrefix   AnnounceErrorCode = 0x5
)

// DefaultAnnounceErrorReason pairs each AnnounceErrorCode with the reason
// string used when the application supplies none.
var DefaultAnnounceErrorReason = map[AnnounceErrorCode]string{
	AnnounceErrorInternal:      "internal error",
	AnnounceErrorDuplicated:    "namespace already announced",
	AnnounceErrorInvalidStatus: "invalid announce status",
	AnnounceErrorUninterested:  "uninterested",
	AnnounceErrorBannedPrefix:  "banned prefix",
	AnnounceErrorInvalidPrefix: "invalid prefix",
}

// AnnounceMessage advertises a namespace the publisher can serve.
type AnnounceMessage struct {
	TrackNamespace string
	Parameters     Parameters
}

func (m AnnounceMessage) Append(b []byte) []byte {
	b = AppendString(b, m.TrackNamespace)
	b = m.Parameters.append(b)
	return b
}

func parseAnnounce(c *Cursor) (AnnounceMessage, error) {
	mark := c.Mark()
	ns, err := c.ReadString()
	if err != nil {
		return AnnounceMessage{}, err
	}
	params, err := readParameters(c)
	if err != nil {
		c.Reset(mark)
		return AnnounceMessage{}, err
	}
	return AnnounceMessage{TrackNamespace: ns, Parameters: params}, nil
}

// AnnounceOkMessage acknowledges an ANNOUNCE.
type AnnounceOkMessage struct {
	TrackNamespace string
}

func (m AnnounceOkMessage) Append(b []byte) []byte {
	return AppendString(b, m.TrackNamespace)
}

func parseAnnounceOk(c *Cursor) (AnnounceOkMessage, error) {
	ns, err := c.ReadString()
	if err != nil {
		return AnnounceOkMessage{}, err
	}
	return AnnounceOkMessage{TrackNamespace: ns}, nil
}

// AnnounceErrorMessage refuses an ANNOUNCE.
type AnnounceErrorMessage struct {
	TrackNamespace string
	Code           AnnounceErrorCode
	Reason         string
}

func (m AnnounceErrorMessage) Append(b []byte) []byte {
	b = AppendString(b, m.TrackNamespace)
	b = AppendVarint(b, uint64(m.Code))
	b = AppendString(b, m.Reason)
	return b
}

func parseAnnounceError(c *Cursor) (AnnounceErrorMessage, error) {
	mark := c.Mark()
	fail := func(err error) (AnnounceErrorMessage, error) {
		c.Reset(mark)
		return AnnounceErrorMessage{}, err
	}
	ns, err := c.ReadString()
	if err != nil {
		return fail(err)
	}
	code, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	reason, err := c.ReadString()
	if err != nil {
		return fail(err)
	}
	return AnnounceErrorMessage{TrackNamespace: ns, Code: AnnounceErrorCode(code), Reason: reason}, nil
}

// UnannounceMessage withdraws a previously announced namespace.
type UnannounceMessage struct {
	TrackNamespace string
}

func (m UnannounceMessage) Append(b []byte) []byte {
	return AppendString(b, m.TrackNamespace)
}

func parseUnannounce(c *Cursor) (UnannounceMessage, error) {
	ns, err := c.ReadString()
	if err != nil {
		return UnannounceMessage{}, err
	}
	return UnannounceMessage{TrackNamespace: ns}, nil
}

// AnnounceCancelMessage tells a subscriber-side peer that an announced
// namespace is being withdrawn with a reason.
type AnnounceCancelMessage struct {
	TrackNamespace string
	Code           AnnounceErrorCode
	Reason         string
}

func (m AnnounceCancelMessage) Append(b []byte) []byte {
	b = AppendString(b, m.TrackNamespace)
	b = AppendVarint(b, uint64(m.Code))
	b = AppendString(b, m.Reason)
	return b
}

func parseAnnounceCancel(c *Cursor) (AnnounceCancelMessage, error) {
	mark := c.Mark()
	fail := func(err error) (AnnounceCancelMessage, error) {
		c.Reset(mark)
		return AnnounceCancelMessage{}, err
	}
	ns, err := c.ReadString()
	if err != nil {
		return fail(err)
	}
	code, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	reason, err := c.ReadString()
	if err != nil {
		return fail(err)
	}
	return AnnounceCancelMessage{TrackNamespace: ns, Code: AnnounceErrorCode(code), Reason: reason}, nil
}

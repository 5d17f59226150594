package message

// SubscribeErrorCode is the reason SUBSCRIBE_ERROR gives for refusing a
// subscription.
type SubscribeErrorCode uint64

const (
	SubscribeErrorInternal           SubscribeErrorCode = 0x0
	SubscribeErrorInvalidRange       SubscribeErrorCode = 0x1
	SubscribeErrorRetryTrackAlias    SubscribeErrorCode = 0x2
	SubscribeErrorTrackDoesNotExist  SubscribeErrorCode = 0x3
	SubscribeErrorUnauthorized       SubscribeErrorCode = 0x4
	SubscribeErrorTimeout            SubscribeErrorCode = 0x5
)

// DefaultSubscribeErrorReason pairs each SubscribeErrorCode with the reason
// string used when the application supplies none, per the original
// implementation's error-code reason table.
var DefaultSubscribeErrorReason = map[SubscribeErrorCode]string{
	SubscribeErrorInternal:          "internal error",
	SubscribeErrorInvalidRange:      "invalid range",
	SubscribeErrorRetryTrackAlias:   "retry with new track alias",
	SubscribeErrorTrackDoesNotExist: "track does not exist",
	SubscribeErrorUnauthorized:      "unauthorized",
	SubscribeErrorTimeout:           "timed out",
}

// SubscribeMessage requests delivery of objects from a track.
type SubscribeMessage struct {
	SubscribeID        SubscribeID
	TrackAlias         TrackAlias
	TrackNamespace     string
	TrackName          string
	SubscriberPriority  byte
	GroupOrder          GroupOrder
	LocationType        LocationType
	Start               AbsoluteLocation
	End                 AbsoluteLocation
	Parameters          Parameters
}

func (m SubscribeMessage) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(m.SubscribeID))
	b = AppendVarint(b, uint64(m.TrackAlias))
	b = AppendString(b, m.TrackNamespace)
	b = AppendString(b, m.TrackName)
	b = AppendUint8(b, m.SubscriberPriority)
	b = AppendUint8(b, byte(m.GroupOrder))
	b = AppendVarint(b, uint64(m.LocationType))
	if m.LocationType == LocationAbsoluteStart || m.LocationType == LocationAbsoluteRange {
		b = m.Start.append(b)
	}
	if m.LocationType == LocationAbsoluteRange {
		b = m.End.append(b)
	}
	b = m.Parameters.append(b)
	return b
}

func parseSubscribe(c *Cursor) (SubscribeMessage, error) {
	mark := c.Mark()
	fail := func(err error) (SubscribeMessage, error) {
		c.Reset(mark)
		return SubscribeMessage{}, err
	}

	subID, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	alias, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	ns, err := c.ReadString()
	if err != nil {
		return fail(err)
	}
	name, err := c.ReadString()
	if err != nil {
		return fail(err)
	}
	priority, err := c.ReadUint8()
	if err != nil {
		return fail(err)
	}
	groupOrderByte, err := c.ReadUint8()
	if err != nil {
		return fail(err)
	}
	if groupOrderByte > byte(GroupOrderNewestFirst) {
		return fail(&ParseError{Field: "groupOrder", Value: uint64(groupOrderByte)})
	}
	locType, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	if locType < uint64(LocationLatestGroup) || locType > uint64(LocationAbsoluteRange) {
		return fail(&ParseError{Field: "locationType", Value: locType})
	}

	var start, end AbsoluteLocation
	if LocationType(locType) == LocationAbsoluteStart || LocationType(locType) == LocationAbsoluteRange {
		start, err = readAbsoluteLocation(c)
		if err != nil {
			return fail(err)
		}
	}
	if LocationType(locType) == LocationAbsoluteRange {
		end, err = readAbsoluteLocation(c)
		if err != nil {
			return fail(err)
		}
	}
	params, err := readParameters(c)
	if err != nil {
		return fail(err)
	}
	return SubscribeMessage{
		SubscribeID:        SubscribeID(subID),
		TrackAlias:         TrackAlias(alias),
		TrackNamespace:     ns,
		TrackName:          name,
		SubscriberPriority: priority,
		GroupOrder:         GroupOrder(groupOrderByte),
		LocationType:       LocationType(locType),
		Start:              start,
		End:                end,
		Parameters:         params,
	}, nil
}

// SubscribeUpdateMessage narrows the range or priority of a live
// subscription.
type SubscribeUpdateMessage struct {
	SubscribeID        SubscribeID
	Start              AbsoluteLocation
	End                AbsoluteLocation
	SubscriberPriority byte
	Parameters         Parameters
}

func (m SubscribeUpdateMessage) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(m.SubscribeID))
	b = m.Start.append(b)
	b = m.End.append(b)
	b = AppendUint8(b, m.SubscriberPriority)
	b = m.Parameters.append(b)
	return b
}

func parseSubscribeUpdate(c *Cursor) (SubscribeUpdateMessage, error) {
	mark := c.Mark()
	fail := func(err error) (SubscribeUpdateMessage, error) {
		c.Reset(mark)
		return SubscribeUpdateMessage{}, err
	}
	subID, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	start, err := readAbsoluteLocation(c)
	if err != nil {
		return fail(err)
	}
	end, err := readAbsoluteLocation(c)
	if err != nil {
		return fail(err)
	}
	priority, err := c.ReadUint8()
	if err != nil {
		return fail(err)
	}
	params, err := readParameters(c)
	if err != nil {
		return fail(err)
	}
	return SubscribeUpdateMessage{
		SubscribeID:        SubscribeID(subID),
		Start:              start,
		End:                end,
		SubscriberPriority: priority,
		Parameters:         params,
	}, nil
}

// SubscribeOkMessage accepts a subscription and resolves its ready promise.
type SubscribeOkMessage struct {
	SubscribeID   SubscribeID
	ExpiresMs     uint64
	GroupOrder    GroupOrder
	ContentExists bool
	Latest        AbsoluteLocation
	Parameters    Parameters
}

func (m SubscribeOkMessage) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(m.SubscribeID))
	b = AppendVarint(b, m.ExpiresMs)
	b = AppendUint8(b, byte(m.GroupOrder))
	b = AppendUint8(b, boolToByte(m.ContentExists))
	if m.ContentExists {
		b = m.Latest.append(b)
	}
	b = m.Parameters.append(b)
	return b
}

func parseSubscribeOk(c *Cursor) (SubscribeOkMessage, error) {
	mark := c.Mark()
	fail := func(err error) (SubscribeOkMessage, error) {
		c.Reset(mark)
		return SubscribeOkMessage{}, err
	}
	subID, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	expires, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	groupOrderByte, err := c.ReadUint8()
	if err != nil {
		return fail(err)
	}
	if groupOrderByte != byte(GroupOrderOldestFirst) && groupOrderByte != byte(GroupOrderNewestFirst) {
		return fail(&InvalidMessage{Reason: "SUBSCRIBE_OK groupOrder must resolve to oldest-first or newest-first"})
	}
	contentExistsByte, err := c.ReadUint8()
	if err != nil {
		return fail(err)
	}
	if contentExistsByte > 1 {
		return fail(&ParseError{Field: "contentExists", Value: uint64(contentExistsByte)})
	}
	contentExists := contentExistsByte == 1
	var latest AbsoluteLocation
	if contentExists {
		latest, err = readAbsoluteLocation(c)
		if err != nil {
			return fail(err)
		}
	}
	params, err := readParameters(c)
	if err != nil {
		return fail(err)
	}
	return SubscribeOkMessage{
		SubscribeID:   SubscribeID(subID),
		ExpiresMs:     expires,
		GroupOrder:    GroupOrder(groupOrderByte),
		ContentExists: contentExists,
		Latest:        latest,
		Parameters:    params,
	}, nil
}

// SubscribeErrorMessage refuses a subscription. RetryTrackAlias is always
// present on the wire but only meaningful when Code ==
// SubscribeErrorRetryTrackAlias; see the Open Question resolutions in
// DESIGN.md.
type SubscribeErrorMessage struct {
	SubscribeID     SubscribeID
	Code            SubscribeErrorCode
	Reason          string
	RetryTrackAlias TrackAlias
}

func (m SubscribeErrorMessage) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(m.SubscribeID))
	b = AppendVarint(b, uint64(m.Code))
	b = AppendString(b, m.Reason)
	b = AppendVarint(b, uint64(m.RetryTrackAlias))
	return b
}

func parseSubscribeError(c *Cursor) (SubscribeErrorMessage, error) {
	mark := c.Mark()
	fail := func(err error) (SubscribeErrorMessage, error) {
		c.Reset(mark)
		return SubscribeErrorMessage{}, err
	}
	subID, err := c.ReadVarint()
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
	retryAlias, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	return SubscribeErrorMessage{
		SubscribeID:     SubscribeID(subID),
		Code:            SubscribeErrorCode(code),
		Reason:          reason,
		RetryTrackAlias: TrackAlias(retryAlias),
	}, nil
}

// UnsubscribeMessage cancels a live subscription.
type UnsubscribeMessage struct {
	SubscribeID SubscribeID
}

func (m UnsubscribeMessage) Append(b []byte) []byte {
	return AppendVarint(b, uint64(m.SubscribeID))
}

func parseUnsubscribe(c *Cursor) (UnsubscribeMessage, error) {
	subID, err := c.ReadVarint()
	if err != nil {
		return UnsubscribeMessage{}, err
	}
	return UnsubscribeMessage{SubscribeID: SubscribeID(subID)}, nil
}

// SubscribeDoneMessage tells a subscriber its subscription has ended and no
// further objects will be delivered.
type SubscribeDoneMessage struct {
	SubscribeID   SubscribeID
	StatusCode    uint64
	Reason        string
	ContentExists bool
	FinalObject   AbsoluteLocation
}

func (m SubscribeDoneMessage) Append(b []byte) []byte {
	b = AppendVarint(b, uint64(m.SubscribeID))
	b = AppendVarint(b, m.StatusCode)
	b = AppendString(b, m.Reason)
	b = AppendUint8(b, boolToByte(m.ContentExists))
	if m.ContentExists {
		b = m.FinalObject.append(b)
	}
	return b
}

func parseSubscribeDone(c *Cursor) (SubscribeDoneMessage, error) {
	mark := c.Mark()
	fail := func(err error) (SubscribeDoneMessage, error) {
		c.Reset(mark)
		return SubscribeDoneMessage{}, err
	}
	subID, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	status, err := c.ReadVarint()
	if err != nil {
		return fail(err)
	}
	reason, err := c.ReadString()
	if err != nil {
		return fail(err)
	}
	contentExistsByte, err := c.ReadUint8()
	if err != nil {
		return fail(err)
	}
	if contentExistsByte > 1 {
		return fail(&ParseError{Field: "contentExists", Value: uint64(contentExistsByte)})
	}
	contentExists := contentExistsByte == 1
	var final AbsoluteLocation
	if contentExists {
		final, err = readAbsoluteLocation(c)
		if err != nil {
			return fail(err)
		}
	}
	return SubscribeDoneMessage{
		SubscribeID:   SubscribeID(subID),
		StatusCode:    status,
		Reason:        reason,
		ContentExists: contentExists,
		FinalObject:   final,
	}, nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSetupRoundTrip(t *testing.T) {
	params := NewParameters()
	params.SetRole(RolePublisherSubscriber)
	want := ClientSetupMessage{
		Versions:   []Version{0xff000001},
		Parameters: params,
	}
	wire := WriteControlMessage(FrameClientSetup, want)

	frameType, msg, err := ParseControlMessage(NewCursor(wire))
	require.NoError(t, err)
	assert.Equal(t, FrameClientSetup, frameType)
	got := msg.(ClientSetupMessage)
	assert.Equal(t, want.Versions, got.Versions)
	role, ok := got.Parameters.Role()
	assert.True(t, ok)
	assert.Equal(t, RolePublisherSubscriber, role)
}

func TestSubscribeRoundTrip(t *testing.T) {
	want := SubscribeMessage{
		SubscribeID:        1,
		TrackAlias:         1,
		TrackNamespace:     "ns",
		TrackName:          "t",
		SubscriberPriority: 128,
		GroupOrder:         GroupOrderOldestFirst,
		LocationType:       LocationLatestObject,
		Parameters:         NewParameters(),
	}
	wire := WriteControlMessage(FrameSubscribe, want)

	frameType, msg, err := ParseControlMessage(NewCursor(wire))
	require.NoError(t, err)
	assert.Equal(t, FrameSubscribe, frameType)
	assert.Equal(t, want, msg.(SubscribeMessage))
}

func TestSubscribeUpdateRoundTrip(t *testing.T) {
	want := SubscribeUpdateMessage{
		SubscribeID:        1,
		Start:              AbsoluteLocation{Group: 2, Object: 0},
		End:                AbsoluteLocation{Group: 5, Object: 0},
		SubscriberPriority: 200,
		Parameters:         NewParameters(),
	}
	wire := WriteControlMessage(FrameSubscribeUpdate, want)

	frameType, msg, err := ParseControlMessage(NewCursor(wire))
	require.NoError(t, err)
	assert.Equal(t, FrameSubscribeUpdate, frameType)
	assert.Equal(t, want, msg.(SubscribeUpdateMessage))
}

func TestRoleRejectsOutOfRangeValue(t *testing.T) {
	params := NewParameters()
	params.SetRole(Role(0))
	wire := WriteControlMessage(FrameClientSetup, ClientSetupMessage{
		Versions:   []Version{0xff000001},
		Parameters: params,
	})

	_, _, err := ParseControlMessage(NewCursor(wire))
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestSubscribeOkRejectsZeroGroupOrder(t *testing.T) {
	bad := SubscribeOkMessage{
		SubscribeID: 1,
		ExpiresMs:   1000,
		GroupOrder:  GroupOrderDefault,
		Parameters:  NewParameters(),
	}
	wire := WriteControlMessage(FrameSubscribeOk, bad)

	_, _, err := ParseControlMessage(NewCursor(wire))
	require.Error(t, err)
	var invalid *InvalidMessage
	assert.ErrorAs(t, err, &invalid)
}

func TestObjectStatusEnumGating(t *testing.T) {
	preamble := ObjectPreamble{SubscribeID: 1, TrackAlias: 1, Group: 0, ObjectID: 0, Priority: 1, Status: 3}
	wire := preamble.Append(nil)
	// Corrupt the trailing status varint to an out-of-range value.
	wire[len(wire)-1] = 9

	c := NewCursor(wire)
	_, err := parseObjectPreamble(c)
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

// TestUnderflowReplay feeds a SUBSCRIBE frame to the control driver one
// byte at a time; per spec §8's "Underflow replay" scenario, no callback
// fires until the final byte, and then exactly once.
func TestUnderflowReplay(t *testing.T) {
	want := SubscribeMessage{
		SubscribeID:        7,
		TrackAlias:         7,
		TrackNamespace:     "ns",
		TrackName:          "track",
		SubscriberPriority: 10,
		GroupOrder:         GroupOrderNewestFirst,
		LocationType:       LocationAbsoluteRange,
		Start:              AbsoluteLocation{Group: 1, Object: 0},
		End:                AbsoluteLocation{Group: 5, Object: 0},
		Parameters:         NewParameters(),
	}
	wire := WriteControlMessage(FrameSubscribe, want)

	var calls int
	var got SubscribeMessage
	driver := NewControlDriver(func(frameType FrameType, msg interface{}) error {
		calls++
		got = msg.(SubscribeMessage)
		return nil
	})

	for i := 0; i < len(wire)-1; i++ {
		require.NoError(t, driver.Feed(wire[i:i+1]))
		assert.Equal(t, 0, calls, "no callback before the frame is complete")
	}
	require.NoError(t, driver.Feed(wire[len(wire)-1:]))
	assert.Equal(t, 1, calls)
	assert.Equal(t, want, got)
}

// TestPrefixSafety checks that every truncated prefix of a frame's wire
// bytes yields ErrUnderflow with the cursor left unconsumed.
func TestPrefixSafety(t *testing.T) {
	want := AnnounceMessage{TrackNamespace: "example.com/live", Parameters: NewParameters()}
	wire := WriteControlMessage(FrameAnnounce, want)

	for k := 0; k < len(wire); k++ {
		c := NewCursor(wire[:k])
		_, _, err := ParseControlMessage(c)
		assert.ErrorIs(t, err, ErrUnderflow)
		assert.Equal(t, 0, c.Mark(), "cursor must not advance on underflow")
	}

	c := NewCursor(wire)
	frameType, msg, err := ParseControlMessage(c)
	require.NoError(t, err)
	assert.Equal(t, FrameAnnounce, frameType)
	assert.Equal(t, want, msg.(AnnounceMessage))
}

func TestStreamHeaderGroupMultiObject(t *testing.T) {
	header := StreamHeaderGroup{SubscribeID: 2, TrackAlias: 2, Group: 5, Priority: 64}
	wire := WriteDataStreamHeader(FrameStreamHeaderGroup, header)
	wire = append(wire, GroupObjectSubHeader{ID: 0, Length: 3}.Append(nil)...)
	wire = append(wire, "abc"...)
	wire = append(wire, GroupObjectSubHeader{ID: 1, Length: 0, Status: ObjectStatusEndOfGroup}.Append(nil)...)

	var headerSeen FrameType
	var events []ObjectEvent
	driver := NewDataStreamDriver(
		func(frameType FrameType, trackHeader StreamHeaderTrack, groupHeader StreamHeaderGroup, single ObjectPreamble) {
			headerSeen = frameType
		},
		func(ev ObjectEvent) error {
			events = append(events, ev)
			return nil
		},
	)
	require.NoError(t, driver.Feed(wire, true))
	assert.Equal(t, FrameStreamHeaderGroup, headerSeen)
	require.Len(t, events, 2)
	assert.Equal(t, "abc", string(events[0].Payload))
	assert.True(t, events[0].EndOfObject)
	assert.Equal(t, uint64(1), events[1].ObjectID)
	assert.Equal(t, ObjectStatusEndOfGroup, events[1].Status)
	assert.True(t, events[1].EndOfObject)
}

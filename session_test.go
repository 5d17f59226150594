package moqt

import (
	"context"
	"testing"
	"time"

	"github.com/quicmoq/moqt/internal/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSessionPair wires a client and server Session together over
// fakeConn/fakeStream pairs and drives the setup handshake exactly as
// Dial/Server would, without any real transport.
func newTestSessionPair(t *testing.T) (client, server *Session, clientConn, serverConn *fakeConn) {
	t.Helper()

	clientConn = newFakeConn()
	serverConn = newFakeConn()
	linkFakeConns(clientConn, serverConn)

	clientControl, serverControl := newFakeStreamPair(0)

	cfg := &Config{SetupTimeout: 2 * time.Second}

	client = newSession(true, clientConn, clientControl, cfg, RolePublisherSubscriber)
	server = newSession(false, serverConn, serverControl, cfg, RolePublisherSubscriber)

	client.setState(stateInit)
	server.setState(stateInit)

	done := make(chan struct{})
	go func() {
		defer close(done)
		params := message.NewParameters()
		params.SetRole(RolePublisherSubscriber)
		require.NoError(t, client.writeSetupDirect(message.FrameClientSetup, message.ClientSetupMessage{
			Versions:   []Version{Default},
			Parameters: params,
		}))
		client.setState(stateSetupSent)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		setup, err := client.readServerSetup(ctx)
		require.NoError(t, err)
		require.Equal(t, Default, setup.SelectedVersion)
		client.setState(stateSetupReceived)
		client.setState(stateReady)
		close(client.readyCh)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	clientSetup, err := server.readClientSetup(ctx)
	require.NoError(t, err)
	require.Contains(t, clientSetup.Versions, Default)
	server.setState(stateSetupReceived)

	require.NoError(t, server.writeSetupDirect(message.FrameServerSetup, message.ServerSetupMessage{
		SelectedVersion: Default,
		Parameters:      message.NewParameters(),
	}))
	server.setState(stateSetupSent)
	server.setState(stateReady)
	close(server.readyCh)

	<-done

	client.start()
	server.start()

	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})

	return client, server, clientConn, serverConn
}

func TestSetupHandshakeReachesReady(t *testing.T) {
	client, server, _, _ := newTestSessionPair(t)
	assert.Equal(t, stateReady, client.getState())
	assert.Equal(t, stateReady, server.getState())
}

func TestSubscribeAcceptAndGroupDelivery(t *testing.T) {
	client, server, _, _ := newTestSessionPair(t)

	track := FullTrackName{Namespace: "live", Name: "cam1"}

	subCtx, subCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer subCancel()

	var handle *TrackHandle
	subDone := make(chan struct{})
	go func() {
		defer close(subDone)
		h, err := client.Subscribe(subCtx, SubscribeRequest{
			TrackAlias:   1,
			Track:        track,
			GroupOrder:   GroupOrderOldestFirst,
			LocationType: LocationLatestGroup,
			Parameters:   message.NewParameters(),
		})
		require.NoError(t, err)
		handle = h
	}()

	var incoming *IncomingSubscribe
	select {
	case ev := <-server.ControlMessages():
		var ok bool
		incoming, ok = ev.(*IncomingSubscribe)
		require.True(t, ok, "expected *IncomingSubscribe, got %T", ev)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for IncomingSubscribe")
	}
	assert.Equal(t, track, incoming.Track)

	require.NoError(t, incoming.Accept(SubscribeOkInfo{
		GroupOrder:    GroupOrderOldestFirst,
		ContentExists: false,
	}))

	<-subDone
	require.NotNil(t, handle)

	require.NoError(t, server.Publish(ObjectHeader{
		SubscribeID: incoming.SubscribeID,
		TrackAlias:  incoming.TrackAlias,
		Group:       7,
		ObjectID:    0,
		Forward:     ForwardGroup,
		Length:      uint64(len("hello")),
	}, 0, []byte("hello"), false))
	require.NoError(t, server.PublishStatus(ObjectHeader{
		SubscribeID: incoming.SubscribeID,
		TrackAlias:  incoming.TrackAlias,
		Group:       7,
		ObjectID:    1,
		Forward:     ForwardGroup,
		Status:      ObjectStatusEndOfGroup,
	}, true))

	var src *ObjectSource
	select {
	case src = <-handle.Objects():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for object")
	}
	assert.Equal(t, uint64(7), src.Group)
	assert.Equal(t, uint64(0), src.ObjectID)

	payloadCtx, payloadCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer payloadCancel()
	payload, err := src.Payload(payloadCtx)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)
}

func TestSubscribeRejectedWithRetryAlias(t *testing.T) {
	client, server, _, _ := newTestSessionPair(t)

	subCtx, subCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer subCancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := client.Subscribe(subCtx, SubscribeRequest{
			TrackAlias:   5,
			Track:        FullTrackName{Namespace: "live", Name: "cam2"},
			LocationType: LocationLatestGroup,
			Parameters:   message.NewParameters(),
		})
		errCh <- err
	}()

	var incoming *IncomingSubscribe
	select {
	case ev := <-server.ControlMessages():
		incoming = ev.(*IncomingSubscribe)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for IncomingSubscribe")
	}

	require.NoError(t, incoming.Reject(message.SubscribeErrorRetryTrackAlias, "", TrackAlias(99)))

	select {
	case err := <-errCh:
		require.Error(t, err)
		subErr, ok := err.(*SubscribeError)
		require.True(t, ok, "expected *SubscribeError, got %T", err)
		assert.True(t, subErr.HasRetryAlias)
		assert.Equal(t, TrackAlias(99), subErr.RetryTrackAlias)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscribe error")
	}
}

func TestSubscribeUpdateDoesNotTearDownSession(t *testing.T) {
	client, server, _, _ := newTestSessionPair(t)

	track := FullTrackName{Namespace: "live", Name: "cam3"}

	subCtx, subCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer subCancel()

	subDone := make(chan struct{})
	go func() {
		defer close(subDone)
		_, err := client.Subscribe(subCtx, SubscribeRequest{
			TrackAlias:   3,
			Track:        track,
			GroupOrder:   GroupOrderOldestFirst,
			LocationType: LocationLatestGroup,
			Parameters:   message.NewParameters(),
		})
		require.NoError(t, err)
	}()

	var incoming *IncomingSubscribe
	select {
	case ev := <-server.ControlMessages():
		var ok bool
		incoming, ok = ev.(*IncomingSubscribe)
		require.True(t, ok, "expected *IncomingSubscribe, got %T", ev)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for IncomingSubscribe")
	}
	require.NoError(t, incoming.Accept(SubscribeOkInfo{GroupOrder: GroupOrderOldestFirst}))
	<-subDone

	require.NoError(t, client.writeControl(message.FrameSubscribeUpdate, message.SubscribeUpdateMessage{
		SubscribeID:        incoming.SubscribeID,
		SubscriberPriority: 200,
		Parameters:         message.NewParameters(),
	}))

	select {
	case ev := <-server.ControlMessages():
		update, ok := ev.(*SubscribeUpdateEvent)
		require.True(t, ok, "expected *SubscribeUpdateEvent, got %T", ev)
		assert.Equal(t, incoming.SubscribeID, update.SubscribeID)
		assert.Equal(t, byte(200), update.SubscriberPriority)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for SubscribeUpdateEvent")
	}

	assert.Equal(t, stateReady, server.getState(), "a recognized control frame must not tear down the session")
	assert.Equal(t, stateReady, client.getState())
}

func TestAnnounceAcceptedRoundTrip(t *testing.T) {
	client, server, _, _ := newTestSessionPair(t)

	annCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.Announce(annCtx, Announce{TrackNamespace: "live", Parameters: message.NewParameters()})
	}()

	select {
	case ev := <-server.ControlMessages():
		incoming, ok := ev.(*IncomingAnnounce)
		require.True(t, ok, "expected *IncomingAnnounce, got %T", ev)
		require.NoError(t, incoming.Accept())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for IncomingAnnounce")
	}

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for announce resolution")
	}
}

// Package quic provides the transport abstraction the moqt session engine
// runs on: opening and accepting unidirectional and bidirectional streams,
// sending and receiving datagrams, and surfacing stream read/write handles.
// It abstracts over the underlying QUIC implementation so the moqt package
// never imports quic-go or webtransport-go directly.
package quic

import (
	"context"
	"net"

	"github.com/quic-go/quic-go"
)

// Connection is a QUIC connection or a WebTransport session: a transport
// capable of opening/accepting uni and bidi streams and exchanging
// datagrams. moqt.Session is built entirely on this interface.
type Connection interface {
	// AcceptStream waits for and accepts the next incoming bidirectional stream.
	AcceptStream(ctx context.Context) (Stream, error)

	// AcceptUniStream waits for and accepts the next incoming unidirectional stream.
	AcceptUniStream(ctx context.Context) (ReceiveStream, error)

	// CloseWithError closes the connection with an application error code and message.
	CloseWithError(code ApplicationErrorCode, msg string) error

	// ConnectionState returns the current state of the connection.
	ConnectionState() ConnectionState

	// ConnectionStats returns statistics about the connection.
	ConnectionStats() ConnectionStats

	// Context is canceled when the connection is closed.
	Context() context.Context

	// LocalAddr returns the local network address.
	LocalAddr() net.Addr

	// OpenStream opens a new bidirectional stream without blocking.
	OpenStream() (Stream, error)

	// OpenStreamSync opens a new bidirectional stream, blocking until complete.
	OpenStreamSync(ctx context.Context) (Stream, error)

	// OpenUniStream opens a new unidirectional stream without blocking.
	OpenUniStream() (SendStream, error)

	// OpenUniStreamSync opens a new unidirectional stream, blocking until complete.
	OpenUniStreamSync(ctx context.Context) (str SendStream, err error)

	// ReceiveDatagram blocks until an OBJECT_DATAGRAM-carrying datagram arrives.
	ReceiveDatagram(ctx context.Context) ([]byte, error)

	// RemoteAddr returns the remote network address.
	RemoteAddr() net.Addr

	// SendDatagram sends b as a single unreliable datagram.
	SendDatagram(b []byte) error
}

// ConnectionState holds information about the QUIC connection state.
type ConnectionState = quic.ConnectionState

type ConnectionStats = quic.ConnectionStats

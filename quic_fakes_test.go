package moqt

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/quicmoq/moqt/quic"
)

// fakeStream is an in-memory bidirectional quic.Stream backed by a pipe,
// grounded on the teacher's func-field MockStream style but simplified to
// a real io.Pipe so Read/Write block and synchronize the way a real QUIC
// stream would.
type fakeStream struct {
	id       quic.StreamID
	r        *io.PipeReader
	w        *io.PipeWriter
	closeMu  sync.Mutex
	closed   bool
}

func newFakeStreamPair(id quic.StreamID) (local, remote *fakeStream) {
	r1, w1 := io.Pipe()
	r2, w2 := io.Pipe()
	local = &fakeStream{id: id, r: r1, w: w2}
	remote = &fakeStream{id: id, r: r2, w: w1}
	return local, remote
}

func (s *fakeStream) StreamID() quic.StreamID { return s.id }

func (s *fakeStream) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *fakeStream) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *fakeStream) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.w.Close()
}

func (s *fakeStream) CancelRead(quic.StreamErrorCode)  { s.r.CloseWithError(io.ErrClosedPipe) }
func (s *fakeStream) CancelWrite(quic.StreamErrorCode) { s.w.CloseWithError(io.ErrClosedPipe) }

func (s *fakeStream) SetDeadline(time.Time) error      { return nil }
func (s *fakeStream) SetReadDeadline(time.Time) error  { return nil }
func (s *fakeStream) SetWriteDeadline(time.Time) error { return nil }

func (s *fakeStream) Context() context.Context { return context.Background() }

var (
	_ quic.Stream        = (*fakeStream)(nil)
	_ quic.ReceiveStream = (*fakeStream)(nil)
	_ quic.SendStream    = (*fakeStream)(nil)
)

// fakeConn is a minimal quic.Connection whose uni-stream and datagram
// traffic is delivered to a linked peer fakeConn, modeling the two ends of
// one connection. No real networking; AcceptStream is unsupported since
// the session engine only uses it for the single control stream, which
// tests wire up directly via newFakeStreamPair.
type fakeConn struct {
	peer *fakeConn

	incomingUniStreams chan quic.ReceiveStream
	incomingDatagrams  chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	closeArg string
}

func newFakeConn() *fakeConn {
	ctx, cancel := context.WithCancel(context.Background())
	return &fakeConn{
		incomingUniStreams: make(chan quic.ReceiveStream, 16),
		incomingDatagrams:  make(chan []byte, 16),
		ctx:                ctx,
		cancel:             cancel,
	}
}

// linkFakeConns connects a and b as the two ends of one fake connection:
// a stream a opens arrives on b's AcceptUniStream, and vice versa.
func linkFakeConns(a, b *fakeConn) {
	a.peer = b
	b.peer = a
}

func (c *fakeConn) AcceptStream(ctx context.Context) (quic.Stream, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (c *fakeConn) AcceptUniStream(ctx context.Context) (quic.ReceiveStream, error) {
	select {
	case rs := <-c.incomingUniStreams:
		return rs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, io.EOF
	}
}

func (c *fakeConn) CloseWithError(code quic.ApplicationErrorCode, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.closeArg = msg
	c.cancel()
	return nil
}

func (c *fakeConn) ConnectionState() quic.ConnectionState { return quic.ConnectionState{} }
func (c *fakeConn) ConnectionStats() quic.ConnectionStats { return quic.ConnectionStats{} }
func (c *fakeConn) Context() context.Context              { return c.ctx }
func (c *fakeConn) LocalAddr() net.Addr                   { return &net.IPAddr{} }
func (c *fakeConn) RemoteAddr() net.Addr                  { return &net.IPAddr{} }

func (c *fakeConn) OpenStream() (quic.Stream, error) { return nil, io.ErrClosedPipe }
func (c *fakeConn) OpenStreamSync(ctx context.Context) (quic.Stream, error) {
	return nil, io.ErrClosedPipe
}

func (c *fakeConn) OpenUniStream() (quic.SendStream, error) { return nil, io.ErrClosedPipe }

func (c *fakeConn) OpenUniStreamSync(ctx context.Context) (quic.SendStream, error) {
	if c.peer == nil {
		return nil, io.ErrClosedPipe
	}
	local, remote := newFakeStreamPair(0)
	c.peer.incomingUniStreams <- remote
	return local, nil
}

func (c *fakeConn) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	select {
	case b := <-c.incomingDatagrams:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, io.EOF
	}
}

func (c *fakeConn) SendDatagram(b []byte) error {
	if c.peer == nil {
		return io.ErrClosedPipe
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	c.peer.incomingDatagrams <- cp
	return nil
}

var _ quic.Connection = (*fakeConn)(nil)

package moqt

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/quicmoq/moqt/internal/message"
	"github.com/quicmoq/moqt/quic"
)

// Server accepts MoQT connections over a native QUIC listener, performing
// the server side of the setup handshake (spec §4.5: Init -> SetupReceived
// -> SetupSent -> Ready) for each one before handing the resulting Session
// to the application.
type Server struct {
	Listener quic.Listener
	Config   *Config

	// Accepted receives each Session once its setup handshake completes.
	// The application is expected to range over this channel.
	Accepted chan *Session

	logger *slog.Logger
	closed atomic.Bool
}

// NewServer wraps an already-listening quic.Listener. The caller is
// responsible for constructing the listener (e.g. via
// quicgo.ListenAddrEarly) with whatever TLS/QUIC config it needs; cfg
// governs the MoQT-level session settings applied to every accepted
// connection.
func NewServer(ln quic.Listener, cfg *Config) *Server {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Server{
		Listener: ln,
		Config:   cfg,
		Accepted: make(chan *Session, 8),
		logger:   cfg.logger(),
	}
}

// Serve accepts connections until ctx is done or the listener errors,
// running each connection's setup handshake in its own goroutine so a slow
// or malicious client can't stall other connections.
func (srv *Server) Serve(ctx context.Context) error {
	for {
		conn, err := srv.Listener.Accept(ctx)
		if err != nil {
			if srv.closed.Load() {
				return ErrServerClosed
			}
			return err
		}
		go srv.handleConnection(ctx, conn)
	}
}

func (srv *Server) handleConnection(ctx context.Context, conn quic.Connection) {
	control, err := conn.AcceptStream(ctx)
	if err != nil {
		srv.logger.Warn("failed to accept control stream", "error", err)
		_ = conn.CloseWithError(0, "control stream not opened")
		return
	}

	s := newSession(false, conn, control, srv.Config, srv.Config.role())
	s.setState(stateInit)

	setupCtx, cancel := context.WithTimeout(ctx, srv.Config.setupTimeout())
	defer cancel()

	clientSetup, err := s.readClientSetup(setupCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrSetupTimeout
		}
		srv.logger.Warn("setup handshake failed", "error", err)
		_ = conn.CloseWithError(0, err.Error())
		return
	}
	s.setState(stateSetupReceived)

	selected, ok := negotiateVersion(srv.Config.versions(), clientSetup.Versions)
	if !ok {
		_ = conn.CloseWithError(0, "no common version")
		return
	}

	params := message.NewParameters()
	params.SetRole(srv.Config.role())
	if err := s.writeSetupDirect(message.FrameServerSetup, message.ServerSetupMessage{
		SelectedVersion: selected,
		Parameters:      params,
	}); err != nil {
		srv.logger.Warn("failed to send SERVER_SETUP", "error", err)
		return
	}
	s.setState(stateSetupSent)
	s.setState(stateReady)
	close(s.readyCh)

	s.start()

	select {
	case srv.Accepted <- s:
	case <-ctx.Done():
		_ = s.Close()
	}
}

func negotiateVersion(serverSupported []Version, clientProposed []Version) (Version, bool) {
	for _, sv := range serverSupported {
		for _, cv := range clientProposed {
			if sv == cv {
				return sv, true
			}
		}
	}
	return 0, false
}

// Close closes the listener, preventing further Accepts. A Serve call
// blocked in Accept returns ErrServerClosed rather than the listener's raw
// close error.
func (srv *Server) Close() error {
	srv.closed.Store(true)
	return srv.Listener.Close()
}

package moqt

import (
	"context"
	"errors"
	"net/url"

	"github.com/quicmoq/moqt/internal/message"
	"github.com/quicmoq/moqt/quic"
	"github.com/quicmoq/moqt/quic/quicgo"
	"github.com/quicmoq/moqt/webtransport"
	"github.com/quicmoq/moqt/webtransport/webtransportgo"
)

// Dial opens a MoQT session to addr as a client, performing the setup
// handshake of spec §4.5 before returning: it dials the transport
// appropriate to addr's scheme (moqt:// for native QUIC, https:// for
// WebTransport), opens the control stream, sends CLIENT_SETUP, and waits
// for SERVER_SETUP.
func Dial(ctx context.Context, addr string, role Role, cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}

	var conn quic.Connection
	switch u.Scheme {
	case "moqt":
		conn, err = quicgo.DialAddrEarly(ctx, u.Host, cfg.TLSConfig, cfg.QUICConfig)
	case "https":
		var dial webtransport.DialAddrFunc = webtransportgo.Dial
		_, conn, err = dial(ctx, addr, nil, cfg.TLSConfig)
	default:
		return nil, ErrInvalidScheme
	}
	if err != nil {
		return nil, err
	}

	control, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}

	s := newSession(true, conn, control, cfg, role)
	s.setState(stateInit)

	params := message.NewParameters()
	params.SetRole(role)
	if err := s.writeSetupDirect(message.FrameClientSetup, message.ClientSetupMessage{
		Versions:   cfg.versions(),
		Parameters: params,
	}); err != nil {
		return nil, err
	}
	s.setState(stateSetupSent)

	setupCtx, cancel := context.WithTimeout(ctx, cfg.setupTimeout())
	defer cancel()
	serverSetup, err := s.readServerSetup(setupCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			_ = conn.CloseWithError(0, ErrSetupTimeout.Error())
			return nil, ErrSetupTimeout
		}
		return nil, err
	}
	if !versionSupported(cfg.versions(), serverSetup.SelectedVersion) {
		_ = conn.CloseWithError(0, "unsupported version selected")
		return nil, ErrUnsupportedVersion
	}
	s.setState(stateSetupReceived)
	s.setState(stateReady)
	close(s.readyCh)

	s.start()
	return s, nil
}

func versionSupported(supported []Version, selected Version) bool {
	for _, v := range supported {
		if v == selected {
			return true
		}
	}
	return false
}

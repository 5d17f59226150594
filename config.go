package moqt

import (
	"crypto/tls"
	"io"
	"log/slog"
	"time"

	"github.com/quicmoq/moqt/quic"
)

// Config carries the settings a Session is constructed with: the
// transport's TLS and QUIC parameters, the versions this endpoint will
// propose or accept, and the tuning knobs for setup and internal queues.
type Config struct {
	TLSConfig  *tls.Config
	QUICConfig *quic.Config

	// SupportedVersions is tried in order during setup. Defaults to
	// []Version{Default} when nil.
	SupportedVersions []Version

	// SetupTimeout bounds the setup handshake; expiry is fatal. Defaults to
	// 10 seconds when zero.
	SetupTimeout time.Duration

	// ControlQueueSize bounds the number of outbound control messages
	// buffered before Session.writeControl blocks. Defaults to 64.
	ControlQueueSize int

	// ObjectQueueSize bounds the number of payload chunks buffered per
	// ObjectSource before the receiving session's data-stream reader blocks.
	// Defaults to 32.
	ObjectQueueSize int

	// Logger receives structured session logs. Defaults to a discarding
	// logger when nil.
	Logger *slog.Logger

	// Role is this endpoint's own negotiated capability (publisher,
	// subscriber, or both), gating Subscribe/Publish per SPEC_FULL.md's
	// ROLE-gated operation validation. Only consulted by Server, which has
	// no other way to learn it; Dial takes its role as an explicit
	// parameter instead. Defaults to RolePublisherSubscriber when zero.
	Role Role
}

func (c *Config) versions() []Version {
	if len(c.SupportedVersions) > 0 {
		return c.SupportedVersions
	}
	return []Version{Default}
}

func (c *Config) setupTimeout() time.Duration {
	if c.SetupTimeout > 0 {
		return c.SetupTimeout
	}
	return 10 * time.Second
}

func (c *Config) controlQueueSize() int {
	if c.ControlQueueSize > 0 {
		return c.ControlQueueSize
	}
	return 64
}

func (c *Config) objectQueueSize() int {
	if c.ObjectQueueSize > 0 {
		return c.ObjectQueueSize
	}
	return 32
}

func (c *Config) role() Role {
	if c.Role != 0 {
		return c.Role
	}
	return RolePublisherSubscriber
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

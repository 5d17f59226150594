// Package moqt implements the core of a Media-over-QUIC Transport (MoQT)
// endpoint: a wire-format codec for control and data frames (package
// internal/message) plus a dual-role client/server session engine driving
// publish/subscribe semantics over a WebTransport-like substrate (packages
// quic and webtransport).
//
// A Session is constructed by Dial (client) or by a Server accepting an
// incoming connection, and drives one connection's setup handshake,
// subscribe/announce bookkeeping, and object dispatch for its lifetime.
//
// Congestion control, retransmission, media codec knowledge,
// authentication/authorization policy, and storage of objects past a live
// subscription are explicitly out of scope; callers compose those
// concerns around a Session.
package moqt

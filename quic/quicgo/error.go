package quicgo

// wrapError passes quic-go errors through unchanged: quic.TransportError,
// quic.ApplicationError, and quic.StreamError are all type aliases to their
// quic-go counterparts (see ../error.go), so callers can type-assert
// directly against the quic package's exported error types.
func wrapError(err error) error {
	return err
}

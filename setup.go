package moqt

import (
	"context"
	"fmt"

	"github.com/quicmoq/moqt/internal/message"
)

// writeSetupDirect writes a setup-phase message straight to the control
// stream, bypassing controlOut: the write goroutine isn't running yet
// during the handshake in Dial/the server's accept path.
func (s *Session) writeSetupDirect(frameType message.FrameType, body message.Appendable) error {
	b := message.WriteControlMessage(frameType, body)
	_, err := s.control.Write(b)
	return err
}

// readServerSetup blocks on the control stream until a complete
// SERVER_SETUP frame arrives, or ctx is done.
func (s *Session) readServerSetup(ctx context.Context) (message.ServerSetupMessage, error) {
	msg, err := s.readSetupFrame(ctx, message.FrameServerSetup)
	if err != nil {
		return message.ServerSetupMessage{}, err
	}
	setup, ok := msg.(message.ServerSetupMessage)
	if !ok {
		return message.ServerSetupMessage{}, &ProtocolViolation{Reason: "expected SERVER_SETUP"}
	}
	return setup, nil
}

// readClientSetup blocks on the control stream until a complete
// CLIENT_SETUP frame arrives, or ctx is done.
func (s *Session) readClientSetup(ctx context.Context) (message.ClientSetupMessage, error) {
	msg, err := s.readSetupFrame(ctx, message.FrameClientSetup)
	if err != nil {
		return message.ClientSetupMessage{}, err
	}
	setup, ok := msg.(message.ClientSetupMessage)
	if !ok {
		return message.ClientSetupMessage{}, &ProtocolViolation{Reason: "expected CLIENT_SETUP"}
	}
	return setup, nil
}

// readSetupFrame reads and decodes exactly one control frame of the
// expected type directly off the control stream, blocking as needed: the
// setup handshake precedes the read-loop goroutine's startup.
func (s *Session) readSetupFrame(ctx context.Context, want message.FrameType) (interface{}, error) {
	type result struct {
		msg interface{}
		err error
	}
	done := make(chan result, 1)
	go func() {
		cursor := message.NewCursor(nil)
		buf := make([]byte, 4096)
		for {
			n, err := s.control.Read(buf)
			if n > 0 {
				cursor.Grow(buf[:n])
				frameType, msg, perr := message.ParseControlMessage(cursor)
				if perr == nil {
					if frameType != want {
						done <- result{nil, &ProtocolViolation{Reason: fmt.Sprintf("expected frame type %d, got %d", want, frameType)}}
						return
					}
					done <- result{msg, nil}
					return
				}
				if perr != message.ErrUnderflow {
					done <- result{nil, perr}
					return
				}
			}
			if err != nil {
				done <- result{nil, err}
				return
			}
		}
	}()

	select {
	case r := <-done:
		return r.msg, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

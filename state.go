package moqt

// sessionState is the setup handshake state machine of spec §4.5. Client:
// Init -> SetupSent -> SetupReceived -> Ready -> Closing -> Closed. Server:
// Init -> SetupReceived -> SetupSent -> Ready -> Closing -> Closed.
type sessionState int32

const (
	stateInit sessionState = iota
	stateSetupSent
	stateSetupReceived
	stateReady
	stateClosing
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateSetupSent:
		return "setup_sent"
	case stateSetupReceived:
		return "setup_received"
	case stateReady:
		return "ready"
	case stateClosing:
		return "closing"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

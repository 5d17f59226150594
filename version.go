package moqt

import "github.com/quicmoq/moqt/internal/message"

// Version is a MoQT protocol version number.
type Version = message.Version

// Default is the version this module proposes and accepts when the caller
// supplies no explicit list.
const Default Version = 0xff000001

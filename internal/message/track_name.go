package message

// FullTrackName identifies a track by its publisher-chosen namespace and
// name, both length-prefixed strings.
type FullTrackName struct {
	Namespace string
	Name      string
}

// SubscribeID is a connection-scoped identifier assigned by the subscriber
// at subscribe time, monotonically increasing per connection.
type SubscribeID uint64

// TrackAlias is a connection-scoped short identifier standing in for a
// FullTrackName once agreed between the peers.
type TrackAlias uint64

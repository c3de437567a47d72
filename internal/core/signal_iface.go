package core

// Frame is a raw payload delivered to a client, already encoded.
type Frame []byte

// SignalConnection abstracts the messaging transport endpoint of one
// session. Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
	// Alive reports whether the underlying connection still exists.
	// The presence reconciliation sweep uses it to drop sessions whose
	// connection vanished without a clean disconnect event.
	Alive() bool
}

package cluster

// Listener receives objects replicated from peers.
//
// ReceivedObject is called once per decoded frame. Calls for one peer
// connection are sequential and in arrival order; calls for different
// connections may run concurrently.
type Listener interface {
	ReceivedObject(obj any, op OpCode)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(obj any, op OpCode)

// ReceivedObject calls f(obj, op).
func (f ListenerFunc) ReceivedObject(obj any, op OpCode) {
	f(obj, op)
}

// Metrics observes node activity. Implementations must be safe for
// concurrent use.
type Metrics interface {
	FrameSent(op OpCode, typ string)
	FrameReceived(op OpCode, typ string)
	FrameError(reason string)
	PeerConnected(inbound bool)
	PeerDisconnected(inbound bool)
}

type nopMetrics struct{}

func (nopMetrics) FrameSent(OpCode, string)     {}
func (nopMetrics) FrameReceived(OpCode, string) {}
func (nopMetrics) FrameError(string)            {}
func (nopMetrics) PeerConnected(bool)           {}
func (nopMetrics) PeerDisconnected(bool)        {}

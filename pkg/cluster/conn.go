package cluster

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/aaamesh-go/pkg/bytebuf"
	"github.com/yndnr/aaamesh-go/pkg/codec"
)

const readChunkSize = 4096

type delivery struct {
	obj any
	op  OpCode
}

// peerConn is one TCP connection to a peer, inbound or outbound.
type peerConn struct {
	id      string
	node    *Node
	nc      net.Conn
	remote  string
	inbound bool
	since   time.Time

	wmu  sync.Mutex
	rbuf *bytebuf.Buffer

	queue     chan delivery
	closed    chan struct{}
	closeOnce sync.Once
}

func newPeerConn(n *Node, nc net.Conn, inbound bool) *peerConn {
	c := &peerConn{
		id:      "conn-" + strings.ToLower(ulid.Make().String()),
		node:    n,
		nc:      nc,
		remote:  nc.RemoteAddr().String(),
		inbound: inbound,
		since:   time.Now(),
		rbuf:    bytebuf.New(readChunkSize),
		closed:  make(chan struct{}),
	}
	if n.cfg.DeliveryQueueSize > 0 {
		c.queue = make(chan delivery, n.cfg.DeliveryQueueSize)
	}
	return c
}

func (c *peerConn) info() PeerInfo {
	return PeerInfo{
		ID:          c.id,
		RemoteAddr:  c.remote,
		LocalAddr:   c.nc.LocalAddr().String(),
		Inbound:     c.inbound,
		ConnectedAt: c.since,
	}
}

// writeFrame writes one complete frame. Concurrent callers are serialized.
func (c *peerConn) writeFrame(p []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}

	if wt := c.node.cfg.WriteTimeout; wt > 0 {
		if err := c.nc.SetWriteDeadline(time.Now().Add(wt)); err != nil {
			return err
		}
	}
	_, err := c.nc.Write(p)
	return err
}

func (c *peerConn) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.nc.Close()
	})
}

func (c *peerConn) readLoop() {
	n := c.node
	defer n.wg.Done()
	defer n.removeConn(c)
	defer c.close()

	chunk := make([]byte, readChunkSize)
	for {
		k, err := c.nc.Read(chunk)
		if k > 0 {
			c.rbuf.Append(chunk[:k])
			if derr := c.drain(); derr != nil {
				if !n.closing() {
					n.metrics.FrameError(errorReason(derr))
					n.logger.Warn("dropping peer connection",
						"peer", c.id,
						"remote", c.remote,
						"error", derr)
				}
				return
			}
		}
		if err != nil {
			switch {
			case n.closing():
			case errors.Is(err, io.EOF):
				if left := c.rbuf.Remaining(); left > 0 {
					n.metrics.FrameError(errorReason(ErrTruncatedFrame))
					n.logger.Warn("peer closed mid-frame",
						"peer", c.id,
						"remote", c.remote,
						"error", fmt.Errorf("%w: %d bytes pending", ErrTruncatedFrame, left))
				}
			case errors.Is(err, net.ErrClosed):
			default:
				n.logger.Debug("peer read failed", "peer", c.id, "remote", c.remote, "error", err)
			}
			return
		}
	}
}

// drain decodes every complete frame in rbuf and delivers it. A partial
// frame stays buffered until more bytes arrive.
func (c *peerConn) drain() error {
	n := c.node
	for c.rbuf.Remaining() > 0 {
		mark := c.rbuf.Mark()
		f, err := ReadFrame(c.rbuf, n.cfg.MaxPayloadSize)
		if errors.Is(err, bytebuf.ErrUnderflow) {
			c.rbuf.Rewind(mark)
			break
		}
		if err != nil {
			return err
		}

		// rbuf is compacted below, so the payload must not alias it.
		payload := bytebuf.Wrap(append([]byte(nil), f.Payload...))
		obj, err := n.registry.Decode(f.Type, payload)
		if err != nil {
			return fmt.Errorf("decode %s: %w", f.Type, err)
		}
		if left := payload.Remaining(); left > 0 {
			return fmt.Errorf("%w: %s left %d bytes", ErrTrailingBytes, f.Type, left)
		}

		n.metrics.FrameReceived(f.Op, f.Type)
		if !c.deliver(delivery{obj: obj, op: f.Op}) {
			return nil
		}
	}
	c.rbuf.Compact()
	return nil
}

func (c *peerConn) deliver(d delivery) bool {
	if c.queue == nil {
		return c.dispatch(d)
	}
	select {
	case c.queue <- d:
		return true
	case <-c.closed:
		return false
	}
}

// deliverLoop drains the delivery queue. When the connection closes, items
// already queued are still delivered unless the node is shutting down.
func (c *peerConn) deliverLoop() {
	defer c.node.wg.Done()
	for {
		select {
		case d := <-c.queue:
			c.dispatch(d)
		case <-c.closed:
			for {
				select {
				case d := <-c.queue:
					if !c.dispatch(d) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

// dispatch hands one object to the listener. A panicking listener is
// logged and does not take the connection down.
func (c *peerConn) dispatch(d delivery) (ok bool) {
	n := c.node
	if n.closing() {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("listener panicked",
				"peer", c.id,
				"op", d.op.String(),
				"panic", r)
		}
	}()
	ok = true
	n.listener.ReceivedObject(d.obj, d.op)
	return ok
}

// errorReason maps a framing error to a metric label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidOpCode):
		return "invalid_op"
	case errors.Is(err, ErrFrameTooLarge):
		return "too_large"
	case errors.Is(err, ErrTrailingBytes):
		return "trailing_bytes"
	case errors.Is(err, ErrTruncatedFrame):
		return "truncated"
	case errors.Is(err, codec.ErrUnregisteredType):
		return "unregistered_type"
	default:
		return "decode"
	}
}

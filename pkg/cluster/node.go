package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/aaamesh-go/pkg/codec"
)

// State is the lifecycle state of a Node.
type State int32

const (
	StateInitializing State = iota
	StateListening
	StateShuttingDown
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateListening:
		return "listening"
	case StateShuttingDown:
		return "shutting_down"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Identity identifies a node: bind host, listen port and auxiliary port.
type Identity struct {
	Host    string
	Port    int
	AuxPort int
}

// String returns "host:port/aux".
func (i Identity) String() string {
	return net.JoinHostPort(i.Host, strconv.Itoa(i.Port)) + "/" + strconv.Itoa(i.AuxPort)
}

// PeerInfo describes one live peer connection.
type PeerInfo struct {
	ID          string
	RemoteAddr  string
	LocalAddr   string
	Inbound     bool
	ConnectedAt time.Time
}

// Node replicates objects to and from its peer connections.
//
// Each connection has its own reader goroutine; the accept loop has one
// more. Writes to a connection are serialized so frames never interleave.
type Node struct {
	cfg      Config
	registry *codec.Registry
	listener Listener
	logger   *slog.Logger
	metrics  Metrics
	limiter  *rate.Limiter

	ctx      context.Context
	cancel   context.CancelFunc
	ready    chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu    sync.Mutex
	state State
	ln    net.Listener
	conns map[string]*peerConn
}

// NewNode creates a node. It does not bind until Start is called.
func NewNode(cfg Config, registry *codec.Registry, l Listener) (*Node, error) {
	if registry == nil {
		return nil, errors.New("cluster: nil codec registry")
	}
	if l == nil {
		return nil, errors.New("cluster: nil listener")
	}
	cfg.applyDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	n := &Node{
		cfg:      cfg,
		registry: registry,
		listener: l,
		metrics:  cfg.Metrics,
		ctx:      ctx,
		cancel:   cancel,
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
		conns:    make(map[string]*peerConn),
	}
	if cfg.AcceptRate > 0 {
		n.limiter = rate.NewLimiter(rate.Limit(cfg.AcceptRate), cfg.AcceptBurst)
	}
	n.logger = cfg.Logger.With("component", "cluster", "node", n.Identity().String())
	return n, nil
}

// Listen creates a node and starts it.
func Listen(cfg Config, registry *codec.Registry, l Listener) (*Node, error) {
	n, err := NewNode(cfg, registry, l)
	if err != nil {
		return nil, err
	}
	if err := n.Start(); err != nil {
		return nil, err
	}
	return n, nil
}

// Start binds the listening socket and starts accepting peers.
//
// The socket is bound when Start returns, so peers may connect right away.
func (n *Node) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateListening:
		return ErrAlreadyStarted
	case StateShuttingDown, StateClosed:
		return ErrNodeClosed
	}

	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("cluster: listen %s: %w", addr, err)
	}

	n.ln = ln
	n.state = StateListening
	n.logger = n.cfg.Logger.With("component", "cluster", "node", n.identityLocked().String())

	n.wg.Add(1)
	go n.acceptLoop(ln)

	n.logger.Info("cluster node listening", "address", ln.Addr().String())
	return nil
}

// Ready is closed once the accept loop is running.
func (n *Node) Ready() <-chan struct{} {
	return n.ready
}

// Addr returns the bound listen address, or nil before Start.
func (n *Node) Addr() net.Addr {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ln == nil {
		return nil
	}
	return n.ln.Addr()
}

// Identity returns the node identity. Once started, Port is the bound port.
func (n *Node) Identity() Identity {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.identityLocked()
}

func (n *Node) identityLocked() Identity {
	id := Identity{Host: n.cfg.Host, Port: n.cfg.Port, AuxPort: n.cfg.AuxPort}
	if n.ln != nil {
		if tcp, ok := n.ln.Addr().(*net.TCPAddr); ok {
			id.Port = tcp.Port
		}
	}
	return id
}

// State returns the current lifecycle state.
func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Peers returns the live peer connections ordered by ID.
func (n *Node) Peers() []PeerInfo {
	n.mu.Lock()
	out := make([]PeerInfo, 0, len(n.conns))
	for _, c := range n.conns {
		out = append(out, c.info())
	}
	n.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ConnectTo opens a connection to a peer and starts reading from it.
// Connecting twice to the same peer yields two independent connections.
func (n *Node) ConnectTo(ctx context.Context, host string, port int) (PeerInfo, error) {
	switch n.State() {
	case StateInitializing:
		return PeerInfo{}, ErrNotStarted
	case StateShuttingDown, StateClosed:
		return PeerInfo{}, ErrNodeClosed
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	d := net.Dialer{Timeout: n.cfg.DialTimeout}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return PeerInfo{}, fmt.Errorf("cluster: connect %s: %w", addr, err)
	}

	c, err := n.addConn(nc, false)
	if err != nil {
		_ = nc.Close()
		return PeerInfo{}, err
	}
	return c.info(), nil
}

// WriteObject sends obj to every connected peer with OpWrite.
func (n *Node) WriteObject(obj any) error {
	return n.broadcast(OpWrite, obj)
}

// UpdateObject sends obj to every connected peer with OpUpdate.
func (n *Node) UpdateObject(obj any) error {
	return n.broadcast(OpUpdate, obj)
}

// DeleteObject sends obj to every connected peer with OpDelete.
func (n *Node) DeleteObject(obj any) error {
	return n.broadcast(OpDelete, obj)
}

// broadcast encodes obj once and writes the frame to each peer.
//
// Encoding errors are returned before anything is sent. A peer that fails
// is closed and listed in a *BroadcastError; the others still get the frame.
func (n *Node) broadcast(op OpCode, obj any) error {
	peers, err := n.snapshot()
	if err != nil {
		return err
	}

	frame, typ, err := encodeFrame(n.registry, op, obj)
	if err != nil {
		return err
	}

	if len(peers) == 0 {
		n.logger.Debug("no peers connected, frame not sent", "op", op.String(), "type", typ)
		return nil
	}

	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures map[string]error
	)
	g.SetLimit(n.cfg.BroadcastConcurrency)

	for _, c := range peers {
		g.Go(func() error {
			if err := c.writeFrame(frame); err != nil {
				mu.Lock()
				if failures == nil {
					failures = make(map[string]error)
				}
				failures[c.id] = err
				mu.Unlock()

				n.logger.Warn("failed to send frame, closing peer connection",
					"peer", c.id,
					"remote", c.remote,
					"op", op.String(),
					"type", typ,
					"error", err)
				c.close()
				return nil
			}
			n.metrics.FrameSent(op, typ)
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		return &BroadcastError{Op: op, Type: typ, Failures: failures}
	}
	return nil
}

// Shutdown stops accepting, closes every peer connection and waits for
// all goroutines to exit. Every call waits for the same teardown, so a call
// after an earlier one gave up on its context still waits for the readers.
// Once the node is closed, Shutdown returns nil.
func (n *Node) Shutdown(ctx context.Context) error {
	n.stopOnce.Do(n.stop)
	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Node) stop() {
	n.mu.Lock()
	if n.state == StateInitializing {
		// The accept loop never ran, so nothing else will close ready.
		close(n.ready)
	}
	n.state = StateShuttingDown
	n.cancel()
	ln := n.ln
	conns := make([]*peerConn, 0, len(n.conns))
	for _, c := range n.conns {
		conns = append(conns, c)
	}
	n.mu.Unlock()

	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			n.logger.Warn("closing listener failed", "error", err)
		}
	}
	for _, c := range conns {
		c.close()
	}

	go func() {
		n.wg.Wait()
		n.mu.Lock()
		n.state = StateClosed
		n.mu.Unlock()
		n.logger.Info("cluster node shut down", "closed_connections", len(conns))
		close(n.done)
	}()
}

func (n *Node) closing() bool {
	return n.ctx.Err() != nil
}

func (n *Node) snapshot() ([]*peerConn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateInitializing:
		return nil, ErrNotStarted
	case StateShuttingDown, StateClosed:
		return nil, ErrNodeClosed
	}

	out := make([]*peerConn, 0, len(n.conns))
	for _, c := range n.conns {
		out = append(out, c)
	}
	return out, nil
}

func (n *Node) acceptLoop(ln net.Listener) {
	defer n.wg.Done()
	close(n.ready)

	var backoff time.Duration
	for {
		if n.limiter != nil {
			if err := n.limiter.Wait(n.ctx); err != nil {
				return
			}
		}

		nc, err := ln.Accept()
		if err != nil {
			if n.closing() || errors.Is(err, net.ErrClosed) {
				return
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff *= 2; backoff > time.Second {
				backoff = time.Second
			}
			n.logger.Error("accept failed, retrying", "error", err, "backoff", backoff)
			select {
			case <-time.After(backoff):
				continue
			case <-n.ctx.Done():
				return
			}
		}
		backoff = 0

		if _, err := n.addConn(nc, true); err != nil {
			_ = nc.Close()
			return
		}
	}
}

// addConn registers a connection and starts its goroutines. It fails once
// shutdown has begun so that Shutdown never misses a connection.
func (n *Node) addConn(nc net.Conn, inbound bool) (*peerConn, error) {
	c := newPeerConn(n, nc, inbound)

	n.mu.Lock()
	if n.state != StateListening {
		n.mu.Unlock()
		return nil, ErrNodeClosed
	}
	n.conns[c.id] = c
	n.wg.Add(1)
	if c.queue != nil {
		n.wg.Add(1)
	}
	n.mu.Unlock()

	go c.readLoop()
	if c.queue != nil {
		go c.deliverLoop()
	}

	n.metrics.PeerConnected(inbound)
	n.logger.Info("peer connected",
		"peer", c.id,
		"remote", c.remote,
		"inbound", inbound)
	return c, nil
}

func (n *Node) removeConn(c *peerConn) {
	n.mu.Lock()
	_, ok := n.conns[c.id]
	delete(n.conns, c.id)
	n.mu.Unlock()

	if !ok {
		return
	}
	n.metrics.PeerDisconnected(c.inbound)
	n.logger.Info("peer disconnected", "peer", c.id, "remote", c.remote)
}

package cluster

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors returned by the cluster package.
var (
	ErrNodeClosed     = errors.New("cluster: node closed")
	ErrNotStarted     = errors.New("cluster: node not started")
	ErrAlreadyStarted = errors.New("cluster: node already started")
	ErrInvalidOpCode  = errors.New("cluster: invalid operation code")
	ErrFrameTooLarge  = errors.New("cluster: frame too large")
	ErrTrailingBytes  = errors.New("cluster: payload not fully consumed")
	ErrTruncatedFrame = errors.New("cluster: truncated frame")
)

// BroadcastError reports the peers a frame could not be written to.
// Peers not listed received the frame.
type BroadcastError struct {
	Op       OpCode
	Type     string
	Failures map[string]error // keyed by peer ID
}

// Error implements the error interface.
func (e *BroadcastError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for id := range e.Failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	fmt.Fprintf(&sb, "cluster: %s %s failed for %d peer(s)", e.Op, e.Type, len(e.Failures))
	for _, id := range ids {
		fmt.Fprintf(&sb, "; %s: %v", id, e.Failures[id])
	}
	return sb.String()
}

// Unwrap exposes the per-peer errors to errors.Is and errors.As.
func (e *BroadcastError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		errs = append(errs, err)
	}
	return errs
}

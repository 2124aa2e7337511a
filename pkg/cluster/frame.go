package cluster

import (
	"encoding/binary"
	"fmt"

	"github.com/yndnr/aaamesh-go/pkg/bytebuf"
	"github.com/yndnr/aaamesh-go/pkg/codec"
)

// OpCode tells the receiver what the sender intends with an object.
// The transport passes it through untouched.
type OpCode uint8

const (
	OpInvalid OpCode = iota
	OpWrite
	OpUpdate
	OpDelete
)

// String implements fmt.Stringer.
func (o OpCode) String() string {
	switch o {
	case OpWrite:
		return "write"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Valid reports whether o may appear on the wire.
func (o OpCode) Valid() bool {
	return o >= OpWrite && o <= OpDelete
}

// DefaultMaxPayloadSize bounds a single frame payload.
const DefaultMaxPayloadSize = 16 << 20

// Frame is one replicated object on the wire:
//
//	[op:1][type len:2][type:len][payload len:4][payload]
//
// All lengths are big-endian.
type Frame struct {
	Op      OpCode
	Type    string
	Payload []byte
}

// AppendTo writes f to buf.
func (f *Frame) AppendTo(buf *bytebuf.Buffer) error {
	if !f.Op.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOpCode, f.Op)
	}
	if uint64(len(f.Payload)) > 0xFFFFFFFF {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(f.Payload))
	}
	buf.AppendByte(byte(f.Op))
	if err := codec.PutRawString(buf, f.Type); err != nil {
		return fmt.Errorf("frame type: %w", err)
	}
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(f.Payload)))
	buf.Append(n[:])
	buf.Append(f.Payload)
	return nil
}

// ReadFrame reads one frame from buf.
//
// If buf does not hold a complete frame it returns an error wrapping
// bytebuf.ErrUnderflow; the caller must rewind and retry with more bytes.
// Payloads larger than maxPayload fail with ErrFrameTooLarge as soon as
// the header is readable. The returned payload aliases buf.
func ReadFrame(buf *bytebuf.Buffer, maxPayload int) (Frame, error) {
	c, err := buf.ReadByte()
	if err != nil {
		return Frame{}, err
	}
	op := OpCode(c)
	if !op.Valid() {
		return Frame{}, fmt.Errorf("%w: %d", ErrInvalidOpCode, c)
	}

	typ, err := codec.GetRawString(buf)
	if err != nil {
		return Frame{}, err
	}

	hdr, err := buf.ReadNext(4)
	if err != nil {
		return Frame{}, err
	}
	size := binary.BigEndian.Uint32(hdr)
	if maxPayload > 0 && uint64(size) > uint64(maxPayload) {
		return Frame{}, fmt.Errorf("%w: %d bytes (max %d)", ErrFrameTooLarge, size, maxPayload)
	}

	payload, err := buf.ReadNext(int(size))
	if err != nil {
		return Frame{}, err
	}
	return Frame{Op: op, Type: typ, Payload: payload}, nil
}

// encodeFrame encodes obj into a complete frame using reg.
func encodeFrame(reg *codec.Registry, op OpCode, obj any) ([]byte, string, error) {
	payload := bytebuf.New(256)
	name, err := reg.Encode(payload, obj)
	if err != nil {
		return nil, "", err
	}

	f := Frame{Op: op, Type: name, Payload: payload.Bytes()}
	out := bytebuf.New(1 + 2 + len(name) + 4 + len(f.Payload))
	if err := f.AppendTo(out); err != nil {
		return nil, "", err
	}
	return out.Bytes(), name, nil
}

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/yndnr/aaamesh-go/pkg/bytebuf"
)

// Presence markers.
const (
	markerAbsent  byte = 0
	markerPresent byte = 1
)

// MaxStringLen is the longest string the 2-byte length prefix can carry.
const MaxStringLen = math.MaxUint16

// Errors returned by the primitive codecs.
var (
	ErrStringTooLong = errors.New("codec: string too long")
	ErrListTooLong   = errors.New("codec: list too long")
	ErrInvalidMarker = errors.New("codec: invalid presence marker")
	ErrInvalidBool   = errors.New("codec: invalid bool value")
	ErrInvalidUTF8   = errors.New("codec: invalid utf-8 string")
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// PutString writes a nullable string.
func PutString(buf *bytebuf.Buffer, s *string) error {
	if s == nil {
		buf.AppendByte(markerAbsent)
		return nil
	}
	if len(*s) > MaxStringLen {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(*s))
	}
	buf.AppendByte(markerPresent)
	return PutRawString(buf, *s)
}

// GetString reads a nullable string.
func GetString(buf *bytebuf.Buffer) (*string, error) {
	ok, err := getMarker(buf)
	if err != nil || !ok {
		return nil, err
	}
	s, err := GetRawString(buf)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// PutRawString writes a non-nullable string: [len:2][bytes].
func PutRawString(buf *bytebuf.Buffer, s string) error {
	if len(s) > MaxStringLen {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], uint16(len(s)))
	buf.Append(hdr[:])
	buf.Append([]byte(s))
	return nil
}

// GetRawString reads a string written by PutRawString.
func GetRawString(buf *bytebuf.Buffer) (string, error) {
	hdr, err := buf.ReadNext(2)
	if err != nil {
		return "", err
	}
	p, err := buf.ReadNext(int(binary.BigEndian.Uint16(hdr)))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", ErrInvalidUTF8
	}
	return string(p), nil
}

// PutInt32 writes a nullable 32-bit integer.
func PutInt32(buf *bytebuf.Buffer, v *int32) error {
	if v == nil {
		buf.AppendByte(markerAbsent)
		return nil
	}
	var p [5]byte
	p[0] = markerPresent
	binary.BigEndian.PutUint32(p[1:], uint32(*v))
	buf.Append(p[:])
	return nil
}

// GetInt32 reads a nullable 32-bit integer.
func GetInt32(buf *bytebuf.Buffer) (*int32, error) {
	ok, err := getMarker(buf)
	if err != nil || !ok {
		return nil, err
	}
	p, err := buf.ReadNext(4)
	if err != nil {
		return nil, err
	}
	v := int32(binary.BigEndian.Uint32(p))
	return &v, nil
}

// PutInt64 writes a nullable 64-bit integer.
func PutInt64(buf *bytebuf.Buffer, v *int64) error {
	if v == nil {
		buf.AppendByte(markerAbsent)
		return nil
	}
	var p [9]byte
	p[0] = markerPresent
	binary.BigEndian.PutUint64(p[1:], uint64(*v))
	buf.Append(p[:])
	return nil
}

// GetInt64 reads a nullable 64-bit integer.
func GetInt64(buf *bytebuf.Buffer) (*int64, error) {
	ok, err := getMarker(buf)
	if err != nil || !ok {
		return nil, err
	}
	p, err := buf.ReadNext(8)
	if err != nil {
		return nil, err
	}
	v := int64(binary.BigEndian.Uint64(p))
	return &v, nil
}

// PutBool writes a nullable boolean.
func PutBool(buf *bytebuf.Buffer, v *bool) error {
	if v == nil {
		buf.AppendByte(markerAbsent)
		return nil
	}
	buf.AppendByte(markerPresent)
	if *v {
		buf.AppendByte(1)
	} else {
		buf.AppendByte(0)
	}
	return nil
}

// GetBool reads a nullable boolean.
func GetBool(buf *bytebuf.Buffer) (*bool, error) {
	ok, err := getMarker(buf)
	if err != nil || !ok {
		return nil, err
	}
	c, err := buf.ReadByte()
	if err != nil {
		return nil, err
	}
	var v bool
	switch c {
	case 0:
	case 1:
		v = true
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidBool, c)
	}
	return &v, nil
}

// PutStrings writes a nullable list of strings.
// A nil slice and an empty slice are distinct on the wire.
func PutStrings(buf *bytebuf.Buffer, list []string) error {
	if list == nil {
		buf.AppendByte(markerAbsent)
		return nil
	}
	if len(list) > math.MaxUint16 {
		return fmt.Errorf("%w: %d items", ErrListTooLong, len(list))
	}
	var hdr [3]byte
	hdr[0] = markerPresent
	binary.BigEndian.PutUint16(hdr[1:], uint16(len(list)))
	buf.Append(hdr[:])
	for i := range list {
		if err := PutString(buf, &list[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// GetStrings reads a list written by PutStrings.
func GetStrings(buf *bytebuf.Buffer) ([]string, error) {
	ok, err := getMarker(buf)
	if err != nil || !ok {
		return nil, err
	}
	hdr, err := buf.ReadNext(2)
	if err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint16(hdr))
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := GetString(buf)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if s == nil {
			return nil, fmt.Errorf("item %d: %w: null list item", i, ErrInvalidMarker)
		}
		list = append(list, *s)
	}
	return list, nil
}

func getMarker(buf *bytebuf.Buffer) (bool, error) {
	c, err := buf.ReadByte()
	if err != nil {
		return false, err
	}
	switch c {
	case markerAbsent:
		return false, nil
	case markerPresent:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %d", ErrInvalidMarker, c)
	}
}

package bytebuf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndReadNext(t *testing.T) {
	b := New(0)
	b.Append([]byte("hello"))
	b.AppendByte(' ')
	b.Append([]byte("world"))

	require.Equal(t, 11, b.Remaining())

	p, err := b.ReadNext(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(p))

	c, err := b.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(' '), c)

	p, err = b.ReadNext(5)
	require.NoError(t, err)
	assert.Equal(t, "world", string(p))
	assert.Equal(t, 0, b.Remaining())
}

func TestReadNext_Underflow(t *testing.T) {
	b := Wrap([]byte{1, 2, 3})

	_, err := b.ReadNext(4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnderflow))
	assert.Equal(t, 3, b.Remaining(), "failed read must not consume")

	_, err = New(0).ReadByte()
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestReadNext_Negative(t *testing.T) {
	_, err := Wrap([]byte{1}).ReadNext(-1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnderflow))
}

func TestGrowDoublesAndNeverShrinks(t *testing.T) {
	b := New(0)
	b.AppendByte(1)
	assert.Equal(t, MinCapacity, b.Cap())

	b.Append(make([]byte, MinCapacity))
	assert.Equal(t, 2*MinCapacity, b.Cap())

	b.Append(make([]byte, 5*MinCapacity))
	assert.Equal(t, 8*MinCapacity, b.Cap())

	capBefore := b.Cap()
	_, err := b.ReadNext(b.Remaining())
	require.NoError(t, err)
	b.Compact()
	b.Reset()
	assert.Equal(t, capBefore, b.Cap())
}

func TestMarkRewind(t *testing.T) {
	b := Wrap([]byte{0, 0, 0, 9, 'a', 'b'})

	mark := b.Mark()
	_, err := b.ReadNext(4)
	require.NoError(t, err)
	_, err = b.ReadNext(9)
	require.ErrorIs(t, err, ErrUnderflow)

	b.Rewind(mark)
	assert.Equal(t, 6, b.Remaining())

	assert.Panics(t, func() { b.Rewind(7) })
}

func TestCompact(t *testing.T) {
	b := New(8)
	b.Append([]byte("abcdef"))
	_, err := b.ReadNext(4)
	require.NoError(t, err)

	b.Compact()
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 0, b.Mark())
	assert.Equal(t, []byte("ef"), b.Bytes())

	b.Append([]byte("gh"))
	assert.Equal(t, []byte("efgh"), b.Bytes())
}

func TestBytesIsCopy(t *testing.T) {
	b := Wrap([]byte("abc"))
	out := b.Bytes()
	out[0] = 'z'

	p, err := b.ReadNext(1)
	require.NoError(t, err)
	assert.Equal(t, byte('a'), p[0])
}

func TestWriteTo(t *testing.T) {
	b := New(0)
	_, _ = b.Write([]byte("frame"))
	_, _ = b.ReadNext(1)

	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, "rame", out.String())
	assert.Equal(t, 0, b.Remaining())

	n, err = b.WriteTo(&out)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReadNextCapacityIsolation(t *testing.T) {
	b := New(0)
	b.Append([]byte("ab"))
	p, err := b.ReadNext(1)
	require.NoError(t, err)

	// Appending to a returned slice must not clobber unread bytes.
	p = append(p, 'x')
	_ = p
	rest, err := b.ReadNext(1)
	require.NoError(t, err)
	assert.Equal(t, byte('b'), rest[0])
}

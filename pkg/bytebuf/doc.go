// Package bytebuf provides a growable byte buffer with a read cursor.
//
// A Buffer is used in both directions of the replication protocol:
//
//   - Outgoing: frames and payloads are appended to the end.
//   - Incoming: socket reads are appended and complete frames are read
//     from the cursor.
//
// A short read returns ErrUnderflow without consuming anything. That is
// the signal to rewind to the frame start (Mark/Rewind), wait for more
// bytes and try again:
//
//	mark := buf.Mark()
//	hdr, err := buf.ReadNext(7)
//	if errors.Is(err, bytebuf.ErrUnderflow) {
//		buf.Rewind(mark)
//		return // read more from the socket
//	}
//
// The backing array is never handed out; callers see copies (Bytes) or
// slices returned by ReadNext, which stay valid until the next Append,
// Compact or Reset.
//
// A Buffer is not safe for concurrent use.
package bytebuf

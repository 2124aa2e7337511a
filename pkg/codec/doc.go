// Package codec maps application types to binary encoders and decoders.
//
// Every node taking part in replication must register the same codecs
// under the same discriminators; a type known on one side only is a
// protocol error on the other.
//
// A Registry is an explicit value passed to each cluster node. Nothing is
// registered globally, so tests and several nodes in one process never
// share codec state.
//
// Registering a type:
//
//	reg := codec.NewRegistry()
//	err := codec.RegisterFuncs(reg,
//		func(buf *bytebuf.Buffer, u *User) error {
//			return codec.PutString(buf, u.Name)
//		},
//		func(buf *bytebuf.Buffer) (*User, error) {
//			name, err := codec.GetString(buf)
//			return &User{Name: name}, err
//		})
//
// Primitive codecs are null-aware: a nil pointer is written as a single
// marker byte and decodes back to nil, never to a zero value.
//
//	string   [marker:1][len:2][utf-8 bytes]
//	int32    [marker:1][value:4]
//	int64    [marker:1][value:8]
//	bool     [marker:1][value:1]
//	[]string [marker:1][count:2]([string])*
//
// Multi-byte integers are big-endian; marker 0 means absent and 1 means
// present.
package codec

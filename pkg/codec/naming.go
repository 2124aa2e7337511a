package codec

import (
	"encoding/base64"
	"encoding/binary"
	"reflect"

	"github.com/spaolacci/murmur3"
)

// Naming derives a wire discriminator from a Go type.
//
// All nodes of a cluster must use the same Naming; the discriminator
// format is part of the protocol version.
type Naming func(reflect.Type) string

// QualifiedName names a type by import path and type name, e.g.
// "github.com/yndnr/aaamesh-go/internal/core/domain.Session".
// Pointer types are named after their element type.
func QualifiedName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// HashedName names a type by the murmur3 128-bit hash of its qualified
// name: "#" followed by 22 base64url characters.
func HashedName(t reflect.Type) string {
	h1, h2 := murmur3.Sum128([]byte(QualifiedName(t)))
	var sum [16]byte
	binary.BigEndian.PutUint64(sum[:8], h1)
	binary.BigEndian.PutUint64(sum[8:], h2)
	return "#" + base64.RawURLEncoding.EncodeToString(sum[:])
}

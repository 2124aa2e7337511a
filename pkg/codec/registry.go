package codec

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/yndnr/aaamesh-go/pkg/bytebuf"
)

// Registry errors.
var (
	ErrUnregisteredType = errors.New("codec: unregistered type")
	ErrDuplicateType    = errors.New("codec: conflicting registration")
	ErrNilObject        = errors.New("codec: nil object")
	ErrNilCodec         = errors.New("codec: nil codec")
	ErrCodecMismatch    = errors.New("codec: decoded value has wrong type")
)

// Codec encodes and decodes values of one application type.
//
// Implementations must be safe for concurrent use.
type Codec interface {
	Encode(buf *bytebuf.Buffer, v any) error
	Decode(buf *bytebuf.Buffer) (any, error)
}

// EncodeFunc writes v into buf.
type EncodeFunc[T any] func(buf *bytebuf.Buffer, v T) error

// DecodeFunc reads a T from buf.
type DecodeFunc[T any] func(buf *bytebuf.Buffer) (T, error)

type funcCodec[T any] struct {
	enc EncodeFunc[T]
	dec DecodeFunc[T]
}

func (c *funcCodec[T]) Encode(buf *bytebuf.Buffer, v any) error {
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: want %T, got %T", ErrCodecMismatch, *new(T), v)
	}
	return c.enc(buf, t)
}

func (c *funcCodec[T]) Decode(buf *bytebuf.Buffer) (any, error) {
	return c.dec(buf)
}

type entry struct {
	name  string
	typ   reflect.Type
	codec Codec
	// ident decides whether two registrations are the same codec.
	// nil means the codec cannot be compared and never matches.
	ident any
}

// Registry maps application types to codecs and wire discriminators.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	naming Naming
	byType map[reflect.Type]*entry
	byName map[string]*entry
}

// Option configures a Registry.
type Option func(*Registry)

// WithNaming sets the function deriving discriminators from types.
func WithNaming(n Naming) Option {
	return func(r *Registry) {
		if n != nil {
			r.naming = n
		}
	}
}

// NewRegistry creates an empty registry using QualifiedName discriminators.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		naming: QualifiedName,
		byType: make(map[reflect.Type]*entry),
		byName: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register associates the runtime type of sample with c.
func (r *Registry) Register(sample any, c Codec) error {
	if sample == nil {
		return ErrNilObject
	}
	typ := reflect.TypeOf(sample)
	return r.add(r.naming(typ), typ, c, codecIdent(c))
}

// RegisterName is Register with an explicit discriminator.
func (r *Registry) RegisterName(name string, sample any, c Codec) error {
	if sample == nil {
		return ErrNilObject
	}
	return r.add(name, reflect.TypeOf(sample), c, codecIdent(c))
}

// RegisterFuncs registers an encode/decode pair for T.
//
// Registering the same pair of functions again is a no-op.
func RegisterFuncs[T any](r *Registry, enc EncodeFunc[T], dec DecodeFunc[T]) error {
	if enc == nil || dec == nil {
		return ErrNilCodec
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	ident := [2]uintptr{
		reflect.ValueOf(enc).Pointer(),
		reflect.ValueOf(dec).Pointer(),
	}
	return r.add(r.naming(typ), typ, &funcCodec[T]{enc: enc, dec: dec}, ident)
}

func (r *Registry) add(name string, typ reflect.Type, c Codec, ident any) error {
	if c == nil {
		return ErrNilCodec
	}
	if name == "" {
		return fmt.Errorf("codec: empty discriminator for %s", typ)
	}
	if len(name) > MaxStringLen {
		return fmt.Errorf("%w: discriminator for %s", ErrStringTooLong, typ)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byType[typ]; ok {
		if e.name == name && e.ident != nil && e.ident == ident {
			return nil
		}
		return fmt.Errorf("%w: %s already registered as %q", ErrDuplicateType, typ, e.name)
	}
	if e, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: discriminator %q already used by %s", ErrDuplicateType, name, e.typ)
	}

	e := &entry{name: name, typ: typ, codec: c, ident: ident}
	r.byType[typ] = e
	r.byName[name] = e
	return nil
}

// Encode writes v into buf with its registered codec and returns the
// discriminator to put on the wire.
func (r *Registry) Encode(buf *bytebuf.Buffer, v any) (string, error) {
	if isNil(v) {
		return "", ErrNilObject
	}
	e, err := r.lookupType(reflect.TypeOf(v))
	if err != nil {
		return "", err
	}
	if err := e.codec.Encode(buf, v); err != nil {
		return "", fmt.Errorf("codec: encode %s: %w", e.name, err)
	}
	return e.name, nil
}

// Decode reads a value of the type registered under name.
func (r *Registry) Decode(name string, buf *bytebuf.Buffer) (any, error) {
	r.mu.RLock()
	e, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnregisteredType, name)
	}

	v, err := e.codec.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("codec: decode %s: %w", name, err)
	}
	if isNil(v) || reflect.TypeOf(v) != e.typ {
		return nil, fmt.Errorf("%w: %q decoded to %T", ErrCodecMismatch, name, v)
	}
	return v, nil
}

// NameOf returns the discriminator registered for the type of v.
func (r *Registry) NameOf(v any) (string, error) {
	if v == nil {
		return "", ErrNilObject
	}
	e, err := r.lookupType(reflect.TypeOf(v))
	if err != nil {
		return "", err
	}
	return e.name, nil
}

// Types returns all registered discriminators, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookupType(typ reflect.Type) (*entry, error) {
	r.mu.RLock()
	e, ok := r.byType[typ]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredType, typ)
	}
	return e, nil
}

func codecIdent(c Codec) any {
	if c == nil || !reflect.TypeOf(c).Comparable() {
		return nil
	}
	return c
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

package btype

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// FallbackName names the type answered for values nobody registered.
const FallbackName = "py"

var ErrUnknownType = errors.New("unknown type")

// Registry is a small in-process type registry. It hands out sequential ids
// and maps Go types onto them. Hosts with their own type system only need to
// satisfy the TypeOf method the dispatcher asks for.
type Registry struct {
	mu       sync.RWMutex
	byGoType map[reflect.Type]T
	byID     map[uint32]entry
	next     uint32
	fallback T
}

type entry struct {
	name string
	t    T
}

func NewRegistry() *Registry {
	r := &Registry{
		byGoType: make(map[reflect.Type]T),
		byID:     make(map[uint32]entry),
		next:     1,
	}
	r.fallback = r.mint(FallbackName, false)
	return r
}

func (r *Registry) mint(name string, isPtr bool) T {
	t := MustNew(r.next, isPtr)
	r.byID[r.next] = entry{name: name, t: t}
	r.next++
	return t
}

// Register assigns a new type to the Go type of sample. Registering the same
// Go type twice answers the type from the first registration.
func (r *Registry) Register(name string, sample any) (T, error) {
	if sample == nil {
		return T{}, fmt.Errorf("%w: cannot register untyped nil as %q", ErrUnknownType, name)
	}
	rt := reflect.TypeOf(sample)

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byGoType[rt]; ok {
		return t, nil
	}
	if r.next >= MaxNumT2Types {
		return T{}, fmt.Errorf("%w: registry is full at %d types", ErrTypeRange, MaxNumT2Types-1)
	}
	t := r.mint(name, rt.Kind() == reflect.Pointer)
	r.byGoType[rt] = t
	return t, nil
}

// Alias makes values of sample's Go type answer an already registered type.
func (r *Registry) Alias(sample any, t T) error {
	if sample == nil {
		return fmt.Errorf("%w: cannot alias untyped nil", ErrUnknownType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID()]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	r.byGoType[reflect.TypeOf(sample)] = t
	return nil
}

// TypeOf answers the type of v. A T passed as a value answers itself, which
// lets callers probe with types instead of values.
func (r *Registry) TypeOf(v any) T {
	if t, ok := v.(T); ok {
		return t
	}
	if v == nil {
		return r.fallback
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.byGoType[reflect.TypeOf(v)]; ok {
		return t
	}
	return r.fallback
}

func (r *Registry) Fallback() T { return r.fallback }

// Name answers the registered name of t.
func (r *Registry) Name(t T) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[t.ID()]
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	return e.name, nil
}

// Lookup answers the type registered under id.
func (r *Registry) Lookup(id uint32) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return T{}, fmt.Errorf("%w: id %d", ErrUnknownType, id)
	}
	return e.t, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

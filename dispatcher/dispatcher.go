// Package dispatcher selects the overload of a multiple dispatch function
// from the runtime types of its arguments, remembering every decision in a
// selection cache per argument count.
//
// A Dispatcher is owned by one caller and is not safe for concurrent use.
package dispatcher

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/on-the-ground/dispatch_ive_go/btype"
	"github.com/on-the-ground/dispatch_ive_go/config"
	"github.com/on-the-ground/dispatch_ive_go/internal/trie"
	"github.com/on-the-ground/dispatch_ive_go/log"
	"github.com/on-the-ground/dispatch_ive_go/pipe"
	"github.com/on-the-ground/dispatch_ive_go/selector"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrNoMatch   = errors.New("no matching overload")
	ErrAmbiguous = errors.New("ambiguous overload")
	ErrClosed    = errors.New("dispatcher is closed")
)

// Overload is one implementation of the function, selected when the
// argument types match Sig. An empty Sig declares the nullary overload.
type Overload struct {
	Sig  btype.Signature
	Impl pipe.Delegate
}

type Option func(*Dispatcher)

// WithSelector sizes the selection caches.
func WithSelector(cfg config.Selector) Option {
	return func(d *Dispatcher) { d.cfg = cfg }
}

// WithConfig sizes the caches from cfg.Selector and logs through a logger
// built from cfg.Log.
func WithConfig(cfg config.Config) Option {
	return func(d *Dispatcher) {
		d.cfg = cfg.Selector
		logger, err := log.New(cfg.Log)
		if err != nil {
			d.optErr = multierr.Append(d.optErr, err)
			return
		}
		d.logger = logger
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithResolver replaces Exact as the resolver used on cache misses.
func WithResolver(r Resolver) Option {
	return func(d *Dispatcher) { d.resolver = r }
}

type Dispatcher struct {
	id        uuid.UUID
	name      string
	namespace string
	typeOf    func(any) btype.T

	table    *trie.Trie[Overload]
	byCount  [btype.MaxArgs + 1][]Overload
	caches   [btype.MaxArgs + 1]*selector.Cache
	results  [btype.MaxArgs + 1][]Overload
	overflow *trie.Trie[Overload]

	resolver Resolver
	cfg      config.Selector
	logger   *zap.Logger
	closed   bool
	optErr   error
}

// New indexes the overloads of namespace.name. typeOf maps an argument to
// its type, usually (*btype.Registry).TypeOf.
func New(name, namespace string, typeOf func(any) btype.T, overloads []Overload, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		id:        uuid.New(),
		name:      name,
		namespace: namespace,
		typeOf:    typeOf,
		table:     trie.New[Overload](0),
		resolver:  Exact,
		cfg:       config.Default().Selector,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.optErr != nil {
		return nil, fmt.Errorf("%s: %w", d.Name(), d.optErr)
	}
	if typeOf == nil {
		return nil, fmt.Errorf("%w: %s - typeOf is nil", pipe.ErrType, d.Name())
	}
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}
	for i, ov := range overloads {
		if ov.Impl == nil {
			return nil, fmt.Errorf("%w: %s - overloads[%d] %v has no implementation", pipe.ErrType, d.Name(), i, ov.Sig)
		}
		if len(ov.Sig) > 0 {
			if err := ov.Sig.Validate(); err != nil {
				return nil, fmt.Errorf("%s - overloads[%d]: %w", d.Name(), i, err)
			}
		}
		if _, ok := d.table.Load(ov.Sig); ok {
			return nil, fmt.Errorf("%w: %s - %v is declared twice", ErrAmbiguous, d.Name(), ov.Sig)
		}
		d.table.Store(ov.Sig, ov)
		d.byCount[len(ov.Sig)] = append(d.byCount[len(ov.Sig)], ov)
	}
	d.overflow = trie.New[Overload](uint32(d.cfg.NumSlots))
	d.logger = d.logger.With(zap.String("fn", d.Name()), zap.Stringer("dispatcher", d.id))
	return d, nil
}

func (d *Dispatcher) Name() string {
	if d.namespace == "" {
		return d.name
	}
	return d.namespace + "." + d.name
}

func (d *Dispatcher) ID() uuid.UUID { return d.id }

// Signature answers the types of args.
func (d *Dispatcher) Signature(args ...any) btype.Signature {
	sig := make(btype.Signature, len(args))
	for i, a := range args {
		sig[i] = d.typeOf(a)
	}
	return sig
}

// Select answers the overload for the runtime types of args.
func (d *Dispatcher) Select(args ...any) (Overload, error) {
	if d.closed {
		return Overload{}, fmt.Errorf("%w: %s", ErrClosed, d.Name())
	}
	n := len(args)
	if n > btype.MaxArgs {
		return Overload{}, fmt.Errorf("%w: %s - at most %d arguments, %d given", pipe.ErrArity, d.Name(), btype.MaxArgs, n)
	}
	if n == 0 {
		if ov, ok := d.table.Load(nil); ok {
			return ov, nil
		}
		return Overload{}, fmt.Errorf("%w: %s - no nullary overload", ErrNoMatch, d.Name())
	}

	sig := d.Signature(args...)
	if err := sig.Validate(); err != nil {
		return Overload{}, fmt.Errorf("%s - %w", d.Name(), err)
	}
	cache, err := d.cacheFor(n)
	if err != nil {
		return Overload{}, err
	}
	if fnID := cache.Lookup(sig); fnID != 0 {
		return d.results[n][fnID-1], nil
	}
	if ov, ok := d.overflow.Load(sig); ok {
		return ov, nil
	}

	ov, ok := d.table.Load(sig)
	if !ok {
		if ov, err = d.resolver(sig, d.byCount[n]); err != nil {
			return Overload{}, fmt.Errorf("%s - %w", d.Name(), err)
		}
	}
	d.remember(cache, sig, ov)
	return ov, nil
}

func (d *Dispatcher) cacheFor(n int) (*selector.Cache, error) {
	if c := d.caches[n]; c != nil {
		return c, nil
	}
	c, err := selector.NewWithHash(n, d.cfg.NumSlots, d.cfg.HashNSlots)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name(), err)
	}
	d.caches[n] = c
	d.logger.Debug("selection cache created",
		zap.Int("numArgs", n), zap.Int("numSlots", d.cfg.NumSlots), zap.Int("hashNSlots", d.cfg.HashNSlots))
	return c, nil
}

// remember gives ov the next function id of its arg count and stores it in
// the array region, then the hash region. When both are full ov is kept in
// the bounded overflow table instead.
func (d *Dispatcher) remember(cache *selector.Cache, sig btype.Signature, ov Overload) {
	n := len(sig)
	fnID := len(d.results[n]) + 1
	region := "overflow"
	if fnID <= selector.MaxFnID {
		if index := cache.NextFreeIndex(); index != 0 && cache.Insert(index, sig, fnID) == nil {
			region = "array"
		} else if cache.AtHashPut(sig, fnID) == nil {
			region = "hash"
		}
	}
	if region == "overflow" {
		d.overflow.Store(sig, ov)
		d.logger.Warn("selection cache full, overload kept uncached",
			zap.Stringer("sig", sig), zap.Int("numArgs", n))
		return
	}
	d.results[n] = append(d.results[n], ov)
	d.logger.Debug("selection cache miss resolved",
		zap.Stringer("sig", sig), zap.Int("numArgs", n), zap.Int("fnId", fnID), zap.String("region", region))
}

// Call selects the overload for args and invokes it. It is a pipe.Delegate.
func (d *Dispatcher) Call(args ...any) (any, error) {
	ov, err := d.Select(args...)
	if err != nil {
		return nil, err
	}
	return ov.Impl(args...)
}

// AsFn wraps d as a bound function of the given arity.
func (d *Dispatcher) AsFn(arity pipe.Arity, opts ...pipe.Option) (*pipe.Fn, error) {
	return pipe.NewFn(d.name, d.namespace, arity, d.Call, opts...)
}

// Stats answers the counters of the cache for numArgs, false if no call
// with that many arguments was made yet.
func (d *Dispatcher) Stats(numArgs int) (selector.Stats, bool) {
	if numArgs < 1 || numArgs > btype.MaxArgs || d.caches[numArgs] == nil {
		return selector.Stats{}, false
	}
	return d.caches[numArgs].Stats(), true
}

// Close destroys every cache. Later selections fail with ErrClosed.
func (d *Dispatcher) Close() error {
	if d.closed {
		return fmt.Errorf("%w: %s", ErrClosed, d.Name())
	}
	d.closed = true
	var err error
	for n, c := range d.caches {
		if c != nil {
			err = multierr.Append(err, c.Destroy())
			d.caches[n] = nil
		}
	}
	return err
}

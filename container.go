package container

import (
	"github.com/rs/zerolog"

	"github.com/technically-php/cascade-container/option"
	"github.com/technically-php/cascade-container/set"
)

type (
	// ParentContainer is the capability a container requires from its parent
	// layer. Anything exposing Has/Get can sit above a container in a cascade
	// chain, including containers from other libraries.
	ParentContainer interface {
		Has(id string) bool
		Get(id string) (any, error)
	}

	// DependencyResolver is the autowiring capability consumed by the
	// container. A single resolver value is shared by every layer of a
	// cascade chain; each method receives the layer the call was made on, so
	// dependencies are always resolved against the calling layer.
	DependencyResolver interface {
		Resolve(c *Container, id string) (any, error)
		Construct(c *Container, typeName string, bindings Bindings) (any, error)
		Call(c *Container, callable any, bindings Bindings) (any, error)
	}

	// Bindings maps parameter positions to explicit values. Explicit values
	// win over autowired resolution for their position.
	Bindings map[int]any

	// Container is a service registry mapping string ids to instances,
	// deferred producers, per-lookup factories and aliases. A given id holds
	// at most one kind of binding per layer.
	//
	// A container is not safe for concurrent use; callers sharing a layer
	// across goroutines must synchronize externally.
	Container struct {
		parent   ParentContainer
		resolver DependencyResolver
		logger   *zerolog.Logger

		instances map[string]any
		deferred  map[string]any
		factories map[string]any
		aliases   map[string]string
	}

	// Options holds the construction options for New.
	Options struct {
		parent    ParentContainer
		resolver  DependencyResolver
		instances map[string]any
		logger    *zerolog.Logger
	}
)

// WithParent sets the parent layer consulted when a lookup misses locally.
func WithParent(parent ParentContainer) option.Option[Options] {
	return func(opts *Options) {
		opts.parent = parent
	}
}

// WithResolver sets the autowiring capability used by Resolve, Construct,
// Call and every producer invocation.
func WithResolver(resolver DependencyResolver) option.Option[Options] {
	return func(opts *Options) {
		opts.resolver = resolver
	}
}

// WithInstances seeds the container with pre-built instances.
func WithInstances(instances map[string]any) option.Option[Options] {
	return func(opts *Options) {
		opts.instances = instances
	}
}

// WithLogger sets the logger used to trace binding and resolution events.
func WithLogger(logger *zerolog.Logger) option.Option[Options] {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// New creates a container. Without options it has no parent (lookups
// terminate at a NullContainer), a fresh Autowirer and a no-op logger.
func New(opts ...option.Option[Options]) *Container {
	nop := zerolog.Nop()
	options := option.Build(
		&Options{
			parent: NullContainer{},
			logger: &nop,
		},
		opts...,
	)
	if options.resolver == nil {
		options.resolver = NewAutowirer()
	}

	c := &Container{
		parent:    options.parent,
		resolver:  options.resolver,
		logger:    options.logger,
		instances: make(map[string]any),
		deferred:  make(map[string]any),
		factories: make(map[string]any),
		aliases:   make(map[string]string),
	}
	for id, value := range options.instances {
		c.instances[id] = value
	}

	return c
}

// Set stores value under id, replacing any existing binding of any kind.
func (c *Container) Set(id string, value any) {
	c.logger.Trace().Str("id", id).Msg("binding instance")
	c.forget(id)
	c.instances[id] = value
}

// Deferred binds a producer that is invoked on first Get; its result is then
// cached as an instance and the producer is never invoked again. The producer
// is not called at bind time.
func (c *Container) Deferred(id string, producer any) {
	c.logger.Trace().Str("id", id).Msg("binding deferred producer")
	c.forget(id)
	c.deferred[id] = producer
}

// Factory binds a producer that is invoked on every Get, never cached.
func (c *Container) Factory(id string, producer any) {
	c.logger.Trace().Str("id", id).Msg("binding factory")
	c.forget(id)
	c.factories[id] = producer
}

// Alias makes alias resolve to whatever id resolves to. Aliasing an id to
// itself fails with an InvalidAliasError.
func (c *Container) Alias(id, alias string) error {
	if id == alias {
		return InvalidAliasError{ID: id}
	}
	c.logger.Trace().Str("id", id).Str("alias", alias).Msg("binding alias")
	c.forget(alias)
	c.aliases[alias] = id
	return nil
}

// forget clears every kind of binding for id in this layer. Parent layers
// are never touched.
func (c *Container) forget(id string) {
	delete(c.instances, id)
	delete(c.deferred, id)
	delete(c.factories, id)
	delete(c.aliases, id)
}

// Has reports whether id is bound in this layer or any layer above it.
func (c *Container) Has(id string) bool {
	target, ok := c.dealias(id)
	if !ok {
		return false
	}
	if _, found := c.instances[target]; found {
		return true
	}
	if _, found := c.deferred[target]; found {
		return true
	}
	if _, found := c.factories[target]; found {
		return true
	}
	return c.parent.Has(target)
}

// Get resolves id against this layer first, then the parent chain.
//
// Precedence within a layer is alias, instance, deferred, factory. A
// deferred producer is invoked once through the autowiring call path and its
// result promoted to an instance; a factory producer is invoked on every
// call. Values found in a parent are returned as-is and never copied into
// this layer.
func (c *Container) Get(id string) (any, error) {
	target, ok := c.dealias(id)
	if !ok {
		return nil, ServiceNotFoundError{ID: id}
	}

	if value, found := c.instances[target]; found {
		return value, nil
	}

	if producer, found := c.deferred[target]; found {
		value, err := c.resolver.Call(c, producer, nil)
		if err != nil {
			return nil, err
		}
		delete(c.deferred, target)
		c.instances[target] = value
		c.logger.Debug().Str("id", target).Msg("promoted deferred binding")
		return value, nil
	}

	if producer, found := c.factories[target]; found {
		return c.resolver.Call(c, producer, nil)
	}

	if c.parent.Has(target) {
		return c.parent.Get(target)
	}

	return nil, ServiceNotFoundError{ID: id}
}

// dealias follows the local alias chain until a non-alias id is reached.
// Reports false when the chain loops back on itself.
func (c *Container) dealias(id string) (string, bool) {
	if _, found := c.aliases[id]; !found {
		return id, true
	}

	visited := set.New[string]()
	for {
		target, found := c.aliases[id]
		if !found {
			return id, true
		}
		if visited.Contains(id) {
			return "", false
		}
		visited.Add(id)
		id = target
	}
}

// Cascade creates a child layer with empty local bindings. The child reads
// through to this container on lookup misses, shares its resolver and
// logger, and never writes into this container's state.
func (c *Container) Cascade() *Container {
	c.logger.Trace().Msg("cascading new layer")
	return &Container{
		parent:    c,
		resolver:  c.resolver,
		logger:    c.logger,
		instances: make(map[string]any),
		deferred:  make(map[string]any),
		factories: make(map[string]any),
		aliases:   make(map[string]string),
	}
}

// GetAs resolves id and asserts the result to T.
func GetAs[T any](c *Container, id string) (T, error) {
	var zero T
	value, err := c.Get(id)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, TypeMismatchError{ID: id, Value: value, Want: typeName[T]()}
	}
	return typed, nil
}

// ResolveAs behaves as GetAs but falls back to autowired construction when
// id is not bound anywhere in the chain.
func ResolveAs[T any](c *Container, id string) (T, error) {
	var zero T
	value, err := c.Resolve(id)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, TypeMismatchError{ID: id, Value: value, Want: typeName[T]()}
	}
	return typed, nil
}

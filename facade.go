package container

// Resolve behaves as Get when id is bound anywhere in the chain, and
// otherwise asks the resolver to construct a value for id, treating it as a
// constructible type name. Autowiring failures are propagated unchanged.
func (c *Container) Resolve(id string) (any, error) {
	if c.Has(id) {
		return c.Get(id)
	}
	return c.resolver.Resolve(c, id)
}

// Construct always builds a fresh instance of typeName through the resolver,
// ignoring any existing binding for it. Explicit bindings take precedence
// over autowired resolution for their parameter position.
func (c *Container) Construct(typeName string, bindings Bindings) (any, error) {
	return c.resolver.Construct(c, typeName, bindings)
}

// Call invokes callable, supplying its parameters from the explicit bindings
// first and resolving the rest from this container.
func (c *Container) Call(callable any, bindings Bindings) (any, error) {
	return c.resolver.Call(c, callable, bindings)
}

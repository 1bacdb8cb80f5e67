package container

// Extend rewrites the binding for id so that future lookups apply transform
// to the previously produced value, preserving the binding's kind:
//
//   - an instance is transformed once, right now;
//   - a deferred producer is composed with transform and still promoted on
//     first access;
//   - a factory is composed with transform and re-applied on every access;
//   - an id bound only in a parent layer becomes a local deferred binding
//     that reads the parent's value at first access, leaving the parent
//     untouched.
//
// Extending an alias extends its target. The transform runs through the
// autowiring call path with the previous value as its first positional
// binding, so any further parameters it declares are resolved from the
// container as usual.
func (c *Container) Extend(id string, transform any) error {
	target, ok := c.dealias(id)
	if !ok {
		return ServiceNotFoundError{ID: id}
	}

	c.logger.Trace().Str("id", target).Msg("extending binding")

	if value, found := c.instances[target]; found {
		extended, err := c.resolver.Call(c, transform, Bindings{0: value})
		if err != nil {
			return err
		}
		c.instances[target] = extended
		return nil
	}

	if producer, found := c.deferred[target]; found {
		c.deferred[target] = composeProducer(producer, transform)
		return nil
	}

	if producer, found := c.factories[target]; found {
		c.factories[target] = composeProducer(producer, transform)
		return nil
	}

	if c.parent.Has(target) {
		c.deferred[target] = inheritProducer(c.parent, target, transform)
		return nil
	}

	return ServiceNotFoundError{ID: id}
}

// composeProducer builds a producer that evaluates the original producer and
// then applies transform to its result. The layer invoking the producer is
// injected by the autowirer rather than captured, so a composed producer
// inherited through a cascade still resolves against the calling layer.
func composeProducer(producer, transform any) any {
	return func(c *Container) (any, error) {
		value, err := c.resolver.Call(c, producer, nil)
		if err != nil {
			return nil, err
		}
		return c.resolver.Call(c, transform, Bindings{0: value})
	}
}

// inheritProducer builds a producer that reads the parent's current value
// for id and applies transform to it. The parent is consulted at first
// access, not at Extend time.
func inheritProducer(parent ParentContainer, id string, transform any) any {
	return func(c *Container) (any, error) {
		value, err := parent.Get(id)
		if err != nil {
			return nil, err
		}
		return c.resolver.Call(c, transform, Bindings{0: value})
	}
}

package container

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	containerType = reflect.TypeOf((*Container)(nil))
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

type (
	// Autowirer is the default DependencyResolver. It keeps an explicit
	// registry of constructor functions keyed by type name; construction
	// never inspects unregistered types, so everything it can build has been
	// declared up front.
	Autowirer struct {
		constructors map[string]constructor
		order        []string

		building *tracker
	}

	constructor struct {
		fn       reflect.Value
		provides reflect.Type
	}
)

// NewAutowirer creates an empty autowirer.
func NewAutowirer() *Autowirer {
	return &Autowirer{
		constructors: make(map[string]constructor),
		building:     newTracker(),
	}
}

// RegisterConstructor records fn as the constructor for typeName. fn must be
// a function returning the instance, or the instance and an error; its
// parameters are autowired from the calling container on construction. The
// return type is indexed so parameters of that type can be matched to
// typeName during Call.
func (a *Autowirer) RegisterConstructor(typeName string, fn any) error {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return fmt.Errorf("constructor for %q must be a function, got %T", typeName, fn)
	}
	if err := checkProducerShape(t); err != nil {
		return fmt.Errorf("invalid constructor for %q: %w", typeName, err)
	}

	if _, replacing := a.constructors[typeName]; !replacing {
		a.order = append(a.order, typeName)
	}
	a.constructors[typeName] = constructor{
		fn:       reflect.ValueOf(fn),
		provides: t.Out(0),
	}
	return nil
}

// MustRegisterConstructor is RegisterConstructor, panicking on invalid input.
func (a *Autowirer) MustRegisterConstructor(typeName string, fn any) *Autowirer {
	if err := a.RegisterConstructor(typeName, fn); err != nil {
		panic(err)
	}
	return a
}

// Resolve constructs a value for id when a constructor is registered under
// that name.
func (a *Autowirer) Resolve(c *Container, id string) (any, error) {
	if _, found := a.constructors[id]; !found {
		return nil, fmt.Errorf("%w: no constructor registered for %q", ErrCannotAutowire, id)
	}
	return a.Construct(c, id, nil)
}

// Construct builds a fresh instance of typeName, resolving the constructor's
// parameters from c except where bindings supplies an explicit value.
func (a *Autowirer) Construct(c *Container, typeName string, bindings Bindings) (any, error) {
	ctor, found := a.constructors[typeName]
	if !found {
		return nil, fmt.Errorf("%w: no constructor registered for %q", ErrNotConstructible, typeName)
	}

	if err := a.building.push(typeName); err != nil {
		return nil, err
	}
	defer a.building.pop()

	return a.call(c, ctor.fn, bindings)
}

// Call invokes callable with its parameters supplied from bindings first and
// autowired from c otherwise.
func (a *Autowirer) Call(c *Container, callable any, bindings Bindings) (any, error) {
	fn := reflect.ValueOf(callable)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: callable must be a function, got %T", ErrCannotAutowire, callable)
	}
	if err := checkProducerShape(fn.Type()); err != nil {
		return nil, err
	}
	return a.call(c, fn, bindings)
}

func (a *Autowirer) call(c *Container, fn reflect.Value, bindings Bindings) (any, error) {
	t := fn.Type()
	args := make([]reflect.Value, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		arg, err := a.argumentFor(c, t.In(i), i, bindings)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	results, err := safeCall(fn, args)
	if err != nil {
		return nil, err
	}
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// argumentFor supplies a value for one parameter: the explicit binding for
// its position, the calling container itself, an existing container binding
// (under the registered type name or the type's canonical key), and only
// then fresh construction for a registered type. Bindings always win over
// construction.
func (a *Autowirer) argumentFor(c *Container, typ reflect.Type, index int, bindings Bindings) (reflect.Value, error) {
	if value, found := bindings[index]; found {
		return coerce(value, typ, index)
	}

	if typ == containerType || (typ.Kind() == reflect.Interface && containerType.Implements(typ)) {
		return reflect.ValueOf(c), nil
	}

	id, registered := a.serviceFor(typ)
	if registered && c.Has(id) {
		return a.lookup(c, id, typ, index)
	}

	if key := typeKeyOf(typ); c.Has(key) {
		return a.lookup(c, key, typ, index)
	}

	if registered {
		value, err := c.Resolve(id)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w %d (%s): %w", ErrCannotAutowireDependency, index, typ, err)
		}
		return coerce(value, typ, index)
	}

	return reflect.Value{}, fmt.Errorf("%w %d of %s", ErrCannotAutowireArgument, index, typ)
}

func (a *Autowirer) lookup(c *Container, id string, typ reflect.Type, index int) (reflect.Value, error) {
	value, err := c.Get(id)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w %d (%s): %w", ErrCannotAutowireDependency, index, typ, err)
	}
	return coerce(value, typ, index)
}

// serviceFor finds the registered type name whose constructor provides typ.
// Exact matches win over interface matches; within each, earliest
// registration wins.
func (a *Autowirer) serviceFor(typ reflect.Type) (string, bool) {
	for _, name := range a.order {
		if a.constructors[name].provides == typ {
			return name, true
		}
	}
	if typ.Kind() == reflect.Interface {
		for _, name := range a.order {
			if a.constructors[name].provides.Implements(typ) {
				return name, true
			}
		}
	}
	return "", false
}

func coerce(value any, typ reflect.Type, index int) (reflect.Value, error) {
	if value == nil {
		switch typ.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(typ), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w %d: nil is not assignable to %s", ErrCannotAutowireArgument, index, typ)
		}
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(typ) {
		return reflect.Value{}, fmt.Errorf("%w %d: %s is not assignable to %s", ErrCannotAutowireArgument, index, v.Type(), typ)
	}
	return v, nil
}

// safeCall invokes fn, recovering a panic inside the called function into an
// error.
func safeCall(fn reflect.Value, args []reflect.Value) (results []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("panic calling %s: %v", fn.Type(), r)
		}
	}()
	return fn.Call(args), nil
}

func checkProducerShape(t reflect.Type) error {
	if t.NumOut() != 1 && t.NumOut() != 2 {
		return errors.New("function must return the value, or the value and an error")
	}
	if t.NumOut() == 2 && t.Out(1) != errorType {
		return errors.New("if a function returns two values, the second must be an error")
	}
	return nil
}

// TypeKey returns the canonical binding key for v's type, the
// package-qualified type name with pointers stripped. Binding a service
// under its TypeKey makes it autowirable by parameter type without
// registering a constructor.
//
//	c.Set(container.TypeKey((*Logger)(nil)), logger)
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	return typeKeyOf(t)
}

func typeKeyOf(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// TypeOf returns the reflect.Type for T, working for interface types as
// well as concrete ones.
func TypeOf[T any]() reflect.Type {
	var v T
	t := reflect.TypeOf(v)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	return t
}

func typeName[T any]() string {
	return TypeOf[T]().String()
}

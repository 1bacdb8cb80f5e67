package container

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the autowiring machinery. The container itself
// never wraps or reinterprets them; they surface to the caller unchanged.
var (
	ErrCannotAutowire           = errors.New("cannot autowire")
	ErrCannotAutowireArgument   = errors.New("cannot autowire argument")
	ErrCannotAutowireDependency = errors.New("cannot autowire dependency argument")
	ErrNotConstructible         = errors.New("type cannot be constructed")
)

// ServiceNotFoundError is returned by Get when an id resolves neither
// locally nor through the parent chain, and by Extend on an unbound id.
type ServiceNotFoundError struct {
	ID string
}

func (e ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service %q not found in container", e.ID)
}

// InvalidAliasError is returned by Alias when an id is aliased to itself.
type InvalidAliasError struct {
	ID string
}

func (e InvalidAliasError) Error() string {
	return fmt.Sprintf("alias %q cannot target itself", e.ID)
}

// TypeMismatchError is returned by the typed helpers when a resolved value
// does not have the requested type.
type TypeMismatchError struct {
	ID    string
	Value any
	Want  string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("service %q resolved to %T, want %s", e.ID, e.Value, e.Want)
}

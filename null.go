package container

// NullContainer is the terminal parent of every cascade chain. It holds
// nothing: Has is always false and Get always fails.
type NullContainer struct{}

func (NullContainer) Has(string) bool {
	return false
}

func (NullContainer) Get(id string) (any, error) {
	return nil, ServiceNotFoundError{ID: id}
}

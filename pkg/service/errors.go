package service

import "fmt"

// ValidationError reports a request that can never succeed as written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// StateConflictError reports a mutation refused by the current state of the
// stored data, such as an illegal order transition or a blocked deletion.
type StateConflictError struct {
	Reason string
}

func (e *StateConflictError) Error() string {
	return e.Reason
}

// NotFoundError reports a lookup of an identifier with no matching document.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

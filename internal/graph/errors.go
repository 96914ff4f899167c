package graph

import "errors"

var (
	// ErrCapacityExceeded is returned by AddTask when the configured task
	// bound would be exceeded.
	ErrCapacityExceeded = errors.New("graph capacity exceeded")

	// ErrInvalidReference is returned by AddDependency when either task id
	// is out of range.
	ErrInvalidReference = errors.New("task reference out of range")

	// ErrSelfDependency is returned by AddDependency when a task is declared
	// to depend on itself.
	ErrSelfDependency = errors.New("task cannot depend on itself")
)

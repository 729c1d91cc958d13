package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRoute is returned when the routing provider cannot produce a path.
	ErrNoRoute = errors.New("no route")
	// ErrResolution matches any *ResolutionError via errors.Is.
	ErrResolution = errors.New("address resolution failed")
)

// ResolutionError reports an address that could not be geocoded.
type ResolutionError struct {
	Address string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %q: no results", e.Address)
	}
	return fmt.Sprintf("resolve %q: %v", e.Address, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

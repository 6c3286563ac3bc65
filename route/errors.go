package route

import (
	"errors"
	"fmt"
)

var (
	ErrBadDestination   = errors.New("bad destination")
	ErrBadPattern       = errors.New("bad path pattern")
	ErrDisposed         = errors.New("router disposed")
	ErrDuplicateName    = errors.New("duplicate named route")
	ErrInvalidRootPath  = errors.New("invalid root path")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrNotInHandler     = errors.New("not called from inside a handler")
	ErrRouteNotFound    = errors.New("route not found")
)

// A MissingParameterError identifies the parameter a named route needed
// but was not supplied while mapping the name to a path.
type MissingParameterError struct {
	Name  string
	Route string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: %q for route %s", ErrMissingParameter, e.Name, e.Route)
}

// Is reports whether target is ErrMissingParameter.
func (e *MissingParameterError) Is(target error) bool { return target == ErrMissingParameter }

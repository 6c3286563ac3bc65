package route

import (
	"github.com/google/uuid"
	"github.com/xy-planning-network/junction"
)

var _ junction.Enumerable = Method("")

// A Method tags a call with the navigation verb that produced it.
// MethodSelectors route on it.
type Method string

const (
	MethodEmpty      Method = "EMPTY"
	MethodPush       Method = "PUSH"
	MethodReplace    Method = "REPLACE"
	MethodReplaceAll Method = "REPLACE_ALL"
	MethodPop        Method = "POP"
)

func (m Method) String() string { return string(m) }

func (m Method) Valid() error {
	switch m {
	case MethodEmpty, MethodPush, MethodReplace, MethodReplaceAll, MethodPop:
		return nil
	default:
		return junction.ErrNotValid
	}
}

// Kind returns the Kind of the calls m tags.
func (m Method) Kind() Kind {
	switch m {
	case MethodPush:
		return KindPush
	case MethodReplace, MethodReplaceAll:
		return KindReplace
	case MethodPop:
		return KindPop
	default:
		return KindExecute
	}
}

// A Kind distinguishes the variants of a Call.
type Kind int

const (
	KindExecute Kind = iota
	KindPush
	KindReplace
	KindPop
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindExecute:
		return "execute"
	case KindPush:
		return "push"
	case KindReplace:
		return "replace"
	case KindPop:
		return "pop"
	case KindRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// A Navigator accepts calls for asynchronous dispatch.
type Navigator interface {
	Navigate(call Call)
}

// A Call describes one navigation: where to go and how.
//
// Exactly one of Path or Name addresses the destination.
// A Pop call addresses neither; its destination comes from navigation history.
type Call struct {
	// ID uniquely identifies the call in logs and traces.
	ID string

	Kind Kind

	// Path is a destination URI, possibly carrying a query string.
	Path string

	// Name is a named route, mapped to a path with Parameters.
	Name string

	Parameters Parameters

	// All makes a Replace clear the whole history before recording the destination.
	All bool

	// Neglect dispatches the call without recording it in navigation history.
	Neglect bool

	IgnoreTrailingSlash bool

	// Hops counts the redirects leading to this call.
	Hops int

	// URI and Route are set once the call resolves.
	URI   string
	Route *Node

	nav Navigator
}

// NewPathCall constructs a Call of kind addressing path.
func NewPathCall(kind Kind, path string, params Parameters) Call {
	return Call{ID: uuid.NewString(), Kind: kind, Path: path, Parameters: params}
}

// NewNameCall constructs a Call of kind addressing the named route.
func NewNameCall(kind Kind, name string, params Parameters) Call {
	return Call{ID: uuid.NewString(), Kind: kind, Name: name, Parameters: params}
}

// Method returns the navigation verb the Call carries to MethodSelectors.
func (c Call) Method() Method {
	switch c.Kind {
	case KindExecute:
		return MethodEmpty
	case KindPush:
		return MethodPush
	case KindReplace, KindRedirect:
		if c.All {
			return MethodReplaceAll
		}
		return MethodReplace
	case KindPop:
		return MethodPop
	default:
		return MethodEmpty
	}
}

// Normalize returns c with a Redirect turned into the Replace it stands for.
func (c Call) Normalize() Call {
	if c.Kind == KindRedirect {
		c.Kind = KindReplace
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return c
}

// Destination returns whichever of Path or Name addresses the call.
func (c Call) Destination() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Path
}

// RedirectToPath replaces the destination being handled with path.
//
// RedirectToPath only works while a handler for c is running.
func (c *Call) RedirectToPath(path string) error {
	return c.redirect(Call{Path: path})
}

// RedirectToName replaces the destination being handled with the named route.
//
// RedirectToName only works while a handler for c is running.
func (c *Call) RedirectToName(name string, params Parameters) error {
	return c.redirect(Call{Name: name, Parameters: params})
}

func (c *Call) redirect(next Call) error {
	if c.nav == nil {
		return ErrNotInHandler
	}

	next.ID = uuid.NewString()
	next.Kind = KindRedirect
	next.Hops = c.Hops + 1
	next.IgnoreTrailingSlash = c.IgnoreTrailingSlash
	next.Neglect = c.Neglect
	c.nav.Navigate(next)
	return nil
}

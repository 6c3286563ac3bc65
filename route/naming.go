package route

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/xy-planning-network/junction"
)

// RegisterNamed makes n addressable as name.
// Registering a name already pointing at another Node fails with ErrDuplicateName.
func (r *Router) RegisterNamed(name string, n *Node) error {
	if name == "" {
		return fmt.Errorf("%w: route name", junction.ErrMissingData)
	}

	if n == nil || !r.root.contains(n) {
		return fmt.Errorf("%w: %s is not a route of %s", ErrRouteNotFound, n, r.AbsolutePath())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.names[name]; ok && existing != n {
		return fmt.Errorf("%w: %q already names %s", ErrDuplicateName, name, existing.Path())
	}

	r.names[name] = n
	delete(r.paths, name)
	return nil
}

// UnregisterNamed removes name and the subtree it points at,
// then removes ancestors left without children or handlers, stopping at the root.
// Names pointing into removed Nodes go with them.
func (r *Router) UnregisterNamed(name string) error {
	r.mu.Lock()
	n, ok := r.names[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: no route named %q", ErrRouteNotFound, name)
	}
	delete(r.names, name)
	delete(r.paths, name)

	if n != r.root {
		cur := n.parent
		cur.removeChild(n)
		for cur != r.root && len(cur.children) == 0 && !cur.HasHandlers() {
			up := cur.parent
			up.removeChild(cur)
			cur = up
		}

		for k, named := range r.names {
			if !r.root.contains(named) {
				delete(r.names, k)
				delete(r.paths, k)
			}
		}
	}
	r.mu.Unlock()

	r.remount()
	return nil
}

// Names returns every name registered directly in r.
func (r *Router) Names() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make(map[string]string, len(r.names))
	for name, n := range r.names {
		names[name] = n.Path()
	}
	return names
}

// Named returns the Node registered as name in r, its mounted children, or its ancestors.
func (r *Router) Named(name string) (*Node, bool) {
	_, n := r.lookupNamed(name)
	return n, n != nil
}

// MapNameToPath builds the path of the route registered as name, substituting params.
//
// Constant segments are kept verbatim.
// Required parameters, tailcards and wildcards must be supplied;
// a wildcard takes its values from the parameter "*".
// Optional parameters are omitted when not supplied.
// Routes matched by regular expression cannot be mapped.
func (r *Router) MapNameToPath(name string, params Parameters) (string, error) {
	owner, n := r.lookupNamed(name)
	if n == nil {
		return "", fmt.Errorf("%w: no route named %q", ErrRouteNotFound, name)
	}
	return owner.pathFor(name, n, params)
}

func (r *Router) lookupNamed(name string) (*Router, *Node) {
	for cur := r; cur != nil; cur = cur.parent {
		if cur.Disposed() {
			continue
		}

		if owner, n := cur.findNamed(name); n != nil {
			return owner, n
		}
	}
	return nil, nil
}

// findNamed looks name up in r, then in r's mounted children in mount order.
func (r *Router) findNamed(name string) (*Router, *Node) {
	r.mu.Lock()
	n, ok := r.names[name]
	mounts := append([]*mount(nil), r.mounts...)
	r.mu.Unlock()

	if ok {
		return r, n
	}

	for _, m := range mounts {
		if owner, n := m.router.findNamed(name); n != nil {
			return owner, n
		}
	}
	return nil, nil
}

func (r *Router) pathFor(name string, n *Node, params Parameters) (string, error) {
	sels := n.selectors()
	constant := true
	for _, sel := range sels {
		switch sel.(type) {
		case ConstantSelector, RootSelector, MethodSelector, TrailingSlashSelector:
		default:
			constant = false
		}
	}

	if constant {
		r.mu.Lock()
		p, ok := r.paths[name]
		r.mu.Unlock()
		if ok {
			return p, nil
		}
	}

	var (
		segs     []string
		trailing bool
		used     = make(map[string]bool)
	)
	for _, sel := range sels {
		switch s := sel.(type) {
		case RootSelector:
			segs = append(segs, splitPath(s.Prefix)...)

		case ConstantSelector:
			segs = append(segs, url.PathEscape(s.Value))

		case MethodSelector:

		case TrailingSlashSelector:
			trailing = true

		case ParameterSelector:
			v := params.Get(s.Name)
			if strings.TrimSpace(v) == "" {
				return "", &MissingParameterError{Name: s.Name, Route: n.Path()}
			}
			used[s.Name] = true
			segs = append(segs, s.Prefix+url.PathEscape(v)+s.Suffix)

		case OptionalParameterSelector:
			if v := params.Get(s.Name); strings.TrimSpace(v) != "" {
				used[s.Name] = true
				segs = append(segs, s.Prefix+url.PathEscape(v)+s.Suffix)
			}

		case WildcardSelector:
			vals := nonEmpty(params.All("*"))
			if len(vals) == 0 {
				return "", &MissingParameterError{Name: "*", Route: n.Path()}
			}
			segs = append(segs, escapeAll(vals)...)

		case TailcardSelector:
			if s.Name == "" {
				for _, k := range params.Names() {
					if used[k] || k == "*" {
						continue
					}
					for _, v := range params.All(k) {
						segs = append(segs, url.PathEscape(k)+"="+url.PathEscape(v))
					}
				}
				continue
			}

			vals := nonEmpty(params.All(s.Name))
			if len(vals) == 0 {
				return "", &MissingParameterError{Name: s.Name, Route: n.Path()}
			}
			vals = escapeAll(vals)
			vals[0] = s.Prefix + vals[0]
			segs = append(segs, vals...)

		case RegexSelector:
			return "", fmt.Errorf("%w: %s matches by regular expression and has no path", ErrBadDestination, n.Path())
		}
	}

	p := "/" + strings.Join(segs, "/")
	if trailing && p != "/" {
		p += "/"
	}

	if constant {
		r.mu.Lock()
		r.paths[name] = p
		r.mu.Unlock()
	}

	return p, nil
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func escapeAll(vals []string) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = url.PathEscape(v)
	}
	return out
}

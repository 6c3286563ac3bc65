package manifest

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/route"
)

// A Manifest declares the routes of a route.Router and the routers nested under it.
type Manifest struct {
	RootPath            string     `toml:"root_path"`
	IgnoreTrailingSlash bool       `toml:"ignore_trailing_slash"`
	Routes              []Route    `toml:"route"`
	Routers             []Manifest `toml:"router"`
}

// A Route declares one route.
//
// Exactly one of Pattern or Regex is set.
// Handler names the entry of Handlers run when the route resolves.
type Route struct {
	Pattern string `toml:"pattern"`
	Regex   string `toml:"regex"`
	Name    string `toml:"name"`
	Method  string `toml:"method"`
	Handler string `toml:"handler"`
}

// Handlers maps the handler names a Manifest uses to their implementation.
// The entry under "" serves routes naming no handler.
type Handlers map[string]route.Handler

// Load decodes a Manifest from r.
// Keys the Manifest does not know are rejected.
func Load(r io.Reader) (Manifest, error) {
	var m Manifest
	md, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %s", junction.ErrNotValid, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Manifest{}, fmt.Errorf("%w: unknown keys %s", junction.ErrNotValid, strings.Join(keys, ", "))
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// LoadFile decodes the Manifest in the file at path.
func LoadFile(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %s", junction.ErrNotExist, err)
	}
	defer f.Close()

	return Load(f)
}

// Validate checks every route in m and its nested routers.
func (m Manifest) Validate() error {
	for i, rt := range m.Routes {
		if err := rt.Validate(); err != nil {
			return fmt.Errorf("route %d: %w", i, err)
		}
	}

	for i, child := range m.Routers {
		if child.RootPath == "" {
			return fmt.Errorf("router %d: %w: root_path", i, junction.ErrMissingData)
		}
		if err := child.Validate(); err != nil {
			return fmt.Errorf("router %s: %w", child.RootPath, err)
		}
	}

	return nil
}

// HandlerNames returns the sorted names of the handlers m and its nested routers refer to.
func (m Manifest) HandlerNames() []string {
	seen := make(map[string]bool)
	var walk func(m Manifest)
	walk = func(m Manifest) {
		for _, rt := range m.Routes {
			seen[rt.Handler] = true
		}
		for _, child := range m.Routers {
			walk(child)
		}
	}
	walk(m)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks rt declares a single, well-formed destination.
func (rt Route) Validate() error {
	switch {
	case rt.Pattern == "" && rt.Regex == "":
		return fmt.Errorf("%w: pattern or regex", junction.ErrMissingData)
	case rt.Pattern != "" && rt.Regex != "":
		return fmt.Errorf("%w: both pattern and regex", junction.ErrNotValid)
	}

	if rt.Method != "" {
		if err := route.Method(strings.ToUpper(rt.Method)).Valid(); err != nil {
			return fmt.Errorf("%w: method %q", err, rt.Method)
		}
	}

	return nil
}

// Build constructs a route.Router from m, along with every router nested in it.
// opts apply to the top router; nested routers inherit its logger.
func (m Manifest) Build(handlers Handlers, opts ...route.Option) (*route.Router, error) {
	if m.RootPath != "" {
		opts = append(opts, route.WithRootPath(m.RootPath))
	}
	if m.IgnoreTrailingSlash {
		opts = append(opts, route.WithIgnoreTrailingSlash(true))
	}

	r, err := route.New(opts...)
	if err != nil {
		return nil, err
	}

	if err := m.Register(r, handlers); err != nil {
		r.Dispose()
		return nil, err
	}

	return r, nil
}

// Register adds the routes of m to r and builds the routers nested in m as children of r.
func (m Manifest) Register(r *route.Router, handlers Handlers) error {
	for _, rt := range m.Routes {
		if err := rt.register(r, handlers); err != nil {
			return err
		}
	}

	for _, child := range m.Routers {
		_, err := child.Build(handlers,
			route.WithParent(r),
			route.WithLogger(r.Logger()),
		)
		if err != nil {
			return fmt.Errorf("router %s: %w", child.RootPath, err)
		}
	}

	return nil
}

func (rt Route) register(r *route.Router, handlers Handlers) error {
	if err := rt.Validate(); err != nil {
		return err
	}

	h, ok := handlers[rt.Handler]
	if !ok {
		return fmt.Errorf("%w: handler %q", junction.ErrNotExist, rt.Handler)
	}

	var opts []route.RouteOption
	if rt.Name != "" {
		opts = append(opts, route.Named(rt.Name))
	}
	if rt.Method != "" {
		opts = append(opts, route.OnMethod(route.Method(strings.ToUpper(rt.Method))))
	}

	var err error
	if rt.Regex != "" {
		_, err = r.HandleRegex(rt.Regex, h, opts...)
	} else {
		_, err = r.Handle(rt.Pattern, h, opts...)
	}
	if err != nil {
		return fmt.Errorf("registering %s: %w", rt.Destination(), err)
	}

	return nil
}

// Destination returns whichever of Pattern or Regex rt declares.
func (rt Route) Destination() string {
	if rt.Regex != "" {
		return rt.Regex
	}
	return rt.Pattern
}

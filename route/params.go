package route

import "sort"

// Parameters is a multi-valued mapping of parameter names to values.
// Values for one name keep the order they were added in.
type Parameters map[string][]string

// Get returns the first value bound to key or the empty string.
func (p Parameters) Get(key string) string {
	if vals := p[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// All returns every value bound to key.
func (p Parameters) All(key string) []string { return p[key] }

// Has reports whether key is bound to at least one value.
func (p Parameters) Has(key string) bool { return len(p[key]) > 0 }

// Add appends vals to those bound to key.
func (p Parameters) Add(key string, vals ...string) {
	p[key] = append(p[key], vals...)
}

// Set replaces the values bound to key with vals.
func (p Parameters) Set(key string, vals ...string) {
	p[key] = append([]string(nil), vals...)
}

// Merge adds every value in other to p.
func (p Parameters) Merge(other Parameters) {
	for k, vals := range other {
		p.Add(k, vals...)
	}
}

// Override replaces the values in p for every key present in other.
func (p Parameters) Override(other Parameters) {
	for k, vals := range other {
		p.Set(k, vals...)
	}
}

// Clone returns a deep copy of p; a nil p clones into an empty Parameters.
func (p Parameters) Clone() Parameters {
	c := make(Parameters, len(p))
	for k, vals := range p {
		c[k] = append([]string(nil), vals...)
	}
	return c
}

// Names returns the bound names in sorted order.
func (p Parameters) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

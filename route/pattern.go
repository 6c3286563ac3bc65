package route

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ParsePattern splits a path pattern into the Selectors leading from a router's root to its node.
//
// Segments are one of:
//
//	users          constant
//	{id}           required parameter
//	{id?}          optional parameter
//	{rest...}      named tailcard, last segment only
//	{...}          unnamed tailcard binding key=value segments, last segment only
//	*              wildcard
//	v{version}-rc  parameter with a literal prefix and suffix
//
// A pattern ending in "/" gains a TrailingSlashSelector.
// The pattern "/" has no Selectors: it names the root itself.
func ParsePattern(pattern string) ([]Selector, error) {
	if pattern == "" || pattern == "/" {
		return nil, nil
	}

	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}

	trailing := strings.HasSuffix(pattern, "/")
	segs := strings.Split(strings.Trim(pattern, "/"), "/")

	sels := make([]Selector, 0, len(segs)+1)
	for i, seg := range segs {
		sel, err := parseSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q in %s", err, seg, pattern)
		}

		if _, ok := sel.(TailcardSelector); ok && (i != len(segs)-1 || trailing) {
			return nil, fmt.Errorf("%w: tailcard %q must end %s", ErrBadPattern, seg, pattern)
		}

		sels = append(sels, sel)
	}

	if trailing {
		sels = append(sels, TrailingSlashSelector{})
	}

	return sels, nil
}

func parseSegment(seg string) (Selector, error) {
	if seg == "" {
		return nil, fmt.Errorf("%w: empty segment", ErrBadPattern)
	}

	if seg == "*" {
		return WildcardSelector{}, nil
	}

	lb, rb := strings.Index(seg, "{"), strings.LastIndex(seg, "}")
	if lb < 0 && rb < 0 {
		return ConstantSelector{Value: seg}, nil
	}

	if lb < 0 || rb < lb || strings.Count(seg, "{") != 1 || strings.Count(seg, "}") != 1 {
		return nil, fmt.Errorf("%w: unbalanced braces", ErrBadPattern)
	}

	prefix, inner, suffix := seg[:lb], seg[lb+1:rb], seg[rb+1:]
	switch {
	case inner == "...":
		if prefix != "" || suffix != "" {
			return nil, fmt.Errorf("%w: unnamed tailcard cannot take a prefix or suffix", ErrBadPattern)
		}
		return TailcardSelector{}, nil

	case strings.HasSuffix(inner, "..."):
		name := strings.TrimSuffix(inner, "...")
		if suffix != "" {
			return nil, fmt.Errorf("%w: tailcard cannot take a suffix", ErrBadPattern)
		}
		return TailcardSelector{Name: name, Prefix: prefix}, nil

	case strings.HasSuffix(inner, "?"):
		name := strings.TrimSuffix(inner, "?")
		if name == "" {
			return nil, fmt.Errorf("%w: unnamed optional parameter", ErrBadPattern)
		}
		return OptionalParameterSelector{Name: name, Prefix: prefix, Suffix: suffix}, nil

	case inner == "":
		return nil, fmt.Errorf("%w: unnamed parameter", ErrBadPattern)

	default:
		return ParameterSelector{Name: inner, Prefix: prefix, Suffix: suffix}, nil
	}
}

// ParseDestination splits a destination URI into unescaped path segments and its query parameters.
//
// A trailing slash leaves a final empty segment unless ignoreTrailingSlash is set.
// Empty segments from repeated slashes are dropped.
func ParseDestination(uri string, ignoreTrailingSlash bool) ([]string, Parameters, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, nil, fmt.Errorf("%w: empty uri", ErrBadDestination)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrBadDestination, err)
	}

	p := u.EscapedPath()
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	segs := []string{}
	for _, raw := range strings.Split(strings.Trim(p, "/"), "/") {
		if raw == "" {
			continue
		}

		seg, err := url.PathUnescape(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrBadDestination, err)
		}
		segs = append(segs, seg)
	}

	if len(segs) > 0 && strings.HasSuffix(p, "/") && !ignoreTrailingSlash {
		segs = append(segs, "")
	}

	query := Parameters{}
	for k, vals := range u.Query() {
		query.Add(k, vals...)
	}

	return segs, query, nil
}

// cleanPath normalizes p into an absolute path without a trailing slash.
func cleanPath(p string) string {
	return path.Clean("/" + p)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

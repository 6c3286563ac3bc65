package route

import (
	"fmt"
	"regexp"
	"strings"
)

// Quality tiers ranking how specific a successful Evaluation is.
// Higher wins when more than one child of a node matches.
const (
	QualityConstant         = 1.0
	QualityAffixedParameter = 0.9
	QualityParameter        = 0.8
	QualityRegex            = 0.8
	QualityWildcard         = 0.5
	QualityOptional         = 0.3
	QualityOptionalMissing  = 0.2
	QualityTailcard         = 0.1
	QualityTransparent      = -1.0
)

// A Context is the destination a Selector evaluates against.
type Context struct {
	// Segments are the unescaped path segments of the destination.
	// A trailing slash appears as a final empty segment.
	Segments []string

	// Method is the navigation method of the call being resolved.
	Method Method
}

// An Evaluation is the outcome of a Selector evaluating a Context.
type Evaluation struct {
	Succeeded  bool
	Quality    float64
	Parameters Parameters
	Consumed   int
}

// Transparent reports whether the Evaluation succeeded without ranking against path selectors.
func (e Evaluation) Transparent() bool { return e.Succeeded && e.Quality < 0 }

var failed = Evaluation{}

// A Selector matches one edge of the route tree.
type Selector interface {
	// Evaluate matches the Context starting at the segment at index.
	Evaluate(ctx *Context, index int) Evaluation

	// String renders the Selector as it appears in a path pattern.
	String() string
}

// SameSelector reports whether a and b are the same variant with the same textual parameters.
func SameSelector(a, b Selector) bool {
	switch x := a.(type) {
	case RegexSelector:
		y, ok := b.(RegexSelector)
		return ok && x.Pattern == y.Pattern
	default:
		return a == b
	}
}

// ConstantSelector matches one segment equal to Value.
type ConstantSelector struct {
	Value string
}

func (s ConstantSelector) Evaluate(ctx *Context, index int) Evaluation {
	if index >= len(ctx.Segments) || ctx.Segments[index] != s.Value {
		return failed
	}

	return Evaluation{Succeeded: true, Quality: QualityConstant, Consumed: 1}
}

func (s ConstantSelector) String() string { return "/" + s.Value }

// ParameterSelector matches any non-empty segment wrapped in Prefix and Suffix
// and binds what lies between them to Name.
type ParameterSelector struct {
	Name   string
	Prefix string
	Suffix string
}

func (s ParameterSelector) Evaluate(ctx *Context, index int) Evaluation {
	val, ok := unwrapAffix(ctx, index, s.Prefix, s.Suffix)
	if !ok {
		return failed
	}

	q := QualityParameter
	if s.Prefix != "" || s.Suffix != "" {
		q = QualityAffixedParameter
	}

	return Evaluation{Succeeded: true, Quality: q, Parameters: Parameters{s.Name: {val}}, Consumed: 1}
}

func (s ParameterSelector) String() string {
	return "/" + s.Prefix + "{" + s.Name + "}" + s.Suffix
}

// OptionalParameterSelector is a ParameterSelector that never fails:
// when the segment is absent or does not match, it binds nothing and consumes nothing.
type OptionalParameterSelector struct {
	Name   string
	Prefix string
	Suffix string
}

func (s OptionalParameterSelector) Evaluate(ctx *Context, index int) Evaluation {
	val, ok := unwrapAffix(ctx, index, s.Prefix, s.Suffix)
	if !ok {
		return Evaluation{Succeeded: true, Quality: QualityOptionalMissing}
	}

	return Evaluation{Succeeded: true, Quality: QualityOptional, Parameters: Parameters{s.Name: {val}}, Consumed: 1}
}

func (s OptionalParameterSelector) String() string {
	return "/" + s.Prefix + "{" + s.Name + "?}" + s.Suffix
}

// TailcardSelector consumes every remaining segment, even none.
//
// A named TailcardSelector binds the non-empty remaining segments to Name,
// stripping Prefix from the first one.
// An unnamed TailcardSelector binds each remaining key=value segment as key to value.
type TailcardSelector struct {
	Name   string
	Prefix string
}

func (s TailcardSelector) Evaluate(ctx *Context, index int) Evaluation {
	rest := []string{}
	if index < len(ctx.Segments) {
		rest = ctx.Segments[index:]
	}

	if s.Prefix != "" {
		if len(rest) == 0 || !strings.HasPrefix(rest[0], s.Prefix) {
			return failed
		}
		rest = append([]string{strings.TrimPrefix(rest[0], s.Prefix)}, rest[1:]...)
	}

	params := Parameters{}
	for _, seg := range rest {
		if seg == "" {
			continue
		}

		if s.Name == "" {
			k, v, _ := strings.Cut(seg, "=")
			params.Add(k, v)
			continue
		}

		params.Add(s.Name, seg)
	}

	return Evaluation{Succeeded: true, Quality: QualityTailcard, Parameters: params, Consumed: len(ctx.Segments) - min(index, len(ctx.Segments))}
}

func (s TailcardSelector) String() string {
	return "/" + s.Prefix + "{" + s.Name + "...}"
}

// WildcardSelector matches exactly one non-empty segment and binds nothing.
type WildcardSelector struct{}

func (s WildcardSelector) Evaluate(ctx *Context, index int) Evaluation {
	if index >= len(ctx.Segments) || ctx.Segments[index] == "" {
		return failed
	}

	return Evaluation{Succeeded: true, Quality: QualityWildcard, Consumed: 1}
}

func (s WildcardSelector) String() string { return "/*" }

// RegexSelector matches the remaining segments, joined by "/", against a regular expression.
// Named capture groups bind parameters.
// The match must begin at the current segment and end on a segment boundary.
type RegexSelector struct {
	Pattern string
	re      *regexp.Regexp
}

// NewRegexSelector compiles pattern into a RegexSelector.
// A leading "^" or "/" in pattern is ignored.
func NewRegexSelector(pattern string) (RegexSelector, error) {
	p := strings.TrimPrefix(pattern, "^")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return RegexSelector{}, fmt.Errorf("%w: empty regex", ErrBadPattern)
	}

	re, err := regexp.Compile("^(?:" + p + ")")
	if err != nil {
		return RegexSelector{}, fmt.Errorf("%w: %s", ErrBadPattern, err)
	}

	return RegexSelector{Pattern: p, re: re}, nil
}

func (s RegexSelector) Evaluate(ctx *Context, index int) Evaluation {
	if s.re == nil || index >= len(ctx.Segments) {
		return failed
	}

	rest := strings.Join(ctx.Segments[index:], "/")
	loc := s.re.FindStringSubmatchIndex(rest)
	if loc == nil || loc[1] == 0 {
		return failed
	}

	end := loc[1]
	if end < len(rest) && (rest[end] != '/' || rest[end-1] == '/') {
		return failed
	}

	params := Parameters{}
	for i, name := range s.re.SubexpNames() {
		if name == "" || loc[2*i] < 0 {
			continue
		}
		params.Add(name, rest[loc[2*i]:loc[2*i+1]])
	}

	return Evaluation{
		Succeeded:  true,
		Quality:    QualityRegex,
		Parameters: params,
		Consumed:   strings.Count(rest[:end], "/") + 1,
	}
}

func (s RegexSelector) String() string { return "/(" + s.Pattern + ")" }

// MethodSelector matches calls made with Method, consuming no segments.
type MethodSelector struct {
	Method Method
}

func (s MethodSelector) Evaluate(ctx *Context, index int) Evaluation {
	if ctx.Method != s.Method {
		return failed
	}

	return Evaluation{Succeeded: true, Quality: QualityTransparent}
}

func (s MethodSelector) String() string { return "[" + s.Method.String() + "]" }

// RootSelector matches the constant segments of Prefix.
// A router's root node and every mounted child router sit behind one.
// A Prefix with segments ranks like a constant; the bare root "/" is transparent.
type RootSelector struct {
	Prefix string
}

func (s RootSelector) Evaluate(ctx *Context, index int) Evaluation {
	segs := splitPath(s.Prefix)
	if index+len(segs) > len(ctx.Segments) {
		return failed
	}

	for i, seg := range segs {
		if ctx.Segments[index+i] != seg {
			return failed
		}
	}

	if len(segs) == 0 {
		return Evaluation{Succeeded: true, Quality: QualityTransparent}
	}
	return Evaluation{Succeeded: true, Quality: QualityConstant, Consumed: len(segs)}
}

func (s RootSelector) String() string {
	if s.Prefix == "/" {
		return ""
	}
	return s.Prefix
}

// TrailingSlashSelector matches the empty segment a trailing slash leaves at the end of a destination.
type TrailingSlashSelector struct{}

func (s TrailingSlashSelector) Evaluate(ctx *Context, index int) Evaluation {
	if index != len(ctx.Segments)-1 || ctx.Segments[index] != "" {
		return failed
	}

	return Evaluation{Succeeded: true, Quality: QualityConstant, Consumed: 1}
}

func (s TrailingSlashSelector) String() string { return "/" }

// unwrapAffix returns the segment at index stripped of prefix and suffix,
// failing when the segment is missing, lacks either affix, or nothing remains after stripping.
func unwrapAffix(ctx *Context, index int, prefix, suffix string) (string, bool) {
	if index >= len(ctx.Segments) {
		return "", false
	}

	seg := ctx.Segments[index]
	if len(seg) <= len(prefix)+len(suffix) {
		return "", false
	}

	if !strings.HasPrefix(seg, prefix) || !strings.HasSuffix(seg, suffix) {
		return "", false
	}

	return seg[len(prefix) : len(seg)-len(suffix)], true
}

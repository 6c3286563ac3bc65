package route_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction/route"
)

func TestParsePattern(t *testing.T) {
	tcs := []struct {
		pattern  string
		expected []route.Selector
	}{
		{"", nil},
		{"/", nil},
		{"/users/{id}", []route.Selector{route.ConstantSelector{Value: "users"}, route.ParameterSelector{Name: "id"}}},
		{"users/{tab?}/", []route.Selector{route.ConstantSelector{Value: "users"}, route.OptionalParameterSelector{Name: "tab"}, route.TrailingSlashSelector{}}},
		{"/api/v{version}-beta", []route.Selector{route.ConstantSelector{Value: "api"}, route.ParameterSelector{Name: "version", Prefix: "v", Suffix: "-beta"}}},
		{"/files/{path...}", []route.Selector{route.ConstantSelector{Value: "files"}, route.TailcardSelector{Name: "path"}}},
		{"/at/@{path...}", []route.Selector{route.ConstantSelector{Value: "at"}, route.TailcardSelector{Name: "path", Prefix: "@"}}},
		{"/q/{...}", []route.Selector{route.ConstantSelector{Value: "q"}, route.TailcardSelector{}}},
		{"/any/*", []route.Selector{route.ConstantSelector{Value: "any"}, route.WildcardSelector{}}},
	}

	for _, tc := range tcs {
		t.Run(tc.pattern, func(t *testing.T) {
			// Act
			actual, err := route.ParsePattern(tc.pattern)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestParsePatternErrors(t *testing.T) {
	for _, pattern := range []string{
		"/a//b",
		"/{rest...}/more",
		"/{rest...}/",
		"/{}",
		"/{?}",
		"/{a}{b}",
		"/{...}x",
		"/{rest...}x",
		"/a}",
	} {
		t.Run(pattern, func(t *testing.T) {
			// Act
			_, err := route.ParsePattern(pattern)

			// Assert
			require.ErrorIs(t, err, route.ErrBadPattern)
		})
	}
}

func TestParseDestination(t *testing.T) {
	tcs := []struct {
		name   string
		uri    string
		ignore bool
		segs   []string
		query  route.Parameters
	}{
		{"root", "/", false, []string{}, route.Parameters{}},
		{"query", "/users/42?tab=a&tab=b", false, []string{"users", "42"}, route.Parameters{"tab": {"a", "b"}}},
		{"escaped", "/a%2Fb/c%20d", false, []string{"a/b", "c d"}, route.Parameters{}},
		{"trailing-slash", "/dir/", false, []string{"dir", ""}, route.Parameters{}},
		{"trailing-slash-ignored", "/dir/", true, []string{"dir"}, route.Parameters{}},
		{"repeated-slashes", "/a///b", false, []string{"a", "b"}, route.Parameters{}},
		{"relative", "a/b", false, []string{"a", "b"}, route.Parameters{}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			segs, query, err := route.ParseDestination(tc.uri, tc.ignore)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.segs, segs)
			require.Equal(t, tc.query, query)
		})
	}

	for _, uri := range []string{"", "   ", "%zz"} {
		_, _, err := route.ParseDestination(uri, false)
		require.ErrorIs(t, err, route.ErrBadDestination)
	}
}

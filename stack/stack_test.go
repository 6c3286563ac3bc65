package stack_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
)

func entry(uri string) stack.Entry {
	return stack.Entry{URI: uri, RouteMethod: route.MethodPush, Parameters: route.Parameters{}}
}

func TestStackTransitions(t *testing.T) {
	// Arrange
	s := stack.NewStack()

	// Act
	s.Replace(entry("/a"))

	// Assert
	require.Equal(t, []string{"/a"}, uris(s.Entries()))

	// Act
	s.Push(entry("/b"))
	s.Push(entry("/c"))
	s.Replace(entry("/d"))

	// Assert
	require.Equal(t, []string{"/a", "/b", "/d"}, uris(s.Entries()))

	// Act
	s.ReplaceAll(entry("/x"))

	// Assert
	require.Equal(t, []string{"/x"}, uris(s.Entries()))
	require.Equal(t, 1, s.Len())
}

func TestStackPop(t *testing.T) {
	// Arrange
	s := stack.NewStack()

	// Act
	_, ok := s.Pop()

	// Assert
	require.False(t, ok)
	require.Zero(t, s.Len())

	// Arrange
	s.Push(entry("/a"))
	s.Push(entry("/b"))

	// Act
	e, ok := s.Pop()

	// Assert
	require.True(t, ok)
	require.Equal(t, "/b", e.URI)
	require.Equal(t, []string{"/a"}, uris(s.Entries()))
}

func TestStackPeekAndPrevious(t *testing.T) {
	// Arrange
	s := stack.NewStack()

	// Act
	_, peeked := s.Peek()
	_, prev := s.Previous()

	// Assert
	require.False(t, peeked)
	require.False(t, prev)

	// Arrange
	s.Push(entry("/a"))

	// Act
	top, _ := s.Peek()
	below, _ := s.Previous()

	// Assert
	require.Equal(t, "/a", top.URI)
	require.Equal(t, "/a", below.URI)

	// Arrange
	s.Push(entry("/b"))

	// Act
	top, _ = s.Peek()
	below, _ = s.Previous()

	// Assert
	require.Equal(t, "/b", top.URI)
	require.Equal(t, "/a", below.URI)
	require.Equal(t, 2, s.Len())
}

func TestStackEntriesCopies(t *testing.T) {
	// Arrange
	e := entry("/a")
	e.Parameters.Set("id", "1")
	s := stack.NewStack(e)

	// Act
	entries := s.Entries()
	entries[0].URI = "/changed"
	entries[0].Parameters.Set("id", "2")

	// Assert
	top, _ := s.Peek()
	require.Equal(t, "/a", top.URI)
	require.Equal(t, "1", top.Parameters.Get("id"))
}

func TestEntryJSON(t *testing.T) {
	// Arrange
	e := stack.Entry{
		Name:        "item",
		RouteMethod: route.MethodPush,
		URI:         "/path/42",
		Parameters:  route.Parameters{"id": {"42"}},
	}

	// Act
	b, err := json.Marshal(e)

	// Assert
	require.Nil(t, err)
	require.JSONEq(t, `{"name":"item","routeMethod":"PUSH","uri":"/path/42","parameters":{"id":["42"]}}`, string(b))

	// Act
	var back stack.Entry
	err = json.Unmarshal(b, &back)

	// Assert
	require.Nil(t, err)
	require.Equal(t, e, back)
}

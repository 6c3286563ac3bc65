package stack_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
)

func TestMemoryStore(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := stack.NewMemoryStore()
	entries := []stack.Entry{
		{Name: "item", RouteMethod: route.MethodPush, URI: "/path/42", Parameters: route.Parameters{"id": {"42"}}},
		{RouteMethod: route.MethodReplace, URI: "/b", Parameters: route.Parameters{}},
	}

	// Act
	missing, err := s.Load(ctx, "history")

	// Assert
	require.Nil(t, err)
	require.Empty(t, missing)

	// Act
	err = s.Save(ctx, "history", entries)

	// Assert
	require.Nil(t, err)

	// Act
	loaded, err := s.Load(ctx, "history")

	// Assert
	require.Nil(t, err)
	require.Equal(t, entries, loaded)

	// Act
	other, err := s.Load(ctx, "other")

	// Assert
	require.Nil(t, err)
	require.Empty(t, other)
}

func TestMemoryStoreCanceled(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := stack.NewMemoryStore()

	// Act
	err := s.Save(ctx, "history", nil)

	// Assert
	require.ErrorIs(t, err, context.Canceled)

	// Act
	_, err = s.Load(ctx, "history")

	// Assert
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRedisStoreURL(t *testing.T) {
	// Act
	_, err := stack.NewRedisStoreURL("http://localhost", time.Minute)

	// Assert
	require.ErrorIs(t, err, junction.ErrBadConfig)

	// Act
	s, err := stack.NewRedisStoreURL("redis://localhost:6379/0", time.Minute)

	// Assert
	require.Nil(t, err)
	require.Nil(t, s.Close())
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	// Arrange
	ctx := context.Background()
	s, err := stack.NewRedisStoreURL(url, time.Minute)
	require.Nil(t, err)
	defer s.Close()

	key := "junction-test-" + t.Name()
	entries := []stack.Entry{{RouteMethod: route.MethodPush, URI: "/a", Parameters: route.Parameters{}}}

	// Act
	err = s.Save(ctx, key, entries)

	// Assert
	require.Nil(t, err)

	// Act
	loaded, err := s.Load(ctx, key)

	// Assert
	require.Nil(t, err)
	require.Equal(t, entries, loaded)

	// Act
	missing, err := s.Load(ctx, key+"-missing")

	// Assert
	require.Nil(t, err)
	require.Empty(t, missing)
}

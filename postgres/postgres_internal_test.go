package postgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction"
)

func TestBuildCxnStr(t *testing.T) {
	for _, tc := range []struct {
		name     string
		cfg      *CxnConfig
		expected string
	}{
		{"url", &CxnConfig{URL: "postgres://u:p@db:5432/nav", Host: "ignored"}, "postgres://u:p@db:5432/nav"},
		{"default-sslmode", &CxnConfig{Host: "db", Port: "5432", Name: "nav", User: "u", Password: "p"}, "host=db port=5432 dbname=nav user=u password=p sslmode=prefer"},
		{"sslmode", &CxnConfig{Host: "db", Port: "5432", Name: "nav", User: "u", Password: "p", SSLMode: "disable"}, "host=db port=5432 dbname=nav user=u password=p sslmode=disable"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			actual := buildCxnStr(tc.cfg)

			// Assert
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestWrap(t *testing.T) {
	// Act + Assert
	require.Nil(t, wrap(nil, "saving %s", "history"))

	err := wrap(errors.New(`ERROR: null value in column "uri" (SQLSTATE 23502)`), "saving %s", "history")
	require.ErrorIs(t, err, junction.ErrNotValid)
	require.Contains(t, err.Error(), "saving history")

	err = wrap(errors.New("connection refused"), "loading %s", "history")
	require.ErrorIs(t, err, junction.ErrUnexpected)
}

func TestConnectNilConfig(t *testing.T) {
	// Act
	_, err := Connect(nil, nil, junction.Testing)

	// Assert
	require.ErrorIs(t, err, junction.ErrBadConfig)
}

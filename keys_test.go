package junction_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/junction"
)

func TestKeyString(t *testing.T) {
	require.Equal(t, "junction context key: CallIDKey", junction.CallIDKey.String())
	require.Equal(t, "junction context key: ", junction.Key("").String())
}

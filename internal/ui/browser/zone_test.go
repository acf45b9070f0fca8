package browser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowZoneID(t *testing.T) {
	require.Equal(t, "row:0", rowZoneID(0))
	require.Equal(t, "row:240", rowZoneID(240))
	require.Equal(t, "row:299999", rowZoneID(299999))
}

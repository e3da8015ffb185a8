package timefmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondsToHMS(t *testing.T) {
	assert.Equal(t, "00:00:00.00", SecondsToHMS(0))
	assert.Equal(t, "00:10:10.00", SecondsToHMS(610))
	assert.Equal(t, "01:00:30.50", SecondsToHMS(3630.5))
	assert.Equal(t, "02:46:40.00", SecondsToHMS(10000))
}

func TestParseHMS(t *testing.T) {
	got, err := ParseHMS("01:02:03")
	require.NoError(t, err)
	assert.InDelta(t, 3723.0, got, 1e-9)

	got, err = ParseHMS(" 00:10:10.5 ")
	require.NoError(t, err)
	assert.InDelta(t, 610.5, got, 1e-9)

	for _, bad := range []string{"", "10:00", "1:2:3:4", "aa:bb:cc"} {
		_, err := ParseHMS(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

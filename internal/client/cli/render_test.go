package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatSats(t *testing.T) {
	require.Equal(t, "0.00000000 BTC", formatSats(0))
	require.Equal(t, "1.00000000 BTC", formatSats(100_000_000))
	require.Equal(t, "0.00025000 BTC", formatSats(25_000))
	require.Equal(t, "21.50000000 BTC", formatSats(2_150_000_000))
	require.Equal(t, "-0.00000001 BTC", formatSats(-1))
}

func TestBadge(t *testing.T) {
	require.Equal(t, "CONFIRMED [success]", badge("confirmed"))
	require.Equal(t, "ABORTED (BYZANTINE) [failure]", badge("aborted_byzantine"))
	require.Equal(t, "SOMETHING_NEW [unknown]", badge("something_new"))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcdefg...", truncate("abcdefghijk", 10))
	require.Equal(t, "ab", truncate("abcdef", 2))
}

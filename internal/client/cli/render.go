package cli

import (
	"fmt"
	"strings"

	"mpcconsole/internal/client/txstate"
)

// formatSats renders a satoshi amount as BTC with eight decimals.
func formatSats(sats int64) string {
	sign := ""
	if sats < 0 {
		sign = "-"
		sats = -sats
	}
	return fmt.Sprintf("%s%d.%08d BTC", sign, sats/1e8, sats%1e8)
}

// badge renders a transaction state as "LABEL [severity]" using the shared
// state table, so unknown backend states still print their raw label.
func badge(state string) string {
	d := txstate.Describe(txstate.State(state))
	return fmt.Sprintf("%s [%s]", strings.ToUpper(d.Label), d.Severity)
}

// truncate shortens long identifiers for table output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

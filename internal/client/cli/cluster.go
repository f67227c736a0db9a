package cli

import (
	"context"
	"fmt"
)

func (a *App) cmdClusterStatus(ctx context.Context, _ []string) error {
	st, err := a.clust.Status(ctx)
	if err != nil {
		if st == nil {
			return err
		}
		fmt.Fprintf(a.out, "(stale, last refresh failed: %s)\n", err)
	}
	fmt.Fprintf(a.out, "Cluster: %s\n", st.Status)
	fmt.Fprintf(a.out, "  healthy nodes: %d/%d\n", st.HealthyNodes, st.TotalNodes)
	fmt.Fprintf(a.out, "  threshold:     %d\n", st.Threshold)
	fmt.Fprintf(a.out, "  as of:         %s\n", st.Timestamp)
	return nil
}

func (a *App) cmdNodes(ctx context.Context, _ []string) error {
	resp, err := a.clust.Nodes(ctx)
	if err != nil {
		if resp == nil {
			return err
		}
		fmt.Fprintf(a.out, "(stale, last refresh failed: %s)\n", err)
	}
	fmt.Fprintf(a.out, "%-6s %-10s %-22s %-8s %-12s %s\n",
		"NODE", "STATUS", "LAST HEARTBEAT", "VOTES", "VIOLATIONS", "BANNED")
	for _, n := range resp.Nodes {
		banned := ""
		if n.IsBanned {
			banned = "yes"
		}
		fmt.Fprintf(a.out, "%-6d %-10s %-22s %-8d %-12d %s\n",
			n.NodeID, n.Status, n.LastHeartbeat, n.TotalVotes, n.TotalViolations, banned)
	}
	fmt.Fprintf(a.out, "%d nodes\n", resp.Total)
	return nil
}

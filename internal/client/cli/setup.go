package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/common"
)

func (a *App) cmdDkgStatus(ctx context.Context, _ []string) error {
	st, err := a.setup.DkgStatus(ctx)
	if err != nil {
		if st == nil {
			return err
		}
		fmt.Fprintf(a.out, "(stale, last refresh failed: %s)\n", err)
	}
	fmt.Fprintf(a.out, "DKG: %d active, %d completed\n", st.ActiveCeremonies, st.TotalCompleted)
	if st.Cggmp24Address != "" {
		fmt.Fprintf(a.out, "  cggmp24: %s\n", st.Cggmp24Address)
	}
	if st.FrostAddress != "" {
		fmt.Fprintf(a.out, "  frost:   %s\n", st.FrostAddress)
	}
	return nil
}

func (a *App) cmdDkgInit(ctx context.Context, args []string) error {
	if len(args) != 3 {
		fmt.Fprintln(a.out, "usage: dkg-init <cggmp24|frost> <threshold> <total>")
		return nil
	}
	threshold, err1 := strconv.Atoi(args[1])
	total, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(a.out, "threshold and total must be integers")
		return nil
	}

	resp, err := a.setup.InitiateDkg(ctx, &models.DkgInitiateRequest{
		Protocol:   args[0],
		Threshold:  threshold,
		TotalNodes: total,
	})
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			fmt.Fprintf(a.out, "rejected: %s\n", err)
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "Ceremony %s started (%s, %d-of-%d)\n",
		resp.SessionID, resp.Protocol, resp.Threshold, resp.TotalNodes)
	if resp.Address != "" {
		fmt.Fprintf(a.out, "  address: %s\n", resp.Address)
	}
	return nil
}

func (a *App) cmdAuxStatus(ctx context.Context, _ []string) error {
	st, err := a.setup.AuxInfoStatus(ctx)
	if err != nil {
		if st == nil {
			return err
		}
		fmt.Fprintf(a.out, "(stale, last refresh failed: %s)\n", err)
	}
	fmt.Fprintf(a.out, "Aux info: present=%t, ceremonies=%d, size=%d bytes\n",
		st.HasAuxInfo, st.TotalCeremonies, st.AuxInfoSizeBytes)
	return nil
}

func (a *App) cmdAuxGen(ctx context.Context, _ []string) error {
	resp, err := a.setup.GenerateAuxInfo(ctx, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Aux ceremony %s started\n", resp.SessionID)
	return nil
}

func (a *App) cmdPresigStatus(ctx context.Context, _ []string) error {
	st, err := a.setup.PresigStatus(ctx)
	if err != nil {
		if st == nil {
			return err
		}
		fmt.Fprintf(a.out, "(stale, last refresh failed: %s)\n", err)
	}
	health := "healthy"
	if st.IsCritical {
		health = "critical"
	} else if !st.IsHealthy {
		health = "low"
	}
	fmt.Fprintf(a.out, "Presignature pool: %d/%d (max %d), %s\n",
		st.CurrentSize, st.TargetSize, st.MaxSize, health)
	fmt.Fprintf(a.out, "  utilization %.0f%%, hourly usage %d, generated %d, used %d\n",
		st.Utilization*100, st.HourlyUsage, st.TotalGenerated, st.TotalUsed)
	return nil
}

func (a *App) cmdPresigGen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: presig-gen <count>")
		return nil
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "count must be an integer")
		return nil
	}

	resp, err := a.setup.GeneratePresignatures(ctx, count)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			fmt.Fprintf(a.out, "rejected: %s\n", err)
			return nil
		}
		return err
	}
	fmt.Fprintf(a.out, "Generated %d presignatures in %dms, pool now %d\n",
		resp.Generated, resp.DurationMs, resp.NewPoolSize)
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/common"
)

// cmdDashboard shows the overview matching the user's home route.
func (a *App) cmdDashboard(ctx context.Context, _ []string) error {
	s := a.creds.Session()
	if s != nil && s.User.Role == models.RoleAdmin {
		return a.adminDashboard(ctx)
	}
	return a.userDashboard(ctx)
}

func (a *App) adminDashboard(ctx context.Context) error {
	if err := a.cmdClusterStatus(ctx, nil); err != nil {
		fmt.Fprintf(a.out, "cluster status unavailable: %s\n", err)
	}
	if ps, err := a.setup.PresigStatus(ctx); err == nil || ps != nil {
		fmt.Fprintf(a.out, "Presignature pool: %d/%d (healthy=%t)\n",
			ps.CurrentSize, ps.TargetSize, ps.IsHealthy)
	}
	return a.cmdBalance(ctx, nil)
}

func (a *App) userDashboard(ctx context.Context) error {
	if err := a.cmdBalance(ctx, nil); err != nil {
		fmt.Fprintf(a.out, "balance unavailable: %s\n", err)
	}
	if err := a.cmdReceive(ctx, nil); err != nil {
		fmt.Fprintf(a.out, "address unavailable: %s\n", err)
	}
	return a.cmdHistory(ctx, []string{"5"})
}

func (a *App) cmdBalance(ctx context.Context, _ []string) error {
	b, err := a.wallet.Balance(ctx)
	if err != nil {
		if b == nil {
			return err
		}
		fmt.Fprintf(a.out, "(stale, last refresh failed: %s)\n", err)
	}
	fmt.Fprintf(a.out, "Balance: %s (confirmed %s, unconfirmed %s)\n",
		formatSats(b.Total), formatSats(b.Confirmed), formatSats(b.Unconfirmed))
	return nil
}

func (a *App) cmdReceive(ctx context.Context, _ []string) error {
	addr, err := a.wallet.Address(ctx)
	if err != nil {
		if addr == nil {
			return err
		}
		fmt.Fprintf(a.out, "(stale, last refresh failed: %s)\n", err)
	}
	fmt.Fprintf(a.out, "Receive to: %s (%s)\n", addr.Address, addr.AddressType)
	return nil
}

// cmdSend walks the user through creating a transaction and prints the
// resulting snapshot.
func (a *App) cmdSend(ctx context.Context, _ []string) error {
	recipient, err := getSimpleText(a.reader, "Recipient address", a.out)
	if err != nil {
		return err
	}
	amountStr, err := getSimpleText(a.reader, "Amount (sats)", a.out)
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(amountStr), 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "amount must be an integer number of satoshis")
		return nil
	}
	metadata, err := getSimpleText(a.reader, "Metadata (optional, max 80 bytes)", a.out)
	if err != nil {
		return err
	}

	resp, err := a.txs.Create(ctx, &models.CreateTransactionRequest{
		Recipient:  recipient,
		AmountSats: amount,
		Metadata:   metadata,
	})
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			fmt.Fprintf(a.out, "rejected: %s\n", err)
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "Created %s  %s  fee %s  %s\n",
		resp.TxID, formatSats(resp.AmountSats), formatSats(resp.FeeSats), badge(resp.State))
	return nil
}

// cmdHistory lists transactions newest first. Optional args: limit, offset.
func (a *App) cmdHistory(ctx context.Context, args []string) error {
	limit, offset := 10, 0
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			limit = n
		}
	}
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil && n >= 0 {
			offset = n
		}
	}

	resp, err := a.txs.List(ctx, limit, offset)
	if err != nil {
		if resp == nil {
			return err
		}
		fmt.Fprintf(a.out, "(stale, last refresh failed: %s)\n", err)
	}
	if len(resp.Transactions) == 0 {
		fmt.Fprintln(a.out, "no transactions")
		return nil
	}
	fmt.Fprintf(a.out, "%-14s %-24s %-16s %-12s %s\n", "TXID", "STATE", "AMOUNT", "FEE", "RECIPIENT")
	for _, tx := range resp.Transactions {
		fmt.Fprintf(a.out, "%-14s %-24s %-16s %-12s %s\n",
			truncate(tx.TxID, 14), badge(tx.State), formatSats(tx.AmountSats),
			formatSats(tx.FeeSats), truncate(tx.Recipient, 24))
	}
	fmt.Fprintf(a.out, "%d of %d total\n", len(resp.Transactions), resp.Total)
	return nil
}

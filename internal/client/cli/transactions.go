package cli

import (
	"context"
	"errors"
	"fmt"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/client/txstate"
	"mpcconsole/internal/common"
)

// cmdTxs is the admin view of the cluster transaction list. Same table as
// history; admins see all transactions because the wallet is shared.
func (a *App) cmdTxs(ctx context.Context, args []string) error {
	return a.cmdHistory(ctx, args)
}

func (a *App) cmdTx(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: tx <txid>")
		return nil
	}
	tx, err := a.txs.Get(ctx, args[0])
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Fprintf(a.out, "no such transaction: %s\n", args[0])
			return nil
		}
		if tx == nil {
			return err
		}
		fmt.Fprintf(a.out, "(stale, last refresh failed: %s)\n", err)
	}
	a.printTx(tx)
	return nil
}

func (a *App) printTx(tx *models.Transaction) {
	fmt.Fprintf(a.out, "Transaction %s\n", tx.TxID)
	fmt.Fprintf(a.out, "  state:     %s\n", badge(tx.State))
	fmt.Fprintf(a.out, "  recipient: %s\n", tx.Recipient)
	fmt.Fprintf(a.out, "  amount:    %s\n", formatSats(tx.AmountSats))
	fmt.Fprintf(a.out, "  fee:       %s\n", formatSats(tx.FeeSats))
	if tx.Metadata != "" {
		fmt.Fprintf(a.out, "  metadata:  %s\n", tx.Metadata)
	}
	fmt.Fprintf(a.out, "  created:   %s\n", tx.CreatedAt)
	fmt.Fprintf(a.out, "  updated:   %s\n", tx.UpdatedAt)
}

// cmdWatch follows one transaction, printing every state change until the
// lifecycle reaches a final state or ctx is cancelled.
func (a *App) cmdWatch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: watch <txid>")
		return nil
	}

	sub := a.txs.Watch(args[0])
	defer sub.Close()

	var last string
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-sub.C:
			if !ok {
				return nil
			}
			if e.Err != nil {
				if errors.Is(e.Err, common.ErrNotFound) {
					fmt.Fprintf(a.out, "no such transaction: %s\n", args[0])
					return nil
				}
				fmt.Fprintf(a.out, "refresh failed: %s\n", e.Err)
				continue
			}
			tx, ok := e.Data.(*models.Transaction)
			if !ok {
				continue
			}
			if tx.State == last {
				continue
			}
			last = tx.State
			fmt.Fprintf(a.out, "%s  %s\n", tx.TxID, badge(tx.State))
			if txstate.IsTerminal(txstate.State(tx.State)) {
				return nil
			}
		}
	}
}

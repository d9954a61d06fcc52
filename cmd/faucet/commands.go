package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-veylop/sui-faucet-tui/internal/config"
	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
	"github.com/j-veylop/sui-faucet-tui/internal/models"
	"github.com/j-veylop/sui-faucet-tui/internal/services"
	"github.com/j-veylop/sui-faucet-tui/internal/version"
)

const (
	commandTimeout = 2 * time.Minute
	historyLimit   = 20
)

// withManager runs fn against a non-polling manager with the wallet
// connected.
func withManager(cmd *cobra.Command, fn func(ctx context.Context, m *services.Manager) error) error {
	cfg, logCloser, err := setup()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	m, err := services.NewManager(cfg, services.WithPolling(false))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer m.Close()

	if err := m.Connect(); err != nil {
		return fmt.Errorf("failed to connect wallet: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	return fn(ctx, m)
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show faucet balance and claim eligibility for the active address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(cmd, func(ctx context.Context, m *services.Manager) error {
				stats, err := m.RefreshStats(ctx)
				if err != nil {
					return errors.New(faucet.Message(err, faucet.MsgUnknownError))
				}
				writeStatus(cmd.OutOrStdout(), m.Address(), stats, time.Now())
				if proj, err := m.GetDrainProjection(); err == nil {
					writeOutlook(cmd.OutOrStdout(), proj)
				}
				return nil
			})
		},
	}
}

func newClaimCmd() *cobra.Command {
	var force bool
	c := &cobra.Command{
		Use:   "claim",
		Short: fmt.Sprintf("Claim %d SUI from the faucet", config.ClaimAmount),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(cmd, func(ctx context.Context, m *services.Manager) error {
				if !force {
					stats, err := m.RefreshStats(ctx)
					if err != nil {
						return errors.New(faucet.Message(err, faucet.MsgUnknownError))
					}
					if !stats.CanClaim {
						return fmt.Errorf("next claim in %s (use --force to submit anyway)",
							faucet.FormatCountdown(stats.Remaining(time.Now()).Milliseconds()))
					}
				}
				res, err := m.Claim(ctx)
				if err != nil {
					return errors.New(faucet.Message(err, faucet.MsgClaimFailed))
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Message)
				return nil
			})
		},
	}
	c.Flags().BoolVar(&force, "force", false, "submit even when the cooldown has not elapsed")
	return c
}

func newDepositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Deposit SUI from the active address into the faucet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := faucet.ParseDepositAmount(args[0]); err != nil {
				return errors.New(faucet.MsgInvalidAmount)
			}
			return withManager(cmd, func(ctx context.Context, m *services.Manager) error {
				res, err := m.Deposit(ctx, args[0])
				if err != nil {
					return errors.New(faucet.Message(err, faucet.MsgDepositFailed))
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Message)
				return nil
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "history",
		Short: "List claims and deposits sent from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(cmd, func(_ context.Context, m *services.Manager) error {
				txs, err := m.GetRecentTransactions(limit)
				if err != nil {
					return err
				}
				summary, err := m.GetTransactionSummary()
				if err != nil {
					return err
				}
				writeHistory(cmd.OutOrStdout(), txs, summary)
				return nil
			})
		},
	}
	c.Flags().IntVarP(&limit, "limit", "n", historyLimit, "number of transactions to show")
	return c
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

func writeStatus(w io.Writer, address string, stats faucet.FaucetStats, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Address:\t%s\n", address)
	fmt.Fprintf(tw, "Faucet balance:\t%s SUI\n", stats.Balance)
	fmt.Fprintf(tw, "Claim amount:\t%s SUI\n", stats.ClaimAmount)
	fmt.Fprintf(tw, "Cooldown:\t%s hours\n", stats.CooldownPeriod)
	fmt.Fprintf(tw, "Last claim:\t%s\n", faucet.FormatLastClaim(stats.LastClaimTime))
	if stats.CanClaim {
		fmt.Fprintf(tw, "Can claim:\tyes\n")
	} else {
		fmt.Fprintf(tw, "Can claim:\tno, next claim in %s\n",
			faucet.FormatCountdown(stats.Remaining(now).Milliseconds()))
	}
	if stats.ClockSource != faucet.ClockLedger {
		fmt.Fprintf(tw, "Clock:\t%s\n", stats.ClockSource)
	}
	_ = tw.Flush()

	if stats.LowBalance() {
		fmt.Fprintln(w, "Warning: faucet balance is below one claim")
	}
}

func writeOutlook(w io.Writer, proj *models.DrainProjection) {
	if proj.Status == models.ProjectionUnknown {
		return
	}
	fmt.Fprintf(w, "Outlook: %s, runs dry in %s (%s confidence)\n",
		proj.Status, proj.FormatTimeLeft(), proj.Confidence)
}

func writeHistory(w io.Writer, txs []models.TransactionRecord, summary *models.TransactionSummary) {
	if summary != nil {
		fmt.Fprintf(w, "Claims: %d (%s SUI)  Deposits: %d (%s SUI)  Failed: %d\n\n",
			summary.Claims, faucet.FormatSui(summary.ClaimedMist),
			summary.Deposits, faucet.FormatSui(summary.DepositedMist),
			summary.Failures)
	}
	if len(txs) == 0 {
		fmt.Fprintln(w, "No transactions recorded yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tKIND\tSTATUS\tAMOUNT\tDIGEST")
	for _, tx := range txs {
		detail := tx.Digest
		if !tx.Succeeded() && tx.Error != "" {
			detail = tx.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s SUI\t%s\n",
			tx.Timestamp.Local().Format("2006-01-02 15:04:05"),
			tx.Kind, tx.Status, faucet.FormatSui(tx.AmountMist), detail)
	}
	_ = tw.Flush()
}

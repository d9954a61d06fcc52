// Package main is the entry point for the Sui faucet client. Without a
// subcommand it runs the terminal UI; the subcommands drive the same
// services headlessly.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/sui-faucet-tui/internal/app"
	"github.com/j-veylop/sui-faucet-tui/internal/config"
	"github.com/j-veylop/sui-faucet-tui/internal/logger"
	"github.com/j-veylop/sui-faucet-tui/internal/services"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/tabs/history"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/tabs/info"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "faucet",
		Short: "Claim and deposit testnet SUI from a shared faucet",
		Long: `Sui faucet client.

Run without arguments for the terminal UI. Configuration comes from .env
files, the Sui CLI client.yaml and environment variables (SUI_RPC_URL,
SUI_WS_URL, SUI_CONFIG_DIR, SUI_KEYSTORE_PATH, SUI_ADDRESS,
FAUCET_PACKAGE_ID, FAUCET_OBJECT_ID, GAS_BUDGET, DATABASE_PATH, LOG_PATH,
LOG_LEVEL, NOTIFICATIONS).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
	}

	root.AddCommand(
		newStatusCmd(),
		newClaimCmd(),
		newDepositCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and starts file logging.
func setup() (*config.Config, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	closer, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, closer, nil
}

func runTUI() error {
	cfg, logCloser, err := setup()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	logger.Info("Starting faucet TUI", "rpc", cfg.RPCURL, "faucet", cfg.FaucetObjectID)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)
	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state),
		history.New(state, svcManager),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

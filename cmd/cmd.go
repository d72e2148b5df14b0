package cmd

import (
	"context"
	"log/slog"

	"github.com/gaze-network/ticket-ledger/internal/config"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var (
	// root command
	cmd = &cobra.Command{
		Use: "ticket-ledger",
		Long: `Event ticketing ledger. It keeps an event registry and a ticket payment
ledger with custody of buyer funds until payments are confirmed or failed.`,
	}

	// sub-commands
	cmds = []*cobra.Command{
		NewVersionCommand(),
		NewRunCommand(),
		NewMigrateCommand(),
		NewGenerateKeypairCommand(),
		NewSignCommand(),
	}
)

// Execute runs the root command and reports whether it failed.
func Execute(ctx context.Context) error {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")
	flags.String("network", "devnet", "network of the ledger, E.g. `mainnet`, `testnet` or `devnet`")

	// Bind flags to configuration
	config.BindPFlag("network", flags.Lookup("network"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.PanicContext(ctx, "Something went wrong, can't init logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})

	// Register sub-commands
	cmd.AddCommand(cmds...)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		// cobra already printed the error
		logger.DebugContext(ctx, "Error executing command", slogx.Error(err))
		return err
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/app"
	"github.com/felixgeelhaar/gymstore/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	logger    *slog.Logger
	container *app.Container
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gymstore",
	Short: "gymstore - gym retail backend",
	Long: `gymstore sells gym products and store subscriptions against prepaid
account credit, with loyalty coupons and rank-based discounts.

Run 'gymstore serve' for the HTTP API and 'gymstore relay' to deliver
domain events to the broker.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx := observability.WithCorrelationID(cmd.Context(), info.correlationID.String())
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			observability.CorrelationIDKey, info.correlationID.String(),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			observability.CorrelationIDKey, info.correlationID.String(),
			observability.DurationKey, time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetApp sets the container backing every command.
func SetApp(c *app.Container) {
	container = c
}

// GetApp returns the container, or an error when the store could not be
// opened at startup.
func GetApp() (*app.Container, error) {
	if container == nil {
		return nil, fmt.Errorf("application not initialized - database connection required")
	}
	return container, nil
}

// Root exposes the root command, mainly for tests.
func Root() *cobra.Command {
	return rootCmd
}

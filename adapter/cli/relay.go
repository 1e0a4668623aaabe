package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var relayOnce bool

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Deliver outbox events to the broker",
	Long: `Poll the outbox and publish pending domain events until interrupted.

With --once a single batch is relayed and the command exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if relayOnce {
			if err := c.OutboxProcessor.ProcessOnce(ctx); err != nil {
				return fmt.Errorf("relay batch: %w", err)
			}
			stats := c.OutboxProcessor.GetStats()
			fmt.Fprintf(cmd.OutOrStdout(), "published=%d failed=%d dead=%d\n",
				stats.PublishedCount, stats.FailedCount, stats.DeadCount)
			return nil
		}

		if err := c.OutboxProcessor.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		c.OutboxProcessor.Stop()
		return nil
	},
}

func init() {
	relayCmd.Flags().BoolVar(&relayOnce, "once", false, "relay one batch and exit")
	rootCmd.AddCommand(relayCmd)
}

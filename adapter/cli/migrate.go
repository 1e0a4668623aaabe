package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetApp()
		if err != nil {
			return err
		}
		applied, err := c.Migrate(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(applied) == 0 {
			fmt.Fprintf(out, "Schema up to date (%s)\n", c.DBDriver)
			return nil
		}
		fmt.Fprintf(out, "Applied %d migration(s) on %s: %s\n", len(applied), c.DBDriver, strings.Join(applied, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

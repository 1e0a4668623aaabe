package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/gymstore/internal/accounts/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tokenUser string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a user",
	Long: `Issue a bearer token for local testing of the HTTP API.

Examples:
  gymstore token --user sam@gym.test
  gymstore token --user 550e8400-e29b-41d4-a716-446655440000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetApp()
		if err != nil {
			return err
		}

		issue := commands.IssueTokenCommand{}
		if id, parseErr := uuid.Parse(tokenUser); parseErr == nil {
			issue.UserID = id
		} else {
			issue.Email = strings.TrimSpace(tokenUser)
		}

		token, err := c.IssueTokenHandler.Handle(cmd.Context(), issue)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user email or ID")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}

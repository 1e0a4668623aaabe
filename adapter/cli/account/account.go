// Package account holds the account administration commands.
package account

import (
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/gymstore/adapter/cli"
	"github.com/felixgeelhaar/gymstore/internal/accounts/application/commands"
	"github.com/felixgeelhaar/gymstore/internal/accounts/application/queries"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the root command for account management.
var Cmd = &cobra.Command{
	Use:   "account",
	Short: "Manage customer accounts",
}

var (
	openEmail  string
	openName   string
	openRole   string
	openTier   string
	openCredit string
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open an account",
	Long: `Open a user with its account and an inactive personal subscription.

Examples:
  gymstore account open --email sam@gym.test --name "Sam Lee" --credit 50
  gymstore account open --email ops@gym.test --name Ops --role admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cli.GetApp()
		if err != nil {
			return err
		}
		credit, err := sharedDomain.ParseMoney(openCredit)
		if err != nil {
			return err
		}

		result, err := c.OpenAccountHandler.Handle(cmd.Context(), commands.OpenAccountCommand{
			Email:         openEmail,
			FullName:      openName,
			Role:          openRole,
			Tier:          openTier,
			InitialCredit: credit,
		})
		if err != nil {
			return fmt.Errorf("failed to open account: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Account opened!")
		fmt.Fprintln(out, strings.Repeat("-", 40))
		fmt.Fprintf(out, "  User ID:    %s\n", result.UserID)
		fmt.Fprintf(out, "  Account ID: %s\n", result.AccountID)
		return nil
	},
}

var showEmail string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show an account by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cli.GetApp()
		if err != nil {
			return err
		}
		dto, err := c.GetAccountHandler.ByEmail(cmd.Context(), showEmail)
		if err != nil {
			return fmt.Errorf("failed to load account: %w", err)
		}
		printAccount(cmd.OutOrStdout(), dto)
		return nil
	},
}

var (
	topUpAccount string
	topUpAmount  string
)

var topUpCmd = &cobra.Command{
	Use:   "topup",
	Short: "Add credit to an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cli.GetApp()
		if err != nil {
			return err
		}
		accountID, err := uuid.Parse(topUpAccount)
		if err != nil {
			return fmt.Errorf("invalid account ID: %w", err)
		}
		amount, err := sharedDomain.ParseMoney(topUpAmount)
		if err != nil {
			return err
		}

		balance, err := c.TopUpCreditHandler.Handle(cmd.Context(), commands.TopUpCreditCommand{
			AccountID: accountID,
			Amount:    amount,
		})
		if err != nil {
			return fmt.Errorf("failed to top up: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Credit balance: %s\n", balance)
		return nil
	},
}

func printAccount(out io.Writer, dto *queries.AccountDTO) {
	fmt.Fprintf(out, "%s <%s>\n", dto.FullName, dto.Email)
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintf(out, "  Account ID: %s\n", dto.ID)
	fmt.Fprintf(out, "  Role:       %s\n", dto.Role)
	fmt.Fprintf(out, "  Rank:       %s\n", dto.Rank)
	fmt.Fprintf(out, "  Credit:     %s\n", dto.CreditBalance)
}

func init() {
	openCmd.Flags().StringVar(&openEmail, "email", "", "login email")
	openCmd.Flags().StringVar(&openName, "name", "", "full name")
	openCmd.Flags().StringVar(&openRole, "role", "", "customer or admin")
	openCmd.Flags().StringVar(&openTier, "tier", "", "loyalty rank (BRONZE, SILVER, GOLD, PLATINUM)")
	openCmd.Flags().StringVar(&openCredit, "credit", "0", "initial credit")
	_ = openCmd.MarkFlagRequired("email")
	_ = openCmd.MarkFlagRequired("name")

	showCmd.Flags().StringVar(&showEmail, "email", "", "login email")
	_ = showCmd.MarkFlagRequired("email")

	topUpCmd.Flags().StringVar(&topUpAccount, "account", "", "account ID")
	topUpCmd.Flags().StringVar(&topUpAmount, "amount", "", "amount to add")
	_ = topUpCmd.MarkFlagRequired("account")
	_ = topUpCmd.MarkFlagRequired("amount")

	Cmd.AddCommand(openCmd, showCmd, topUpCmd)
}

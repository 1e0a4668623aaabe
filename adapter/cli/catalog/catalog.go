// Package catalog holds the catalog seeding commands.
package catalog

import (
	"fmt"

	"github.com/felixgeelhaar/gymstore/adapter/cli"
	"github.com/felixgeelhaar/gymstore/internal/catalog/application/commands"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the root command for catalog management.
var Cmd = &cobra.Command{
	Use:   "catalog",
	Short: "Seed products and store subscriptions",
}

var (
	productName        string
	productDescription string
	productStock       int
	productPrice       string
	productCategory    string
	productImages      []string
)

var addProductCmd = &cobra.Command{
	Use:   "add-product",
	Short: "Add a product",
	Long: `Add a product to the catalog.

Examples:
  gymstore catalog add-product --name Kettlebell --price 24.90 --stock 12
  gymstore catalog add-product --name Mat --price 15 --stock 3 --image https://cdn.example/mat.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cli.GetApp()
		if err != nil {
			return err
		}
		price, err := sharedDomain.ParseMoney(productPrice)
		if err != nil {
			return err
		}

		add := commands.CreateProductCommand{
			Name:        productName,
			Description: productDescription,
			Stock:       productStock,
			Price:       price,
			ImageURLs:   productImages,
		}
		if productCategory != "" {
			id, err := uuid.Parse(productCategory)
			if err != nil {
				return fmt.Errorf("invalid category ID: %w", err)
			}
			add.CategoryID = &id
		}

		result, err := c.CreateProductHandler.Handle(cmd.Context(), add)
		if err != nil {
			return fmt.Errorf("failed to add product: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Product added: %s\n", result.ProductID)
		return nil
	},
}

var (
	planName        string
	planPrice       string
	planDescription string
	planType        string
	planDuration    int
)

var addPlanCmd = &cobra.Command{
	Use:   "add-plan",
	Short: "Add a store subscription",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cli.GetApp()
		if err != nil {
			return err
		}
		price, err := sharedDomain.ParseMoney(planPrice)
		if err != nil {
			return err
		}

		plan, err := c.CreatePlanHandler.Handle(cmd.Context(), commands.CreatePlanCommand{
			Name:         planName,
			Price:        price,
			Description:  planDescription,
			PlanType:     planType,
			DurationDays: planDuration,
		})
		if err != nil {
			return fmt.Errorf("failed to add store subscription: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Store subscription added: %s (%d days at %s)\n", plan.ID(), plan.DurationDays(), plan.Price())
		return nil
	},
}

func init() {
	addProductCmd.Flags().StringVar(&productName, "name", "", "product name")
	addProductCmd.Flags().StringVar(&productDescription, "description", "", "product description")
	addProductCmd.Flags().IntVar(&productStock, "stock", 0, "units in stock")
	addProductCmd.Flags().StringVar(&productPrice, "price", "", "unit price")
	addProductCmd.Flags().StringVar(&productCategory, "category", "", "category ID")
	addProductCmd.Flags().StringSliceVar(&productImages, "image", nil, "image URL (repeatable)")
	_ = addProductCmd.MarkFlagRequired("name")
	_ = addProductCmd.MarkFlagRequired("price")

	addPlanCmd.Flags().StringVar(&planName, "name", "", "plan name")
	addPlanCmd.Flags().StringVar(&planPrice, "price", "", "plan price")
	addPlanCmd.Flags().StringVar(&planDescription, "description", "", "plan description")
	addPlanCmd.Flags().StringVar(&planType, "type", "monthly", "plan type")
	addPlanCmd.Flags().IntVar(&planDuration, "days", 30, "duration in days")
	_ = addPlanCmd.MarkFlagRequired("name")
	_ = addPlanCmd.MarkFlagRequired("price")

	Cmd.AddCommand(addProductCmd, addPlanCmd)
}

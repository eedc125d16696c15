package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/gearmarket/market-appraiser/internal/api/client"
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

func listingsCmd() *cobra.Command {
	listingsRoot := &cobra.Command{
		Use:   "listings",
		Short: "Manage and query listings",
		Long: "Create, query, and moderate marketplace listings tracked\n" +
			"by the appraiser.",
	}

	listingsRoot.AddCommand(
		listingsListCmd(),
		listingsGetCmd(),
		listingsCreateCmd(),
		listingsSetStatusCmd(),
	)

	return listingsRoot
}

func listingsListCmd() *cobra.Command {
	var (
		category string
		brand    string
		status   string
		minPrice float64
		maxPrice float64
		limit    int
		offset   int
		orderBy  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings with optional filters",
		Example: `  # List all listings
  appraise listings list

  # Filter by segment and price range
  appraise listings list --category electronics --brand Apple --max-price 800

  # Sort by price with pagination
  appraise listings list --order-by price --limit 20 --offset 40`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			resp, err := c.ListListings(context.Background(), &apiclient.ListListingsParams{
				Category: category,
				Brand:    brand,
				Status:   status,
				MinPrice: minPrice,
				MaxPrice: maxPrice,
				Limit:    limit,
				Offset:   offset,
				OrderBy:  orderBy,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}

			if len(resp.Listings) == 0 {
				fmt.Println("No listings found.")
				return nil
			}

			fmt.Printf("Showing %d of %d listings\n\n", len(resp.Listings), resp.Total)
			return printListingsTable(resp.Listings)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category filter")
	cmd.Flags().StringVar(&brand, "brand", "", "brand filter")
	cmd.Flags().StringVar(&status, "status", "", "status filter (active, flagged, removed)")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price filter")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price filter")
	cmd.Flags().IntVar(&limit, "limit", 50, "number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")
	cmd.Flags().
		StringVar(&orderBy, "order-by", "", "sort order (price, created_at)")

	return cmd
}

func listingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show listing details",
		Example: `  appraise listings get abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			l, err := c.GetListing(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(l)
			}

			return printListingDetail(l)
		},
	}
}

func listingsCreateCmd() *cobra.Command {
	var (
		title     string
		price     float64
		category  string
		brand     string
		condition string
		currency  string
		battery   int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new listing",
		Example: `  appraise listings create --title "iPhone 13 Pro" --price 650 \
    --category electronics --brand Apple --condition good --battery 88`,
		RunE: func(c *cobra.Command, _ []string) error {
			listing := &domain.Listing{
				Title:     title,
				Price:     price,
				Currency:  currency,
				Category:  domain.Category(category),
				Brand:     brand,
				Condition: domain.Condition(condition),
			}
			if c.Flags().Changed("battery") {
				listing.BatteryHealth = &battery
			}

			created, err := newClient().CreateListing(context.Background(), listing)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(created)
			}

			fmt.Printf("Created listing %s\n", created.ID)
			return printListingDetail(created)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "listing title")
	cmd.Flags().Float64Var(&price, "price", 0, "asking price")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&brand, "brand", "", "brand")
	cmd.Flags().StringVar(&condition, "condition", "good", "condition (excellent, good, fair, poor)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "currency code")
	cmd.Flags().IntVar(&battery, "battery", 0, "battery health percentage")
	cobra.CheckErr(cmd.MarkFlagRequired("title"))
	cobra.CheckErr(cmd.MarkFlagRequired("price"))
	cobra.CheckErr(cmd.MarkFlagRequired("category"))
	cobra.CheckErr(cmd.MarkFlagRequired("brand"))

	return cmd
}

func listingsSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set-status <id> <status>",
		Short:   "Update a listing's moderation status",
		Example: `  appraise listings set-status abc123 flagged`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().SetListingStatus(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Listing %s is now %s\n", args[0], args[1])
			return nil
		},
	}
}

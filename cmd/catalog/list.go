package main

import (
	"github.com/spf13/cobra"

	"github.com/groblegark/catalog/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		products, err := api.FetchSnapshot(cmd.Context(), filter)
		if err != nil {
			return apiError(err)
		}

		if jsonOutput {
			printJSON(products)
			return nil
		}
		printProductTable(products)
		return nil
	},
}

func filterFromFlags(cmd *cobra.Command) (model.ProductFilter, error) {
	var filter model.ProductFilter
	filter.Search, _ = cmd.Flags().GetString("search")
	filter.IncludeInactive, _ = cmd.Flags().GetBool("all")
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	if cmd.Flags().Changed("min-price") {
		v, _ := cmd.Flags().GetFloat64("min-price")
		filter.MinPrice = &v
	}
	if cmd.Flags().Changed("max-price") {
		v, _ := cmd.Flags().GetFloat64("max-price")
		filter.MaxPrice = &v
	}
	return filter, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "filter by name substring")
	cmd.Flags().Float64("min-price", 0, "minimum price")
	cmd.Flags().Float64("max-price", 0, "maximum price")
	cmd.Flags().Bool("all", false, "include deactivated products")
	cmd.Flags().Int("limit", 0, "maximum number of products")
}

func init() {
	addFilterFlags(listCmd)
}

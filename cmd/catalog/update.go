package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireMutableSession(); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		draft := draftFromFlags(cmd)
		if err := draft.Validate(); err != nil {
			return err
		}

		p, err := api.UpdateProduct(cmd.Context(), id, draft)
		if err != nil {
			return apiError(err)
		}

		if jsonOutput {
			printJSON(p)
			return nil
		}
		fmt.Printf("Updated product %d: %s\n", p.ID, p.Name)
		return nil
	},
}

func init() {
	addDraftFlags(updateCmd)
	_ = updateCmd.MarkFlagRequired("name")
	_ = updateCmd.MarkFlagRequired("price")
}

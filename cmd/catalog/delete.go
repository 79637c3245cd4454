package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Deactivate a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireMutableSession(); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		if err := api.DeleteProduct(cmd.Context(), id); err != nil {
			return apiError(err)
		}

		fmt.Printf("Deleted product %d\n", id)
		return nil
	},
}

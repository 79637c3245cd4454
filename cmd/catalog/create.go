package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/catalog/internal/client"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireMutableSession(); err != nil {
			return err
		}

		draft := draftFromFlags(cmd)
		if err := draft.Validate(); err != nil {
			return err
		}

		p, err := api.CreateProduct(cmd.Context(), draft)
		if err != nil {
			return apiError(err)
		}

		if jsonOutput {
			printJSON(p)
			return nil
		}
		fmt.Printf("Created product %d: %s\n", p.ID, p.Name)
		return nil
	},
}

// draftFromFlags builds a product draft from the shared mutation flags.
func draftFromFlags(cmd *cobra.Command) *client.ProductDraft {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	price, _ := cmd.Flags().GetFloat64("price")
	active, _ := cmd.Flags().GetBool("active")
	return &client.ProductDraft{
		Name:        name,
		Description: description,
		Price:       price,
		Active:      active,
	}
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "product name")
	cmd.Flags().String("description", "", "product description")
	cmd.Flags().Float64("price", 0, "product price")
	cmd.Flags().Bool("active", true, "whether the product is visible in listings")
}

// requireMutableSession rejects mutation commands early when the stored
// session's role cannot mutate. This is a usability check only; the server
// enforces the role on every request.
func requireMutableSession() error {
	sess, ok := sessions.Get()
	if !ok {
		return fmt.Errorf("not logged in, run `catalog login`")
	}
	if !sess.Role.CanMutate() {
		return fmt.Errorf("role %q cannot modify the catalog", sess.Role)
	}
	return nil
}

func init() {
	addDraftFlags(createCmd)
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("price")
}

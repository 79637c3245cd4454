package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/groblegark/catalog/internal/model"
	"github.com/groblegark/catalog/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printProductTable(products []model.Product) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tACTIVE\tDESCRIPTION")
	for _, p := range products {
		name := p.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		desc := p.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		active := ui.RenderAccent("yes")
		if !p.Active {
			active = ui.RenderInactive("no")
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n", p.ID, name, p.Price, active, ui.RenderMuted(desc))
	}
	w.Flush()
	fmt.Printf("\n%d products\n", len(products))
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the claim tree with category subtotals",
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	log := newLogger()

	inspected, err := loadInspection(log)
	if err != nil {
		log.WithError(err).Error("inspection failed")
		return err
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), inspected)
	}
	return printTree(cmd.OutOrStdout(), inspected)
}

func printTree(output io.Writer, inspected *inspection) error {
	w := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)

	if batch := inspected.Batch; batch != nil {
		fmt.Fprintf(w, "Lote %s\tcompetencia %s\t%s (%s)\tvalor %s\n",
			batch.BatchNumber, batch.BillingPeriod, batch.PayerName, batch.PayerRegistryID, batch.DeclaredTotal.StringFixed(2))
	}

	for _, claim := range inspected.Result.Claims {
		fmt.Fprintf(w, "Guia %s\t%s\t%s\tvalor %s\n",
			claim.ID, claim.ProviderClaimNumber, claim.PaymentStatus, claim.DeclaredTotal.StringFixed(2))
		for _, item := range claim.Items {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				item.ID, item.Code, item.Category, item.Amount.StringFixed(2), item.EffectiveStatus())
		}

		label := "subtotais"
		if claim.Subtotals.Estimated {
			label = "subtotais (estimado)"
		}
		fmt.Fprintf(w, "  %s\tproc %s\tmed %s\tmat %s\ttaxa %s\n", label,
			claim.Subtotals.Procedure.StringFixed(2),
			claim.Subtotals.Medication.StringFixed(2),
			claim.Subtotals.Material.StringFixed(2),
			claim.Subtotals.Fee.StringFixed(2))
	}

	if len(inspected.Result.Orphans) > 0 {
		fmt.Fprintln(w, "Itens orfaos")
		for _, item := range inspected.Result.Orphans {
			fmt.Fprintf(w, "  %s\tparent %s\t%s\t%s\n", item.ID, item.ParentID, item.Code, item.Amount.StringFixed(2))
		}
	}
	return w.Flush()
}

func writeJSON(output io.Writer, value interface{}) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

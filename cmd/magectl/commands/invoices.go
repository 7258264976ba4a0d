package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/commercekit/magento-go/pkg/magento"
)

// NewInvoicesCommand creates the invoices command group.
func NewInvoicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Search sales invoices",
	}
	cmd.AddCommand(newInvoicesGetCommand())
	cmd.AddCommand(newInvoicesForOrderCommand())
	return cmd
}

func newInvoicesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NUMBER",
		Short: "Show one invoice by increment id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			invoice, err := client.Invoices().ByNumber(ctx, args[0])
			if err != nil {
				return err
			}
			return renderInvoice(invoice)
		},
	}
}

func newInvoicesForOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "for-order ORDER_NUMBER",
		Short: "Show the invoice issued for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			invoice, err := client.Invoices().ByOrderNumber(ctx, args[0])
			if err != nil {
				return err
			}
			return renderInvoice(invoice)
		},
	}
}

func renderInvoice(invoice *magento.Invoice) error {
	switch outputFormat() {
	case OutputFormatJSON:
		return renderJSON(invoice.Data())
	case OutputFormatYAML:
		return renderYAML(invoice.Data())
	default:
		fmt.Printf("Invoice %s\n", invoice.IncrementID)
		fmt.Printf("Created: %s\n", invoice.CreatedAt)
		fmt.Printf("Total:   %.2f (tax %.2f)\n\n", invoice.GrandTotal, invoice.TaxAmount)

		items, err := invoice.Items()
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("SKU", "Name", "Qty", "Price", "Row Total")
		for _, item := range items {
			_ = table.Append(item.SKU, item.Name,
				fmt.Sprintf("%g", item.Qty),
				fmt.Sprintf("%.2f", item.Price),
				fmt.Sprintf("%.2f", item.RowTotal))
		}
		_ = table.Render()
		return nil
	}
}

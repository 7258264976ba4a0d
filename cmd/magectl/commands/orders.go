package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/commercekit/magento-go/pkg/magento"
)

// NewOrdersCommand creates the orders command group.
func NewOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Search and inspect sales orders",
	}
	cmd.AddCommand(newOrdersListCommand())
	cmd.AddCommand(newOrdersGetCommand())
	return cmd
}

func newOrdersListCommand() *cobra.Command {
	var (
		status   string
		since    string
		until    string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			query := client.Orders().Search()
			if status != "" {
				query.AddCriteria("status", status)
			}
			if since != "" {
				query.Since(since)
			}
			if until != "" {
				query.Until(until)
			}
			if page > 0 || pageSize > 0 {
				query.Page(page, pageSize)
			}

			result, err := query.Execute(ctx)
			if err != nil {
				return err
			}
			orders := result.All()

			switch outputFormat() {
			case OutputFormatJSON:
				return renderJSON(orders)
			case OutputFormatYAML:
				return renderYAML(orders)
			default:
				if len(orders) == 0 {
					fmt.Println("No orders found")
					return nil
				}
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Number", "Status", "Created", "Customer", "Grand Total", "Net Total")
				for _, order := range orders {
					_ = table.Append(order.IncrementID, order.Status, order.CreatedAt,
						order.CustomerEmail,
						fmt.Sprintf("%.2f", order.GrandTotal),
						fmt.Sprintf("%.2f", order.NetTotal()))
				}
				_ = table.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by order status")
	cmd.Flags().StringVar(&since, "since", "", "orders created after this timestamp (2006-01-02 15:04:05)")
	cmd.Flags().StringVar(&until, "until", "", "orders created at or before this timestamp")
	cmd.Flags().IntVar(&page, "page", 0, "result page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func newOrdersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NUMBER",
		Short: "Show one order by increment id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			order, err := client.Orders().ByNumber(ctx, args[0])
			if err != nil {
				return err
			}

			switch outputFormat() {
			case OutputFormatJSON:
				return renderJSON(order.Data())
			case OutputFormatYAML:
				return renderYAML(order.Data())
			default:
				return renderOrderTable(order)
			}
		},
	}
}

func renderOrderTable(order *magento.Order) error {
	fmt.Printf("Order %s (%s)\n", order.IncrementID, order.Status)
	fmt.Printf("Created:  %s\n", order.CreatedAt)
	fmt.Printf("Customer: %s %s <%s>\n", order.CustomerFirstname, order.CustomerLastname, order.CustomerEmail)
	fmt.Printf("Total:    %.2f (net %.2f)\n\n", order.GrandTotal, order.NetTotal())

	items, err := order.Items()
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("SKU", "Name", "Qty", "Price", "Line Total")
	for _, item := range items {
		_ = table.Append(item.SKU, item.Name,
			fmt.Sprintf("%g", item.NetQtyOrdered()),
			fmt.Sprintf("%.2f", item.Price),
			fmt.Sprintf("%.2f", item.NetTotal()))
	}
	_ = table.Render()
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/commercekit/magento-go/pkg/magento"
)

var errCustomerSelectorRequired = errors.New("either --id or --email is required")

// NewCustomersCommand creates the customers command group.
func NewCustomersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Look up customer accounts",
	}
	cmd.AddCommand(newCustomersGetCommand())
	cmd.AddCommand(newCustomersOrdersCommand())
	return cmd
}

func newCustomersGetCommand() *cobra.Command {
	var (
		id    int
		email string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show one customer by id or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			var customer *magento.Customer
			switch {
			case id > 0:
				customer, err = client.Customers().ByID(ctx, id)
			case email != "":
				customer, err = client.Customers().ByEmail(ctx, email)
			default:
				return errCustomerSelectorRequired
			}
			if err != nil {
				return err
			}

			switch outputFormat() {
			case OutputFormatJSON:
				return renderJSON(customer.Data())
			case OutputFormatYAML:
				return renderYAML(customer.Data())
			default:
				fmt.Printf("%d  %s <%s>\n", customer.ID, customer.Name(), customer.Email)
				fmt.Printf("Registered: %s\n", customer.CreatedAt)

				billing, err := customer.BillingAddress()
				if err != nil {
					return err
				}
				if billing != nil {
					fmt.Printf("Billing:    %s, %s %s\n", billing.City, billing.Postcode, billing.CountryID)
				}
				return nil
			}
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "customer id")
	cmd.Flags().StringVar(&email, "email", "", "customer email")
	return cmd
}

func newCustomersOrdersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "orders ID",
		Short: "List the orders of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid customer id %q: %w", args[0], err)
			}

			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			orders, err := client.Orders().ByCustomerID(ctx, id)
			if err != nil {
				return err
			}

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
				table.Header("Number", "Status", "Created", "Grand Total")
				for _, order := range orders {
					_ = table.Append(order.IncrementID, order.Status, order.CreatedAt,
						fmt.Sprintf("%.2f", order.GrandTotal))
				}
				_ = table.Render()
			}
			return nil
		},
	}
}

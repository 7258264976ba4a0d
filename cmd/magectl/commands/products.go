package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/commercekit/magento-go/pkg/magento"
)

// NewProductsCommand creates the products command group.
func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Search and update catalog products",
	}
	cmd.AddCommand(newProductsListCommand())
	cmd.AddCommand(newProductsGetCommand())
	cmd.AddCommand(newProductsUpdateStockCommand())
	cmd.AddCommand(newProductsUpdatePriceCommand())
	cmd.AddCommand(newProductsUpdateStatusCommand())
	return cmd
}

func newProductsListCommand() *cobra.Command {
	var (
		name     string
		typeID   string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search products",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			query := client.Products().Search()
			if name != "" {
				query.AddCriteria("name", "%"+name+"%", magento.WithCondition(magento.ConditionLike))
			}
			if typeID != "" {
				query.AddCriteria("type_id", typeID)
			}
			if page > 0 || pageSize > 0 {
				query.Page(page, pageSize)
			}

			result, err := query.Execute(ctx)
			if err != nil {
				return err
			}
			products := result.All()

			switch outputFormat() {
			case OutputFormatJSON:
				return renderJSON(products)
			case OutputFormatYAML:
				return renderYAML(products)
			default:
				if len(products) == 0 {
					fmt.Println("No products found")
					return nil
				}
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("SKU", "Name", "Type", "Price", "Status", "Stock")
				for _, product := range products {
					_ = table.Append(product.SKU, product.Name, product.TypeID,
						fmt.Sprintf("%.2f", product.Price),
						productStatus(product.Status),
						fmt.Sprintf("%g", product.Stock()))
				}
				_ = table.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by name substring")
	cmd.Flags().StringVar(&typeID, "type", "", "filter by product type (simple, configurable, ...)")
	cmd.Flags().IntVar(&page, "page", 0, "result page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	return cmd
}

func newProductsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SKU",
		Short: "Show one product by SKU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			product, err := client.Products().BySKU(ctx, args[0])
			if err != nil {
				return err
			}

			switch outputFormat() {
			case OutputFormatJSON:
				return renderJSON(product.Data())
			case OutputFormatYAML:
				return renderYAML(product.Data())
			default:
				fmt.Printf("%s  %s\n", product.SKU, product.Name)
				fmt.Printf("Type:    %s\n", product.TypeID)
				fmt.Printf("Price:   %.2f\n", product.Price)
				fmt.Printf("Status:  %s\n", productStatus(product.Status))
				fmt.Printf("Stock:   %g\n", product.Stock())
				if desc := product.Description(); desc != "" {
					fmt.Printf("\n%s\n", desc)
				}
				return nil
			}
		},
	}
}

func newProductsUpdateStockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update-stock SKU QTY",
		Short: "Set the quantity on hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}

			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			product, err := client.Products().BySKU(ctx, args[0])
			if err != nil {
				return err
			}
			if err := product.UpdateStock(ctx, qty); err != nil {
				return err
			}
			fmt.Printf("Stock of %s set to %g\n", product.SKU, product.Stock())
			return nil
		},
	}
}

func newProductsUpdatePriceCommand() *cobra.Command {
	var special bool

	cmd := &cobra.Command{
		Use:   "update-price SKU PRICE",
		Short: "Set the base or special price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[1], err)
			}

			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			product, err := client.Products().BySKU(ctx, args[0])
			if err != nil {
				return err
			}
			if special {
				err = product.UpdateSpecialPrice(ctx, price)
			} else {
				err = product.UpdatePrice(ctx, price)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Price of %s updated\n", product.SKU)
			return nil
		},
	}

	cmd.Flags().BoolVar(&special, "special", false, "set the special (sale) price instead of the base price")
	return cmd
}

func newProductsUpdateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update-status SKU (enabled|disabled)",
		Short: "Enable or disable a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var status int
			switch args[1] {
			case "enabled":
				status = magento.ProductStatusEnabled
			case "disabled":
				status = magento.ProductStatusDisabled
			default:
				return fmt.Errorf("invalid status %q, want enabled or disabled", args[1])
			}

			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			product, err := client.Products().BySKU(ctx, args[0])
			if err != nil {
				return err
			}
			if err := product.UpdateStatus(ctx, status); err != nil {
				return err
			}
			fmt.Printf("Product %s is now %s\n", product.SKU, args[1])
			return nil
		},
	}
}

func productStatus(status int) string {
	switch status {
	case magento.ProductStatusEnabled:
		return "enabled"
	case magento.ProductStatusDisabled:
		return "disabled"
	default:
		return strconv.Itoa(status)
	}
}

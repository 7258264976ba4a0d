package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewCategoriesCommand creates the categories command group.
func NewCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse the category tree",
	}
	cmd.AddCommand(newCategoriesListCommand())
	cmd.AddCommand(newCategoriesGetCommand())
	return cmd
}

func newCategoriesListCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			var categories []*categoryRow
			if name != "" {
				found, err := client.Categories().ByName(ctx, name, false)
				if err != nil {
					return err
				}
				for _, c := range found {
					categories = append(categories, &categoryRow{c.ID, c.Name, c.Level, c.IsActive})
				}
			} else {
				all, err := client.Categories().All(ctx)
				if err != nil {
					return err
				}
				for _, c := range all {
					categories = append(categories, &categoryRow{c.ID, c.Name, c.Level, c.IsActive})
				}
			}

			switch outputFormat() {
			case OutputFormatJSON:
				return renderJSON(categories)
			case OutputFormatYAML:
				return renderYAML(categories)
			default:
				if len(categories) == 0 {
					fmt.Println("No categories found")
					return nil
				}
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Level", "Active")
				for _, c := range categories {
					_ = table.Append(strconv.Itoa(c.ID), c.Name, strconv.Itoa(c.Level),
						strconv.FormatBool(c.Active))
				}
				_ = table.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by name substring")
	return cmd
}

type categoryRow struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Level  int    `json:"level" yaml:"level"`
	Active bool   `json:"active" yaml:"active"`
}

func newCategoriesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one category with its subcategories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid category id %q: %w", args[0], err)
			}

			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			category, err := client.Categories().ByID(ctx, id)
			if err != nil {
				return err
			}

			switch outputFormat() {
			case OutputFormatJSON:
				return renderJSON(category.Data())
			case OutputFormatYAML:
				return renderYAML(category.Data())
			default:
				fmt.Printf("%d  %s (level %d)\n", category.ID, category.Name, category.Level)

				children, err := category.Subcategories(ctx)
				if err != nil {
					return err
				}
				if len(children) == 0 {
					return nil
				}
				fmt.Println("\nSubcategories:")
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Active")
				for _, child := range children {
					_ = table.Append(strconv.Itoa(child.ID), child.Name,
						strconv.FormatBool(child.IsActive))
				}
				_ = table.Render()
				return nil
			}
		},
	}
}

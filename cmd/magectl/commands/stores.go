package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewStoresCommand creates the stores command group.
func NewStoresCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Inspect store topology",
	}
	cmd.AddCommand(newStoresViewsCommand())
	cmd.AddCommand(newStoresWebsitesCommand())
	return cmd
}

func newStoresViewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List store views",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			views, err := client.Stores().Views(ctx)
			if err != nil {
				return err
			}

			switch outputFormat() {
			case OutputFormatJSON:
				return renderJSON(views)
			case OutputFormatYAML:
				return renderYAML(views)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Code", "Name", "Website", "Active")
				for _, view := range views {
					_ = table.Append(strconv.Itoa(view.ID), view.Code, view.Name,
						strconv.Itoa(view.WebsiteID), strconv.Itoa(view.IsActive))
				}
				_ = table.Render()

				single, err := client.Stores().IsSingleStore(ctx)
				if err != nil {
					return err
				}
				if single {
					fmt.Println("\nSingle-store installation")
				}
			}
			return nil
		},
	}
}

func newStoresWebsitesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "websites",
		Short: "List websites",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			websites, err := client.Stores().Websites(ctx)
			if err != nil {
				return err
			}

			switch outputFormat() {
			case OutputFormatJSON:
				return renderJSON(websites)
			case OutputFormatYAML:
				return renderYAML(websites)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Code", "Name", "Default Group")
				for _, website := range websites {
					_ = table.Append(strconv.Itoa(website.ID), website.Code, website.Name,
						strconv.Itoa(website.DefaultGroupID))
				}
				_ = table.Render()
			}
			return nil
		},
	}
}

package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/commercekit/magento-go/pkg/mageclient"
	"github.com/commercekit/magento-go/pkg/magento"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		domain   string
		username string
		password string
		scope    string
		local    bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to a Magento store",
		Long:  "Authenticate against a store's admin token endpoint and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if domain == "" {
				domain = viper.GetString("domain")
			}
			if domain == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Store domain: ")
				domain, _ = reader.ReadString('\n')
				domain = strings.TrimSpace(domain)
			}
			if domain == "" {
				return ErrDomainRequired
			}

			if username == "" {
				username = viper.GetString("username")
			}
			if username == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Username: ")
				username, _ = reader.ReadString('\n')
				username = strings.TrimSpace(username)
			}
			if username == "" {
				return ErrUsernameRequired
			}

			if password == "" {
				fmt.Print("Password: ")
				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(bytePassword)
				fmt.Println()
			}

			if !cmd.Flags().Changed("local") {
				local = viper.GetBool("local")
			}
			if scope == "" {
				scope = viper.GetString("scope")
			}

			ctx := context.Background()
			client, err := mageclient.New(ctx, &magento.Config{
				Domain:   domain,
				Username: username,
				Password: password,
				Scope:    scope,
				Local:    local,
			})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			token, err := client.AccessToken(ctx)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := persistSession(domain, username, scope, token, local); err != nil {
				return err
			}

			fmt.Printf("Successfully logged in to %s as %s\n", domain, username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "store domain, e.g. mystore.com")
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (prompted when omitted)")
	cmd.Flags().StringVar(&scope, "scope", "", "default store view scope")
	cmd.Flags().BoolVar(&local, "local", false, "target a local installation over plain http")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from the current store",
		Long:  "Drop the persisted session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := viper.GetString("domain")
			if err := persistSession(domain, "", viper.GetString("scope"), "", viper.GetBool("local")); err != nil {
				return err
			}
			fmt.Println("Successfully logged out")
			return nil
		},
	}
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if !appInstance.Session.BackendUp() {
			return fmt.Errorf("backend not reachable at %s", appInstance.Config.Backend.BaseURL)
		}

		if appInstance.Session.LoggedIn() {
			fmt.Printf("Already logged in as %s\n", appInstance.Session.User().Email)
			return nil
		}

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			fmt.Print("Email: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		if err := appInstance.Session.Login(ctx, email, string(password)); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return fmt.Errorf("login failed: check your credentials")
			}
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("✓ Logged in as %s\n", appInstance.Session.User().Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.Session.Logout(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Println("✓ Logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email (prompted if omitted)")
}

// requireLogin returns an error unless a session is active
func requireLogin() error {
	if appInstance.Session == nil || !appInstance.Session.LoggedIn() {
		return fmt.Errorf("not logged in: run 'invoicedesk login' first")
	}
	return nil
}

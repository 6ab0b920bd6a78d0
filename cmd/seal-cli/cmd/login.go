package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the SealShare backend and save the credential",
	Long: `Authenticate with email/password and save the returned token+email pair
to the local credential file for subsequent commands.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the saved credential",
	RunE:  runLogout,
}

var (
	loginEmail    string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "u", "", "Account email (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (required)")

	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	client := newClient(store)

	ctx := context.Background()

	if verbose {
		fmt.Printf("→ POST %s/auth/login (email: %s)\n", backendURL, loginEmail)
	}

	result, err := client.Login(ctx, loginEmail, loginPassword)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !result.Authenticated {
		if result.Error != "" {
			return fmt.Errorf("login failed: %s", result.Error)
		}
		return fmt.Errorf("login failed")
	}

	if err := store.Set(ctx, result.Token, result.Email); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Logged in as %s", result.Email))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	if err := store.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}

	PrintSuccess("Logged out")
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the saved credential is still valid",
	Long: `Ask the backend whether the saved token is still a valid session. The
backend is the source of truth: a rejected or stale token clears the local
credential file.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	client := newClient(store)

	ctx := context.Background()

	status, err := client.CheckAuthStatus(ctx)
	if err != nil || !status.Authenticated {
		if clearErr := store.Clear(ctx); clearErr != nil {
			PrintError(fmt.Sprintf("failed to clear stale credential: %v", clearErr))
		}
		return OutputData(map[string]interface{}{"authenticated": false})
	}

	return OutputData(map[string]interface{}{
		"authenticated": true,
		"email":         status.Email,
	})
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys <email> [email...]",
	Short: "Fetch recipient public keys",
	Long: `Fetch the public keys for one or more recipient emails. Lookups run
concurrently; a recipient without a key shows found=false instead of
failing the whole batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	client := newClient(store)

	if verbose {
		fmt.Printf("→ fetching public keys for %d recipient(s)\n", len(args))
	}

	keys := client.FetchPublicKeys(context.Background(), args)
	return OutputData(keys)
}

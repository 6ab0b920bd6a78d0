package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sealgate/pkg/apiclient"
	"sealgate/pkg/credstore"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	backendURL string
	credFile   string
	verbose    bool
	output     string // json, yaml, table
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "seal-cli",
	Short: "SealShare gateway CLI",
	Long: `A command-line interface for the SealShare gateway: authenticate against
the backend, look up recipient public keys, and inspect .seal files locally.

Credentials are stored in the same file-backed store the gateway daemon can
be configured to use, so a login here is visible to a local gateway.`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", getEnvOrDefault("SEALGATE_BACKEND_URL", "https://api.sealshare.app"), "Backend API URL")
	rootCmd.PersistentFlags().StringVar(&credFile, "cred-file", getDefaultCredFile(), "Credential file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (json, yaml, table)")

	rootCmd.AddCommand(versionCmd)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDefaultCredFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sealgate/credential.json"
	}
	return filepath.Join(home, ".sealgate", "credential.json")
}

func newStore() (credstore.Store, error) {
	store, err := credstore.NewFileStore(credFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return store, nil
}

func newClient(store credstore.Store) *apiclient.Client {
	return apiclient.NewClient(backendURL, store, 30*time.Second)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("SealShare gateway CLI v1.0.0")
	},
}

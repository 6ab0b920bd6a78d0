package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sealgate/pkg/envelope"
	"sealgate/pkg/identity"
	"sealgate/pkg/policy"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.seal>",
	Short: "Validate a .seal file and show the access verdict",
	Long: `Run the staged validation checks against a local .seal file and, using the
saved credential as the current identity, compute whether it could be
opened. No network calls are made.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var policyFile string

func init() {
	inspectCmd.Flags().StringVar(&policyFile, "policy", "", "Optional rego policy file gating the open decision")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	validator := envelope.NewValidator("", 0)
	env, err := validator.Validate(filepath.Base(path), raw)
	if err != nil {
		var vErr *envelope.ValidationError
		if errors.As(err, &vErr) {
			return OutputData(map[string]interface{}{
				"valid": false,
				"stage": vErr.Stage,
				"error": vErr.Message,
			})
		}
		return err
	}

	// Current identity: the saved email, falling back to the token's email
	// claim when only the token carries one.
	identityEmail := ""
	if store, storeErr := newStore(); storeErr == nil {
		if cred, getErr := store.Get(context.Background()); getErr == nil {
			identityEmail = cred.Email
			if identityEmail == "" && cred.Token != "" {
				identityEmail = identity.EmailFromToken(cred.Token)
			}
		}
	}

	now := time.Now()
	verdict := envelope.Authorize(env, identityEmail, now)
	canOpen := verdict.CanOpen()

	if policyFile != "" {
		policySource, err := os.ReadFile(policyFile)
		if err != nil {
			return fmt.Errorf("failed to read policy file: %w", err)
		}

		ctx := context.Background()
		gate, err := policy.NewOpenGate(ctx, string(policySource))
		if err != nil {
			return err
		}

		canOpen, err = gate.Allow(ctx, env, verdict, identityEmail, now)
		if err != nil {
			return err
		}
	}

	recipients := make([]string, 0, len(env.Recipients))
	for _, r := range env.Recipients {
		recipients = append(recipients, r.Email)
	}

	return OutputData(map[string]interface{}{
		"valid":        true,
		"fileId":       env.FileID,
		"version":      env.Version.String(),
		"originalName": env.Metadata.OriginalName,
		"originalSize": env.Metadata.OriginalSize,
		"encryptedAt":  env.Metadata.EncryptedAt,
		"expiresAt":    env.Metadata.ExpiresAt,
		"recipients":   recipients,
		"identity":     identityEmail,
		"isExpired":    verdict.IsExpired,
		"hasAccess":    verdict.HasAccess,
		"accessKnown":  verdict.AccessKnown,
		"canOpen":      canOpen,
		"reason":       verdict.DisabledReason(),
	})
}

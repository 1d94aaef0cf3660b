package main

import (
	"fmt"

	"scrivener/internal/aiservice"

	"github.com/spf13/cobra"
)

func setKeyCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "set-key [api-key]",
		Short: "Store the audit API key in the system keychain",
		Long: "Stores the API key used by the audit_architecture_consistency tool.\n" +
			"The SCRIVENER_API_KEY and OPENAI_API_KEY environment variables take\n" +
			"precedence over a stored key.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm := aiservice.NewCredentialManager()

			if remove {
				if err := cm.DeleteAPIKey(); err != nil {
					return fmt.Errorf("failed to delete API key: %w", err)
				}
				fmt.Println("API key removed from the keychain.")
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("provide the API key as an argument, or --delete to remove it")
			}
			if err := cm.StoreAPIKey(args[0]); err != nil {
				return fmt.Errorf("failed to store API key: %w", err)
			}
			fmt.Println("API key stored in the keychain.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "delete", false, "remove the stored API key")
	return cmd
}

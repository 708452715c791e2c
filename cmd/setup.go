package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/recap/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure recap (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works before config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		// Existing global config seeds the prompts in edit mode.
		existing, err := config.LoadGlobal()
		if err != nil {
			existing = nil
		}

		updated, err := config.RunSetup(existing)
		if err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}

		if err := config.SaveGlobal(updated); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println("  ✓ Config saved.")
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dealscout/internal/config"
	"dealscout/internal/database"
	"dealscout/internal/learning"
	"dealscout/internal/output"
	"dealscout/internal/persona"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a persona's preference snapshot as JSON",
	Long: `Export all feedback pairs and learned weights for a persona.

The snapshot is self-contained JSON, suitable for model training or for
carrying your learned taste to another machine.

Examples:
  dealscout export > preferences.json
  dealscout export --persona 3f2a... > fintech.json`,
	RunE: runExport,
}

var exportPersonaID string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportPersonaID, "persona", "", "persona id (default: active persona)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	p, err := resolvePersona(ctx, persona.NewRegistry(db), exportPersonaID)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("No active persona. Pick one with 'dealscout persona use <id>'.")
		return nil
	}

	snapshot, err := learning.NewStore(db).Export(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to build export: %w", err)
	}

	// The snapshot contract is JSON regardless of --output
	return output.JSON(snapshot)
}

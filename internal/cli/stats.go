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

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show feedback statistics for a persona",
	RunE:  runStats,
}

var statsPersonaID string

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsPersonaID, "persona", "", "persona id (default: active persona)")
}

func runStats(cmd *cobra.Command, args []string) error {
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

	p, err := resolvePersona(ctx, persona.NewRegistry(db), statsPersonaID)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("No active persona. Pick one with 'dealscout persona use <id>'.")
		return nil
	}

	stats, err := learning.NewStore(db).Stats(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	if outputFmt != "json" {
		fmt.Printf("Persona: %s\n\n", p.Name)
	}
	return output.Output(outputFmt, stats)
}

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

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show the strongest learned weights for a persona",
	Long: `Show learned attribute weights, strongest first.

Each weight is (likes - dislikes) / (likes + dislikes) over your
feedback, so it sits between -1 (always disliked) and +1 (always liked).`,
	RunE: runWeights,
}

var (
	weightsPersonaID string
	weightsLimit     int
)

func init() {
	rootCmd.AddCommand(weightsCmd)

	weightsCmd.Flags().StringVar(&weightsPersonaID, "persona", "", "persona id (default: active persona)")
	weightsCmd.Flags().IntVar(&weightsLimit, "limit", 10, "number of weights to show")
}

func runWeights(cmd *cobra.Command, args []string) error {
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

	p, err := resolvePersona(ctx, persona.NewRegistry(db), weightsPersonaID)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("No active persona. Pick one with 'dealscout persona use <id>'.")
		return nil
	}

	weights, err := learning.NewStore(db).TopWeights(ctx, p.ID, weightsLimit)
	if err != nil {
		return fmt.Errorf("failed to load weights: %w", err)
	}

	if outputFmt != "json" {
		fmt.Printf("Persona: %s\n\n", p.Name)
	}
	return output.Output(outputFmt, weights)
}

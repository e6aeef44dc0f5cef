package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dealscout/internal/config"
	"dealscout/internal/database"
	"dealscout/internal/learning"
	"dealscout/internal/output"
	"dealscout/internal/persona"
	"dealscout/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <attributes>",
	Short: "Score a candidate's attributes against a persona",
	Long: `Score a candidate described by a comma-separated attribute list.

Uses the active persona unless --persona is given. The score starts at
the neutral midpoint and moves for every positive, negative, or red-flag
match, weighted by learned weights where feedback exists.

Examples:
  dealscout score "serial_founder,yc_alumni,pre_revenue"
  dealscout score "phd,patents" --persona 3f2a...`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var scorePersonaID string

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scorePersonaID, "persona", "", "persona id (default: active persona)")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	attrs := splitList(args[0])

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	reg := persona.NewRegistry(db)
	engine := scoring.NewEngine(cfg.Scoring, learning.NewStore(db))

	p, err := resolvePersona(ctx, reg, scorePersonaID)
	if err != nil {
		return err
	}

	result, err := engine.Score(ctx, p, attrs)
	if err != nil && !errors.Is(err, scoring.ErrNoActivePersona) {
		return err
	}

	if outputFmt != "json" {
		t := NewTerminal()
		if errors.Is(err, scoring.ErrNoActivePersona) {
			fmt.Println(t.Color(ColorYellow, "No active persona; returning the neutral score."))
			fmt.Println("Pick one with 'dealscout persona use <id>'.")
			fmt.Println()
		} else {
			fmt.Printf("Persona: %s\n\n", t.Color(ColorCyan, p.Name))
		}
	}

	return output.Output(outputFmt, result)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dealscout/internal/config"
	"dealscout/internal/database"
	"dealscout/internal/learning"
	"dealscout/internal/persona"
)

var likeCmd = &cobra.Command{
	Use:   "like <entity-id>...",
	Short: "Record like judgments for one or more entities",
	Long: `Record a like judgment for each entity id, sharing one attribute
list across the run. A second judgment for the same entity replaces the
first; weight counters are adjusted so nothing double-counts.

Examples:
  dealscout like founder-1432 --attrs "serial_founder,prior_exit"
  dealscout like co-77 co-81 --type company --attrs "arr_growth" --ai-score 74 --agree`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulkFeedback(cmd, args, database.ActionLike)
	},
}

var dislikeCmd = &cobra.Command{
	Use:   "dislike <entity-id>...",
	Short: "Record dislike judgments for one or more entities",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulkFeedback(cmd, args, database.ActionDislike)
	},
}

var (
	feedbackAttrs     string
	feedbackType      string
	feedbackPersonaID string
	feedbackAIScore   int
	feedbackAgree     bool
)

func init() {
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(dislikeCmd)

	for _, cmd := range []*cobra.Command{likeCmd, dislikeCmd} {
		cmd.Flags().StringVar(&feedbackAttrs, "attrs", "", "comma-separated attributes (required)")
		cmd.Flags().StringVar(&feedbackType, "type", "person", "entity type (person, company)")
		cmd.Flags().StringVar(&feedbackPersonaID, "persona", "", "persona id (default: active persona)")
		cmd.Flags().IntVar(&feedbackAIScore, "ai-score", 0, "score the assistant gave this entity")
		cmd.Flags().BoolVar(&feedbackAgree, "agree", false, "record that you agreed with the assistant's score")
		cmd.MarkFlagRequired("attrs")
	}
}

func runBulkFeedback(cmd *cobra.Command, args []string, action database.Action) error {
	ctx := cmd.Context()
	attrs := splitList(feedbackAttrs)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	p, err := resolvePersona(ctx, persona.NewRegistry(db), feedbackPersonaID)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("No active persona; feedback needs one.")
		fmt.Println("Pick one with 'dealscout persona use <id>'.")
		return nil
	}

	entities := args
	capped := 0
	if max := p.MaxPerRun; max > 0 && len(entities) > max {
		capped = len(entities) - max
		entities = entities[:max]
	}

	opts := learning.FeedbackOptions{}
	if cmd.Flags().Changed("ai-score") {
		opts.AIScore = &feedbackAIScore
	}
	if cmd.Flags().Changed("agree") {
		opts.UserAgreed = &feedbackAgree
	}

	store := learning.NewStore(db)
	recorded := 0
	for _, entityID := range entities {
		if _, err := store.RecordFeedback(ctx, p.ID, entityID, database.EntityType(feedbackType), action, attrs, opts); err != nil {
			return fmt.Errorf("failed to record %s for %s: %w", action, entityID, err)
		}
		recorded++
	}

	fmt.Printf("Recorded %d %s judgment(s) for persona '%s'.\n", recorded, action, p.Name)
	if capped > 0 {
		fmt.Printf("Skipped %d entities over the persona's per-run cap of %d.\n", capped, p.MaxPerRun)
	}
	fmt.Println("Run 'dealscout sync' to push judgments upstream.")

	return nil
}

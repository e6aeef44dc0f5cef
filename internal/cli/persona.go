package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dealscout/internal/config"
	"dealscout/internal/database"
	"dealscout/internal/output"
	"dealscout/internal/persona"
)

var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "Manage evaluation personas",
	Long: `Manage named evaluation personas.

A persona bundles the criteria one investor hat cares about: positive
and negative highlights, hard red flags, and optional base weights.
At most one persona is active at a time; scoring and feedback default
to the active one.`,
}

var personaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all personas",
	RunE:  runPersonaList,
}

var personaShowCmd = &cobra.Command{
	Use:   "show <persona-id>",
	Short: "Show a persona in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonaShow,
}

var personaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new persona",
	Long: `Create a new persona. It starts inactive; activate it with
'dealscout persona use <id>'.

Example:
  dealscout persona create --name "Fintech Focus" \
    --positive "payments,b2b_saas,licensed" \
    --red-flags "unlicensed_lending" \
    --base-weight payments=0.8`,
	RunE: runPersonaCreate,
}

var personaUpdateCmd = &cobra.Command{
	Use:   "update <persona-id>",
	Short: "Update a persona's criteria or settings",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonaUpdate,
}

var personaDeleteCmd = &cobra.Command{
	Use:   "delete <persona-id>",
	Short: "Delete a persona",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonaDelete,
}

var personaUseCmd = &cobra.Command{
	Use:   "use <persona-id>",
	Short: "Make a persona the active one",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonaUse,
}

var personaInitDefaultsCmd = &cobra.Command{
	Use:   "init-defaults",
	Short: "Create the starter persona catalog",
	Long: `Create the built-in starter personas.

Running this again appends another copy of the catalog with fresh ids;
use --force to confirm when personas already exist.`,
	RunE: runPersonaInitDefaults,
}

var (
	personaName        string
	personaDescription string
	personaPositive    string
	personaNegative    string
	personaRedFlags    string
	personaBaseWeights []string
	personaMaxPerRun   int
	personaThreshold   float64
	personaBulkAction  string
	personaInitForce   bool
)

func init() {
	rootCmd.AddCommand(personaCmd)
	personaCmd.AddCommand(personaListCmd)
	personaCmd.AddCommand(personaShowCmd)
	personaCmd.AddCommand(personaCreateCmd)
	personaCmd.AddCommand(personaUpdateCmd)
	personaCmd.AddCommand(personaDeleteCmd)
	personaCmd.AddCommand(personaUseCmd)
	personaCmd.AddCommand(personaInitDefaultsCmd)

	for _, cmd := range []*cobra.Command{personaCreateCmd, personaUpdateCmd} {
		cmd.Flags().StringVar(&personaName, "name", "", "persona name")
		cmd.Flags().StringVar(&personaDescription, "description", "", "persona description")
		cmd.Flags().StringVar(&personaPositive, "positive", "", "comma-separated positive highlights")
		cmd.Flags().StringVar(&personaNegative, "negative", "", "comma-separated negative highlights")
		cmd.Flags().StringVar(&personaRedFlags, "red-flags", "", "comma-separated red flags")
		cmd.Flags().StringArrayVar(&personaBaseWeights, "base-weight", nil, "base weight as attr=value (repeatable)")
		cmd.Flags().IntVar(&personaMaxPerRun, "max-per-run", 0, "bulk feedback cap per run")
		cmd.Flags().Float64Var(&personaThreshold, "confidence-threshold", 0, "bulk confidence threshold (0-1)")
		cmd.Flags().StringVar(&personaBulkAction, "default-action", "", "default bulk action (like, dislike)")
	}

	personaInitDefaultsCmd.Flags().BoolVar(&personaInitForce, "force", false, "append the catalog even if personas already exist")
}

func runPersonaList(cmd *cobra.Command, args []string) error {
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

	personas, err := persona.NewRegistry(db).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list personas: %w", err)
	}

	return output.Output(outputFmt, personas)
}

func runPersonaShow(cmd *cobra.Command, args []string) error {
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

	p, err := persona.NewRegistry(db).Get(ctx, args[0])
	if err != nil {
		return err
	}

	return output.Output(outputFmt, p)
}

func runPersonaCreate(cmd *cobra.Command, args []string) error {
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

	weights, err := parseBaseWeights(personaBaseWeights)
	if err != nil {
		return err
	}

	id, err := persona.NewRegistry(db).Create(ctx, personaName, personaDescription,
		persona.Criteria{
			PositiveHighlights: splitList(personaPositive),
			NegativeHighlights: splitList(personaNegative),
			RedFlags:           splitList(personaRedFlags),
			BaseWeights:        weights,
		},
		persona.BulkSettings{
			MaxPerRun:           personaMaxPerRun,
			ConfidenceThreshold: personaThreshold,
			DefaultAction:       database.Action(personaBulkAction),
		})
	if err != nil {
		return err
	}

	fmt.Printf("Created persona %s\n", id)
	fmt.Printf("Activate it with: dealscout persona use %s\n", id)
	return nil
}

func runPersonaUpdate(cmd *cobra.Command, args []string) error {
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

	// Only flags the user actually set become part of the update
	upd := persona.Update{}
	flags := cmd.Flags()
	if flags.Changed("name") {
		upd.Name = &personaName
	}
	if flags.Changed("description") {
		upd.Description = &personaDescription
	}
	if flags.Changed("positive") {
		v := splitList(personaPositive)
		upd.PositiveHighlights = &v
	}
	if flags.Changed("negative") {
		v := splitList(personaNegative)
		upd.NegativeHighlights = &v
	}
	if flags.Changed("red-flags") {
		v := splitList(personaRedFlags)
		upd.RedFlags = &v
	}
	if flags.Changed("base-weight") {
		weights, err := parseBaseWeights(personaBaseWeights)
		if err != nil {
			return err
		}
		upd.BaseWeights = &weights
	}
	if flags.Changed("max-per-run") {
		upd.MaxPerRun = &personaMaxPerRun
	}
	if flags.Changed("confidence-threshold") {
		upd.ConfidenceThreshold = &personaThreshold
	}
	if flags.Changed("default-action") {
		action := database.Action(personaBulkAction)
		upd.DefaultAction = &action
	}

	if err := persona.NewRegistry(db).Update(ctx, args[0], upd); err != nil {
		return err
	}

	fmt.Printf("Updated persona %s\n", args[0])
	return nil
}

func runPersonaDelete(cmd *cobra.Command, args []string) error {
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

	if err := persona.NewRegistry(db).Delete(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted persona %s\n", args[0])
	return nil
}

func runPersonaUse(cmd *cobra.Command, args []string) error {
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

	reg := persona.NewRegistry(db)
	if err := reg.SetActive(ctx, args[0]); err != nil {
		return err
	}

	p, err := reg.Get(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Active persona: %s (%s)\n", p.Name, p.ID)
	return nil
}

func runPersonaInitDefaults(cmd *cobra.Command, args []string) error {
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

	reg := persona.NewRegistry(db)

	existing, err := reg.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 && !personaInitForce {
		fmt.Printf("You already have %d personas. Running init-defaults again\n", len(existing))
		fmt.Println("appends another copy of the starter catalog with fresh ids.")
		fmt.Println("Re-run with --force to do it anyway.")
		return nil
	}

	created, err := reg.InitializeDefaults(ctx)
	if err != nil {
		return fmt.Errorf("failed to create starter personas: %w", err)
	}

	fmt.Printf("Created %d starter personas.\n", created)
	fmt.Println("Run 'dealscout persona list' to see them, then 'dealscout persona use <id>'.")
	return nil
}

// resolvePersona picks the persona a command operates on: the --persona
// flag when given, otherwise the active persona. Returns nil with no
// error when neither exists.
func resolvePersona(ctx context.Context, reg *persona.Registry, id string) (*database.Persona, error) {
	if id != "" {
		return reg.Get(ctx, id)
	}
	return reg.GetActive(ctx)
}

// splitList parses a comma-separated flag value, trimming blanks
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// parseBaseWeights parses repeated attr=value flags
func parseBaseWeights(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	weights := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid base weight %q (want attr=value)", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid base weight %q: %w", pair, err)
		}
		weights[strings.TrimSpace(key)] = w
	}
	return weights, nil
}

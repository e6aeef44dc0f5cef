package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dealscout/internal/config"
	"dealscout/internal/database"
	"dealscout/internal/output"
	"dealscout/internal/upstream"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push queued judgments to the upstream deal-flow API",
	Long: `Drain the sync queue against the upstream dev proxy.

Every like/dislike enqueues a status write. Draining delivers pending
entries in order; failures are retried on later runs until the attempt
cap, then parked for inspection.

Examples:
  dealscout sync          # deliver pending entries
  dealscout sync --list   # just show the queue`,
	RunE: runSync,
}

var syncList bool

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncList, "list", false, "list pending entries instead of delivering")
}

func runSync(cmd *cobra.Command, args []string) error {
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

	client := upstream.New(cfg.Upstream.BaseURL, cfg.UpstreamToken(), cfg.Upstream.Timeout())
	syncer := upstream.NewSyncer(db, client, cfg.Upstream.MaxAttempts)

	if syncList {
		pending, err := syncer.Pending(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sync queue: %w", err)
		}
		return output.Output(outputFmt, pending)
	}

	if !client.IsRunning(ctx) {
		return fmt.Errorf("upstream proxy not reachable at %s", cfg.Upstream.BaseURL)
	}

	result, err := syncer.Drain(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	return output.Output(outputFmt, result)
}

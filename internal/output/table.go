package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"dealscout/internal/database"
	"dealscout/internal/learning"
	"dealscout/internal/scoring"
	"dealscout/internal/upstream"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []database.Persona:
		return personasTable(w, v)
	case *database.Persona:
		return personaDetail(w, v)
	case []database.LearnedWeight:
		return weightsTable(w, v)
	case *scoring.Result:
		return scoreResult(w, v)
	case *database.FeedbackStats:
		return statsTable(w, v)
	case []database.SyncEntry:
		return syncTable(w, v)
	case *upstream.DrainResult:
		return drainResult(w, v)
	case *learning.Snapshot:
		// Snapshots are a data interchange format; render as JSON even
		// in table mode
		return JSONTo(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func personasTable(w io.Writer, personas []database.Persona) error {
	if len(personas) == 0 {
		fmt.Fprintln(w, "No personas found. Run 'dealscout persona init-defaults' to create the starter set.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Active", "Positive", "Negative", "Red Flags")

	for _, p := range personas {
		active := ""
		if p.IsActive {
			active = "*"
		}
		if err := table.Append([]string{
			shortID(p.ID),
			truncate(p.Name, 28),
			active,
			fmt.Sprintf("%d", len(p.PositiveHighlights)),
			fmt.Sprintf("%d", len(p.NegativeHighlights)),
			fmt.Sprintf("%d", len(p.RedFlags)),
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func personaDetail(w io.Writer, p *database.Persona) error {
	fmt.Fprintf(w, "ID:          %s\n", p.ID)
	fmt.Fprintf(w, "Name:        %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(w, "Active:      %t\n", p.IsActive)
	fmt.Fprintf(w, "Positive:    %s\n", joinOrNone(p.PositiveHighlights))
	fmt.Fprintf(w, "Negative:    %s\n", joinOrNone(p.NegativeHighlights))
	fmt.Fprintf(w, "Red flags:   %s\n", joinOrNone(p.RedFlags))

	if len(p.BaseWeights) > 0 {
		fmt.Fprintln(w, "Base weights:")
		for attr, weight := range p.BaseWeights {
			fmt.Fprintf(w, "  %-28s %+.2f\n", attr, weight)
		}
	}

	fmt.Fprintf(w, "Bulk:        max %d per run, threshold %.2f, default %s\n",
		p.MaxPerRun, p.ConfidenceThreshold, p.DefaultBulkAction)
	fmt.Fprintf(w, "Created:     %s\n", p.CreatedAt.Format("Jan 02, 2006"))

	return nil
}

func weightsTable(w io.Writer, weights []database.LearnedWeight) error {
	if len(weights) == 0 {
		fmt.Fprintln(w, "No learned weights yet. Record some feedback first.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Attribute", "Weight", "Likes", "Dislikes")

	for _, lw := range weights {
		if err := table.Append([]string{
			truncate(lw.Attribute, 32),
			fmt.Sprintf("%+.2f", lw.Weight),
			fmt.Sprintf("%d", lw.LikeCount),
			fmt.Sprintf("%d", lw.DislikeCount),
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func scoreResult(w io.Writer, r *scoring.Result) error {
	fmt.Fprintf(w, "Score:          %d / 100\n", r.Score)
	fmt.Fprintf(w, "Recommendation: %s\n", r.Recommendation)
	if len(r.Matched) > 0 {
		fmt.Fprintf(w, "Matched:        %s\n", strings.Join(r.Matched, " "))
	}
	return nil
}

func statsTable(w io.Writer, s *database.FeedbackStats) error {
	fmt.Fprintln(w, "Feedback Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total judgments:   %d\n", s.Total)
	fmt.Fprintf(w, "Likes:             %d\n", s.Likes)
	fmt.Fprintf(w, "Dislikes:          %d\n", s.Dislikes)
	return nil
}

func syncTable(w io.Writer, entries []database.SyncEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Sync queue is empty.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Entity", "Type", "Action", "Attempts", "Last Error")

	for _, e := range entries {
		lastError := ""
		if e.LastError != nil {
			lastError = truncate(*e.LastError, 40)
		}
		if err := table.Append([]string{
			truncate(e.EntityID, 24),
			string(e.EntityType),
			string(e.Action),
			fmt.Sprintf("%d", e.Attempts),
			lastError,
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func drainResult(w io.Writer, r *upstream.DrainResult) error {
	fmt.Fprintf(w, "Delivered: %d\n", r.Delivered)
	fmt.Fprintf(w, "Failed:    %d\n", r.Failed)
	return nil
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

package output

import (
	"bytes"
	"strings"
	"testing"

	"dealscout/internal/database"
	"dealscout/internal/scoring"
)

func TestJSONTo(t *testing.T) {
	var buf bytes.Buffer
	err := JSONTo(&buf, map[string]int{"score": 72})
	if err != nil {
		t.Fatalf("JSONTo failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\"score\": 72") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestTableToScoreResult(t *testing.T) {
	var buf bytes.Buffer
	err := TableTo(&buf, &scoring.Result{
		Score:          72,
		Recommendation: scoring.SoftPass,
		Matched:        []string{"+serial_founder", "-pre_revenue"},
	})
	if err != nil {
		t.Fatalf("TableTo failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"72", "SOFT_PASS", "+serial_founder"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestTableToPersonas(t *testing.T) {
	var buf bytes.Buffer
	err := TableTo(&buf, []database.Persona{
		{
			ID:                 "abcdef1234567890",
			Name:               "Serial Founder Hunter",
			IsActive:           true,
			PositiveHighlights: []string{"serial_founder"},
		},
	})
	if err != nil {
		t.Fatalf("TableTo failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Serial Founder Hunter") {
		t.Errorf("expected persona name in output, got:\n%s", out)
	}
	if !strings.Contains(out, "abcdef12") {
		t.Errorf("expected short id in output, got:\n%s", out)
	}
}

func TestTableToEmptyPersonas(t *testing.T) {
	var buf bytes.Buffer
	if err := TableTo(&buf, []database.Persona{}); err != nil {
		t.Fatalf("TableTo failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No personas found") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestTableToUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := TableTo(&buf, 42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

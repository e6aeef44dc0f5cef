package attr

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "serial_founder", "serial_founder"},
		{"uppercase", "Serial Founder", "serial_founder"},
		{"whitespace runs", "  deep   tech  ", "deep_tech"},
		{"tabs and newlines", "prior\texit\n", "prior_exit"},
		{"blank", "   ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]string{"Serial Founder", "", "  ", "YC Alumni", "yc_alumni"})
	want := []string{"serial_founder", "yc_alumni", "yc_alumni"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeAll = %v, want %v", got, want)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		a, p string
		want bool
	}{
		{"exact", "serial_founder", "serial_founder", true},
		{"attribute contains entry", "serial_founder", "founder", true},
		{"entry contains attribute", "founder", "serial_founder", true},
		{"no overlap", "yc_alumni", "founder", false},
		{"empty attribute", "", "founder", false},
		{"empty entry", "founder", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.a, tt.p); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.a, tt.p, got, tt.want)
			}
		})
	}
}

func TestMatchesAnyNormalizesEntries(t *testing.T) {
	// List entries may be written in display form
	if !MatchesAny("serial_founder", []string{"Serial Founder"}) {
		t.Error("expected match against display-form entry")
	}
	if MatchesAny("serial_founder", []string{"Deep Tech"}) {
		t.Error("expected no match")
	}
	if MatchesAny("anything", nil) {
		t.Error("expected no match against empty list")
	}
}

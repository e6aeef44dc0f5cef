package persona

import (
	"context"

	"dealscout/internal/database"
)

// DefaultMaxPerRun caps bulk like/dislike runs when a persona doesn't
// set its own limit
const DefaultMaxPerRun = 25

const defaultConfidenceThreshold = 0.75

// starterCatalog returns the fixed set of bootstrap personas.
// Fresh copies each call; callers may mutate.
func starterCatalog() []database.Persona {
	return []database.Persona{
		{
			Name:        "Serial Founder Hunter",
			Description: "Backs founders with a track record over everything else",
			PositiveHighlights: []string{
				"serial_founder", "prior_exit", "yc_alumni",
				"repeat_entrepreneur", "technical_founder",
			},
			NegativeHighlights: []string{"first_time_founder", "solo_founder"},
			RedFlags:           []string{"no_experience", "misrepresented_background"},
			BaseWeights: map[string]float64{
				"serial_founder": 0.9,
				"prior_exit":     0.85,
				"yc_alumni":      0.8,
			},
			MaxPerRun:           DefaultMaxPerRun,
			ConfidenceThreshold: defaultConfidenceThreshold,
			DefaultBulkAction:   database.ActionLike,
		},
		{
			Name:        "Deep Tech Conviction",
			Description: "Looks for defensible technology and research pedigree",
			PositiveHighlights: []string{
				"phd", "patents", "research_background",
				"technical_moat", "hard_tech",
			},
			NegativeHighlights: []string{"no_technical_cofounder", "services_revenue"},
			RedFlags:           []string{"vaporware", "no_prototype"},
			BaseWeights: map[string]float64{
				"technical_moat": 0.85,
				"patents":        0.7,
			},
			MaxPerRun:           DefaultMaxPerRun,
			ConfidenceThreshold: defaultConfidenceThreshold,
			DefaultBulkAction:   database.ActionLike,
		},
		{
			Name:        "Early Revenue Pragmatist",
			Description: "Wants paying customers and capital efficiency before story",
			PositiveHighlights: []string{
				"paying_customers", "arr_growth", "capital_efficient",
				"profitable", "strong_retention",
			},
			NegativeHighlights: []string{"pre_revenue", "high_burn"},
			RedFlags:           []string{"churn_spike", "fabricated_metrics"},
			BaseWeights: map[string]float64{
				"paying_customers": 0.8,
				"arr_growth":       0.75,
			},
			MaxPerRun:           DefaultMaxPerRun,
			ConfidenceThreshold: defaultConfidenceThreshold,
			DefaultBulkAction:   database.ActionLike,
		},
		{
			Name:        "Red Flag Averse",
			Description: "Screens out risk first, upside second",
			PositiveHighlights: []string{
				"clean_cap_table", "experienced_team",
			},
			NegativeHighlights: []string{"crowded_market"},
			RedFlags: []string{
				"lawsuit_pending", "founder_dispute", "regulatory_risk",
				"misrepresented_background", "high_turnover",
			},
			MaxPerRun:           10,
			ConfidenceThreshold: 0.9,
			DefaultBulkAction:   database.ActionDislike,
		},
	}
}

// InitializeDefaults appends the starter catalog to the registry and
// returns how many personas were created. There is deliberately no
// duplicate guard: repeated calls append the catalog again with fresh
// ids, matching the observed behavior of the original. The CLI warns
// before re-running it.
func (r *Registry) InitializeDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, p := range starterCatalog() {
		p := p
		if err := r.db.CreatePersona(ctx, &p); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

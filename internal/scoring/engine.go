// Package scoring computes 0-100 recommendation scores for candidate
// attribute lists against a persona's rule set and learned weights.
package scoring

import (
	"context"
	"errors"
	"math"

	"dealscout/internal/attr"
	"dealscout/internal/database"
)

// ErrNoActivePersona is returned when scoring is requested with no persona
// loaded. It is a recoverable, user-visible condition; callers still get
// the neutral result.
var ErrNoActivePersona = errors.New("no persona loaded")

// Recommendation is the categorical output of scoring
type Recommendation string

const (
	StrongPass Recommendation = "STRONG_PASS"
	SoftPass   Recommendation = "SOFT_PASS"
	Borderline Recommendation = "BORDERLINE"
	Pass       Recommendation = "PASS"
)

// neutralScore is the starting midpoint before any adjustments
const neutralScore = 50.0

// Config holds the scoring constants. The source carried divergent
// hard-coded copies of these at independent call sites; here they are
// configuration with a single default.
type Config struct {
	PositiveDefault float64 `toml:"positive_default"` // fallback weight for positive matches
	NegativeDefault float64 `toml:"negative_default"` // fallback weight for negative matches
	RedFlagDefault  float64 `toml:"red_flag_default"` // fallback weight for red-flag matches
	HighlightScale  float64 `toml:"highlight_scale"`  // score points per weight unit (highlights)
	RedFlagScale    float64 `toml:"red_flag_scale"`   // score points per weight unit (red flags)
	StrongPassMin   int     `toml:"strong_pass_min"`
	SoftPassMin     int     `toml:"soft_pass_min"`
	BorderlineMin   int     `toml:"borderline_min"`
}

// DefaultConfig returns the standard scoring constants
func DefaultConfig() Config {
	return Config{
		PositiveDefault: 0.5,
		NegativeDefault: -0.3,
		RedFlagDefault:  -0.5,
		HighlightScale:  20,
		RedFlagScale:    30,
		StrongPassMin:   80,
		SoftPassMin:     60,
		BorderlineMin:   40,
	}
}

// WeightSource provides learned weight overrides. The weight store
// implements it; tests use a map-backed fake.
type WeightSource interface {
	Weight(ctx context.Context, personaID, attribute string) (float64, bool, error)
}

// PersonaSource provides persona lookups for score-by-id and
// score-against-active calls
type PersonaSource interface {
	Get(ctx context.Context, id string) (*database.Persona, error)
	GetActive(ctx context.Context) (*database.Persona, error)
}

// Result is the outcome of scoring one candidate
type Result struct {
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	Matched        []string       `json:"matched"`
}

// Engine scores candidates. It never writes; learned weights only change
// through the weight store's feedback path.
type Engine struct {
	cfg     Config
	weights WeightSource
}

// NewEngine creates a scoring engine. weights may be nil, in which case
// only persona base weights and defaults apply.
func NewEngine(cfg Config, weights WeightSource) *Engine {
	return &Engine{cfg: cfg, weights: weights}
}

// Score computes the bounded score for a candidate's attributes against
// the given persona. A nil persona yields the neutral result and
// ErrNoActivePersona.
func (e *Engine) Score(ctx context.Context, p *database.Persona, attrs []string) (*Result, error) {
	if p == nil {
		return &Result{
			Score:          int(neutralScore),
			Recommendation: e.recommend(int(neutralScore)),
			Matched:        []string{},
		}, ErrNoActivePersona
	}

	// Base weights may be keyed in either raw or normalized form
	base := make(map[string]float64, len(p.BaseWeights))
	for k, v := range p.BaseWeights {
		base[attr.Normalize(k)] = v
	}

	score := neutralScore
	matched := []string{}

	for _, raw := range attrs {
		a := attr.Normalize(raw)
		if a == "" {
			continue
		}

		// Each list is evaluated independently: one attribute can match
		// several lists and contribute several adjustments in one pass.
		if attr.MatchesAny(a, p.PositiveHighlights) {
			w, err := e.resolveWeight(ctx, p.ID, a, base, e.cfg.PositiveDefault)
			if err != nil {
				return nil, err
			}
			score += w * e.cfg.HighlightScale
			matched = append(matched, "+"+a)
		}
		if attr.MatchesAny(a, p.NegativeHighlights) {
			w, err := e.resolveWeight(ctx, p.ID, a, base, e.cfg.NegativeDefault)
			if err != nil {
				return nil, err
			}
			score += w * e.cfg.HighlightScale
			matched = append(matched, "-"+a)
		}
		if attr.MatchesAny(a, p.RedFlags) {
			w, err := e.resolveWeight(ctx, p.ID, a, base, e.cfg.RedFlagDefault)
			if err != nil {
				return nil, err
			}
			score += w * e.cfg.RedFlagScale
			matched = append(matched, "🚩"+a)
		}
	}

	final := int(math.Round(clamp(score, 0, 100)))
	return &Result{
		Score:          final,
		Recommendation: e.recommend(final),
		Matched:        matched,
	}, nil
}

// ScoreByID scores against a persona looked up by id
func (e *Engine) ScoreByID(ctx context.Context, personas PersonaSource, id string, attrs []string) (*Result, error) {
	p, err := personas.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.Score(ctx, p, attrs)
}

// ScoreActive scores against the active persona. With no active persona
// it returns the neutral result and ErrNoActivePersona.
func (e *Engine) ScoreActive(ctx context.Context, personas PersonaSource, attrs []string) (*Result, error) {
	p, err := personas.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return e.Score(ctx, p, attrs)
}

// resolveWeight picks the weight for a matched attribute: learned
// override first, then the persona's base weight, then the list default.
func (e *Engine) resolveWeight(ctx context.Context, personaID, a string, base map[string]float64, fallback float64) (float64, error) {
	if e.weights != nil {
		w, ok, err := e.weights.Weight(ctx, personaID, a)
		if err != nil {
			return 0, err
		}
		if ok {
			return w, nil
		}
	}
	if w, ok := base[a]; ok {
		return w, nil
	}
	return fallback, nil
}

func (e *Engine) recommend(score int) Recommendation {
	switch {
	case score >= e.cfg.StrongPassMin:
		return StrongPass
	case score >= e.cfg.SoftPassMin:
		return SoftPass
	case score >= e.cfg.BorderlineMin:
		return Borderline
	default:
		return Pass
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

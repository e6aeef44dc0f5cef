// Package persona manages the registry of named evaluation profiles.
// At most one persona is active at any time; activation is transactional.
package persona

import (
	"context"
	"fmt"

	"dealscout/internal/database"
)

// Criteria holds a persona's attribute rule set
type Criteria struct {
	PositiveHighlights []string
	NegativeHighlights []string
	RedFlags           []string
	BaseWeights        map[string]float64
}

// BulkSettings controls bulk like/dislike runs
type BulkSettings struct {
	MaxPerRun           int
	ConfidenceThreshold float64
	DefaultAction       database.Action
}

// Update describes a partial edit; nil fields are left unchanged.
// Activation state is never part of an update.
type Update struct {
	Name                *string
	Description         *string
	PositiveHighlights  *[]string
	NegativeHighlights  *[]string
	RedFlags            *[]string
	BaseWeights         *map[string]float64
	MaxPerRun           *int
	ConfidenceThreshold *float64
	DefaultAction       *database.Action
}

// Registry is the persona service over the database
type Registry struct {
	db *database.DB
}

// NewRegistry creates a persona registry
func NewRegistry(db *database.DB) *Registry {
	return &Registry{db: db}
}

// Create adds a new, inactive persona and returns its id
func (r *Registry) Create(ctx context.Context, name, description string, c Criteria, b BulkSettings) (string, error) {
	if name == "" {
		return "", fmt.Errorf("persona name is required: %w", database.ErrValidation)
	}
	if err := validateBulkSettings(&b); err != nil {
		return "", err
	}

	p := &database.Persona{
		Name:                name,
		Description:         description,
		PositiveHighlights:  c.PositiveHighlights,
		NegativeHighlights:  c.NegativeHighlights,
		RedFlags:            c.RedFlags,
		BaseWeights:         c.BaseWeights,
		MaxPerRun:           b.MaxPerRun,
		ConfidenceThreshold: b.ConfidenceThreshold,
		DefaultBulkAction:   b.DefaultAction,
	}

	if err := r.db.CreatePersona(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// Get retrieves a persona by id
func (r *Registry) Get(ctx context.Context, id string) (*database.Persona, error) {
	p, err := r.db.GetPersona(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("persona %s: %w", id, database.ErrNotFound)
	}
	return p, nil
}

// Update applies a partial edit to an existing persona
func (r *Registry) Update(ctx context.Context, id string, upd Update) error {
	p, err := r.db.GetPersona(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("persona %s: %w", id, database.ErrNotFound)
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return fmt.Errorf("persona name is required: %w", database.ErrValidation)
		}
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.PositiveHighlights != nil {
		p.PositiveHighlights = *upd.PositiveHighlights
	}
	if upd.NegativeHighlights != nil {
		p.NegativeHighlights = *upd.NegativeHighlights
	}
	if upd.RedFlags != nil {
		p.RedFlags = *upd.RedFlags
	}
	if upd.BaseWeights != nil {
		p.BaseWeights = *upd.BaseWeights
	}
	if upd.MaxPerRun != nil {
		p.MaxPerRun = *upd.MaxPerRun
	}
	if upd.ConfidenceThreshold != nil {
		p.ConfidenceThreshold = *upd.ConfidenceThreshold
	}
	if upd.DefaultAction != nil {
		p.DefaultBulkAction = *upd.DefaultAction
	}

	b := BulkSettings{
		MaxPerRun:           p.MaxPerRun,
		ConfidenceThreshold: p.ConfidenceThreshold,
		DefaultAction:       p.DefaultBulkAction,
	}
	if err := validateBulkSettings(&b); err != nil {
		return err
	}
	p.MaxPerRun = b.MaxPerRun
	p.DefaultBulkAction = b.DefaultAction

	return r.db.UpdatePersona(ctx, p)
}

// Delete removes a persona. Deleting the active persona leaves the
// registry with no active persona until another is activated.
func (r *Registry) Delete(ctx context.Context, id string) error {
	return r.db.DeletePersona(ctx, id)
}

// SetActive makes the given persona the single active one
func (r *Registry) SetActive(ctx context.Context, id string) error {
	return r.db.SetActivePersona(ctx, id)
}

// GetActive returns the active persona, or nil if none is active
func (r *Registry) GetActive(ctx context.Context) (*database.Persona, error) {
	return r.db.GetActivePersona(ctx)
}

// List returns all personas in creation order
func (r *Registry) List(ctx context.Context) ([]database.Persona, error) {
	return r.db.ListPersonas(ctx)
}

func validateBulkSettings(b *BulkSettings) error {
	if b.MaxPerRun < 0 {
		return fmt.Errorf("max_per_run must not be negative: %w", database.ErrValidation)
	}
	if b.MaxPerRun == 0 {
		b.MaxPerRun = DefaultMaxPerRun
	}
	if b.ConfidenceThreshold < 0 || b.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be between 0 and 1: %w", database.ErrValidation)
	}
	if b.DefaultAction == "" {
		b.DefaultAction = database.ActionLike
	}
	if b.DefaultAction != database.ActionLike && b.DefaultAction != database.ActionDislike {
		return fmt.Errorf("default action must be like or dislike: %w", database.ErrValidation)
	}
	return nil
}

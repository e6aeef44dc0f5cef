package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const personaColumns = `
	id, name, description, positive_highlights, negative_highlights,
	red_flags, base_weights, max_per_run, confidence_threshold,
	default_bulk_action, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPersona(row rowScanner) (*Persona, error) {
	p := &Persona{}
	var positive, negative, redFlags, baseWeights string

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &positive, &negative,
		&redFlags, &baseWeights, &p.MaxPerRun, &p.ConfidenceThreshold,
		&p.DefaultBulkAction, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.PositiveHighlights = unmarshalStrings(positive)
	p.NegativeHighlights = unmarshalStrings(negative)
	p.RedFlags = unmarshalStrings(redFlags)
	p.BaseWeights = unmarshalWeights(baseWeights)
	return p, nil
}

// CreatePersona inserts a new persona. New personas are always inactive.
func (db *DB) CreatePersona(ctx context.Context, p *Persona) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.IsActive = false
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	_, err := db.ExecContext(ctx, `
		INSERT INTO personas (
			id, name, description, positive_highlights, negative_highlights,
			red_flags, base_weights, max_per_run, confidence_threshold,
			default_bulk_action, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`,
		p.ID, p.Name, p.Description,
		marshalStrings(p.PositiveHighlights), marshalStrings(p.NegativeHighlights),
		marshalStrings(p.RedFlags), marshalWeights(p.BaseWeights),
		p.MaxPerRun, p.ConfidenceThreshold, p.DefaultBulkAction,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetPersona retrieves a persona by ID
func (db *DB) GetPersona(ctx context.Context, id string) (*Persona, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+personaColumns+`
		FROM personas WHERE id = ?
	`, id)

	p, err := scanPersona(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePersona updates an existing persona. It never touches is_active;
// activation goes through SetActivePersona.
func (db *DB) UpdatePersona(ctx context.Context, p *Persona) error {
	p.UpdatedAt = time.Now()

	result, err := db.ExecContext(ctx, `
		UPDATE personas SET
			name = ?, description = ?, positive_highlights = ?,
			negative_highlights = ?, red_flags = ?, base_weights = ?,
			max_per_run = ?, confidence_threshold = ?,
			default_bulk_action = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Name, p.Description,
		marshalStrings(p.PositiveHighlights), marshalStrings(p.NegativeHighlights),
		marshalStrings(p.RedFlags), marshalWeights(p.BaseWeights),
		p.MaxPerRun, p.ConfidenceThreshold, p.DefaultBulkAction,
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("persona %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeletePersona deletes a persona. If it was the active persona, no other
// persona becomes active; the caller must activate one explicitly.
func (db *DB) DeletePersona(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM personas WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("persona %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListPersonas retrieves all personas in creation order
func (db *DB) ListPersonas(ctx context.Context) ([]Persona, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+personaColumns+`
		FROM personas ORDER BY created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personas []Persona
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, err
		}
		personas = append(personas, *p)
	}

	return personas, rows.Err()
}

// SetActivePersona clears is_active everywhere, then sets it on the given
// persona, in one transaction. Readers never observe zero or two active
// personas mid-transition.
func (db *DB) SetActivePersona(ctx context.Context, id string) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM personas WHERE id = ?`, id).Scan(&count); err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("persona %s: %w", id, ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE personas SET is_active = 0 WHERE is_active = 1`); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE personas SET is_active = 1, updated_at = ? WHERE id = ?`,
			time.Now(), id)
		return err
	})
}

// GetActivePersona retrieves the active persona, or nil if none is active
func (db *DB) GetActivePersona(ctx context.Context) (*Persona, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+personaColumns+`
		FROM personas WHERE is_active = 1 LIMIT 1
	`)

	p, err := scanPersona(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

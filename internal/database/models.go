package database

import (
	"database/sql"
	"encoding/json"
	"time"
)

// EntityType identifies what kind of entity a judgment refers to
type EntityType string

const (
	EntityPerson  EntityType = "person"
	EntityCompany EntityType = "company"
)

// Action is a like/dislike judgment
type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

// Persona is a named evaluation profile with attribute preferences
type Persona struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Description         string             `json:"description,omitempty"`
	PositiveHighlights  []string           `json:"positive_highlights"`
	NegativeHighlights  []string           `json:"negative_highlights"`
	RedFlags            []string           `json:"red_flags"`
	BaseWeights         map[string]float64 `json:"base_weights,omitempty"`
	MaxPerRun           int                `json:"max_per_run"`
	ConfidenceThreshold float64            `json:"confidence_threshold"`
	DefaultBulkAction   Action             `json:"default_bulk_action"`
	IsActive            bool               `json:"is_active"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// Feedback is a single like/dislike judgment on an entity.
// At most one row exists per (persona_id, entity_id); a new judgment
// replaces the prior one.
type Feedback struct {
	ID         string     `json:"id"`
	PersonaID  string     `json:"persona_id"`
	EntityID   string     `json:"entity_id"`
	EntityType EntityType `json:"entity_type"`
	Action     Action     `json:"action"`
	Attributes []string   `json:"attributes"`
	AIScore    *int       `json:"ai_score,omitempty"`
	UserAgreed *bool      `json:"user_agreed,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// LearnedWeight is a feedback-derived scalar for a (persona, attribute) pair.
// Invariant: weight = (like_count - dislike_count) / (like_count + dislike_count).
type LearnedWeight struct {
	PersonaID    string    `json:"persona_id"`
	Attribute    string    `json:"attribute"`
	Weight       float64   `json:"weight"`
	LikeCount    int       `json:"like_count"`
	DislikeCount int       `json:"dislike_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// SyncEntry is a pending status write to the upstream API
type SyncEntry struct {
	ID         string     `json:"id"`
	EntityID   string     `json:"entity_id"`
	EntityType EntityType `json:"entity_type"`
	Action     Action     `json:"action"`
	Attempts   int        `json:"attempts"`
	LastError  *string    `json:"last_error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// FeedbackStats holds aggregate feedback counts for a persona
type FeedbackStats struct {
	Total    int `json:"total"`
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullInt64 is a helper to convert *int to sql.NullInt64
func NullInt64(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// NullBool is a helper to convert *bool to sql.NullBool
func NullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// IntPtr converts sql.NullInt64 to *int
func IntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

// BoolPtr converts sql.NullBool to *bool
func BoolPtr(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	return &nb.Bool
}

// marshalStrings encodes a string slice as a JSON column value.
// nil encodes as an empty list.
func marshalStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func unmarshalStrings(data string) []string {
	if data == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return []string{}
	}
	return values
}

// marshalWeights encodes an attribute->weight map as a JSON column value
func marshalWeights(weights map[string]float64) string {
	if weights == nil {
		weights = map[string]float64{}
	}
	data, _ := json.Marshal(weights)
	return string(data)
}

func unmarshalWeights(data string) map[string]float64 {
	if data == "" {
		return map[string]float64{}
	}
	var weights map[string]float64
	if err := json.Unmarshal([]byte(data), &weights); err != nil {
		return map[string]float64{}
	}
	return weights
}

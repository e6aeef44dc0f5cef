package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dealscout/internal/database"
	"dealscout/internal/learning"
	"dealscout/internal/scoring"
	"dealscout/internal/upstream"
)

func (s *Server) registerHandlers() {
	s.handlers["score_candidate"] = s.handleScoreCandidate
	s.handlers["record_feedback"] = s.handleRecordFeedback
	s.handlers["list_personas"] = s.handleListPersonas
	s.handlers["set_active_persona"] = s.handleSetActivePersona
	s.handlers["get_stats"] = s.handleGetStats
	s.handlers["top_weights"] = s.handleTopWeights
	s.handlers["export_preferences"] = s.handleExportPreferences
}

// resolvePersonaID maps an optional persona_id argument to a concrete
// persona id, defaulting to the active persona
func (s *Server) resolvePersonaID(ctx context.Context, personaID string) (string, error) {
	if personaID != "" {
		p, err := s.registry.Get(ctx, personaID)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	}

	p, err := s.registry.GetActive(ctx)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", fmt.Errorf("no active persona; call set_active_persona first")
	}
	return p.ID, nil
}

type scoreCandidateParams struct {
	Attributes []string `json:"attributes"`
	PersonaID  string   `json:"persona_id"`
}

type scoreCandidateResult struct {
	*scoring.Result
	PersonaName string `json:"persona_name,omitempty"`
	Note        string `json:"note,omitempty"`
}

func (s *Server) handleScoreCandidate(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p scoreCandidateParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	var target *database.Persona
	var err error
	if p.PersonaID != "" {
		target, err = s.registry.Get(ctx, p.PersonaID)
	} else {
		target, err = s.registry.GetActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Score(ctx, target, p.Attributes)
	if err != nil && !errors.Is(err, scoring.ErrNoActivePersona) {
		return nil, err
	}

	out := scoreCandidateResult{Result: result}
	if target != nil {
		out.PersonaName = target.Name
	} else {
		out.Note = "no active persona; neutral score returned"
	}
	return out, nil
}

type recordFeedbackParams struct {
	EntityID   string   `json:"entity_id"`
	EntityType string   `json:"entity_type"`
	Action     string   `json:"action"`
	Attributes []string `json:"attributes"`
	PersonaID  string   `json:"persona_id"`
	AIScore    *int     `json:"ai_score"`
	UserAgreed *bool    `json:"user_agreed"`
}

type recordFeedbackResult struct {
	PersonaID      string `json:"persona_id"`
	EntityID       string `json:"entity_id"`
	Action         string `json:"action"`
	WeightsUpdated int    `json:"weights_updated"`
	SyncQueued     bool   `json:"sync_queued"`
}

func (s *Server) handleRecordFeedback(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p recordFeedbackParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	personaID, err := s.resolvePersonaID(ctx, p.PersonaID)
	if err != nil {
		return nil, err
	}

	entityType := database.EntityType(p.EntityType)
	if p.EntityType == "" {
		entityType = database.EntityPerson
	}

	updated, err := s.store.RecordFeedback(ctx, personaID, p.EntityID, entityType,
		database.Action(p.Action), p.Attributes, learning.FeedbackOptions{
			AIScore:    p.AIScore,
			UserAgreed: p.UserAgreed,
		})
	if err != nil {
		return nil, err
	}

	return recordFeedbackResult{
		PersonaID:      personaID,
		EntityID:       p.EntityID,
		Action:         p.Action,
		WeightsUpdated: updated,
		SyncQueued:     true,
	}, nil
}

func (s *Server) handleListPersonas(ctx context.Context, params json.RawMessage) (interface{}, error) {
	personas, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return personas, nil
}

type setActivePersonaParams struct {
	PersonaID string `json:"persona_id"`
}

func (s *Server) handleSetActivePersona(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p setActivePersonaParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if p.PersonaID == "" {
		return nil, fmt.Errorf("persona_id is required")
	}

	if err := s.registry.SetActive(ctx, p.PersonaID); err != nil {
		return nil, err
	}

	active, err := s.registry.Get(ctx, p.PersonaID)
	if err != nil {
		return nil, err
	}

	return fmt.Sprintf("Active persona: %s (%s)", active.Name, active.ID), nil
}

type personaScopedParams struct {
	PersonaID string `json:"persona_id"`
	Limit     int    `json:"limit"`
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p personaScopedParams
	if params != nil {
		json.Unmarshal(params, &p)
	}

	personaID, err := s.resolvePersonaID(ctx, p.PersonaID)
	if err != nil {
		return nil, err
	}

	stats, err := s.store.Stats(ctx, personaID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return stats, nil
}

func (s *Server) handleTopWeights(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p personaScopedParams
	if params != nil {
		json.Unmarshal(params, &p)
	}

	personaID, err := s.resolvePersonaID(ctx, p.PersonaID)
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}

	weights, err := s.store.TopWeights(ctx, personaID, limit)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return weights, nil
}

func (s *Server) handleExportPreferences(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p personaScopedParams
	if params != nil {
		json.Unmarshal(params, &p)
	}

	personaID, err := s.resolvePersonaID(ctx, p.PersonaID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.store.Export(ctx, personaID)
	if err != nil {
		return nil, fmt.Errorf("failed to build export: %w", err)
	}
	return snapshot, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "dealscout://summary":
		return s.getResourceSummary(ctx)
	case "dealscout://personas":
		return s.getResourcePersonas(ctx)
	case "dealscout://weights":
		return s.getResourceWeights(ctx)
	case "dealscout://pending":
		return s.getResourcePending(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceSummary(ctx context.Context) (string, error) {
	active, err := s.registry.GetActive(ctx)
	if err != nil {
		return "", err
	}

	result := "DealScout Summary\n=================\n"

	if active == nil {
		result += "No active persona. Use set_active_persona to pick one.\n"
		return result, nil
	}

	stats, err := s.store.Stats(ctx, active.ID)
	if err != nil {
		return "", err
	}

	result += fmt.Sprintf(`Active Persona: %s
Feedback: %d total (%d likes, %d dislikes)
`, active.Name, stats.Total, stats.Likes, stats.Dislikes)

	return result, nil
}

func (s *Server) getResourcePersonas(ctx context.Context) (string, error) {
	personas, err := s.registry.List(ctx)
	if err != nil {
		return "", err
	}

	result := "Personas\n========\n\n"

	if len(personas) == 0 {
		result += "No personas yet. Run 'dealscout persona init-defaults' to create the starter set.\n"
		return result, nil
	}

	for _, p := range personas {
		marker := " "
		if p.IsActive {
			marker = "*"
		}
		result += fmt.Sprintf("%s %s (%s)\n", marker, p.Name, p.ID)
		if p.Description != "" {
			result += fmt.Sprintf("    %s\n", p.Description)
		}
	}

	return result, nil
}

func (s *Server) getResourceWeights(ctx context.Context) (string, error) {
	active, err := s.registry.GetActive(ctx)
	if err != nil {
		return "", err
	}
	if active == nil {
		return "No active persona.\n", nil
	}

	weights, err := s.store.TopWeights(ctx, active.ID, 20)
	if err != nil {
		return "", err
	}

	result := fmt.Sprintf("Learned Weights: %s\n====================\n\n", active.Name)

	if len(weights) == 0 {
		result += "No learned weights yet. Record some feedback first.\n"
		return result, nil
	}

	for _, w := range weights {
		result += fmt.Sprintf("  %-28s %+.2f  (%d likes, %d dislikes)\n",
			w.Attribute, w.Weight, w.LikeCount, w.DislikeCount)
	}

	return result, nil
}

func (s *Server) getResourcePending(ctx context.Context) (string, error) {
	pending, err := database.ListPendingSync(ctx, s.db, upstream.DefaultMaxAttempts)
	if err != nil {
		return "", err
	}

	result := "Pending Sync Queue\n==================\n\n"

	if len(pending) == 0 {
		result += "Queue is empty. All judgments delivered.\n"
		return result, nil
	}

	for _, e := range pending {
		result += fmt.Sprintf("  %s %s (%s), %d attempt(s)\n",
			e.Action, e.EntityID, e.EntityType, e.Attempts)
		if e.LastError != nil {
			result += fmt.Sprintf("    last error: %s\n", *e.LastError)
		}
	}

	return result, nil
}

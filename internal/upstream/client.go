// Package upstream delivers entity status changes to the deal-flow SaaS
// through its dev proxy.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dealscout/internal/database"
)

// Client is an HTTP client for the dev-proxy status API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// StatusRequest is the request body for a status write
type StatusRequest struct {
	EntityID   string `json:"entity_id"`
	EntityType string `json:"entity_type"`
	Status     string `json:"status"`
}

// HealthResponse is the response from the proxy health check
type HealthResponse struct {
	Status string `json:"status"`
}

// New creates an upstream client. token may be empty when the proxy
// runs unauthenticated locally.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Health checks if the dev proxy is reachable
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to upstream proxy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("health check failed: %s", string(body))
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &health, nil
}

// IsRunning checks if the proxy is reachable
func (c *Client) IsRunning(ctx context.Context) bool {
	health, err := c.Health(ctx)
	return err == nil && health.Status == "ok"
}

// SetEntityStatus pushes one like/dislike judgment to the upstream
// entity record
func (c *Client) SetEntityStatus(ctx context.Context, entityID string, entityType database.EntityType, action database.Action) error {
	body, err := json.Marshal(StatusRequest{
		EntityID:   entityID,
		EntityType: string(entityType),
		Status:     string(action),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/entities/status", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("status write failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status write failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}

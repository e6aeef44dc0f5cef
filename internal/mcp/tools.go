package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "score_candidate",
		Description: "Score a candidate's attributes against a persona. Returns a 0-100 score, a recommendation, and the matched-attribute trace.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"attributes": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Candidate attributes, e.g. [\"serial_founder\", \"pre_revenue\"]",
				},
				"persona_id": map[string]interface{}{
					"type":        "string",
					"description": "Persona to score against. Omit to use the active persona.",
				},
			},
			"required": []string{"attributes"},
		},
	},
	{
		Name:        "record_feedback",
		Description: "Record a like or dislike judgment for an entity. Updates learned weights and queues an upstream status write.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"entity_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the founder or company being judged",
				},
				"entity_type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"person", "company"},
					"description": "What kind of entity this is (default: person)",
				},
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"like", "dislike"},
					"description": "The judgment",
				},
				"attributes": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Attributes the judgment is based on",
				},
				"persona_id": map[string]interface{}{
					"type":        "string",
					"description": "Persona the judgment belongs to. Omit to use the active persona.",
				},
				"ai_score": map[string]interface{}{
					"type":        "integer",
					"description": "Score the assistant gave this entity, if any",
				},
				"user_agreed": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the user agreed with the assistant's score",
				},
			},
			"required": []string{"entity_id", "action", "attributes"},
		},
	},
	{
		Name:        "list_personas",
		Description: "List all evaluation personas with their criteria. The active persona is marked.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
	{
		Name:        "set_active_persona",
		Description: "Make a persona the active one. Scoring and feedback default to the active persona.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"persona_id": map[string]interface{}{
					"type":        "string",
					"description": "Persona to activate",
				},
			},
			"required": []string{"persona_id"},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get aggregate feedback counts (total, likes, dislikes) for a persona.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"persona_id": map[string]interface{}{
					"type":        "string",
					"description": "Persona to summarize. Omit to use the active persona.",
				},
			},
		},
	},
	{
		Name:        "top_weights",
		Description: "Get the strongest learned attribute weights for a persona, sorted by absolute value.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"persona_id": map[string]interface{}{
					"type":        "string",
					"description": "Persona whose weights to show. Omit to use the active persona.",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of weights to return (default: 10)",
				},
			},
		},
	},
	{
		Name:        "export_preferences",
		Description: "Export a persona's full preference snapshot: all feedback pairs plus learned weights.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"persona_id": map[string]interface{}{
					"type":        "string",
					"description": "Persona to export. Omit to use the active persona.",
				},
			},
		},
	},
}

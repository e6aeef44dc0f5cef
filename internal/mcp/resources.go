package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         "dealscout://summary",
		Name:        "DealScout Summary",
		Description: "Active persona and feedback counts at a glance",
		MimeType:    "text/plain",
	},
	{
		URI:         "dealscout://personas",
		Name:        "Personas",
		Description: "All evaluation personas; the active one is marked",
		MimeType:    "text/plain",
	},
	{
		URI:         "dealscout://weights",
		Name:        "Learned Weights",
		Description: "Strongest learned attribute weights for the active persona",
		MimeType:    "text/plain",
	},
	{
		URI:         "dealscout://pending",
		Name:        "Pending Sync Queue",
		Description: "Judgments awaiting delivery to the upstream deal-flow API",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

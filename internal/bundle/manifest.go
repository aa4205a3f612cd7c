// Package bundle builds and writes the static artifact set: the manifest,
// one envelope per resource, and one pre-rendered envelope per tool call
// the bridge may receive. Planning is pure; only the Writer touches disk.
package bundle

// Layout constants shared with the bridge. Together with the path encoding
// they form the on-disk contract.
const (
	ManifestFile = "manifest.json"
	ResourcesDir = "resources"
	ToolsDir     = "tools"
)

// Manifest is the top-level document advertising the bundle's resources
// and tools. The bridge registers exactly what it lists.
type Manifest struct {
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Scheme    string         `json:"scheme"`
	Resources []ResourceInfo `json:"resources"`
	Tools     []ToolInfo     `json:"tools"`
}

// ResourceInfo describes one addressable document.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType"`
}

// ToolInfo describes one pre-rendered operation.
type ToolInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Args        []ToolArg `json:"args,omitempty"`
}

// ToolArg describes a named tool argument.
type ToolArg struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "string", "number" or "boolean"
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// ResourceEnvelope is the fixed content envelope for resource artifacts.
type ResourceEnvelope struct {
	Contents []ResourceContent `json:"contents"`
}

// ResourceContent is one content item inside a resource envelope.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ToolEnvelope is the fixed content envelope for tool response artifacts.
type ToolEnvelope struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError"`
}

// ToolContent is one content item inside a tool envelope.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

package bundle

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/starford/ansuz/internal/pathenc"
	"github.com/starford/ansuz/internal/source"
)

// Meta carries the generation-wide settings stamped into the manifest.
type Meta struct {
	Name    string
	Version string
	Scheme  string
}

// Artifact is one file the bundle must contain: a bundle-relative slash
// path and its exact payload.
type Artifact struct {
	Path string
	Data []byte
}

// Plan is the complete, immutable artifact set for one generation pass.
// It is built once from the gathered documents and then only read.
type Plan struct {
	Manifest  Manifest
	Artifacts []Artifact
}

// tool argument names used across the pre-rendered set.
const (
	argURI     = "uri"
	argHeading = "heading"
	argFormat  = "format"
)

// toolSet describes the operations every bundle advertises. The argument
// counts are chosen so each path-shape rule (0, 1, 2, >=3) is exercised.
func toolSet() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "list_resources",
			Description: "List every resource in the bundle with its URI and title.",
		},
		{
			Name:        "get_resource",
			Description: "Return the body of the resource with the given URI.",
			Args: []ToolArg{
				{Name: argURI, Type: "string", Description: "Resource URI", Required: true},
			},
		},
		{
			Name:        "get_metadata",
			Description: "Return the metadata mapping of the resource as JSON.",
			Args: []ToolArg{
				{Name: argURI, Type: "string", Description: "Resource URI", Required: true},
			},
		},
		{
			Name:        "get_section",
			Description: "Return the content of one named section of a resource.",
			Args: []ToolArg{
				{Name: argURI, Type: "string", Description: "Resource URI", Required: true},
				{Name: argHeading, Type: "string", Description: "Section heading text", Required: true},
			},
		},
		{
			Name:        "get_excerpt",
			Description: "Return one section rendered as markdown or plain text.",
			Args: []ToolArg{
				{Name: argURI, Type: "string", Description: "Resource URI", Required: true},
				{Name: argHeading, Type: "string", Description: "Section heading text", Required: true},
				{Name: argFormat, Type: "string", Description: `"markdown" or "plain"`, Required: true},
			},
		},
	}
}

// BuildPlan computes the full artifact set for the given documents. It is
// a pure function: no I/O, and identical inputs produce identical plans.
// Duplicate canonical paths (two inputs encoding to the same artifact) are
// reported as an error rather than silently overwritten.
func BuildPlan(docs []source.Document, meta Meta) (*Plan, error) {
	m := Manifest{
		Name:      meta.Name,
		Version:   meta.Version,
		Scheme:    meta.Scheme,
		Resources: make([]ResourceInfo, 0, len(docs)),
		Tools:     toolSet(),
	}
	for _, d := range docs {
		m.Resources = append(m.Resources, ResourceInfo{
			URI:         d.URI,
			Name:        d.SourcePath,
			Title:       d.Title,
			Description: metaString(d.Meta, "description"),
			MIMEType:    "text/markdown",
		})
	}

	p := &Plan{Manifest: m}
	seen := make(map[string]string)

	add := func(relPath string, payload any, origin string) error {
		if prev, dup := seen[relPath]; dup {
			return fmt.Errorf("bundle: path collision at %s: %s vs %s", relPath, prev, origin)
		}
		seen[relPath] = origin
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("bundle: marshal %s: %w", relPath, err)
		}
		p.Artifacts = append(p.Artifacts, Artifact{Path: relPath, Data: data})
		return nil
	}

	if err := add(ManifestFile, m, "manifest"); err != nil {
		return nil, err
	}

	// Resource envelopes.
	for _, d := range docs {
		env := ResourceEnvelope{Contents: []ResourceContent{{
			URI:      d.URI,
			MIMEType: "text/markdown",
			Text:     d.Body,
		}}}
		rel := path.Join(ResourcesDir, pathenc.Resource(d.URI)+pathenc.Suffix)
		if err := add(rel, env, d.URI); err != nil {
			return nil, err
		}
	}

	// Tool responses.
	if err := add(toolPath("list_resources", nil), toolText(listing(m.Resources)), "list_resources"); err != nil {
		return nil, err
	}
	for _, d := range docs {
		uriArgs := map[string]any{argURI: d.URI}
		if err := add(toolPath("get_resource", uriArgs), toolText(d.Body), d.URI); err != nil {
			return nil, err
		}
		metaJSON, _ := json.MarshalIndent(d.Meta, "", "  ")
		if err := add(toolPath("get_metadata", uriArgs), toolText(string(metaJSON)), d.URI); err != nil {
			return nil, err
		}
		for _, sec := range d.Sections {
			secArgs := map[string]any{argURI: d.URI, argHeading: sec.Heading}
			origin := d.URI + " # " + sec.Heading
			if err := add(toolPath("get_section", secArgs), toolText(sec.Content), origin); err != nil {
				return nil, err
			}
			for _, format := range []string{"markdown", "plain"} {
				exArgs := map[string]any{argURI: d.URI, argHeading: sec.Heading, argFormat: format}
				text := sec.Content
				if format == "plain" {
					text = plainText(sec.Content)
				}
				if err := add(toolPath("get_excerpt", exArgs), toolText(text), origin+" ("+format+")"); err != nil {
					return nil, err
				}
			}
		}
	}

	return p, nil
}

func toolPath(op string, args map[string]any) string {
	return path.Join(ToolsDir, pathenc.Call(op, args))
}

func toolText(text string) ToolEnvelope {
	return ToolEnvelope{Content: []ToolContent{{Type: "text", Text: text}}}
}

// listing renders the list_resources response body.
func listing(resources []ResourceInfo) string {
	type entry struct {
		URI   string `json:"uri"`
		Title string `json:"title,omitempty"`
	}
	entries := make([]entry, 0, len(resources))
	for _, r := range resources {
		entries = append(entries, entry{URI: r.URI, Title: r.Title})
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return string(out)
}

var emphasis = strings.NewReplacer("**", "", "__", "", "*", "", "`", "")

// plainText strips heading markers and inline emphasis from markdown.
func plainText(md string) string {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, "# ")
		lines[i] = emphasis.Replace(trimmed)
	}
	return strings.Join(lines, "\n")
}

func metaString(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

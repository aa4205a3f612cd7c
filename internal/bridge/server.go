// Package bridge serves a generated bundle over MCP stdio transport.
// Every tool call and resource read is resolved to a pre-rendered file
// using the same path encoding the generator used to write it; the bridge
// never renders content itself.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/bundle"
	"github.com/starford/ansuz/internal/pathenc"
)

// Server wraps the MCP server with file-backed resolution.
type Server struct {
	mcp      *server.MCPServer
	root     string // absolute bundle root
	manifest bundle.Manifest
	logger   *slog.Logger
}

// New creates a bridge over the bundle at root, registering every resource
// and tool the manifest advertises.
func New(root string, manifest bundle.Manifest, logger *slog.Logger) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("bridge: resolve root: %w", err)
	}

	s := &Server{root: abs, manifest: manifest, logger: logger}
	s.mcp = server.NewMCPServer(
		manifest.Name,
		manifest.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	for _, r := range manifest.Resources {
		s.mcp.AddResource(
			mcp.NewResource(r.URI, r.Name,
				mcp.WithResourceDescription(r.Description),
				mcp.WithMIMEType(r.MIMEType),
			),
			s.readResource,
		)
	}

	for _, t := range manifest.Tools {
		opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
		for _, a := range t.Args {
			var props []mcp.PropertyOption
			if a.Required {
				props = append(props, mcp.Required())
			}
			props = append(props, mcp.Description(a.Description))
			switch a.Type {
			case "number":
				opts = append(opts, mcp.WithNumber(a.Name, props...))
			case "boolean":
				opts = append(opts, mcp.WithBoolean(a.Name, props...))
			default:
				opts = append(opts, mcp.WithString(a.Name, props...))
			}
		}
		s.mcp.AddTool(mcp.NewTool(t.Name, opts...), s.callTool(t.Name))
	}

	// Static resource describing the on-disk contract.
	s.mcp.AddResource(
		mcp.NewResource(ContractURI, "Bundle Encoding Contract",
			mcp.WithResourceDescription("Canonical bundle layout and path encoding rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s, nil
}

// LoadManifest reads and decodes manifest.json from a bundle root.
func LoadManifest(root string) (bundle.Manifest, error) {
	var m bundle.Manifest
	data, err := os.ReadFile(filepath.Join(root, bundle.ManifestFile))
	if err != nil {
		return m, fmt.Errorf("bridge: read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("bridge: decode manifest: %w", err)
	}
	return m, nil
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// callTool returns the handler that resolves one operation's calls. The
// canonical path is computed from the live arguments with the same encoder
// the generator used; whatever file sits there is the answer.
func (s *Server) callTool(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rel := pathenc.Call(name, req.GetArguments())
		abs := filepath.Join(s.root, bundle.ToolsDir, filepath.FromSlash(rel))

		data, err := os.ReadFile(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn("bridge: no pre-rendered response",
					slog.String("tool", name), slog.String("path", rel))
				return mcp.NewToolResultError(fmt.Sprintf("no pre-rendered response for %s at %s", name, rel)), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}

		var env bundle.ToolEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("malformed artifact at %s: %v", rel, err)), nil
		}

		res := &mcp.CallToolResult{IsError: env.IsError}
		for _, c := range env.Content {
			res.Content = append(res.Content, mcp.TextContent{Type: "text", Text: c.Text})
		}
		return res, nil
	}
}

func (s *Server) readResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rel := pathenc.Resource(req.Params.URI) + pathenc.Suffix
	abs := filepath.Join(s.root, bundle.ResourcesDir, filepath.FromSlash(rel))

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("bridge: resource %s: %w", req.Params.URI, err)
	}

	var env bundle.ResourceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("bridge: malformed resource artifact %s: %w", rel, err)
	}

	out := make([]mcp.ResourceContents, 0, len(env.Contents))
	for _, c := range env.Contents {
		out = append(out, mcp.TextResourceContents{
			URI:      c.URI,
			MIMEType: c.MIMEType,
			Text:     c.Text,
		})
	}
	return out, nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ContractURI,
			MIMEType: "text/markdown",
			Text:     EncodingContract,
		},
	}, nil
}

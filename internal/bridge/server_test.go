package bridge

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/bundle"
	"github.com/starford/ansuz/internal/testutil"
)

func testBridge(t *testing.T) *Server {
	t.Helper()

	root, plan := testutil.Bundle(t, map[string]string{
		"x/y.md": "---\ntitle: Why\n---\n# Intro\nHello from y.\n",
		"z.md":   "# Zed\nBody z.\n",
	}, bundle.Meta{Name: "Ansuz", Version: "1.0.0", Scheme: "docs"})

	srv, err := New(root, plan.Manifest, testutil.Logger())
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := srv.callTool(name)(context.Background(), req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return res
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListResources(t *testing.T) {
	srv := testBridge(t)
	r := callTool(t, srv, "list_resources", map[string]any{})
	if r.IsError {
		t.Fatalf("unexpected error result: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, "docs://x/y") || !strings.Contains(text, "docs://z") {
		t.Errorf("listing = %q", text)
	}
}

func TestGetResource(t *testing.T) {
	srv := testBridge(t)
	r := callTool(t, srv, "get_resource", map[string]any{"uri": "docs://x/y"})
	if r.IsError {
		t.Fatalf("unexpected error result: %s", resultText(r))
	}
	if got := resultText(r); got != "# Intro\nHello from y.\n" {
		t.Errorf("body = %q", got)
	}
}

func TestGetSection_ArgumentOrderIrrelevant(t *testing.T) {
	srv := testBridge(t)
	// The writer rendered this from (uri, heading); the resolver must find
	// it no matter how the caller's arguments were ordered or named.
	r := callTool(t, srv, "get_section", map[string]any{
		"heading": "Intro",
		"uri":     "docs://x/y",
	})
	if r.IsError {
		t.Fatalf("unexpected error result: %s", resultText(r))
	}
	if got := resultText(r); got != "Hello from y." {
		t.Errorf("section = %q", got)
	}
}

func TestGetExcerpt_ManyArgRule(t *testing.T) {
	srv := testBridge(t)
	r := callTool(t, srv, "get_excerpt", map[string]any{
		"uri":     "docs://z",
		"heading": "Zed",
		"format":  "plain",
	})
	if r.IsError {
		t.Fatalf("unexpected error result: %s", resultText(r))
	}
	if got := resultText(r); got != "Body z." {
		t.Errorf("excerpt = %q", got)
	}
}

func TestUnrenderedCallIsDriftError(t *testing.T) {
	srv := testBridge(t)
	r := callTool(t, srv, "get_resource", map[string]any{"uri": "docs://nope"})
	if !r.IsError {
		t.Fatal("expected error result for unrendered call")
	}
	if !strings.Contains(resultText(r), "no pre-rendered response") {
		t.Errorf("error text = %q", resultText(r))
	}
}

func TestReadResource(t *testing.T) {
	srv := testBridge(t)
	req := mcp.ReadResourceRequest{}
	req.Params.URI = "docs://z"

	contents, err := srv.readResource(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] = %T", contents[0])
	}
	if tc.URI != "docs://z" || tc.Text != "# Zed\nBody z.\n" {
		t.Errorf("contents = %+v", tc)
	}
}

func TestReadContractResource(t *testing.T) {
	srv := testBridge(t)
	req := mcp.ReadResourceRequest{}
	req.Params.URI = ContractURI

	contents, err := srv.readContractResource(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if !strings.Contains(tc.Text, "tools/") {
		t.Error("contract text missing layout description")
	}
}

func TestLoadManifest(t *testing.T) {
	root, plan := testutil.Bundle(t, map[string]string{"a.md": "# A\nbody"},
		bundle.Meta{Name: "Ansuz", Version: "1.0.0", Scheme: "docs"})

	m, err := LoadManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != plan.Manifest.Name || len(m.Resources) != 1 {
		t.Errorf("manifest = %+v", m)
	}
}

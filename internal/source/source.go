// Package source walks a documentation tree and turns each file into an
// in-memory Document: metadata mapping, body, title, and sections. The
// resulting slice is built once per generation pass and never mutated
// afterwards.
package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/frontmatter"
)

// Document is one addressable unit of content.
type Document struct {
	SourcePath string         // path relative to the source root, slash form
	URI        string         // scheme://path identifier
	Title      string
	Meta       map[string]any // decoded metadata block
	Body       string         // content after the metadata block
	Sections   []Section
	Checksum   string // sha256 of the raw file
}

// Section is a heading and the content that follows it, up to the next
// heading of any level.
type Section struct {
	Heading string
	Content string
}

func isDoc(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

// Load walks root and parses every document it finds, using up to workers
// goroutines. The returned slice is sorted by source path so downstream
// output is deterministic regardless of parse order.
func Load(ctx context.Context, root, scheme string, workers int) ([]Document, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("source: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("source: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source: root is not a directory: %s", abs)
	}

	var paths []string
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isDoc(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(abs, p)
		if relErr != nil {
			return relErr
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source: walk: %w", err)
	}

	if workers < 1 {
		workers = 1
	}
	docs := make([]Document, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rel := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(abs, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("source: read %s: %w", rel, err)
			}
			docs[i] = Read(rel, scheme, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].SourcePath < docs[j].SourcePath })
	return docs, nil
}

// Read parses a single document from raw bytes. rel is the slash-form path
// relative to the source root.
func Read(rel, scheme string, data []byte) Document {
	meta, body := frontmatter.Split(string(data))
	return Document{
		SourcePath: rel,
		URI:        scheme + "://" + stem(rel),
		Title:      deriveTitle(meta, body, rel),
		Meta:       meta,
		Body:       body,
		Sections:   extractSections(body),
		Checksum:   checksum.Sum(data),
	}
}

// stem strips the markup extension from a relative path.
func stem(rel string) string {
	ext := filepath.Ext(rel)
	return strings.TrimSuffix(rel, ext)
}

// deriveTitle prefers the metadata "title", then the first H1 heading,
// then the file stem.
func deriveTitle(meta map[string]any, body, rel string) string {
	if t, ok := meta["title"].(string); ok && t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return filepath.Base(stem(rel))
}

// extractSections splits the body at its headings. Content before the
// first heading belongs to no section.
func extractSections(body string) []Section {
	var out []Section
	var current *Section
	var buf []string

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(strings.Join(buf, "\n"))
			out = append(out, *current)
		}
		buf = nil
	}

	for _, line := range strings.Split(body, "\n") {
		if h, ok := headingText(line); ok {
			flush()
			current = &Section{Heading: h}
			continue
		}
		if current != nil {
			buf = append(buf, line)
		}
	}
	flush()
	return out
}

// headingText returns the text of an ATX heading line (1-6 leading '#').
func headingText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(trimmed) || trimmed[level] != ' ' {
		return "", false
	}
	return strings.TrimSpace(trimmed[level:]), true
}

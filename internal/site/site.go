// Package site serves the public informational pages of the clinic
// website. Page content is authored as Markdown, embedded into the
// binary and rendered to HTML once at startup.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed pages/*.md
var pagesFS embed.FS

// Page is a rendered site page.
type Page struct {
	Slug    string
	Title   string
	Content template.HTML
}

// LoadPages renders all embedded Markdown pages, keyed by slug.
func LoadPages() (map[string]*Page, error) {
	entries, err := fs.ReadDir(pagesFS, "pages")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded pages: %w", err)
	}

	titleCaser := cases.Title(language.English)

	pages := make(map[string]*Page, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}

		raw, err := pagesFS.ReadFile("pages/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %s: %w", name, err)
		}

		var buf bytes.Buffer
		if err := goldmark.Convert(raw, &buf); err != nil {
			return nil, fmt.Errorf("failed to render page %s: %w", name, err)
		}

		slug := strings.TrimSuffix(name, ".md")
		title := pageTitle(raw)
		if title == "" {
			title = titleCaser.String(strings.ReplaceAll(slug, "-", " "))
		}

		pages[slug] = &Page{
			Slug:    slug,
			Title:   title,
			Content: template.HTML(buf.String()), //nolint:gosec // trusted embedded markdown
		}
	}

	return pages, nil
}

// pageTitle extracts the first level-1 heading from raw Markdown.
func pageTitle(raw []byte) string {
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(after)
		}
	}
	return ""
}

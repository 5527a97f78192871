// Package fzf offers a one-shot fuzzy picker over a result set, for shell
// pipelines that want a single path instead of the full browser.
package fzf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/esqtui/esq/internal/metadata"
	"github.com/esqtui/esq/internal/search"
)

var ErrNothingSelected = errors.New("nothing selected")

// Finder wraps fuzzy selection over search items.
type Finder struct {
	items  []search.Item
	Header string
}

func NewFinder(items []search.Item, header string) *Finder {
	return &Finder{items: items, Header: header}
}

// Run opens the finder and returns the selected item.
func (f *Finder) Run(query string) (search.Item, error) {
	if len(f.items) == 0 {
		return search.Item{}, ErrNothingSelected
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := fuzzyfinder.Find(f.items, func(i int) string {
		return f.label(i)
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return search.Item{}, ErrNothingSelected
		}
		return search.Item{}, err
	}

	return f.items[idx], nil
}

func (f *Finder) label(i int) string {
	item := f.items[i]
	if item.IsDir() {
		return item.Name + "/"
	}
	if item.Size >= 0 {
		return fmt.Sprintf("%s [%s]", item.Name, metadata.ReadableSize(item.Size))
	}
	return item.Name
}

// renderPreview shows the selection's path and details, plus a colorized
// body for markdown files.
func (f *Finder) renderPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}
	item := f.items[i]

	var sb strings.Builder
	sb.WriteString(item.Path)
	sb.WriteString("\n\n")
	if item.Size >= 0 {
		sb.WriteString(fmt.Sprintf("Size      %s\n", metadata.ReadableSize(item.Size)))
	}
	if !item.Modified.IsZero() {
		sb.WriteString(fmt.Sprintf("Modified  %s\n", item.Modified.Format("2006-01-02 15:04:05")))
	}
	if item.MatchContext != "" {
		sb.WriteString("\n")
		sb.WriteString(item.MatchContext)
		sb.WriteString("\n")
	}

	if strings.HasSuffix(strings.ToLower(item.Name), ".md") {
		content, err := os.ReadFile(item.Path)
		if err != nil {
			return sb.String()
		}
		r, _ := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dracula"),
			glamour.WithWordWrap(100),
			glamour.WithColorProfile(termenv.ANSI256),
		)
		if markdown, err := r.Render(string(content)); err == nil {
			sb.WriteString("\n")
			sb.WriteString(markdown)
		}
	}

	return sb.String()
}

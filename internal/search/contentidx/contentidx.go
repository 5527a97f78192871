// Package contentidx adapts a bleve full-text index as the content/metadata
// backend. The index is built elsewhere; this adapter only queries it, and a
// missing or unopenable index degrades to ErrBackendUnavailable instead of
// failing the whole search.
package contentidx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/araddon/dateparse"
	"github.com/blevesearch/bleve/v2"
	bsearch "github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/esqtui/esq/internal/search"
)

const (
	fieldContent = "content"
	fieldName    = "name"
	fieldPath    = "path"
	fieldSize    = "size"
	fieldModTime = "mod_time"

	snippetContext = 100
)

type Adapter struct {
	indexPath string
	log       *slog.Logger

	mu    sync.Mutex
	index bleve.Index
}

func New(indexPath string, log *slog.Logger) *Adapter {
	return &Adapter{indexPath: indexPath, log: log}
}

func (a *Adapter) Backend() search.Backend {
	return search.BackendContentIndex
}

// Close releases the underlying index handle.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.index == nil {
		return nil
	}
	err := a.index.Close()
	a.index = nil
	return err
}

func (a *Adapter) open() (bleve.Index, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.index != nil {
		return a.index, nil
	}
	if a.indexPath == "" {
		return nil, fmt.Errorf("%w: content index path not configured", search.ErrBackendUnavailable)
	}
	idx, err := bleve.Open(a.indexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrBackendUnavailable, err)
	}
	a.index = idx
	return idx, nil
}

// Search issues one query against the index. Every term must match the
// content field; an optional path scope narrows hits with a prefix match.
func (a *Adapter) Search(ctx context.Context, spec search.Spec) ([]search.Item, error) {
	idx, err := a.open()
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(buildQuery(spec), spec.Limit, 0, false)
	req.Fields = []string{fieldPath, fieldName, fieldSize, fieldModTime}
	req.IncludeLocations = true

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", search.ErrMalformedOutput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]search.Item, 0, len(res.Hits))
	for _, hit := range res.Hits {
		item := search.Item{Size: -1, Origin: search.BackendContentIndex}
		if p, ok := hit.Fields[fieldPath].(string); ok {
			item.Path = p
		}
		if n, ok := hit.Fields[fieldName].(string); ok {
			item.Name = n
		}
		if item.Name == "" && item.Path != "" {
			item.Name = baseName(item.Path)
		}
		if sz, ok := hit.Fields[fieldSize].(float64); ok {
			item.Size = int64(sz)
		}
		if mt, ok := hit.Fields[fieldModTime].(string); ok {
			if t, err := dateparse.ParseAny(mt); err == nil {
				item.Modified = t
			}
		}
		item.Extension = item.Ext()
		item.MatchContext = a.snippet(item.Path, hit.Locations)
		items = append(items, item)
	}

	a.log.Debug("content search done", "items", len(items), "total", res.Total)
	return items, nil
}

func buildQuery(spec search.Spec) query.Query {
	conj := bleve.NewConjunctionQuery()
	for _, term := range spec.Terms {
		term = strings.Trim(term, `"`)
		if term == "" {
			continue
		}
		mq := bleve.NewMatchQuery(strings.ToLower(term))
		mq.SetField(fieldContent)
		conj.AddQuery(mq)
	}
	if spec.Scope != "" {
		pq := bleve.NewPrefixQuery(spec.Scope)
		pq.SetField(fieldPath)
		conj.AddQuery(pq)
	}
	if len(conj.Conjuncts) == 0 {
		return bleve.NewMatchNoneQuery()
	}
	return conj
}

// snippet reads the matched region back out of the file with some context
// on either side. The index does not store content, so a missing or
// unreadable file just means no match context.
func (a *Adapter) snippet(path string, locations bsearch.FieldTermLocationMap) string {
	terms, ok := locations[fieldContent]
	if !ok || len(terms) == 0 {
		return ""
	}

	var start, end int64 = -1, -1
	for _, locs := range terms {
		if len(locs) > 0 && locs[0] != nil {
			start = int64(locs[0].Start)
			end = int64(locs[0].End)
			break
		}
	}
	if start < 0 {
		return ""
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || start >= info.Size() {
		return ""
	}
	if end > info.Size() {
		end = info.Size()
	}

	from := max(0, start-snippetContext)
	to := min(info.Size(), end+snippetContext)
	buf := make([]byte, to-from)
	n, err := f.ReadAt(buf, from)
	if err != nil && err != io.EOF {
		return ""
	}
	buf = buf[:n]

	s := strings.TrimSpace(string(buf))
	s = strings.Join(strings.Fields(s), " ")
	if from > 0 {
		s = "..." + s
	}
	if to < info.Size() {
		s = s + "..."
	}
	return s
}

func baseName(path string) string {
	path = strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

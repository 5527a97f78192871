// Package everything adapts the Everything command line client (es) as the
// fast filename/path backend. One external process is spawned per search;
// its CSV output is drained fully even on cancellation so no pipe or child
// is left orphaned.
package everything

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/esqtui/esq/internal/search"
)

type Adapter struct {
	path string
	log  *slog.Logger
}

func New(esPath string, log *slog.Logger) *Adapter {
	return &Adapter{path: esPath, log: log}
}

func (a *Adapter) Backend() search.Backend {
	return search.BackendFastIndex
}

// Search runs one es invocation for spec. A missing or unlaunchable
// executable is ErrBackendUnavailable: recoverable, the content backend may
// still answer. Output the adapter cannot parse is ErrMalformedOutput and
// is logged, never fatal.
func (a *Adapter) Search(ctx context.Context, spec search.Spec) ([]search.Item, error) {
	if a.path == "" {
		return nil, fmt.Errorf("%w: es path not configured", search.ErrBackendUnavailable)
	}

	cmd := exec.CommandContext(ctx, a.path, spec.Argv...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", search.ErrBackendUnavailable, a.path)
		}
		return nil, err
	}

	items, parseErr := a.parseRows(csv.NewReader(stdout), spec.Columns)

	// Drain whatever is left so Wait can reap the child even when parsing
	// stopped early.
	io.Copy(io.Discard, stdout)
	waitErr := cmd.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if parseErr != nil {
		a.log.Warn("unparsable es output", "err", parseErr)
		return nil, fmt.Errorf("%w: %v", search.ErrMalformedOutput, parseErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("es exited: %v: %s", waitErr, strings.TrimSpace(stderr.String()))
	}

	a.log.Debug("es search done", "items", len(items))
	return items, nil
}

// parseRows decodes one CSV record per match, fields ordered exactly as
// spec.Columns requested them on the command line.
func (a *Adapter) parseRows(r *csv.Reader, columns []search.Column) ([]search.Item, error) {
	r.FieldsPerRecord = -1

	var items []search.Item
	for {
		row, err := r.Read()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		if len(row) == 0 {
			continue
		}

		item, err := decodeRow(row, columns)
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
}

func decodeRow(row []string, columns []search.Column) (search.Item, error) {
	item := search.Item{Size: -1, Origin: search.BackendFastIndex}
	var dir string

	for i, col := range columns {
		if i >= len(row) {
			break
		}
		field := strings.TrimSpace(row[i])
		switch col {
		case search.ColName:
			item.Name = field
		case search.ColSize:
			// A size the decoder cannot read (humanized output from an
			// overridden -size-format) stays unknown rather than
			// poisoning the whole row set.
			if n, err := strconv.ParseInt(field, 10, 64); err == nil {
				item.Size = n
			}
		case search.ColDateModified:
			item.Modified = parseStamp(field)
		case search.ColDateCreated:
			item.Created = parseStamp(field)
		case search.ColDateAccessed:
			item.Accessed = parseStamp(field)
		case search.ColAttributes:
			item.Attr = search.ParseAttr(field)
		case search.ColExtension:
			item.Extension = strings.ToLower(field)
		case search.ColPath:
			dir = field
		}
	}

	if item.Name == "" {
		return item, errors.New("row without name field")
	}
	if dir != "" {
		item.Path = filepath.Join(dir, item.Name)
	} else {
		item.Path = item.Name
	}
	if item.Extension == "" {
		item.Extension = strings.ToLower(filepath.Ext(item.Name))
	}
	return item, nil
}

// parseStamp accepts the dd/mm/yyyy forms es emits by default and falls
// back to lenient parsing for the other -date-format settings. Unparsable
// stamps stay zero, which the view sorts last.
func parseStamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"02/01/2006 15:04", "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	if t, err := dateparse.ParseLocal(s); err == nil {
		return t
	}
	return time.Time{}
}

func isNotExist(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

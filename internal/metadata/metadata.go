// Package metadata gathers Explorer-style properties for one selected
// result: cheap stat-based fields always, extended tag metadata through an
// external exiftool when one is configured.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"
)

var ErrFetchFailed = errors.New("metadata fetch failed")

// Field is one display row; Properties and Exif keep their own ordering.
type Field struct {
	Key   string
	Value string
}

// Properties stats path and returns the portable property rows.
func Properties(path string) ([]Field, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	fields := []Field{
		{"Name", filepath.Base(path)},
		{"Location", filepath.Dir(path)},
	}
	if !st.IsDir() {
		fields = append(fields, Field{"Size", ReadableSize(st.Size())})
	}
	fields = append(fields, Field{"Modified", st.ModTime().Format("2006-01-02 15:04:05")})
	if st.IsDir() {
		fields = append(fields, Field{"Type", "Folder"})
	} else if ext := filepath.Ext(path); ext != "" {
		fields = append(fields, Field{"Type", fmt.Sprintf("%s file", ext)})
	} else {
		fields = append(fields, Field{"Type", "File"})
	}
	return fields, nil
}

const exifTimeout = 10 * time.Second

// Exif runs exiftool in JSON mode against path and returns the tag rows
// sorted by key. An empty toolPath reports the feature as unavailable
// rather than an error with a subprocess behind it.
func Exif(ctx context.Context, toolPath, path string) ([]Field, error) {
	if toolPath == "" {
		return nil, fmt.Errorf("%w: exiftool not configured", ErrFetchFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, exifTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, toolPath, "-j", "-charset", "utf8", path)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	var docs []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	fields := make([]Field, 0, len(docs[0]))
	for k, v := range docs[0] {
		if k == "SourceFile" {
			continue
		}
		fields = append(fields, Field{k, fmt.Sprintf("%v", v)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields, nil
}

// ReadableSize renders a byte count the way the properties pane shows it.
func ReadableSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTP"[exp])
}

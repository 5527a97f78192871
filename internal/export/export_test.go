package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/esqtui/esq/internal/search"
)

func sampleItems() []search.Item {
	mod := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	return []search.Item{
		{
			Path: "/music/song.mp3", Name: "song.mp3", Size: 4096,
			Modified: mod, Created: mod, Attr: search.AttrReadOnly,
		},
		{
			Path: "/docs/report.pdf", Name: "report.pdf", Size: 2048,
			Modified: mod,
		},
		{
			Path: "/docs", Name: "docs", Size: -1,
			Attr: search.AttrDirectory,
		},
	}
}

func TestFormatForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Format
	}{
		{"out.txt", FormatTXT},
		{"out.CSV", FormatCSV},
		{"out.efu", FormatEFU},
		{"out.m3u", FormatM3U},
		{"out.M3U8", FormatM3U8},
	}
	for _, tt := range tests {
		got, err := FormatForPath(tt.path)
		if err != nil {
			t.Fatalf("FormatForPath(%q): %v", tt.path, err)
		}
		if got != tt.want {
			t.Fatalf("FormatForPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if _, err := FormatForPath("out.xlsx"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestTXTRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatTXT, sampleItems()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Fatal("missing trailing newline")
	}

	paths, err := ReadPaths(&buf, FormatTXT)
	if err != nil {
		t.Fatalf("ReadPaths: %v", err)
	}
	want := []string{"/music/song.mp3", "/docs/report.pdf", "/docs"}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d", len(paths), len(want))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleItems()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Filename,Path,Size,Date Modified,Attributes" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2024-03-15 09:30:00") {
		t.Fatalf("row missing formatted stamp: %q", lines[1])
	}
	// Directory row: unknown size and zero stamp serialize empty.
	if lines[3] != "docs,/docs,,,D" {
		t.Fatalf("directory row = %q", lines[3])
	}

	paths, err := ReadPaths(&buf, FormatCSV)
	if err != nil {
		t.Fatalf("ReadPaths: %v", err)
	}
	if len(paths) != 3 || paths[0] != "/music/song.mp3" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestEFURoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatEFU, sampleItems()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Filename,Size,Date Modified,Date Created,Attributes" {
		t.Fatalf("header = %q", lines[0])
	}
	// 2024-03-15T09:30:00Z as FILETIME.
	if !strings.Contains(lines[1], "133549686000000000") {
		t.Fatalf("row missing FILETIME stamp: %q", lines[1])
	}

	paths, err := ReadPaths(&buf, FormatEFU)
	if err != nil {
		t.Fatalf("ReadPaths: %v", err)
	}
	if len(paths) != 3 || paths[2] != "/docs" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestM3UFiltersToMediaAndRoundTrips(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatM3U, sampleItems()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "#EXTM3U\n") {
		t.Fatalf("missing #EXTM3U directive: %q", buf.String())
	}

	paths, err := ReadPaths(&buf, FormatM3U)
	if err != nil {
		t.Fatalf("ReadPaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "/music/song.mp3" {
		t.Fatalf("paths = %v, want only the media item", paths)
	}
}

func TestWriteFileSnapshot(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteFile(dest, FormatTXT, sampleItems()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.txt"), FormatTXT, nil); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
}

func TestReadDelimitedRejectsForeignHeader(t *testing.T) {
	t.Parallel()

	r := strings.NewReader("Nope,Path\n/a,/b\n")
	if _, err := ReadPaths(r, FormatCSV); err == nil {
		t.Fatal("expected header validation error")
	}
}

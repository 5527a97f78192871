// Package export serializes a snapshot of the visible result set. Every
// format writes "\n" line terminators and UTF-8 regardless of platform, and
// each has a reader so an exported file round-trips to the same ordered
// path list.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/esqtui/esq/internal/search"
)

var ErrWriteFailed = errors.New("export write failed")

type Format int

const (
	FormatTXT Format = iota
	FormatCSV
	FormatEFU
	FormatM3U
	FormatM3U8
)

func (f Format) String() string {
	switch f {
	case FormatTXT:
		return "txt"
	case FormatCSV:
		return "csv"
	case FormatEFU:
		return "efu"
	case FormatM3U:
		return "m3u"
	case FormatM3U8:
		return "m3u8"
	default:
		return "txt"
	}
}

// FormatForPath picks the format from a destination file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(ext(path)) {
	case ".txt":
		return FormatTXT, nil
	case ".csv":
		return FormatCSV, nil
	case ".efu":
		return FormatEFU, nil
	case ".m3u":
		return FormatM3U, nil
	case ".m3u8":
		return FormatM3U8, nil
	default:
		return FormatTXT, fmt.Errorf("no export format for %q", ext(path))
	}
}

// csvHeader is the fixed CSV column contract.
var csvHeader = []string{"Filename", "Path", "Size", "Date Modified", "Attributes"}

// efuHeader matches the Everything file list format.
var efuHeader = []string{"Filename", "Size", "Date Modified", "Date Created", "Attributes"}

// mediaExts limits the playlist formats to media items.
var mediaExts = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true, ".m4a": true,
	".wma": true, ".mp4": true, ".avi": true, ".mkv": true, ".mov": true,
	".wmv": true, ".flv": true,
}

// WriteFile exports items to path. Callers pass a snapshot taken
// synchronously at invocation time, so a search finishing mid-export can
// never produce a half-old/half-new file.
func WriteFile(path string, format Format, items []search.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := Write(f, format, items); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Write emits a deterministic serialization of items.
func Write(w io.Writer, format Format, items []search.Item) error {
	var err error
	switch format {
	case FormatTXT:
		err = writeTXT(w, items)
	case FormatCSV:
		err = writeCSV(w, items)
	case FormatEFU:
		err = writeEFU(w, items)
	case FormatM3U, FormatM3U8:
		err = writeM3U(w, items)
	default:
		err = fmt.Errorf("unknown format %d", format)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

func writeTXT(w io.Writer, items []search.Item) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if _, err := bw.WriteString(item.Path + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeCSV(w io.Writer, items []search.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, item := range items {
		row := []string{
			item.Name,
			item.Path,
			sizeField(item.Size),
			stampField(item.Modified),
			item.Attr.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeEFU(w io.Writer, items []search.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(efuHeader); err != nil {
		return err
	}
	for _, item := range items {
		row := []string{
			item.Path,
			sizeField(item.Size),
			filetimeField(item.Modified),
			filetimeField(item.Created),
			strconv.FormatUint(uint64(item.Attr), 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeM3U(w io.Writer, items []search.Item) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("#EXTM3U\n"); err != nil {
		return err
	}
	for _, item := range items {
		if !mediaExts[item.Ext()] {
			continue
		}
		if _, err := bw.WriteString(item.Path + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadPaths re-parses an exported file back into its ordered path list.
func ReadPaths(r io.Reader, format Format) ([]string, error) {
	switch format {
	case FormatTXT:
		return readLines(r, false)
	case FormatM3U, FormatM3U8:
		return readLines(r, true)
	case FormatCSV:
		return readDelimited(r, csvHeader, 1)
	case FormatEFU:
		return readDelimited(r, efuHeader, 0)
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}
}

func readLines(r io.Reader, skipDirectives bool) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if skipDirectives && strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	return paths, sc.Err()
}

func readDelimited(r io.Reader, header []string, pathCol int) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(first) == 0 || first[0] != header[0] {
		return nil, fmt.Errorf("missing %s header", header[0])
	}

	var paths []string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return paths, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) > pathCol {
			paths = append(paths, row[pathCol])
		}
	}
}

func sizeField(n int64) string {
	if n < 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func stampField(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// filetimeField converts to Windows FILETIME (100ns intervals since 1601),
// the integer stamp the EFU format expects.
func filetimeField(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	const epochDelta = 11644473600 // seconds between 1601 and 1970
	ft := (t.Unix() + epochDelta) * 10000000
	return strconv.FormatInt(ft, 10)
}

func ext(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}

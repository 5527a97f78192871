package search

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Backend identifies which index produced a result.
type Backend int

const (
	BackendFastIndex Backend = iota
	BackendContentIndex
)

func (b Backend) String() string {
	switch b {
	case BackendFastIndex:
		return "everything"
	case BackendContentIndex:
		return "content-index"
	default:
		return "unknown"
	}
}

// Attr is a bitmask of file attribute flags, using the Windows attribute
// bit values so the fast backend's attribute column maps directly.
type Attr uint32

const (
	AttrReadOnly  Attr = 0x0001
	AttrHidden    Attr = 0x0002
	AttrSystem    Attr = 0x0004
	AttrDirectory Attr = 0x0010
	AttrReparse   Attr = 0x0400
)

// ParseAttr decodes the letter form emitted by the fast backend's
// attributes column ("RHSDL", any order).
func ParseAttr(s string) Attr {
	var a Attr
	for _, r := range strings.ToUpper(s) {
		switch r {
		case 'R':
			a |= AttrReadOnly
		case 'H':
			a |= AttrHidden
		case 'S':
			a |= AttrSystem
		case 'D':
			a |= AttrDirectory
		case 'L':
			a |= AttrReparse
		}
	}
	return a
}

func (a Attr) String() string {
	var sb strings.Builder
	if a&AttrReadOnly != 0 {
		sb.WriteByte('R')
	}
	if a&AttrHidden != 0 {
		sb.WriteByte('H')
	}
	if a&AttrSystem != 0 {
		sb.WriteByte('S')
	}
	if a&AttrDirectory != 0 {
		sb.WriteByte('D')
	}
	if a&AttrReparse != 0 {
		sb.WriteByte('L')
	}
	return sb.String()
}

// Item is the normalized, backend-agnostic representation of one match.
// Adapters produce Items at their boundary; nothing downstream ever sees a
// backend-native record.
type Item struct {
	Path         string // absolute path
	Name         string // display name
	Size         int64  // bytes, -1 when unknown (directories, content hits)
	Modified     time.Time
	Created      time.Time
	Accessed     time.Time
	Attr         Attr
	Extension    string // lowercased, with leading dot
	Origin       Backend
	MatchContext string // content matches only
}

func (i Item) IsDir() bool {
	return i.Attr&AttrDirectory != 0
}

// Ext returns the item's extension, deriving it from the name when the
// backend did not supply one.
func (i Item) Ext() string {
	if i.Extension != "" {
		return i.Extension
	}
	return strings.ToLower(filepath.Ext(i.Name))
}

// BackendFailure records a non-fatal per-backend error for status-line
// surfacing.
type BackendFailure struct {
	Backend Backend
	Err     error
}

func (f BackendFailure) String() string {
	return fmt.Sprintf("%s: %v", f.Backend, f.Err)
}

// Set is the ordered result of one query generation. Sets are immutable
// after publication; a superseded Set is discarded, never mutated.
type Set struct {
	Generation uint64
	Query      Query
	Items      []Item
	Failures   []BackendFailure
	Elapsed    time.Duration
}

// FailureSummary joins the per-backend failures for the status line.
// Empty when every applicable backend succeeded.
func (s *Set) FailureSummary() string {
	if len(s.Failures) == 0 {
		return ""
	}
	parts := make([]string, len(s.Failures))
	for i, f := range s.Failures {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}

package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/esqtui/esq/internal/metadata"
	"github.com/esqtui/esq/internal/search"
)

const (
	sizeColWidth  = 10
	stampColWidth = 16
	attrColWidth  = 5
	extColWidth   = 6
)

// columnOrder is the fixed left-to-right layout of toggleable columns.
var columnOrder = []search.Column{
	search.ColSize,
	search.ColDateModified,
	search.ColDateCreated,
	search.ColDateAccessed,
	search.ColAttributes,
	search.ColExtension,
}

var columnTitles = map[search.Column]string{
	search.ColSize:         "Size",
	search.ColDateModified: "Modified",
	search.ColDateCreated:  "Created",
	search.ColDateAccessed: "Accessed",
	search.ColAttributes:   "Attr",
	search.ColExtension:    "Ext",
}

func columnWidth(col search.Column) int {
	switch col {
	case search.ColSize:
		return sizeColWidth
	case search.ColAttributes:
		return attrColWidth
	case search.ColExtension:
		return extColWidth
	default:
		return stampColWidth
	}
}

// renderHeader lines the column titles up with renderRow's layout.
func renderHeader(vs *ViewState, nameWidth int) string {
	var sb strings.Builder
	sb.WriteString(pad("Name", nameWidth))
	for _, col := range columnOrder {
		if !vs.ColumnVisible(col) {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(pad(columnTitles[col], columnWidth(col)))
	}
	return headerStyle.Render(sb.String())
}

// renderRow formats one result line. The name column absorbs whatever
// width the toggleable columns leave over.
func renderRow(vs *ViewState, item search.Item, nameWidth int, icon string) string {
	name := item.Name
	if icon != "" {
		name = icon + " " + name
	}

	var sb strings.Builder
	sb.WriteString(pad(name, nameWidth))
	for _, col := range columnOrder {
		if !vs.ColumnVisible(col) {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(pad(columnValue(item, col), columnWidth(col)))
	}
	return sb.String()
}

func columnValue(item search.Item, col search.Column) string {
	switch col {
	case search.ColSize:
		return formatSize(item)
	case search.ColDateModified:
		return formatStamp(item.Modified)
	case search.ColDateCreated:
		return formatStamp(item.Created)
	case search.ColDateAccessed:
		return formatStamp(item.Accessed)
	case search.ColAttributes:
		return item.Attr.String()
	case search.ColExtension:
		return strings.TrimPrefix(item.Ext(), ".")
	default:
		return ""
	}
}

func formatSize(item search.Item) string {
	if item.IsDir() || item.Size < 0 {
		return ""
	}
	return metadata.ReadableSize(item.Size)
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > width {
		if width > 1 {
			return string(r[:width-1]) + "…"
		}
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// summarize renders the status line for a published set.
func summarize(set *search.Set, visible int) string {
	if set == nil {
		return "type a query and press enter"
	}
	s := fmt.Sprintf("%d results in %s", len(set.Items), set.Elapsed.Round(time.Millisecond))
	if visible != len(set.Items) {
		s = fmt.Sprintf("%d of %s shown", visible, s)
	}
	return s
}

package browser

import (
	"sort"
	"strings"

	"github.com/esqtui/esq/internal/search"
)

// ViewState holds the current result set plus everything needed to compute
// the visible ordering: sort key and direction, an optional filter,
// selection cursor, viewport offset and column visibility. It is owned
// exclusively by the control thread; workers only hand it immutable Sets.
type ViewState struct {
	set     *search.Set
	visible []search.Item

	sortKey   search.SortKey
	ascending bool
	filter    string

	selection int
	offset    int
	pageSize  int

	columns   map[search.Column]bool
	showProps bool

	maxGeneration uint64
}

func NewViewState(pageSize int) *ViewState {
	return &ViewState{
		sortKey:   search.SortByName,
		ascending: true,
		selection: -1,
		pageSize:  pageSize,
		columns: map[search.Column]bool{
			search.ColName:         true,
			search.ColSize:         true,
			search.ColDateModified: true,
			search.ColExtension:    true,
		},
	}
}

// Replace installs a newly published Set. Publications are applied in
// arrival order but any generation at or below the highest one already
// observed is discarded, so a late stale completion can never clobber a
// newer result. Returns whether the set was accepted.
func (v *ViewState) Replace(set *search.Set) bool {
	if set == nil || set.Generation <= v.maxGeneration {
		return false
	}
	v.maxGeneration = set.Generation
	v.set = set
	v.filter = ""
	v.offset = 0
	v.recompute()
	if len(v.visible) > 0 {
		v.selection = 0
	} else {
		v.selection = -1
	}
	return true
}

func (v *ViewState) Set() *search.Set { return v.set }

// Visible returns the post-filter, post-sort sequence.
func (v *ViewState) Visible() []search.Item { return v.visible }

func (v *ViewState) SortKey() search.SortKey { return v.sortKey }
func (v *ViewState) Ascending() bool         { return v.ascending }
func (v *ViewState) Filter() string          { return v.filter }
func (v *ViewState) Selection() int          { return v.selection }
func (v *ViewState) Offset() int             { return v.offset }
func (v *ViewState) PropertiesOpen() bool    { return v.showProps }

func (v *ViewState) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	v.pageSize = n
	v.clamp()
}

// Selected returns the item under the cursor.
func (v *ViewState) Selected() (search.Item, bool) {
	if v.selection < 0 || v.selection >= len(v.visible) {
		return search.Item{}, false
	}
	return v.visible[v.selection], true
}

// SetSort re-sorts the visible sequence. The sort is stable: items equal
// under the key keep their prior relative order, so ties preserve the
// fast-index-first concatenation.
func (v *ViewState) SetSort(key search.SortKey, ascending bool) {
	v.sortKey = key
	v.ascending = ascending
	v.recompute()
	v.clamp()
}

// ToggleSort flips direction when key is already active, otherwise sorts
// ascending by key.
func (v *ViewState) ToggleSort(key search.SortKey) {
	if v.sortKey == key {
		v.SetSort(key, !v.ascending)
		return
	}
	v.SetSort(key, true)
}

// SetFilter narrows the visible subsequence to items whose name, path or
// match context contains expr (case-insensitive). The underlying Set is
// untouched; an empty expr restores full visibility.
func (v *ViewState) SetFilter(expr string) {
	v.filter = expr
	v.recompute()
	v.clamp()
}

func (v *ViewState) MoveSelection(delta int) {
	if len(v.visible) == 0 {
		v.selection = -1
		return
	}
	v.selection += delta
	v.clamp()
}

func (v *ViewState) PageSelection(down bool) {
	if down {
		v.MoveSelection(v.pageSize)
	} else {
		v.MoveSelection(-v.pageSize)
	}
}

func (v *ViewState) JumpToStart() {
	if len(v.visible) > 0 {
		v.selection = 0
	}
	v.clamp()
}

func (v *ViewState) JumpToEnd() {
	if len(v.visible) > 0 {
		v.selection = len(v.visible) - 1
	}
	v.clamp()
}

func (v *ViewState) ToggleColumn(col search.Column) {
	if col == search.ColName || col == search.ColPath {
		return // always shown
	}
	v.columns[col] = !v.columns[col]
}

// SetColumn sets one column's visibility directly; name and path stay
// fixed.
func (v *ViewState) SetColumn(col search.Column, on bool) {
	if col == search.ColName || col == search.ColPath {
		return
	}
	v.columns[col] = on
}

func (v *ViewState) ColumnVisible(col search.Column) bool {
	return v.columns[col]
}

func (v *ViewState) TogglePropertiesPanel() {
	v.showProps = !v.showProps
}

// recompute rebuilds visible from the set, filter and sort.
func (v *ViewState) recompute() {
	if v.set == nil {
		v.visible = nil
		return
	}

	items := make([]search.Item, 0, len(v.set.Items))
	needle := strings.ToLower(v.filter)
	for _, item := range v.set.Items {
		if needle != "" && !matchesFilter(item, needle) {
			continue
		}
		items = append(items, item)
	}

	less := comparator(v.sortKey)
	asc := v.ascending
	sort.SliceStable(items, func(i, j int) bool {
		if asc {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})

	v.visible = items
}

func matchesFilter(item search.Item, needle string) bool {
	return strings.Contains(strings.ToLower(item.Name), needle) ||
		strings.Contains(strings.ToLower(item.Path), needle) ||
		strings.Contains(strings.ToLower(item.MatchContext), needle)
}

// comparator returns a strict-weak ordering for key. Each ordering is
// total: name/path/extension compare case-insensitively, size numerically
// with unknown (-1) first, modified chronologically with zero stamps last,
// attributes by bitmask ordinal.
func comparator(key search.SortKey) func(a, b search.Item) bool {
	switch key {
	case search.SortBySize:
		return func(a, b search.Item) bool { return a.Size < b.Size }
	case search.SortByModified:
		return func(a, b search.Item) bool {
			switch {
			case a.Modified.IsZero() && b.Modified.IsZero():
				return false
			case a.Modified.IsZero():
				return false // nulls last
			case b.Modified.IsZero():
				return true
			default:
				return a.Modified.Before(b.Modified)
			}
		}
	case search.SortByPath:
		return func(a, b search.Item) bool {
			return strings.ToLower(a.Path) < strings.ToLower(b.Path)
		}
	case search.SortByExtension:
		return func(a, b search.Item) bool {
			return a.Ext() < b.Ext()
		}
	case search.SortByAttributes:
		return func(a, b search.Item) bool { return a.Attr < b.Attr }
	default: // SortByName
		return func(a, b search.Item) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
}

// clamp re-checks the selection and viewport after any mutation: the
// selection is always a valid index into the visible sequence, or -1 when
// it is empty.
func (v *ViewState) clamp() {
	if len(v.visible) == 0 {
		v.selection = -1
		v.offset = 0
		return
	}
	if v.selection < 0 {
		v.selection = 0
	}
	if v.selection >= len(v.visible) {
		v.selection = len(v.visible) - 1
	}
	if v.selection < v.offset {
		v.offset = v.selection
	}
	if v.selection >= v.offset+v.pageSize {
		v.offset = v.selection - v.pageSize + 1
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

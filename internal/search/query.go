package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// SortKey selects the result ordering, both for the fast backend's sort
// pushdown and for local re-sorting in the view.
type SortKey int

const (
	SortByName SortKey = iota
	SortBySize
	SortByModified
	SortByPath
	SortByExtension
	SortByAttributes
)

func (k SortKey) String() string {
	switch k {
	case SortByName:
		return "name"
	case SortBySize:
		return "size"
	case SortByModified:
		return "date-modified"
	case SortByPath:
		return "path"
	case SortByExtension:
		return "extension"
	case SortByAttributes:
		return "attributes"
	default:
		return "name"
	}
}

// Column is one output column requested from the fast backend. The order
// of Spec.Columns is the order fields appear in each CSV row.
type Column int

const (
	ColName Column = iota
	ColSize
	ColDateModified
	ColDateCreated
	ColDateAccessed
	ColAttributes
	ColExtension
	ColPath
)

// Query is one user-facing search, immutable once constructed.
type Query struct {
	Text string

	// Mode flags, translated to backend-specific syntax.
	Regex           bool
	CaseSensitive   bool
	WholeWord       bool
	MatchPath       bool
	MatchDiacritics bool

	FilesOnly   bool
	FoldersOnly bool

	PathFilter       string
	ParentPathFilter string
	Instance         string

	MaxResults int
	Offset     int

	// SearchContent forces the content backend to run even without a
	// content: prefix token in the query text.
	SearchContent bool

	SortKey       SortKey
	SortAscending bool

	ShowSize         bool
	ShowDateModified bool
	ShowDateCreated  bool
	ShowDateAccessed bool
	ShowAttributes   bool
	ShowExtension    bool

	SizeFormat int // 0=auto 1=bytes 2=KB 3=MB
	DateFormat int // 0=system 1=ISO-8601 2=FILETIME 3=ISO-8601 UTC
}

// DefaultQuery mirrors the option defaults of the original tool.
func DefaultQuery(text string) Query {
	return Query{
		Text:             text,
		MaxResults:       1000,
		SortKey:          SortByName,
		SortAscending:    true,
		ShowSize:         true,
		ShowDateModified: true,
		ShowExtension:    true,
		// Plain byte counts; any other format would hand the decoder
		// humanized strings it cannot turn back into numbers.
		SizeFormat: 1,
	}
}

// Spec is one backend-specific invocation derived from a Query. Derivation
// is deterministic and pure; a Spec is never mutated after Translate.
type Spec struct {
	Backend Backend

	// Fast-index invocation.
	Argv    []string // arguments for the es executable
	Columns []Column // CSV field order implied by Argv

	// Content-index invocation.
	Terms     []string // individual content terms
	Predicate string   // canonical form, terms joined with AND
	Scope     string   // optional path scope
	Limit     int
}

// switchesWithValue lists embedded query switches that consume the
// following token, matching the original es CLI surface.
var switchesWithValue = map[string]bool{
	"-sort": true, "-max-results": true, "-n": true,
	"-offset": true, "-o": true, "-path": true, "-parent-path": true,
	"-instance": true, "-size-format": true, "-date-format": true,
	"-timeout": true,
}

const contentPrefix = "content:"

// Translate turns one Query into one Spec per applicable backend: always a
// fast-index Spec, plus a content-index Spec when content search is toggled
// on or the query carries content: prefix tokens. It validates before any
// backend is touched: an empty query and an unparsable regex pattern are
// rejected here, never handed to a subprocess.
func Translate(q Query) ([]Spec, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	terms, switches, contentTerms := splitQuery(text)

	if q.Regex {
		pattern := strings.Join(terms, " ")
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
	}

	if len(terms) == 0 && len(contentTerms) == 0 && len(switches) == 0 {
		return nil, ErrEmptyQuery
	}

	specs := []Spec{fastSpec(q, terms, switches)}

	if q.SearchContent || len(contentTerms) > 0 {
		all := append(append([]string{}, contentTerms...), terms...)
		specs = append(specs, contentSpec(q, all))
	}

	return specs, nil
}

// splitQuery tokenizes the raw query text, separating plain search terms,
// embedded backend switches (- or / prefixed) and content: prefixed terms.
// Quoting is respected; if the text is unbalanced we fall back to a
// whitespace split rather than failing the search.
func splitQuery(text string) (terms, switches, contentTerms []string) {
	tokens, err := shlex.Split(text)
	if err != nil {
		tokens = strings.Fields(text)
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case strings.HasPrefix(strings.ToLower(tok), contentPrefix):
			if rest := tok[len(contentPrefix):]; rest != "" {
				contentTerms = append(contentTerms, strings.Trim(rest, `"'`))
			}
		case strings.HasPrefix(tok, "/"):
			switches = append(switches, tok)
		case strings.HasPrefix(tok, "-"):
			switches = append(switches, tok)
			if switchesWithValue[tok] && i+1 < len(tokens) {
				i++
				switches = append(switches, tokens[i])
			}
		default:
			terms = append(terms, tok)
		}
	}
	return terms, switches, contentTerms
}

// fastSpec assembles the es command line. Embedded switches win over the
// equivalent Query fields so a power user can override any option inline.
func fastSpec(q Query, terms, switches []string) Spec {
	argv := append([]string{}, terms...)
	argv = append(argv, switches...)

	if !hasSortSwitch(switches) {
		argv = append(argv, sortArgs(q.SortKey, q.SortAscending)...)
	}

	if q.Regex && !hasAny(switches, "-regex", "-r") {
		argv = append(argv, "-regex")
	}
	if q.CaseSensitive && !hasAny(switches, "-case", "-i") {
		argv = append(argv, "-case")
	}
	if q.WholeWord && !hasAny(switches, "-whole-word", "-w", "-ww") {
		argv = append(argv, "-whole-word")
	}
	if q.MatchPath && !hasAny(switches, "-match-path", "-p") {
		argv = append(argv, "-match-path")
	}
	if q.MatchDiacritics && !hasAny(switches, "-diacritics", "-a") {
		argv = append(argv, "-diacritics")
	}

	if q.MaxResults > 0 && !hasAny(switches, "-max-results", "-n") {
		argv = append(argv, "-max-results", strconv.Itoa(q.MaxResults))
	}
	if q.Offset > 0 && !hasAny(switches, "-offset", "-o") {
		argv = append(argv, "-offset", strconv.Itoa(q.Offset))
	}

	columns := []Column{ColName}
	argv = append(argv, "-name")
	if q.ShowSize {
		columns = append(columns, ColSize)
		argv = append(argv, "-size")
	}
	if q.ShowDateModified {
		columns = append(columns, ColDateModified)
		argv = append(argv, "-date-modified")
	}
	if q.ShowDateCreated {
		columns = append(columns, ColDateCreated)
		argv = append(argv, "-date-created")
	}
	if q.ShowDateAccessed {
		columns = append(columns, ColDateAccessed)
		argv = append(argv, "-date-accessed")
	}
	if q.ShowAttributes {
		columns = append(columns, ColAttributes)
		argv = append(argv, "-attributes")
	}
	if q.ShowExtension {
		columns = append(columns, ColExtension)
		argv = append(argv, "-extension")
	}
	// Directory column last; the adapter joins it with the name.
	columns = append(columns, ColPath)
	argv = append(argv, "-path-column")

	// Stable machine-readable output.
	argv = append(argv, "-csv", "-no-header")

	if !hasAny(switches, "/ad", "/a-d") {
		if q.FilesOnly {
			argv = append(argv, "/a-d")
		} else if q.FoldersOnly {
			argv = append(argv, "/ad")
		}
	}

	if q.PathFilter != "" {
		argv = append(argv, "-path", q.PathFilter)
	}
	if q.ParentPathFilter != "" {
		argv = append(argv, "-parent-path", q.ParentPathFilter)
	}
	if q.Instance != "" {
		argv = append(argv, "-instance", q.Instance)
	}
	if q.SizeFormat != 1 {
		argv = append(argv, "-size-format", strconv.Itoa(q.SizeFormat))
	}
	if q.DateFormat != 0 {
		argv = append(argv, "-date-format", strconv.Itoa(q.DateFormat))
	}

	return Spec{Backend: BackendFastIndex, Argv: argv, Columns: columns}
}

// contentSpec builds the content-index predicate: terms joined with AND,
// quoted individually in whole-word mode.
func contentSpec(q Query, terms []string) Spec {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if q.WholeWord && !strings.HasPrefix(t, `"`) {
			t = `"` + t + `"`
		}
		cleaned = append(cleaned, t)
	}

	limit := q.MaxResults
	if limit <= 0 {
		limit = 1000
	}

	return Spec{
		Backend:   BackendContentIndex,
		Terms:     cleaned,
		Predicate: strings.Join(cleaned, " AND "),
		Scope:     q.PathFilter,
		Limit:     limit,
	}
}

func sortArgs(key SortKey, ascending bool) []string {
	switch key {
	case SortByName:
		if ascending {
			return []string{"/on"}
		}
		return []string{"/o-n"}
	case SortBySize:
		if ascending {
			return []string{"/os"}
		}
		return []string{"/o-s"}
	case SortByModified:
		if ascending {
			return []string{"/od"}
		}
		return []string{"/o-d"}
	case SortByExtension:
		if ascending {
			return []string{"/oe"}
		}
		return []string{"/o-e"}
	case SortByPath:
		args := []string{"-sort", "path"}
		if !ascending {
			args = append(args, "-sort-descending")
		}
		return args
	case SortByAttributes:
		args := []string{"-sort", "attributes"}
		if !ascending {
			args = append(args, "-sort-descending")
		}
		return args
	default:
		return []string{"/on"}
	}
}

func hasSortSwitch(switches []string) bool {
	for _, sw := range switches {
		if strings.HasPrefix(sw, "/o") || sw == "-sort" || sw == "-sort-descending" {
			return true
		}
	}
	return false
}

func hasAny(switches []string, want ...string) bool {
	for _, sw := range switches {
		for _, w := range want {
			if sw == w {
				return true
			}
		}
	}
	return false
}

// Package browser is the interactive result browser: a search prompt, a
// column view over the latest published result set, a properties panel and
// an export prompt. All state mutation happens on the bubbletea update
// loop; searches run on worker goroutines owned by the orchestrator and
// arrive as messages.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/esqtui/esq/internal/cache"
	"github.com/esqtui/esq/internal/config"
	"github.com/esqtui/esq/internal/export"
	"github.com/esqtui/esq/internal/history"
	"github.com/esqtui/esq/internal/metadata"
	"github.com/esqtui/esq/internal/search"
)

const debugRingSize = 200

type promptMode int

const (
	promptNone promptMode = iota
	promptSearch
	promptFilter
	promptExport
)

type (
	resultMsg struct{ set *search.Set }

	propsMsg struct {
		path string
		text string
		err  error
	}

	exportDoneMsg struct {
		path  string
		count int
		err   error
	}

	openDoneMsg struct {
		path string
		err  error
	}
)

type Model struct {
	cfg    *config.Config
	orch   *search.Orchestrator
	hist   *history.Store
	panes  *cache.Cache
	log    *slog.Logger
	keys   *browserKeyMap
	vs     *ViewState
	input  textinput.Model
	prompt promptMode

	width  int
	height int

	status    string
	warning   string
	searching bool

	showIcons    bool
	unicodeIcons bool
	contentOn    bool

	// Mode flags applied to the next submitted query, edited through the
	// options overlay.
	showOptions bool
	regexOn     bool
	caseOn      bool
	wholeWordOn bool
	matchPathOn bool

	propsText string

	recent    []string
	recentIdx int

	showDebug bool
	debug     []string
}

func NewModel(
	cfg *config.Config,
	orch *search.Orchestrator,
	hist *history.Store,
	log *slog.Logger,
	warnings []string,
) *Model {
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 512
	ti.Focus()

	vs := NewViewState(20)
	vs.SetColumn(search.ColSize, cfg.ShowSize)
	vs.SetColumn(search.ColDateModified, cfg.ShowModified)
	vs.SetColumn(search.ColDateCreated, cfg.ShowCreated)
	vs.SetColumn(search.ColDateAccessed, cfg.ShowAccessed)
	vs.SetColumn(search.ColAttributes, cfg.ShowAttributes)
	vs.SetColumn(search.ColExtension, cfg.ShowExtension)

	return &Model{
		cfg:          cfg,
		orch:         orch,
		hist:         hist,
		panes:        cache.New(64),
		log:          log,
		keys:         newBrowserKeyMap(),
		vs:           vs,
		input:        ti,
		prompt:       promptSearch,
		status:       "type a query and press enter",
		warning:      strings.Join(warnings, "; "),
		showIcons:    cfg.ShowIcons,
		unicodeIcons: cfg.UnicodeIcons,
		contentOn:    cfg.SearchContent,
		recentIdx:    -1,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listen())
}

// listen bridges the orchestrator's publication channel into the update
// loop. Each received set re-arms the listener.
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		set, ok := <-m.orch.Results()
		if !ok {
			return nil
		}
		return resultMsg{set}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rows := msg.Height - 8
		if rows < 1 {
			rows = 1
		}
		m.vs.SetPageSize(rows)
		return m, nil

	case resultMsg:
		return m.handleResult(msg.set)

	case propsMsg:
		if sel, ok := m.vs.Selected(); ok && sel.Path == msg.path {
			if msg.err != nil {
				m.propsText = warnStyle.Render(msg.err.Error())
			} else {
				m.propsText = msg.text
				m.panes.Put(msg.path, msg.text)
			}
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("export failed: %v", msg.err)
			m.logDebug("export failed", "path", msg.path, "err", msg.err)
		} else {
			m.status = fmt.Sprintf("exported %d results to %s", msg.count, msg.path)
			m.logDebug("export done", "path", msg.path, "count", msg.count)
		}
		return m, nil

	case openDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("open failed: %v", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.showOptions && m.prompt == promptNone {
			return m.handleOptionsKeys(msg)
		}
		switch m.prompt {
		case promptSearch:
			return m.handleSearchPrompt(msg)
		case promptFilter:
			return m.handleFilterPrompt(msg)
		case promptExport:
			return m.handleExportPrompt(msg)
		default:
			return m.handleResultKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) handleResult(set *search.Set) (tea.Model, tea.Cmd) {
	if m.vs.Replace(set) {
		m.searching = false
		m.propsText = ""
		// Fresh results mean possibly fresh metadata for the same paths.
		for _, item := range set.Items {
			m.panes.Invalidate(item.Path)
		}
		m.status = summarize(set, len(m.vs.Visible()))
		if summary := set.FailureSummary(); summary != "" {
			m.status += "  (" + summary + ")"
		}
		m.logDebug("results replaced",
			"generation", set.Generation, "items", len(set.Items))
	} else {
		m.logDebug("stale set ignored", "generation", set.Generation)
	}
	return m, tea.Batch(m.listen(), m.refreshProps())
}

func (m *Model) handleSearchPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submitPrompt):
		return m, m.submit(m.input.Value())

	case key.Matches(msg, m.keys.exitPrompt):
		if m.vs.Set() == nil {
			return m, tea.Quit
		}
		m.prompt = promptNone
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.historyBack):
		m.recallHistory(1)
		return m, nil

	case key.Matches(msg, m.keys.historyForward):
		m.recallHistory(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submitPrompt):
		m.vs.SetFilter(m.input.Value())
		m.prompt = promptNone
		m.input.Blur()
		m.status = summarize(m.vs.Set(), len(m.vs.Visible()))
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.exitPrompt):
		m.vs.SetFilter("")
		m.prompt = promptNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.vs.SetFilter(m.input.Value())
	return m, cmd
}

func (m *Model) handleExportPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submitPrompt):
		dest := strings.TrimSpace(m.input.Value())
		m.prompt = promptNone
		m.input.Blur()
		if dest == "" {
			return m, nil
		}
		// Snapshot now; a search landing mid-write must not mix sets.
		snapshot := append([]search.Item(nil), m.vs.Visible()...)
		return m, exportCmd(dest, snapshot)

	case key.Matches(msg, m.keys.exitPrompt):
		m.prompt = promptNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.orch.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.newSearch), key.Matches(msg, m.keys.switchFocus):
		m.openPrompt(promptSearch, m.input.Value(), "search")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.filter):
		m.openPrompt(promptFilter, m.vs.Filter(), "filter")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.export):
		if len(m.vs.Visible()) == 0 {
			m.status = "nothing to export"
			return m, nil
		}
		m.openPrompt(promptExport, "results.txt", "export to (txt/csv/efu/m3u/m3u8)")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.openOptions), key.Matches(msg, m.keys.advancedSearch):
		m.showOptions = true
		return m, nil

	case key.Matches(msg, m.keys.openSelected):
		if sel, ok := m.vs.Selected(); ok {
			return m, openCmd(sel.Path)
		}
		return m, nil

	case key.Matches(msg, m.keys.copyPath):
		if sel, ok := m.vs.Selected(); ok {
			if err := clipboard.WriteAll(sel.Path); err != nil {
				m.status = fmt.Sprintf("clipboard: %v", err)
			} else {
				m.status = "path copied"
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.showProperties):
		m.vs.TogglePropertiesPanel()
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.toggleIcons):
		m.showIcons = !m.showIcons
		return m, nil

	case key.Matches(msg, m.keys.toggleCharset):
		m.unicodeIcons = !m.unicodeIcons
		return m, nil

	case key.Matches(msg, m.keys.toggleDebug):
		m.showDebug = !m.showDebug
		return m, nil

	case key.Matches(msg, m.keys.toggleContent):
		m.contentOn = !m.contentOn
		if m.contentOn {
			m.status = "content search on"
		} else {
			m.status = "content search off"
		}
		return m, nil

	case key.Matches(msg, m.keys.sortByName):
		m.vs.ToggleSort(search.SortByName)
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.sortBySize):
		m.vs.ToggleSort(search.SortBySize)
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.sortByModified):
		m.vs.ToggleSort(search.SortByModified)
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.sortByExtension):
		m.vs.ToggleSort(search.SortByExtension)
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.up):
		m.vs.MoveSelection(-1)
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.down):
		m.vs.MoveSelection(1)
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.pageUp):
		m.vs.PageSelection(false)
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.pageDown):
		m.vs.PageSelection(true)
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.home):
		m.vs.JumpToStart()
		return m, m.refreshProps()

	case key.Matches(msg, m.keys.end):
		m.vs.JumpToEnd()
		return m, m.refreshProps()
	}

	return m, nil
}

// handleOptionsKeys edits the mode flags for the next query. Enter drops
// straight into the search prompt so a flagged search is one flow.
func (m *Model) handleOptionsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.regexOn = !m.regexOn
	case "c":
		m.caseOn = !m.caseOn
	case "w":
		m.wholeWordOn = !m.wholeWordOn
	case "m":
		m.matchPathOn = !m.matchPathOn
	case "i":
		m.showIcons = !m.showIcons
	case "u":
		m.unicodeIcons = !m.unicodeIcons
	case "f5":
		m.contentOn = !m.contentOn
	case "s":
		m.vs.ToggleColumn(search.ColSize)
	case "d":
		m.vs.ToggleColumn(search.ColDateModified)
	case "t":
		m.vs.ToggleColumn(search.ColDateCreated)
	case "a":
		m.vs.ToggleColumn(search.ColDateAccessed)
	case "b":
		m.vs.ToggleColumn(search.ColAttributes)
	case "e":
		m.vs.ToggleColumn(search.ColExtension)
	case "enter":
		m.showOptions = false
		m.openPrompt(promptSearch, m.input.Value(), "search")
		return m, textinput.Blink
	case "esc", "f2", "f4", "q":
		m.showOptions = false
	}
	return m, nil
}

func (m *Model) openPrompt(mode promptMode, value, placeholder string) {
	m.prompt = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	if mode == promptSearch {
		m.recent = nil
		m.recentIdx = -1
	}
}

// submit builds the query from the current toggles and hands it to the
// orchestrator. Translation errors surface on the status line and leave
// the previous result set untouched.
func (m *Model) submit(text string) tea.Cmd {
	q := search.DefaultQuery(text)
	q.MaxResults = m.cfg.MaxResults
	q.SearchContent = m.contentOn
	q.Regex = m.regexOn
	q.CaseSensitive = m.caseOn
	q.WholeWord = m.wholeWordOn
	q.MatchPath = m.matchPathOn
	// Fetch exactly the columns the view shows.
	q.ShowSize = m.vs.ColumnVisible(search.ColSize)
	q.ShowDateModified = m.vs.ColumnVisible(search.ColDateModified)
	q.ShowDateCreated = m.vs.ColumnVisible(search.ColDateCreated)
	q.ShowDateAccessed = m.vs.ColumnVisible(search.ColDateAccessed)
	q.ShowAttributes = m.vs.ColumnVisible(search.ColAttributes)
	q.ShowExtension = m.vs.ColumnVisible(search.ColExtension)
	q.SortKey = m.vs.SortKey()
	q.SortAscending = m.vs.Ascending()

	gen, err := m.orch.Submit(q)
	if err != nil {
		m.status = warnStyle.Render(err.Error())
		m.logDebug("submit rejected", "err", err)
		return nil
	}

	m.searching = true
	m.status = "searching..."
	m.prompt = promptNone
	m.input.Blur()
	m.logDebug("submitted", "generation", gen, "query", text)

	if m.hist != nil {
		if err := m.hist.Append(text); err != nil {
			m.logDebug("history append failed", "err", err)
		}
	}
	return nil
}

// recallHistory walks saved queries from the search prompt; direction 1
// goes further back, -1 toward the newest.
func (m *Model) recallHistory(direction int) {
	if m.hist == nil {
		return
	}
	if m.recent == nil {
		recent, err := m.hist.Recent(50)
		if err != nil {
			m.logDebug("history read failed", "err", err)
			return
		}
		m.recent = recent
	}
	if len(m.recent) == 0 {
		return
	}

	m.recentIdx += direction
	if m.recentIdx < 0 {
		m.recentIdx = -1
		m.input.SetValue("")
		return
	}
	if m.recentIdx >= len(m.recent) {
		m.recentIdx = len(m.recent) - 1
	}
	m.input.SetValue(m.recent[m.recentIdx])
	m.input.CursorEnd()
}

// refreshProps recomputes the properties panel for the current selection,
// serving repeats from the pane cache.
func (m *Model) refreshProps() tea.Cmd {
	if !m.vs.PropertiesOpen() {
		return nil
	}
	sel, ok := m.vs.Selected()
	if !ok {
		m.propsText = ""
		return nil
	}
	if text, hit := m.panes.Get(sel.Path); hit {
		m.propsText = text
		return nil
	}

	path := sel.Path
	width := m.width / 2
	exifTool := m.cfg.ExifToolPath
	return func() tea.Msg {
		fields, err := metadata.Properties(path)
		if err != nil {
			return propsMsg{path: path, err: err}
		}
		var sb strings.Builder
		for _, f := range fields {
			sb.WriteString(fmt.Sprintf("%-10s %s\n", f.Key, f.Value))
		}
		if exifTool != "" {
			if tags, err := metadata.Exif(context.Background(), exifTool, path); err == nil && len(tags) > 0 {
				sb.WriteString("\n")
				for _, f := range tags {
					sb.WriteString(fmt.Sprintf("%-24s %s\n", f.Key, f.Value))
				}
			}
		}
		if preview := renderPreview(path, width); preview != "" {
			sb.WriteString("\n")
			sb.WriteString(preview)
		}
		return propsMsg{path: path, text: sb.String()}
	}
}

func exportCmd(dest string, items []search.Item) tea.Cmd {
	return func() tea.Msg {
		format, err := export.FormatForPath(dest)
		if err != nil {
			return exportDoneMsg{path: dest, err: err}
		}
		if err := export.WriteFile(dest, format, items); err != nil {
			return exportDoneMsg{path: dest, err: err}
		}
		return exportDoneMsg{path: dest, count: len(items)}
	}
}

// openCmd hands the path to the platform opener.
func openCmd(path string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", path)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", "", path)
		default:
			cmd = exec.Command("xdg-open", path)
		}
		return openDoneMsg{path: path, err: cmd.Start()}
	}
}

func (m *Model) logDebug(msg string, args ...any) {
	if m.log != nil {
		m.log.Debug(msg, args...)
	}
	line := msg
	for i := 0; i+1 < len(args); i += 2 {
		line += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	m.debug = append(m.debug, line)
	if len(m.debug) > debugRingSize {
		m.debug = m.debug[len(m.debug)-debugRingSize:]
	}
}

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("esq"))
	if m.prompt == promptSearch || m.prompt == promptFilter || m.prompt == promptExport {
		sb.WriteString("\n")
		sb.WriteString(promptStyle.Render(m.input.View()))
	} else if set := m.vs.Set(); set != nil {
		sb.WriteString("  " + statusStyle.Render(set.Query.Text))
	}
	sb.WriteString("\n\n")

	if m.showOptions {
		sb.WriteString(m.renderOptions())
	} else {
		sb.WriteString(m.renderResults())
	}
	sb.WriteString("\n")

	if m.warning != "" {
		sb.WriteString(warnStyle.Render(m.warning))
		sb.WriteString("\n")
	}
	sb.WriteString(statusStyle.Render(m.statusLine()))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(
		"enter open · y copy · f filter · f2 options · f3 export · f5 content · f6 properties · 1-4 sort · esc quit"))

	if m.showDebug {
		sb.WriteString("\n\n")
		tail := m.debug
		if len(tail) > 8 {
			tail = tail[len(tail)-8:]
		}
		sb.WriteString(debugStyle.Render(strings.Join(tail, "\n")))
	}

	return appStyle.Render(sb.String())
}

func (m *Model) renderResults() string {
	visible := m.vs.Visible()
	if len(visible) == 0 {
		if m.searching {
			return statusStyle.Render("searching...")
		}
		return statusStyle.Render("no results")
	}

	listWidth := m.width - 6
	if m.vs.PropertiesOpen() {
		listWidth = m.width / 2
	}
	nameWidth := listWidth
	for _, col := range columnOrder {
		if m.vs.ColumnVisible(col) {
			nameWidth -= columnWidth(col) + 2
		}
	}
	if nameWidth < 20 {
		nameWidth = 20
	}

	var rows []string
	rows = append(rows, renderHeader(m.vs, nameWidth))

	start := m.vs.Offset()
	end := start + m.vs.pageSize
	if end > len(visible) {
		end = len(visible)
	}
	for i := start; i < end; i++ {
		item := visible[i]
		icon := ""
		if m.showIcons {
			icon = iconFor(item, m.unicodeIcons)
		}
		line := renderRow(m.vs, item, nameWidth, icon)
		switch {
		case i == m.vs.Selection():
			line = selectedRowStyle.Render(line)
		case item.IsDir():
			line = dirRowStyle.Render(line)
		default:
			line = rowStyle.Render(line)
		}
		rows = append(rows, line)
		if item.MatchContext != "" && i == m.vs.Selection() {
			rows = append(rows, contextStyle.Render("    "+item.MatchContext))
		}
	}

	list := strings.Join(rows, "\n")
	if !m.vs.PropertiesOpen() {
		return list
	}

	panel := panelStyle.Render(
		fmt.Sprintf("%s\n%s", titleStyle.Render("Properties"), m.propsText))
	return lipgloss.JoinHorizontal(lipgloss.Top, list, panel)
}

func (m *Model) renderOptions() string {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	rows := []string{
		titleStyle.Render("Search options"),
		"",
		fmt.Sprintf("  r  regex            %s", onOff(m.regexOn)),
		fmt.Sprintf("  c  case sensitive   %s", onOff(m.caseOn)),
		fmt.Sprintf("  w  whole word       %s", onOff(m.wholeWordOn)),
		fmt.Sprintf("  m  match path       %s", onOff(m.matchPathOn)),
		fmt.Sprintf("  f5 content search   %s", onOff(m.contentOn)),
		"",
		fmt.Sprintf("  i  icons            %s", onOff(m.showIcons)),
		fmt.Sprintf("  u  unicode icons    %s", onOff(m.unicodeIcons)),
		"",
		fmt.Sprintf("  s  size column      %s", onOff(m.vs.ColumnVisible(search.ColSize))),
		fmt.Sprintf("  d  modified column  %s", onOff(m.vs.ColumnVisible(search.ColDateModified))),
		fmt.Sprintf("  t  created column   %s", onOff(m.vs.ColumnVisible(search.ColDateCreated))),
		fmt.Sprintf("  a  accessed column  %s", onOff(m.vs.ColumnVisible(search.ColDateAccessed))),
		fmt.Sprintf("  b  attribute column %s", onOff(m.vs.ColumnVisible(search.ColAttributes))),
		fmt.Sprintf("  e  extension column %s", onOff(m.vs.ColumnVisible(search.ColExtension))),
		"",
		helpStyle.Render("  enter search with these options · esc close"),
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m *Model) statusLine() string {
	s := m.status
	sortDir := "asc"
	if !m.vs.Ascending() {
		sortDir = "desc"
	}
	s += fmt.Sprintf("  ·  sort: %s %s", m.vs.SortKey(), sortDir)
	if m.contentOn {
		s += "  ·  content: on"
	}
	var modes []string
	if m.regexOn {
		modes = append(modes, "regex")
	}
	if m.caseOn {
		modes = append(modes, "case")
	}
	if m.wholeWordOn {
		modes = append(modes, "word")
	}
	if m.matchPathOn {
		modes = append(modes, "path")
	}
	if len(modes) > 0 {
		s += "  ·  modes: " + strings.Join(modes, ",")
	}
	if f := m.vs.Filter(); f != "" {
		s += fmt.Sprintf("  ·  filter: %q", f)
	}
	return s
}

// Run starts the browser and blocks until the user quits.
func Run(
	cfg *config.Config,
	orch *search.Orchestrator,
	hist *history.Store,
	log *slog.Logger,
	warnings []string,
	initialQuery string,
) error {
	m := NewModel(cfg, orch, hist, log, warnings)
	if initialQuery != "" {
		m.input.SetValue(initialQuery)
		m.submit(initialQuery)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

package browser

import "github.com/charmbracelet/bubbles/key"

type browserKeyMap struct {
	newSearch       key.Binding
	switchFocus     key.Binding
	openSelected    key.Binding
	copyPath        key.Binding
	export          key.Binding
	openOptions     key.Binding
	advancedSearch  key.Binding
	filter          key.Binding
	historyBack     key.Binding
	historyForward  key.Binding
	showProperties  key.Binding
	toggleIcons     key.Binding
	toggleCharset   key.Binding
	toggleDebug     key.Binding
	toggleContent   key.Binding
	sortByName      key.Binding
	sortBySize      key.Binding
	sortByModified  key.Binding
	sortByExtension key.Binding
	submitPrompt    key.Binding
	exitPrompt      key.Binding
	up              key.Binding
	down            key.Binding
	pageUp          key.Binding
	pageDown        key.Binding
	home            key.Binding
	end             key.Binding
	quit            key.Binding
}

func newBrowserKeyMap() *browserKeyMap {
	return &browserKeyMap{
		newSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "new search"),
		),
		switchFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		openSelected: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		copyPath: key.NewBinding(
			key.WithKeys("y", "ctrl+c"),
			key.WithHelp("y", "copy path"),
		),
		export: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("f3", "export"),
		),
		openOptions: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "options"),
		),
		advancedSearch: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("f4", "advanced search"),
		),
		filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter results"),
		),
		historyBack: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "previous query"),
		),
		historyForward: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next query"),
		),
		showProperties: key.NewBinding(
			key.WithKeys("f6"),
			key.WithHelp("f6", "properties"),
		),
		toggleIcons: key.NewBinding(
			key.WithKeys("f7"),
			key.WithHelp("f7", "toggle icons"),
		),
		toggleCharset: key.NewBinding(
			key.WithKeys("f8"),
			key.WithHelp("f8", "icon charset"),
		),
		toggleDebug: key.NewBinding(
			key.WithKeys("f9"),
			key.WithHelp("f9", "debug log"),
		),
		toggleContent: key.NewBinding(
			key.WithKeys("f5"),
			key.WithHelp("f5", "content search"),
		),
		sortByName: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort by name"),
		),
		sortBySize: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort by size"),
		),
		sortByModified: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort by modified"),
		),
		sortByExtension: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "sort by extension"),
		),
		submitPrompt: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "submit"),
		),
		exitPrompt: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		pageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		pageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "first result"),
		),
		end: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "last result"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+q", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

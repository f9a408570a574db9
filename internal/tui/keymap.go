package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Select     key.Binding
	SwapColumn key.Binding
	Undo       key.Binding
	NextPlan   key.Binding
	DateBack   key.Binding
	DateFwd    key.Binding
	Units      key.Binding
	WeekStart  key.Binding
	Profile    key.Binding
	ExportIcal key.Binding
	ExportCsv  key.Binding
	Summary    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up a week")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down a week")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous day")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Select:     key.NewBinding(key.WithKeys("enter", "x"), key.WithHelp("enter", "mark/swap date")),
		SwapColumn: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "swap weekday columns")),
		Undo:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		NextPlan:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next plan")),
		DateBack:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "end a week earlier")),
		DateFwd:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "end a week later")),
		Units:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle units")),
		WeekStart:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "cycle week start")),
		Profile:    key.NewBinding(key.WithKeys("P", "tab"), key.WithHelp("P", "switch profile")),
		ExportIcal: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "export iCal")),
		ExportCsv:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "export CSV")),
		Summary:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "weekly totals")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.SwapColumn, k.Undo, k.Summary, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.SwapColumn, k.Undo},
		{k.NextPlan, k.DateBack, k.DateFwd, k.Units, k.WeekStart},
		{k.Profile, k.ExportIcal, k.ExportCsv, k.Summary, k.Quit},
	}
}

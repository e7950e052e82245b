package keyboard

import "github.com/charmbracelet/bubbles/key"

type Map struct {
	NextFocus key.Binding
	PrevFocus key.Binding
	PrevTab   key.Binding
	NextTab   key.Binding
	Activate  key.Binding
	Quit      key.Binding

	// Shortcuts below are ignored on the settings tab so they can be typed.
	Toggle key.Binding
	Clear  key.Binding
	Reload key.Binding
	Export key.Binding
	Post   key.Binding
	Follow key.Binding
	Close  key.Binding
}

func New() Map {
	return Map{
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+left"),
			key.WithHelp("ctrl+left", "prev tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+right"),
			key.WithHelp("ctrl+right", "next tab"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "activate"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/stop"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Post: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "post"),
		),
		Follow: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "follow"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc", "close"),
		),
	}
}

func (m Map) ShortHelp() []key.Binding {
	return []key.Binding{m.Toggle, m.Clear, m.Reload, m.Export, m.Post, m.NextTab, m.Quit}
}

func (m Map) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Toggle, m.Clear, m.Reload},
		{m.Export, m.Post, m.Follow},
		{m.NextFocus, m.PrevFocus, m.Activate},
		{m.PrevTab, m.NextTab, m.Quit},
	}
}

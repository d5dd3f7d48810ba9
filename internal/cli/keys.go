package cli

import "github.com/charmbracelet/bubbles/key"

// surveyKeyMap holds the slider form bindings. It implements help.KeyMap.
type surveyKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Dec        key.Binding
	Inc        key.Binding
	DecBig     key.Binding
	IncBig     key.Binding
	Enter      key.Binding
	Lock       key.Binding
	AutoAdjust key.Binding
	Reset      key.Binding
	Submit     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newSurveyKeyMap(lockAware bool) surveyKeyMap {
	km := surveyKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Dec:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-1")),
		Inc:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+1")),
		DecBig:     key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "-5")),
		IncBig:     key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "+5")),
		Enter:      key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "type value")),
		Lock:       key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "lock")),
		AutoAdjust: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-adjust")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Submit:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "submit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	km.Lock.SetEnabled(lockAware)
	km.AutoAdjust.SetEnabled(lockAware)
	return km
}

func (k surveyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Dec, k.Inc, k.Lock, k.AutoAdjust, k.Submit, k.Help, k.Quit}
}

func (k surveyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Dec, k.Inc, k.DecBig, k.IncBig},
		{k.Lock, k.AutoAdjust, k.Reset},
		{k.Submit, k.Help, k.Quit},
	}
}

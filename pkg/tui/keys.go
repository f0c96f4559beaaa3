package tui

import "github.com/charmbracelet/bubbles/key"

// todoKeys are the bindings of the todo list view.
type todoKeys struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	Add         key.Binding
	Search      key.Binding
	Filter      key.Binding
	Sort        key.Binding
	Category    key.Binding
	Priority    key.Binding
	Fuzzy       key.Binding
	Clear       key.Binding
	Stats       key.Binding
	Help        key.Binding
	Quit        key.Binding
	Close       key.Binding
	AcceptQuery key.Binding
}

func newTodoKeys() todoKeys {
	return todoKeys{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Add:         key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Category:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		Priority:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle priority")),
		Fuzzy:       key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "fuzzy search")),
		Clear:       key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		Stats:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "stats")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close/clear")),
		AcceptQuery: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep query")),
	}
}

func (k todoKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Search, k.Filter, k.Sort, k.Help, k.Quit}
}

func (k todoKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete, k.Priority},
		{k.Add, k.Search, k.Fuzzy, k.Close, k.AcceptQuery},
		{k.Filter, k.Sort, k.Category, k.Clear, k.Stats},
		{k.Help, k.Quit},
	}
}

// timerKeys are the bindings of the pomodoro view.
type timerKeys struct {
	StartPause key.Binding
	Reset      key.Binding
	Work       key.Binding
	Short      key.Binding
	Long       key.Binding
	Custom     key.Binding
	More       key.Binding
	Less       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newTimerKeys() timerKeys {
	return timerKeys{
		StartPause: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Work:       key.NewBinding(key.WithKeys("w", "1"), key.WithHelp("w", "work")),
		Short:      key.NewBinding(key.WithKeys("s", "2"), key.WithHelp("s", "short break")),
		Long:       key.NewBinding(key.WithKeys("l", "3"), key.WithHelp("l", "long break")),
		Custom:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "custom duration")),
		More:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "5 min more")),
		Less:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "5 min less")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k timerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.StartPause, k.Reset, k.Work, k.Short, k.Long, k.Help, k.Quit}
}

func (k timerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartPause, k.Reset},
		{k.Work, k.Short, k.Long},
		{k.Custom, k.More, k.Less},
		{k.Help, k.Quit},
	}
}

// searchKeys are the bindings of the search picker.
type searchKeys struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Quit   key.Binding
}

func newSearchKeys() searchKeys {
	return searchKeys{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Choose, k.Quit}
}

func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

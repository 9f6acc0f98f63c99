package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// ErrSelectionCancelled is returned when the picker is closed without a choice
var ErrSelectionCancelled = errors.New("selection cancelled")

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

type followItem struct {
	follow orgsocial.Follow
}

func (i followItem) FilterValue() string {
	return i.follow.Nick + " " + i.follow.URL
}

func (i followItem) Title() string {
	if i.follow.Nick == "" {
		return i.follow.URL
	}
	return fmt.Sprintf("%s (%s)", i.follow.Nick, i.follow.URL)
}

func (i followItem) Description() string { return "" }

type pickerModel struct {
	list     list.Model
	choice   string
	quitting bool
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		// Let the list own keys while its filter input is active
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.choice = ""
			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(followItem); ok {
				m.choice = i.follow.URL
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("↑/↓: navigate • /: filter • enter: select • q/esc: cancel")
	return fmt.Sprintf("%s\n\n%s", m.list.View(), help)
}

// PickFollow shows an interactive list of followed feeds and returns the
// chosen URL
func PickFollow(follows []orgsocial.Follow) (string, error) {
	if len(follows) == 0 {
		return "", fmt.Errorf("not following any feed")
	}
	if !isInteractive() {
		return "", fmt.Errorf("feed selection needs an interactive terminal")
	}

	items := make([]list.Item, 0, len(follows))
	for _, f := range follows {
		items = append(items, followItem{follow: f})
	}

	const defaultWidth = 80
	const listHeight = 14

	l := list.New(items, itemDelegate{}, defaultWidth, listHeight)
	l.Title = "Select a followed feed"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	p := tea.NewProgram(pickerModel{list: l})
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(pickerModel)
	if result.choice == "" {
		return "", ErrSelectionCancelled
	}
	return result.choice, nil
}

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// itemDelegate is a custom list item delegate
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(followItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

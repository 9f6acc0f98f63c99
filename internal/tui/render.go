package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/studiowebux/orgsocial/internal/editor"
	"github.com/studiowebux/orgsocial/internal/keybinds"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen   = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"} // Dark green / Bright green
	colorRed     = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"} // Dark red / Bright red
	colorYellow  = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"} // Dark goldenrod / Yellow
	colorBlue    = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"} // Dark blue / Light blue
	colorGray    = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"} // Dark gray / Light gray
	colorCyan    = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"} // Dark cyan / Cyan
	colorMagenta = lipgloss.AdaptiveColor{Light: "#8b008b", Dark: "#ff87ff"} // Dark magenta / Pink
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleLink = lipgloss.NewStyle().
			Foreground(colorBlue).
			Underline(true)

	styleMention = lipgloss.NewStyle().
			Foreground(colorMagenta).
			Bold(true)

	styleCode = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleBlockSummary = lipgloss.NewStyle().
				Foreground(colorCyan).
				Italic(true)

	// Focused link, mention or collapsed block
	styleFocusedElement = lipgloss.NewStyle().
				Background(colorYellow).
				Foreground(lipgloss.Color("#000000")).
				Bold(true)

	// Lines of a focused expanded block or poll
	styleFocusedRegion = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "#eeeeaa", Dark: "#303000"})
)

// renderMain renders the post list, the selected post and the status bar
func (m Model) renderMain() string {
	listWidth, contentWidth := m.paneWidths()
	paneHeight := m.height - StatusBarHeight - BorderHeight

	list := m.renderPostList(listWidth-BorderWidth, paneHeight)

	listBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGreen).
		Width(listWidth).
		Height(paneHeight).
		Render(list)

	contentBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Width(contentWidth).
		Height(paneHeight).
		Render(m.contentView.View())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, listBox, contentBox)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		m.renderStatusBar(),
	)
}

// paneWidths splits the screen 30/70 between list and content
func (m Model) paneWidths() (int, int) {
	listWidth := m.width * ListWidthPercent / 100
	contentWidth := m.width - listWidth - 2*BorderWidth
	return listWidth, contentWidth
}

// renderPostList renders the entries of the active view
func (m Model) renderPostList(width, height int) string {
	var title string
	var items []string

	switch m.feed.View() {
	case ViewThreaded:
		title = fmt.Sprintf("Threads (%d/%d - %d total posts)",
			min(m.feed.CurrentThread()+1, m.feed.ThreadCount()), m.feed.ThreadCount(), len(m.feed.rows))
		for _, row := range m.feed.rows {
			indent := strings.Repeat("  ", row.depth)
			if row.depth > 0 {
				indent += "↳ "
			}
			items = append(items, indent+listEntry(row.node.Post))
		}
	case ViewNotifications:
		title = fmt.Sprintf("Notifications (%d/%d)", positionOf(m.feed), len(m.feed.notifications))
		for _, n := range m.feed.notifications {
			label := "[MENTION]"
			if n.Kind == orgsocial.NotificationReply {
				label = "[REPLY]"
			}
			items = append(items, label+" "+listEntry(n.Post))
		}
	default:
		title = fmt.Sprintf("Posts (%d/%d)", positionOf(m.feed), len(m.feed.posts))
		for _, p := range m.feed.posts {
			items = append(items, listEntry(p))
		}
	}

	lines := []string{styleTitle.Render(title), ""}
	if m.loading && len(items) == 0 {
		lines = append(lines, styleSubtle.Render("Loading feed..."))
	} else if len(items) == 0 {
		lines = append(lines, styleSubtle.Render("Nothing to show"))
	}

	visible := height - len(lines)
	start := 0
	if sel := m.feed.Selected(); visible > 0 && sel >= visible {
		start = sel - visible + 1
	}
	for i := start; i < len(items) && i-start < visible; i++ {
		item := runewidth.Truncate(items[i], width, "…")
		if i == m.feed.Selected() {
			item = styleSelected.Render(runewidth.FillRight(item, width))
		}
		lines = append(lines, item)
	}

	return strings.Join(lines, "\n")
}

func positionOf(s *FeedState) int {
	if s.Len() == 0 {
		return 0
	}
	return s.Selected() + 1
}

// listEntry is the one-line summary of a post in the list
func listEntry(p orgsocial.Post) string {
	author := p.Author
	if author == "" {
		author = "me"
	}

	preview := firstLine(p.Content)
	switch {
	case p.PollOption != "":
		preview = "Vote: " + p.PollOption
	case preview == "" && p.Mood != "":
		preview = p.Mood
	}

	when := ""
	if !p.Time.IsZero() {
		when = " " + p.Time.Format("02-01 15:04")
	}
	return fmt.Sprintf("%s:%s %s", author, when, preview)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// renderStatusBar renders the status line and the key summary
func (m Model) renderStatusBar() string {
	left := m.feed.View().DisplayName()
	hints := "q:quit | j/k:nav | d/u:scroll | g/G:top/bottom | t:toggle view | r:reply | n:new post | h:help"

	status := styleSubtle.Render(left + " | " + hints)
	if m.statusMsg != "" {
		msg := m.statusMsg
		switch {
		case strings.HasPrefix(msg, "Error") || strings.HasPrefix(msg, "Failed"):
			msg = styleError.Render(msg)
		case strings.Contains(msg, "saved") || strings.HasPrefix(msg, "Opened"):
			msg = styleSuccess.Render(msg)
		}
		status = msg + "\n" + status
	}
	return status
}

// addCursorAt inserts the block cursor at rune position pos
func addCursorAt(s string, pos int) string {
	runes := []rune(s)
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	return string(runes[:pos]) + "█" + string(runes[pos:])
}

// renderCompose renders the reply or new post form
func (m Model) renderCompose() string {
	d := m.draft
	if d == nil {
		return m.renderMain()
	}

	var sections []string
	if d.Kind() == editor.KindReply {
		sections = append(sections, styleTitle.Render("Replying to: "+d.ReplyTo()))
	} else {
		sections = append(sections, styleTitle.Render("New Post"))
	}

	boxWidth := m.width - BorderWidth
	for _, f := range d.Fields() {
		sections = append(sections, m.renderField(d, f, boxWidth))
	}

	help := "Tab/Shift+Tab: switch field | Enter: next field or add tags | Shift+Enter: newline | F1: remove tag | F2: reset | Ctrl+S: submit | Esc: cancel"
	sections = append(sections, styleSubtle.Render(help))
	if m.statusMsg != "" {
		sections = append(sections, m.statusMsg)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderField(d *editor.Draft, f editor.Field, width int) string {
	active := d.Current() == f

	title := f.String()
	if active {
		title += " (ACTIVE)"
	}

	text := ""
	if buf := d.Buffer(f); buf != nil {
		text = buf.Text()
		if active && m.cursorVisible {
			text = addCursorAt(text, buf.Cursor())
		}
	} else if active && m.cursorVisible && !(f == editor.FieldPollOption && d.Kind() == editor.KindReply) {
		text = "█"
	}

	switch f {
	case editor.FieldTags:
		current := "(none)"
		if tags := d.Tags(); len(tags) > 0 {
			current = "#" + strings.Join(tags, " #")
		}
		text = "Current: " + current + "\nInput: " + text
	case editor.FieldPollOption:
		if d.Kind() == editor.KindReply && text == "" {
			text = styleSubtle.Render("(set by voting on a poll)")
		}
	case editor.FieldPollEnd:
		if text == "" && !active {
			text = styleSubtle.Render("(optional, e.g. 2026-12-31T23:59:00+0000)")
		}
	}

	borderColor := colorGray
	if active {
		borderColor = colorGreen
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Render(styleTitle.Render(title) + "\n" + text)
}

// renderHelp renders the help overlay
func (m Model) renderHelp() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Width(m.width - BorderWidth).
		Height(m.height - BorderHeight - StatusBarHeight).
		Render(m.helpView.View())

	return lipgloss.JoinVertical(lipgloss.Left, box,
		styleSubtle.Render("j/k: scroll | g/G: top/bottom | h/?/esc/q: close"))
}

// updateHelpView fills the help viewport from the active keybindings
func (m *Model) updateHelpView() {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render("Org Social - Keyboard Shortcuts"))
	sb.WriteString("\n")

	sections := []struct {
		title   string
		context keybinds.Context
	}{
		{"BROWSING", keybinds.ContextBrowsing},
		{"COMPOSE (reply / new post)", keybinds.ContextCompose},
		{"POLL VOTE", keybinds.ContextPollVote},
		{"HELP", keybinds.ContextHelp},
	}

	for _, section := range sections {
		sb.WriteString("\n" + styleTitle.Render(section.title) + "\n")

		// Keys of one action on one line, in binding order
		var order []keybinds.Action
		keys := make(map[keybinds.Action][]string)
		for _, b := range m.keybinds.ListBindings(section.context) {
			if b.Context != section.context {
				continue
			}
			if _, seen := keys[b.Action]; !seen {
				order = append(order, b.Action)
			}
			keys[b.Action] = append(keys[b.Action], b.Key)
		}
		for _, action := range order {
			info := keybinds.GetActionInfo(action)
			fmt.Fprintf(&sb, "  %-22s %s\n", strings.Join(keys[action], ", "), info.Description)
		}
	}

	sb.WriteString("\n" + styleTitle.Render("GLOBAL") + "\n")
	fmt.Fprintf(&sb, "  %-22s %s\n", m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionQuitForce),
		keybinds.GetActionInfo(keybinds.ActionQuitForce).Description)

	sb.WriteString("\n" + styleSubtle.Render("Compose: Enter adds tags in the Tags field, inserts a newline in Content,") + "\n")
	sb.WriteString(styleSubtle.Render("submits a reply on Poll option and moves to the next field elsewhere.") + "\n")

	m.helpView.SetContent(sb.String())
}

// renderPollVote renders the poll option picker
func (m Model) renderPollVote() string {
	pv := m.pollVote
	if pv == nil {
		return m.renderMain()
	}

	lines := []string{
		styleTitle.Render("Poll Context"),
		pv.Context(),
		"",
		styleTitle.Render("Options"),
	}
	for i, opt := range pv.Options() {
		if i == pv.Index() {
			lines = append(lines, styleSelected.Render("► "+opt))
		} else {
			lines = append(lines, "  "+opt)
		}
	}
	if len(pv.Options()) == 0 {
		lines = append(lines, styleWarning.Render("This poll has no options"))
	}
	lines = append(lines, "", styleSubtle.Render("j/k: move | Enter: vote (opens reply) | Esc/q: cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorYellow).
		Width(m.width - BorderWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, box, m.renderStatusBar())
}

// updateViewports resizes the content and help viewports to the window
func (m *Model) updateViewports() {
	_, contentWidth := m.paneWidths()
	paneHeight := m.height - StatusBarHeight - BorderHeight

	m.contentView.Width = max(contentWidth, 1)
	m.contentView.Height = max(paneHeight, 1)
	m.helpView.Width = max(m.width-BorderWidth-HelpPadding, 1)
	m.helpView.Height = max(paneHeight, 1)
}

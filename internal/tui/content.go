package tui

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/studiowebux/orgsocial/internal/activatable"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// tokenCacheSize bounds the number of tokenized posts kept in memory
const tokenCacheSize = 256

// refreshContent lays out the selected post and rebuilds the element
// registry from what the layout found. Moving to another post resets
// collapse state and poll results.
func (m *Model) refreshContent() {
	post, ok := m.feed.Current()
	if !ok {
		if m.contentKey != "" {
			m.registry.ResetForPost()
			m.contentKey = ""
		}
		m.contentLines = nil
		m.contentView.SetContent("")
		return
	}

	if key := post.FullID(); key != m.contentKey {
		m.registry.ResetForPost()
		m.contentKey = key
	}

	focused := m.registry.FocusedID()
	m.collector.Reset()
	m.contentLines = m.layoutPost(post)
	m.registry.Rebuild(&m.collector)

	// Ids shifted under the focus, lay out again so the highlight follows it
	if m.registry.FocusedID() != focused {
		m.collector.Reset()
		m.contentLines = m.layoutPost(post)
		m.registry.Rebuild(&m.collector)
	}

	m.contentView.SetContent(strings.Join(append(renderPostHeader(post), m.contentLines...), "\n"))
}

// tokenLines tokenizes the post content and splits the stream per source line
func (m *Model) tokenLines(post orgsocial.Post) [][]orgsocial.Token {
	key := post.FullID() + "\x00" + post.Content
	if lines, ok := m.tokenCache.Get(key); ok {
		return lines
	}

	lines := [][]orgsocial.Token{nil}
	for _, tok := range orgsocial.Tokenize(post.Content) {
		parts := strings.Split(tok.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part == "" {
				continue
			}
			t := tok
			t.Text = part
			lines[len(lines)-1] = append(lines[len(lines)-1], t)
		}
	}

	m.tokenCache.Add(key, lines)
	return lines
}

// layoutPost renders the content lines of post and reports every link,
// mention, block and poll to the collector in document order
func (m *Model) layoutPost(post orgsocial.Post) []string {
	source := strings.Split(post.Content, "\n")
	tokens := m.tokenLines(post)

	blocks := make(map[int]orgsocial.Element)
	var poll *orgsocial.Element
	for _, e := range orgsocial.ParseElements(post) {
		if e.Kind == orgsocial.ElementPoll {
			e := e
			poll = &e
			continue
		}
		blocks[e.StartLine] = e
	}

	snapshot, hasSnapshot := m.registry.PollSnapshot()
	pollFocused := poll != nil && m.registry.IsPollFocused(poll.StartLine)

	var out []string
	for i := 0; i < len(source); i++ {
		if b, ok := blocks[i]; ok {
			out = append(out, m.layoutBlock(b, source, tokens, len(out))...)
			i = b.EndLine
			continue
		}

		inPoll := poll != nil && i >= poll.StartLine && i <= poll.EndLine
		if poll != nil && i == poll.StartLine {
			m.collector.CollectPoll(
				activatable.Poll{Summary: pollSummary(post.Content)},
				i, len(out), 0, runewidth.StringWidth(source[i]),
			)
		}

		line := m.layoutTokens(lineTokens(tokens, i), i, len(out))
		if inPoll && hasSnapshot {
			if opt, ok := pollOptionText(source[i]); ok {
				line += styleSubtle.Render(fmt.Sprintf(" [%d votes]", votesFor(snapshot, opt)))
			}
		}
		if inPoll && pollFocused {
			line = styleFocusedRegion.Render(line)
		}
		out = append(out, line)
	}
	return out
}

// layoutBlock renders a block starting at display line display. A collapsed
// block becomes a single summary line and hides the links inside it.
func (m *Model) layoutBlock(b orgsocial.Element, source []string, tokens [][]orgsocial.Token, display int) []string {
	focused := m.registry.IsBlockFocused(b.StartLine)

	if m.registry.IsCollapsed(b.StartLine) {
		summary := activatable.CollapsedSummary(b.BlockKind)
		m.collector.CollectBlock(b.BlockKind, true, b.StartLine, display, 0, runewidth.StringWidth(summary))
		if focused {
			return []string{styleFocusedElement.Render(summary)}
		}
		return []string{styleBlockSummary.Render(summary)}
	}

	begin := source[b.StartLine]
	m.collector.CollectBlock(b.BlockKind, false, b.StartLine, display, 0, runewidth.StringWidth(strings.TrimSpace(begin)))

	out := []string{styleSubtle.Render(begin)}
	if b.BlockKind == "src" {
		out = append(out, highlightCode(strings.Join(b.Body(source), "\n"), b.Lang)...)
	} else {
		for i := b.StartLine + 1; i < b.EndLine; i++ {
			out = append(out, m.layoutTokens(lineTokens(tokens, i), i, display+len(out)))
		}
	}
	out = append(out, styleSubtle.Render(source[b.EndLine]))

	if focused {
		for i, line := range out {
			out[i] = styleFocusedRegion.Render(line)
		}
	}
	return out
}

func lineTokens(tokens [][]orgsocial.Token, line int) []orgsocial.Token {
	if line < len(tokens) {
		return tokens[line]
	}
	return nil
}

// layoutTokens styles one line and collects its links and mentions.
// Columns are terminal cells.
func (m *Model) layoutTokens(tokens []orgsocial.Token, sourceLine, displayLine int) string {
	var sb strings.Builder
	col := 0

	for _, tok := range tokens {
		text := tok.Text
		style := lipgloss.NewStyle()

		switch tok.Kind {
		case orgsocial.TokenBold:
			style = style.Bold(true)
		case orgsocial.TokenItalic:
			style = style.Italic(true)
		case orgsocial.TokenUnderline:
			style = style.Underline(true)
		case orgsocial.TokenStrikethrough:
			style = style.Strikethrough(true)
		case orgsocial.TokenCode:
			style = styleCode
		case orgsocial.TokenLink:
			width := runewidth.StringWidth(text)
			id := m.collector.Len()
			m.collector.CollectHyperlink(tok.URL, text, sourceLine, displayLine, col, col+width)
			style = styleLink
			if m.registry.FocusedID() == id && m.registry.IsURLFocused(tok.URL) {
				style = styleFocusedElement
			}
		case orgsocial.TokenMention:
			text = "@" + tok.Text
			width := runewidth.StringWidth(text)
			id := m.collector.Len()
			m.collector.CollectMention(tok.URL, tok.Text, sourceLine, displayLine, col, col+width)
			style = styleMention
			if m.registry.FocusedID() == id && m.registry.IsMentionFocused(tok.URL) {
				style = styleFocusedElement
			}
		}

		col += runewidth.StringWidth(text)
		if tok.Kind == orgsocial.TokenPlain {
			sb.WriteString(text)
		} else {
			sb.WriteString(style.Render(text))
		}
	}
	return sb.String()
}

// highlightCode colors a src block body. Unknown languages are left plain.
func highlightCode(code, lang string) []string {
	if code == "" {
		return nil
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		return strings.Split(code, "\n")
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return strings.Split(code, "\n")
	}

	style := styles.Get("monokai")
	lines := []string{""}
	for _, token := range iterator.Tokens() {
		lipStyle := chromaToLipgloss(token.Type, style)
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				lines = append(lines, "")
			}
			if part != "" {
				lines[len(lines)-1] += lipStyle.Render(part)
			}
		}
	}

	// chroma appends a newline to the last token
	if len(lines) > 1 && lines[len(lines)-1] == "" && !strings.HasSuffix(code, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func chromaToLipgloss(tokenType chroma.TokenType, style *chroma.Style) lipgloss.Style {
	entry := style.Get(tokenType)
	lipStyle := lipgloss.NewStyle()

	if entry.Colour.IsSet() {
		lipStyle = lipStyle.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		lipStyle = lipStyle.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		lipStyle = lipStyle.Italic(true)
	}
	return lipStyle
}

// pollOptionText extracts the option of a "- [ ] option" line
func pollOptionText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range []string{"- [ ]", "- [X]", "- [x]", "+ [ ]"} {
		if strings.HasPrefix(trimmed, prefix) {
			opt := strings.TrimSpace(trimmed[len(prefix):])
			return opt, opt != ""
		}
	}
	return "", false
}

func votesFor(result orgsocial.PollResult, option string) int {
	for _, c := range result.Counts {
		if strings.EqualFold(strings.TrimSpace(c.Option), option) {
			return c.Votes
		}
	}
	return 0
}

// renderPostHeader lists the properties of a post above its content
func renderPostHeader(p orgsocial.Post) []string {
	when := "no time"
	if !p.Time.IsZero() {
		when = p.Time.Format("2006-01-02 15:04")
	}

	author := p.Author
	if author == "" {
		author = "me"
	}

	lines := []string{
		styleTitle.Render(author) + styleSubtle.Render("  "+when),
		styleSubtle.Render("ID: " + p.FullID()),
	}
	if len(p.Tags) > 0 {
		lines = append(lines, styleSubtle.Render("Tags: #"+strings.Join(p.Tags, " #")))
	}
	if p.ReplyTo != "" {
		lines = append(lines, styleSubtle.Render("Reply to: "+p.ReplyTo))
	}
	if p.PollOption != "" {
		lines = append(lines, styleWarning.Render("Poll option: "+p.PollOption))
	}
	if p.PollEnd != "" {
		lines = append(lines, styleSubtle.Render("Poll ends: "+p.PollEnd))
	}
	if p.Mood != "" {
		lines = append(lines, "Mood: "+p.Mood)
	}
	if p.Lang != "" {
		lines = append(lines, styleSubtle.Render("Lang: "+p.Lang))
	}
	return append(lines, "")
}

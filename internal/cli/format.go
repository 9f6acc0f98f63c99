package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleAuthor  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleSubtle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleLink    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)
	styleTag     = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// formatPost renders a post for the terminal
func formatPost(p orgsocial.Post) string {
	var sb strings.Builder

	author := p.Author
	if author == "" {
		author = "me"
	}
	when := "no time"
	if !p.Time.IsZero() {
		when = p.Time.Format("2006-01-02 15:04")
	}
	sb.WriteString(styleAuthor.Render(author) + " " + styleSubtle.Render(when) + "\n")
	sb.WriteString(styleSubtle.Render("ID: "+p.FullID()) + "\n")

	if p.ReplyTo != "" {
		sb.WriteString(styleSubtle.Render("Reply to: "+p.ReplyTo) + "\n")
	}
	if len(p.Tags) > 0 {
		tags := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = styleTag.Render("#" + t)
		}
		sb.WriteString(strings.Join(tags, " ") + "\n")
	}
	if p.PollOption != "" {
		sb.WriteString(styleWarning.Render("Vote: "+p.PollOption) + "\n")
	}
	if p.PollEnd != "" {
		sb.WriteString(styleWarning.Render("Poll ends: "+p.PollEnd) + "\n")
	}
	if p.Mood != "" {
		sb.WriteString("Mood: " + p.Mood + "\n")
	}

	if content := strings.TrimSpace(p.Content); content != "" {
		sb.WriteString("\n" + content + "\n")
	}
	return sb.String()
}

// formatProfile renders the profile keywords
func formatProfile(p orgsocial.Profile) string {
	var sb strings.Builder

	title := p.Title
	if title == "" {
		title = "(untitled)"
	}
	sb.WriteString(styleTitle.Render(title) + "\n")

	field := func(name, value string) {
		if value != "" {
			sb.WriteString(fmt.Sprintf("%-12s %s\n", name+":", value))
		}
	}
	field("Nick", p.Nick)
	field("Description", p.Description)
	field("Avatar", p.Avatar)
	for _, l := range p.Links {
		field("Link", styleLink.Render(l))
	}
	for _, c := range p.Contacts {
		field("Contact", c)
	}
	field("Following", fmt.Sprint(len(p.Follows)))
	return sb.String()
}

// formatStats renders feed statistics. Verbose adds tags and per-feed counts.
func formatStats(s Stats, verbose bool) string {
	var sb strings.Builder

	sb.WriteString(styleTitle.Render("Feed statistics") + "\n")
	sb.WriteString(fmt.Sprintf("Posts:         %d\n", s.Posts))
	sb.WriteString(fmt.Sprintf("Replies:       %d\n", s.Replies))
	sb.WriteString(fmt.Sprintf("Polls:         %d\n", s.Polls))
	sb.WriteString(fmt.Sprintf("Tags:          %d\n", len(s.Tags)))

	if len(s.Feeds) > 0 {
		remote, failed := 0, 0
		for _, f := range s.Feeds {
			remote += f.Posts
			if f.Err != nil {
				failed++
			}
		}
		sb.WriteString(fmt.Sprintf("Followed:      %d (%d unreachable)\n", len(s.Feeds), failed))
		sb.WriteString(fmt.Sprintf("Remote posts:  %d\n", remote))
		sb.WriteString(fmt.Sprintf("Notifications: %d\n", s.Mentions))
	}

	if !verbose {
		return sb.String()
	}

	if len(s.Tags) > 0 {
		sb.WriteString("\n" + styleTitle.Render("Tags") + "\n")
		for _, t := range sortedTags(s.Tags) {
			sb.WriteString(fmt.Sprintf("  %s %d\n", styleTag.Render("#"+t), s.Tags[t]))
		}
	}
	if len(s.Feeds) > 0 {
		sb.WriteString("\n" + styleTitle.Render("Feeds") + "\n")
		for _, f := range s.Feeds {
			if f.Err != nil {
				sb.WriteString(fmt.Sprintf("  %s %s\n", f.URL, styleError.Render("error: "+orgsocial.DescribeFetchError(f.Err))))
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s %d posts\n", f.URL, f.Posts))
		}
	}
	return sb.String()
}

// Package history keeps a local log of the posts and replies submitted
// from this client.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// Kinds of submitted entries
const (
	KindPost  = "post"
	KindReply = "reply"
)

// Entry is one submitted post
type Entry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind"`
	PostID     string    `json:"post_id"`
	ReplyTo    string    `json:"reply_to,omitempty"`
	SocialFile string    `json:"social_file"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags,omitempty"`
	Mood       string    `json:"mood,omitempty"`
	PollOption string    `json:"poll_option,omitempty"`
}

// FromPost builds the entry recorded after p was appended to socialFile
func FromPost(p orgsocial.Post, socialFile string) Entry {
	kind := KindPost
	if p.IsReply() {
		kind = KindReply
	}
	return Entry{
		Timestamp:  p.Time,
		Kind:       kind,
		PostID:     p.ID,
		ReplyTo:    p.ReplyTo,
		SocialFile: socialFile,
		Content:    p.Content,
		Tags:       p.Tags,
		Mood:       p.Mood,
		PollOption: p.PollOption,
	}
}

// Summary returns a one-line description for listings
func (e Entry) Summary(width int) string {
	content := strings.Join(strings.Fields(e.Content), " ")
	if width > 0 && len([]rune(content)) > width {
		content = string([]rune(content)[:width]) + "..."
	}

	target := ""
	if e.ReplyTo != "" {
		target = " -> " + e.ReplyTo
	}
	return fmt.Sprintf("%s %-5s %s%s  %s", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Kind, e.PostID, target, content)
}

package orgsocial

import (
	"strings"
	"time"
)

// ClientName is written to the CLIENT property of posts created here
const ClientName = "orgsocial"

// IDLayout is the timestamp format used for post identifiers
const IDLayout = "2006-01-02T15:04:05-0700"

// Follow is a followed feed declared with #+FOLLOW
type Follow struct {
	Nick string `json:"nick,omitempty"`
	URL  string `json:"url"`
}

// Profile holds the header keywords of a social.org file
type Profile struct {
	Title       string   `json:"title,omitempty"`
	Nick        string   `json:"nick,omitempty"`
	Description string   `json:"description,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
	Links       []string `json:"links,omitempty"`
	Follows     []Follow `json:"follows,omitempty"`
	Contacts    []string `json:"contacts,omitempty"`
}

// Post is a single entry under the Posts heading
type Post struct {
	ID         string    `json:"id"`
	Source     string    `json:"source,omitempty"`
	Author     string    `json:"author,omitempty"`
	Content    string    `json:"content"`
	Lang       string    `json:"lang,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Client     string    `json:"client,omitempty"`
	ReplyTo    string    `json:"reply_to,omitempty"`
	Mood       string    `json:"mood,omitempty"`
	PollEnd    string    `json:"poll_end,omitempty"`
	PollOption string    `json:"poll_option,omitempty"`
	Time       time.Time `json:"time,omitempty"`
}

// FullID identifies a post across feeds: "<source>#<id>" for remote posts,
// the bare id for posts of the local file.
func (p Post) FullID() string {
	if p.Source == "" {
		return p.ID
	}
	return p.Source + "#" + p.ID
}

// IsReply reports whether the post answers another post
func (p Post) IsReply() bool {
	return p.ReplyTo != ""
}

// HasPoll reports whether the post declares a poll
func (p Post) HasPoll() bool {
	return p.PollEnd != ""
}

// Feed is a parsed social.org file
type Feed struct {
	Source  string  `json:"source,omitempty"`
	Profile Profile `json:"profile"`
	Posts   []Post  `json:"posts"`
}

// RepliesTo reports whether reply targets the given post. Replies reference
// "<url>#<id>"; a local reply to a local post may carry the bare id.
func RepliesTo(reply, target Post) bool {
	if reply.ReplyTo == "" {
		return false
	}
	if reply.ReplyTo == target.FullID() {
		return true
	}
	i := strings.LastIndex(reply.ReplyTo, "#")
	if i < 0 {
		return reply.ReplyTo == target.ID
	}
	return reply.ReplyTo[i+1:] == target.ID && (target.Source == "" || reply.ReplyTo[:i] == target.Source)
}

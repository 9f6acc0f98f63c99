package orgsocial

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// PostDraft holds the user supplied values of a post to create
type PostDraft struct {
	Content    string
	Tags       []string
	Mood       string
	Lang       string
	PollEnd    string
	PollOption string
	ReplyTo    string
}

// BuildPost materializes a draft. The id is the creation timestamp.
func BuildPost(d PostDraft, now time.Time) Post {
	id := now.Format(IDLayout)
	return Post{
		ID:         id,
		Content:    strings.TrimRight(d.Content, "\n"),
		Lang:       strings.TrimSpace(d.Lang),
		Tags:       append([]string(nil), d.Tags...),
		Client:     ClientName,
		ReplyTo:    strings.TrimSpace(d.ReplyTo),
		Mood:       strings.TrimSpace(d.Mood),
		PollEnd:    strings.TrimSpace(d.PollEnd),
		PollOption: strings.TrimSpace(d.PollOption),
		Time:       now,
	}
}

// FormatPost renders a post as an org entry under the Posts heading
func FormatPost(p Post) string {
	var sb strings.Builder
	sb.WriteString("**\n:PROPERTIES:\n")
	writeProp := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&sb, ":%s: %s\n", key, value)
		}
	}
	writeProp("ID", p.ID)
	writeProp("LANG", p.Lang)
	writeProp("TAGS", strings.Join(p.Tags, " "))
	writeProp("CLIENT", p.Client)
	writeProp("REPLY_TO", p.ReplyTo)
	writeProp("MOOD", p.Mood)
	writeProp("POLL_END", p.PollEnd)
	writeProp("POLL_OPTION", p.PollOption)
	sb.WriteString(":END:\n")
	if p.Content != "" {
		sb.WriteString("\n")
		sb.WriteString(p.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// AppendPost adds a post at the end of the social file, creating the file
// or its Posts heading when missing. The file is replaced atomically.
func AppendPost(path string, p Post) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var buf bytes.Buffer
	buf.Write(data)
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		buf.WriteByte('\n')
	}
	if !hasPostsHeading(data) {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString("* Posts\n")
	}
	buf.WriteString(FormatPost(p))

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func hasPostsHeading(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		if isPostsHeading(line) {
			return true
		}
	}
	return false
}

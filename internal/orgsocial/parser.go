package orgsocial

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseFile reads and parses a local social.org file
func ParseFile(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, "")
}

// Parse reads an org-social document. source is the feed URL stamped on
// every post, empty for the user's own file.
func Parse(r io.Reader, source string) (*Feed, error) {
	feed := &Feed{Source: source}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var (
		inPosts   bool
		current   *Post
		inDrawer  bool
		bodyLines []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.Trim(strings.Join(bodyLines, "\n"), "\n")
		if current.ID != "" {
			current.Time = parsePostTime(current.ID)
			feed.Posts = append(feed.Posts, *current)
		}
		current = nil
		bodyLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()

		if !inPosts {
			if isPostsHeading(line) {
				inPosts = true
				continue
			}
			parseKeyword(&feed.Profile, line)
			continue
		}

		if strings.HasPrefix(line, "** ") || line == "**" {
			flush()
			current = &Post{
				Source: source,
				Author: feed.Profile.Nick,
				ID:     strings.TrimSpace(strings.TrimPrefix(line, "**")),
			}
			inDrawer = false
			continue
		}
		if strings.HasPrefix(line, "* ") {
			// A new top level section ends the posts
			flush()
			inPosts = false
			continue
		}
		if current == nil {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if len(bodyLines) == 0 && !inDrawer && strings.EqualFold(trimmed, ":PROPERTIES:") {
			inDrawer = true
			continue
		}
		if inDrawer {
			if strings.EqualFold(trimmed, ":END:") {
				inDrawer = false
				continue
			}
			applyProperty(current, trimmed)
			continue
		}
		bodyLines = append(bodyLines, strings.TrimRight(line, "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	flush()

	return feed, nil
}

func isPostsHeading(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "* Posts")
}

func parseKeyword(p *Profile, line string) {
	if !strings.HasPrefix(line, "#+") {
		return
	}
	key, value, ok := strings.Cut(line[2:], ":")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "TITLE":
		p.Title = value
	case "NICK":
		p.Nick = value
	case "DESCRIPTION":
		p.Description = value
	case "AVATAR":
		p.Avatar = value
	case "LINK":
		p.Links = append(p.Links, value)
	case "CONTACT":
		p.Contacts = append(p.Contacts, value)
	case "FOLLOW":
		if f, ok := parseFollow(value); ok {
			p.Follows = append(p.Follows, f)
		}
	}
}

// parseFollow accepts "url" or "nick url"
func parseFollow(value string) (Follow, bool) {
	fields := strings.Fields(value)
	switch len(fields) {
	case 0:
		return Follow{}, false
	case 1:
		return Follow{URL: fields[0]}, true
	default:
		return Follow{Nick: fields[0], URL: fields[1]}, true
	}
}

func applyProperty(p *Post, line string) {
	if !strings.HasPrefix(line, ":") {
		return
	}
	key, value, ok := strings.Cut(line[1:], ":")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	switch strings.ToUpper(key) {
	case "ID":
		p.ID = value
	case "LANG":
		p.Lang = value
	case "TAGS":
		p.Tags = strings.Fields(value)
	case "CLIENT":
		p.Client = value
	case "REPLY_TO":
		p.ReplyTo = value
	case "MOOD":
		p.Mood = value
	case "POLL_END":
		p.PollEnd = value
	case "POLL_OPTION":
		p.PollOption = value
	}
}

// parsePostTime reads the timestamp encoded in a post id. Unparseable ids
// yield the zero time.
func parsePostTime(id string) time.Time {
	t, _ := ParseTime(id)
	return t
}

// ParseTime parses a timestamp as found in ids and POLL_END values
func ParseTime(value string) (time.Time, error) {
	if t, err := time.Parse(IDLayout, value); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t, nil
}

package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

// ShellTimeout bounds a $(command) query
const ShellTimeout = 30 * time.Second

var shellPattern = regexp.MustCompile(`^\$\((.+)\)$`)

// ApplyToPosts renders posts as a JSON listing, narrows it with the JMESPath
// filter (e.g. [?contains(tags, 'emacs')]) and then shapes it with query
// (e.g. [].content). A query written as $(command) gets the listing on stdin
// and its output is returned instead.
func ApplyToPosts(ctx context.Context, posts []orgsocial.Post, filter, query string) (string, error) {
	if posts == nil {
		posts = []orgsocial.Post{}
	}
	if filter == "" && query == "" {
		return encode(posts)
	}

	doc, err := listing(posts)
	if err != nil {
		return "", err
	}

	if filter != "" {
		if doc, err = search(doc, filter); err != nil {
			return "", fmt.Errorf("failed to apply filter: %w", err)
		}
	}

	if command, ok := ShellCommand(query); ok {
		return pipe(ctx, doc, command)
	}
	if query != "" {
		if doc, err = search(doc, query); err != nil {
			return "", fmt.Errorf("failed to apply query: %w", err)
		}
	}
	return encode(doc)
}

// ShellCommand returns the command of a $(command) query
func ShellCommand(query string) (string, bool) {
	m := shellPattern.FindStringSubmatch(query)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// listing converts posts to the generic form JMESPath walks, keyed by the
// JSON field names
func listing(posts []orgsocial.Post) (any, error) {
	data, err := json.Marshal(posts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal posts: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	return doc, nil
}

func search(doc any, expression string) (any, error) {
	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}
	return jp.Search(doc)
}

func encode(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(out), nil
}

// pipe runs command through sh with the listing on stdin
func pipe(ctx context.Context, doc any, command string) (string, error) {
	input, err := encode(doc)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, ShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := err.Error()
		if stderr.Len() > 0 {
			msg = strings.TrimSpace(stderr.String())
		}
		return "", fmt.Errorf("command '%s' failed: %s", command, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// FilterByTags keeps posts that carry any of tags. Matching ignores case
// and a leading #.
func FilterByTags(posts []orgsocial.Post, tags []string) []orgsocial.Post {
	if len(tags) == 0 {
		return posts
	}

	var out []orgsocial.Post
	for _, p := range posts {
		if hasAnyTag(p.Tags, tags) {
			out = append(out, p)
		}
	}
	return out
}

func hasAnyTag(postTags, wanted []string) bool {
	for _, w := range wanted {
		w = strings.TrimPrefix(w, "#")
		for _, t := range postTags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/studiowebux/orgsocial/internal/activatable"
	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

func TestLayout_MentionColumns(t *testing.T) {
	env := CreateTestModelWithPosts(t,
		post("m1", "héllo [[org-social:https://a.example/social.org][alice]] bye", time.Hour),
	)
	m := env.Model

	positions := m.registry.Positions()
	if len(positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(positions))
	}

	p := positions[0]
	mention, ok := p.Element.(activatable.Mention)
	if !ok {
		t.Fatalf("element = %T, want Mention", p.Element)
	}
	AssertModelField(t, "username", mention.Username, "alice")
	AssertModelField(t, "url", mention.URL, "https://a.example/social.org")
	AssertModelField(t, "start col", p.StartCol, 6)
	AssertModelField(t, "end col", p.EndCol, 12)

	if !strings.Contains(m.contentLines[0], "@alice") {
		t.Errorf("content line %q should show @alice", m.contentLines[0])
	}
}

func TestLayout_DocumentOrder(t *testing.T) {
	content := "see https://one.example\n#+BEGIN_SRC go\nfmt.Println(1)\n#+END_SRC\nthen https://two.example"
	env := CreateTestModelWithPosts(t, post("o1", content, time.Hour))

	var keys []string
	for _, p := range env.Model.registry.Positions() {
		keys = append(keys, p.Key())
	}

	if len(keys) != 3 {
		t.Fatalf("keys = %v, want link, block, link", keys)
	}
	if !strings.Contains(keys[0], "one.example") || !strings.HasPrefix(keys[1], "block:") || !strings.Contains(keys[2], "two.example") {
		t.Errorf("keys = %v, want link, block, link", keys)
	}
}

func TestTokenLines_SplitsPerLine(t *testing.T) {
	env := CreateTestModel(t)
	p := post("t1", "first *bold*\n\nthird https://x.example", time.Hour)

	lines := env.Model.tokenLines(p)
	AssertModelField(t, "lines", len(lines), 3)
	AssertModelField(t, "empty line", len(lines[1]), 0)

	var kinds []orgsocial.TokenKind
	for _, tok := range lines[2] {
		kinds = append(kinds, tok.Kind)
	}
	if len(kinds) != 2 || kinds[1] != orgsocial.TokenLink {
		t.Errorf("third line kinds = %v, want plain then link", kinds)
	}

	// Second call is served from the cache
	again := env.Model.tokenLines(p)
	AssertModelField(t, "cached lines", len(again), 3)
	AssertModelField(t, "cache len", env.Model.tokenCache.Len(), 1)
}

func TestHighlightCode(t *testing.T) {
	t.Run("unknown language stays plain", func(t *testing.T) {
		got := highlightCode("a\nb", "no-such-language")
		if len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("highlightCode = %q", got)
		}
	})

	t.Run("known language keeps line count", func(t *testing.T) {
		got := highlightCode("package main\n\nfunc main() {}", "go")
		AssertModelField(t, "lines", len(got), 3)
		if !strings.Contains(got[2], "main") {
			t.Errorf("last line %q should contain main", got[2])
		}
	})

	t.Run("empty body", func(t *testing.T) {
		AssertModelField(t, "lines", len(highlightCode("", "go")), 0)
	})
}

func TestPollOptionText(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"- [ ] Emacs", "Emacs", true},
		{"  - [X] Vim  ", "Vim", true},
		{"- [ ]", "", false},
		{"plain text", "", false},
	}
	for _, tt := range tests {
		got, ok := pollOptionText(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Errorf("pollOptionText(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPollSummary(t *testing.T) {
	AssertModelField(t, "short", pollSummary("Which?\n- [ ] a"), "Which? - [ ] a")
	AssertModelField(t, "long", pollSummary(strings.Repeat("é", 40)), strings.Repeat("é", 30)+"...")
}

func TestRenderPostHeader(t *testing.T) {
	p := orgsocial.Post{ID: "2026-02-20T10:00:00+0000", Tags: []string{"go", "emacs"}, Mood: "🙂"}
	header := strings.Join(renderPostHeader(p), "\n")

	for _, want := range []string{"me", "Tags: #go #emacs", "Mood: 🙂"} {
		if !strings.Contains(header, want) {
			t.Errorf("header %q should contain %q", header, want)
		}
	}
	if !strings.Contains(header, "no time") {
		t.Errorf("header %q should mark missing time", header)
	}
}

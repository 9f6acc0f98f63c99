package orgsocial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Token
	}{
		{
			name:    "plain",
			content: "hello world",
			want:    []Token{{Kind: TokenPlain, Text: "hello world"}},
		},
		{
			name:    "described link",
			content: "see [[https://x][x]] now",
			want: []Token{
				{Kind: TokenPlain, Text: "see "},
				{Kind: TokenLink, Text: "x", URL: "https://x"},
				{Kind: TokenPlain, Text: " now"},
			},
		},
		{
			name:    "bare bracket link",
			content: "[[https://x]]",
			want:    []Token{{Kind: TokenLink, Text: "https://x", URL: "https://x"}},
		},
		{
			name:    "mention",
			content: "hi [[org-social:https://a.example/social.org][alice]]",
			want: []Token{
				{Kind: TokenPlain, Text: "hi "},
				{Kind: TokenMention, Text: "alice", URL: "https://a.example/social.org"},
			},
		},
		{
			name:    "bare url drops trailing period",
			content: "go to https://example.com.",
			want: []Token{
				{Kind: TokenPlain, Text: "go to "},
				{Kind: TokenLink, Text: "https://example.com", URL: "https://example.com"},
				{Kind: TokenPlain, Text: "."},
			},
		},
		{
			name:    "emphasis",
			content: "*bold* /it/ _u_ +s+ ~c~",
			want: []Token{
				{Kind: TokenBold, Text: "bold"},
				{Kind: TokenPlain, Text: " "},
				{Kind: TokenItalic, Text: "it"},
				{Kind: TokenPlain, Text: " "},
				{Kind: TokenUnderline, Text: "u"},
				{Kind: TokenPlain, Text: " "},
				{Kind: TokenStrikethrough, Text: "s"},
				{Kind: TokenPlain, Text: " "},
				{Kind: TokenCode, Text: "c"},
			},
		},
		{
			name:    "marker inside word is plain",
			content: "a/b/c and 2*3*4",
			want:    []Token{{Kind: TokenPlain, Text: "a/b/c and 2*3*4"}},
		},
		{
			name:    "newline kept in plain text",
			content: "a\nb",
			want:    []Token{{Kind: TokenPlain, Text: "a\nb"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.content))
		})
	}
}

func TestTokenize_KeepsLineStructure(t *testing.T) {
	// Blank lines, indentation and structural prefixes stay verbatim so
	// positions map back to source lines
	content := "first line\n\n  indented\n* not a headline\n- [ ] option\n#+BEGIN_QUOTE"
	assert.Equal(t, []Token{{Kind: TokenPlain, Text: content}}, Tokenize(content))

	withLink := "a\n\n[[https://x][x]]\n"
	tokens := Tokenize(withLink)
	assert.Equal(t, []Token{
		{Kind: TokenPlain, Text: "a\n\n"},
		{Kind: TokenLink, Text: "x", URL: "https://x"},
		{Kind: TokenPlain, Text: "\n"},
	}, tokens)
}

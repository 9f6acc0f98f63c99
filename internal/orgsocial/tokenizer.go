package orgsocial

import (
	"strings"
	"unicode"
)

// TokenKind classifies a run of post text
type TokenKind int

const (
	TokenPlain TokenKind = iota
	TokenBold
	TokenItalic
	TokenUnderline
	TokenStrikethrough
	TokenCode
	TokenLink
	TokenMention
)

// MentionScheme prefixes the target of a mention link
const MentionScheme = "org-social:"

// Token is a styled run of text. Link and Mention tokens carry the target
// URL; Text is the display text (the nick for mentions).
type Token struct {
	Kind TokenKind
	Text string
	URL  string
}

var emphasisMarkers = map[rune]TokenKind{
	'*': TokenBold,
	'/': TokenItalic,
	'_': TokenUnderline,
	'+': TokenStrikethrough,
	'~': TokenCode,
	'=': TokenCode,
}

// Tokenize splits org text into styled runs. Newlines stay inside plain
// tokens so callers can lay the stream out line by line.
func Tokenize(content string) []Token {
	runes := []rune(content)
	var (
		tokens []Token
		plain  []rune
	)

	emitPlain := func() {
		if len(plain) > 0 {
			tokens = append(tokens, Token{Kind: TokenPlain, Text: string(plain)})
			plain = plain[:0:0]
		}
	}

	for i := 0; i < len(runes); {
		if tok, next, ok := scanBracketLink(runes, i); ok {
			emitPlain()
			tokens = append(tokens, tok)
			i = next
			continue
		}
		if tok, next, ok := scanBareURL(runes, i); ok {
			emitPlain()
			tokens = append(tokens, tok)
			i = next
			continue
		}
		if tok, next, ok := scanEmphasis(runes, i); ok {
			emitPlain()
			tokens = append(tokens, tok)
			i = next
			continue
		}
		plain = append(plain, runes[i])
		i++
	}
	emitPlain()

	return tokens
}

// scanBracketLink matches [[target]] and [[target][description]]
func scanBracketLink(runes []rune, i int) (Token, int, bool) {
	if !hasPrefixAt(runes, i, "[[") {
		return Token{}, 0, false
	}
	end := indexFrom(runes, i+2, "]]")
	if end < 0 {
		return Token{}, 0, false
	}
	inner := string(runes[i+2 : end])
	if strings.ContainsRune(inner, '\n') {
		return Token{}, 0, false
	}
	target, desc, hasDesc := strings.Cut(inner, "][")
	if target == "" {
		return Token{}, 0, false
	}
	next := end + 2

	if strings.HasPrefix(target, MentionScheme) {
		url := strings.TrimPrefix(target, MentionScheme)
		nick := desc
		if !hasDesc || nick == "" {
			nick = url
		}
		return Token{Kind: TokenMention, Text: nick, URL: url}, next, true
	}

	if !hasDesc || desc == "" {
		desc = target
	}
	return Token{Kind: TokenLink, Text: desc, URL: target}, next, true
}

func scanBareURL(runes []rune, i int) (Token, int, bool) {
	if i > 0 && !isBoundary(runes[i-1]) {
		return Token{}, 0, false
	}
	if !hasPrefixAt(runes, i, "https://") && !hasPrefixAt(runes, i, "http://") {
		return Token{}, 0, false
	}
	j := i
	for j < len(runes) && !unicode.IsSpace(runes[j]) && runes[j] != ']' && runes[j] != '[' {
		j++
	}
	// Trailing punctuation belongs to the sentence
	for j > i && strings.ContainsRune(".,;:!?)'\"", runes[j-1]) {
		j--
	}
	url := string(runes[i:j])
	return Token{Kind: TokenLink, Text: url, URL: url}, j, true
}

func scanEmphasis(runes []rune, i int) (Token, int, bool) {
	kind, ok := emphasisMarkers[runes[i]]
	if !ok {
		return Token{}, 0, false
	}
	marker := runes[i]
	if i > 0 && !isBoundary(runes[i-1]) {
		return Token{}, 0, false
	}
	if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
		return Token{}, 0, false
	}
	for j := i + 1; j < len(runes); j++ {
		if runes[j] == '\n' {
			return Token{}, 0, false
		}
		if runes[j] != marker || j == i+1 {
			continue
		}
		if unicode.IsSpace(runes[j-1]) {
			continue
		}
		if j+1 < len(runes) && !isBoundary(runes[j+1]) {
			continue
		}
		return Token{Kind: kind, Text: string(runes[i+1 : j])}, j + 1, true
	}
	return Token{}, 0, false
}

func isBoundary(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

func hasPrefixAt(runes []rune, i int, prefix string) bool {
	p := []rune(prefix)
	if i+len(p) > len(runes) {
		return false
	}
	for k, r := range p {
		if runes[i+k] != r {
			return false
		}
	}
	return true
}

func indexFrom(runes []rune, from int, needle string) int {
	for i := from; i < len(runes); i++ {
		if hasPrefixAt(runes, i, needle) {
			return i
		}
	}
	return -1
}

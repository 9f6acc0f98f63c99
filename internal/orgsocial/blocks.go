package orgsocial

import (
	"fmt"
	"strings"
)

// ElementKind distinguishes structural regions of a post
type ElementKind int

const (
	ElementBlock ElementKind = iota
	ElementPoll
)

// Element is a structural region of post content. Line numbers are 0-based
// indexes into the post content lines, both ends inclusive.
type Element struct {
	Kind      ElementKind
	BlockKind string // lowercased #+BEGIN_<kind>, blocks only
	Lang      string // first #+BEGIN_SRC argument
	StartLine int
	EndLine   int
	Options   []string // polls only
}

// BlockLabel is the short label shown for a collapsed block
func BlockLabel(kind string) string {
	switch strings.ToLower(kind) {
	case "src":
		return "Code"
	case "quote":
		return "Quote"
	case "example":
		return "Example"
	case "verse":
		return "Verse"
	case "center":
		return "Center"
	case "comment":
		return "Comment"
	default:
		return "Block"
	}
}

// Summary is the one-line stand-in for the element
func (e Element) Summary() string {
	if e.Kind == ElementPoll {
		return fmt.Sprintf("Poll: %d options", len(e.Options))
	}
	return fmt.Sprintf("[+] %s [...]", BlockLabel(e.BlockKind))
}

// Body returns the lines strictly between the begin and end markers
func (e Element) Body(lines []string) []string {
	if e.Kind != ElementBlock || e.StartLine+1 > e.EndLine || e.EndLine > len(lines) {
		return nil
	}
	return lines[e.StartLine+1 : e.EndLine]
}

// ParseElements finds #+BEGIN_/#+END_ blocks in the post content and, for
// posts carrying POLL_END, the checkbox list holding the poll options.
// Unterminated blocks are ignored.
func ParseElements(p Post) []Element {
	lines := strings.Split(p.Content, "\n")
	var elements []Element

	for i := 0; i < len(lines); i++ {
		kind, lang, ok := beginMarker(lines[i])
		if !ok {
			continue
		}
		end := findEnd(lines, i+1, kind)
		if end < 0 {
			continue
		}
		elements = append(elements, Element{
			Kind:      ElementBlock,
			BlockKind: kind,
			Lang:      lang,
			StartLine: i,
			EndLine:   end,
		})
		i = end
	}

	if p.HasPoll() {
		if poll, ok := findPoll(lines, elements); ok {
			elements = append(elements, poll)
		}
	}

	return elements
}

func beginMarker(line string) (kind, lang string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len("#+BEGIN_")+1 || !strings.EqualFold(trimmed[:len("#+BEGIN_")], "#+BEGIN_") {
		return "", "", false
	}
	fields := strings.Fields(trimmed[len("#+BEGIN_"):])
	if len(fields) == 0 {
		return "", "", false
	}
	kind = strings.ToLower(fields[0])
	if len(fields) > 1 {
		lang = fields[1]
	}
	return kind, lang, true
}

func findEnd(lines []string, from int, kind string) int {
	marker := "#+END_" + kind
	for j := from; j < len(lines); j++ {
		if strings.EqualFold(strings.TrimSpace(lines[j]), marker) {
			return j
		}
	}
	return -1
}

// findPoll returns the first run of "- [ ] option" lines outside blocks
func findPoll(lines []string, blocks []Element) (Element, bool) {
	inBlock := func(i int) bool {
		for _, b := range blocks {
			if i >= b.StartLine && i <= b.EndLine {
				return true
			}
		}
		return false
	}

	start := -1
	var options []string
	for i, line := range lines {
		opt, ok := pollOption(line)
		if ok && !inBlock(i) {
			if start < 0 {
				start = i
			}
			options = append(options, opt)
			continue
		}
		if start >= 0 {
			return Element{Kind: ElementPoll, StartLine: start, EndLine: i - 1, Options: options}, true
		}
	}
	if start >= 0 {
		return Element{Kind: ElementPoll, StartLine: start, EndLine: len(lines) - 1, Options: options}, true
	}
	return Element{}, false
}

func pollOption(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range []string{"- [ ]", "- [X]", "- [x]", "+ [ ]"} {
		if strings.HasPrefix(trimmed, prefix) {
			opt := strings.TrimSpace(trimmed[len(prefix):])
			return opt, opt != ""
		}
	}
	return "", false
}

// PollOptions lists the options of a poll post, in declaration order
func PollOptions(p Post) []string {
	for _, e := range ParseElements(p) {
		if e.Kind == ElementPoll {
			return e.Options
		}
	}
	return nil
}

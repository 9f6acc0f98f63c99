package editor

// FieldBuffer is one editable text field. Text is stored as runes and the
// cursor is a rune index in [0, len(text)], so multi-byte characters are
// never split.
type FieldBuffer struct {
	text   []rune
	cursor int
}

// NewFieldBuffer returns a buffer holding s with the cursor at the end
func NewFieldBuffer(s string) *FieldBuffer {
	b := &FieldBuffer{}
	b.SetText(s)
	return b
}

func (b *FieldBuffer) Text() string { return string(b.text) }
func (b *FieldBuffer) Cursor() int  { return b.cursor }
func (b *FieldBuffer) Len() int     { return len(b.text) }
func (b *FieldBuffer) IsEmpty() bool {
	return len(b.text) == 0
}

// SetText replaces the content and moves the cursor to the end
func (b *FieldBuffer) SetText(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
}

func (b *FieldBuffer) Clear() {
	b.text = nil
	b.cursor = 0
}

func (b *FieldBuffer) Insert(r rune) {
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
}

func (b *FieldBuffer) InsertNewline() {
	b.Insert('\n')
}

// Backspace removes the rune before the cursor
func (b *FieldBuffer) Backspace() {
	if b.cursor == 0 {
		return
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
}

// DeleteForward removes the rune under the cursor
func (b *FieldBuffer) DeleteForward() {
	if b.cursor >= len(b.text) {
		return
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
}

func (b *FieldBuffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

func (b *FieldBuffer) MoveRight() {
	if b.cursor < len(b.text) {
		b.cursor++
	}
}

func (b *FieldBuffer) MoveToStart() { b.cursor = 0 }
func (b *FieldBuffer) MoveToEnd()   { b.cursor = len(b.text) }

// LineCol returns the 0-based line and column of the cursor
func (b *FieldBuffer) LineCol() (line, col int) {
	for _, r := range b.text[:b.cursor] {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

// MoveUp keeps the column where the previous line is long enough and
// clamps to its end otherwise. No-op on the first line.
func (b *FieldBuffer) MoveUp() {
	line, col := b.LineCol()
	if line == 0 {
		return
	}
	b.cursor = b.indexOf(line-1, col)
}

// MoveDown is the counterpart of MoveUp. No-op on the last line.
func (b *FieldBuffer) MoveDown() {
	line, col := b.LineCol()
	if line >= b.lineCount()-1 {
		return
	}
	b.cursor = b.indexOf(line+1, col)
}

func (b *FieldBuffer) lineCount() int {
	n := 1
	for _, r := range b.text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// indexOf converts (line, col) to a rune index, clamping col to the line length
func (b *FieldBuffer) indexOf(line, col int) int {
	start := 0
	for l := 0; l < line; l++ {
		for start < len(b.text) && b.text[start] != '\n' {
			start++
		}
		start++ // past the newline
	}
	end := start
	for end < len(b.text) && b.text[end] != '\n' {
		end++
	}
	if start+col > end {
		return end
	}
	return start + col
}

// Clone returns an independent copy
func (b *FieldBuffer) Clone() *FieldBuffer {
	if b == nil {
		return nil
	}
	return &FieldBuffer{text: append([]rune(nil), b.text...), cursor: b.cursor}
}

package activatable

// Collector gathers element candidates while one post is laid out. The
// registry reads it back with Rebuild once layout is done.
type Collector struct {
	items []Position
}

func (c *Collector) Reset() {
	c.items = c.items[:0]
}

func (c *Collector) Len() int { return len(c.items) }

func (c *Collector) CollectHyperlink(url, displayText string, sourceLine, displayLine, startCol, endCol int) {
	c.items = append(c.items, Position{
		Element:     Hyperlink{URL: url, DisplayText: displayText},
		DisplayLine: displayLine,
		StartCol:    startCol,
		EndCol:      endCol,
		SourceLine:  sourceLine,
	})
}

func (c *Collector) CollectMention(url, username string, sourceLine, displayLine, startCol, endCol int) {
	c.items = append(c.items, Position{
		Element:     Mention{URL: url, Username: username},
		DisplayLine: displayLine,
		StartCol:    startCol,
		EndCol:      endCol,
		SourceLine:  sourceLine,
	})
}

func (c *Collector) CollectBlock(kind string, collapsed bool, sourceLine, displayLine, startCol, endCol int) {
	c.items = append(c.items, Position{
		Element:     Block{Kind: kind, Collapsed: collapsed},
		DisplayLine: displayLine,
		StartCol:    startCol,
		EndCol:      endCol,
		SourceLine:  sourceLine,
	})
}

func (c *Collector) CollectPoll(poll Poll, sourceLine, displayLine, startCol, endCol int) {
	c.items = append(c.items, Position{
		Element:     poll,
		DisplayLine: displayLine,
		StartCol:    startCol,
		EndCol:      endCol,
		SourceLine:  sourceLine,
	})
}

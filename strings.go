package timeline

import (
	"iter"
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// Segment is a styled piece of text.
type Segment struct {
	Text  string
	Style tcell.Style
}

// Line is a list of styled segments.
type Line []Segment

// LineBuilder builds styled lines from writes of styled text.
type LineBuilder struct {
	lines   []Line
	current Line
}

// NewLineBuilder returns an empty line builder.
func NewLineBuilder() *LineBuilder {
	return &LineBuilder{}
}

// Write adds text to the current line. Newlines in text start new lines.
func (b *LineBuilder) Write(text string, style tcell.Style) {
	for {
		before, after, found := strings.Cut(text, "\n")
		b.add(before, style)
		if !found {
			return
		}
		b.NewLine()
		text = after
	}
}

// add merges text into the last segment when the styles match.
func (b *LineBuilder) add(text string, style tcell.Style) {
	if text == "" {
		return
	}
	if n := len(b.current); n > 0 && b.current[n-1].Style == style {
		b.current[n-1].Text += text
		return
	}
	b.current = append(b.current, Segment{Text: text, Style: style})
}

// NewLine ends the current line.
func (b *LineBuilder) NewLine() {
	b.lines = append(b.lines, b.current)
	b.current = nil
}

// Finish ends the current line, if any, and returns the lines. There is at
// least one line.
func (b *LineBuilder) Finish() []Line {
	if len(b.current) > 0 || len(b.lines) == 0 {
		b.NewLine()
	}
	return b.lines
}

// grapheme is a user-perceived character and the line break opportunity
// after it.
type grapheme struct {
	text  string
	width int

	canBreak  bool
	mustBreak bool
}

// graphemes iterates over the grapheme clusters of s.
func graphemes(s string) iter.Seq[grapheme] {
	return func(yield func(grapheme) bool) {
		state := -1
		for s != "" {
			var (
				cluster    string
				boundaries int
			)
			cluster, s, boundaries, state = uniseg.StepString(s, state)
			g := grapheme{text: cluster, width: boundaries >> uniseg.ShiftWidth}
			// The end of the text is not a break unless the text ends in one.
			if s != "" || uniseg.HasTrailingLineBreakInString(cluster) {
				switch boundaries & uniseg.MaskLine {
				case uniseg.LineCanBreak:
					g.canBreak = true
				case uniseg.LineMustBreak:
					g.mustBreak = true
				}
			}
			if !yield(g) {
				return
			}
		}
	}
}

// StringWidth returns the number of cells s takes on screen.
func StringWidth(s string) int {
	width := 0
	for g := range graphemes(s) {
		width += g.width
	}
	return width
}

// wrapSpans returns the byte ranges of the lines of text word-wrapped at
// width. Words wider than width are split. Hard line breaks end a line and are
// not part of it.
func wrapSpans(text string, width int) [][2]int {
	if width <= 0 {
		return nil
	}

	var (
		spans                 [][2]int
		start, pos, lineWidth int
		// Where the line may end at the latest, and its width up to there.
		opt, optWidth int
	)
	for g := range graphemes(text) {
		if lineWidth+g.width > width && pos > start {
			if opt > start {
				spans = append(spans, [2]int{start, opt})
				start, lineWidth = opt, lineWidth-optWidth
			} else {
				spans = append(spans, [2]int{start, pos})
				start, lineWidth = pos, 0
			}
			opt = start
		}

		pos += len(g.text)
		lineWidth += g.width
		switch {
		case g.mustBreak:
			end := start + len(strings.TrimRight(text[start:pos], "\r\n"))
			spans = append(spans, [2]int{start, end})
			start, lineWidth, opt = pos, 0, pos
		case g.canBreak:
			opt, optWidth = pos, lineWidth
		}
	}
	return append(spans, [2]int{start, len(text)})
}

// WrapLine word-wraps a styled line such that each resulting line does not
// exceed the given screen width. Segment styles are kept across breaks.
func WrapLine(line Line, width int) []Line {
	var b strings.Builder
	for _, segment := range line {
		b.WriteString(segment.Text)
	}

	spans := wrapSpans(b.String(), width)
	lines := make([]Line, 0, len(spans))
	for _, span := range spans {
		lines = append(lines, sliceLine(line, span[0], span[1]))
	}
	return lines
}

// sliceLine returns the segments covering the bytes [start, end) of the
// line's text.
func sliceLine(line Line, start, end int) Line {
	var (
		out Line
		pos int
	)
	for _, segment := range line {
		segStart, segEnd := pos, pos+len(segment.Text)
		pos = segEnd
		from, to := max(start, segStart), min(end, segEnd)
		if from >= to {
			continue
		}
		out = append(out, Segment{Text: segment.Text[from-segStart : to-segStart], Style: segment.Style})
	}
	return out
}

package timeline

import "github.com/gdamore/tcell/v3"

// Alignment is the horizontal alignment of printed text.
type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

// PrintWithStyle prints text at x, y without exceeding maxWidth cells. Text
// that does not fit loses its end. It returns the number of bytes and cells
// printed.
func PrintWithStyle(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style) (int, int) {
	return printText(screen, text, x, y, maxWidth, alignment, func(int, int) tcell.Style {
		return style
	})
}

// Print works like PrintWithStyle with a foreground color. The background of
// the cells printed over is kept.
func Print(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, color tcell.Color) (int, int) {
	return printOver(screen, text, x, y, maxWidth, alignment, tcell.StyleDefault.Foreground(color))
}

// printOver prints with style, keeping the background of the cells printed
// over unless style sets one.
func printOver(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style) (int, int) {
	if style.GetBackground() != tcell.ColorDefault {
		return PrintWithStyle(screen, text, x, y, maxWidth, alignment, style)
	}
	return printText(screen, text, x, y, maxWidth, alignment, func(x, y int) tcell.Style {
		_, existing, _ := screen.Get(x, y)
		return style.Background(existing.GetBackground())
	})
}

func printText(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, styleAt func(x, y int) tcell.Style) (printed, width int) {
	screenWidth, screenHeight := screen.Size()
	if maxWidth <= 0 || text == "" || y < 0 || y >= screenHeight {
		return 0, 0
	}

	right := min(x+maxWidth, screenWidth)
	if textWidth := StringWidth(text); textWidth < maxWidth {
		switch alignment {
		case AlignmentCenter:
			x += maxWidth/2 - textWidth/2
		case AlignmentRight:
			x += maxWidth - textWidth
		}
	}

	for g := range graphemes(text) {
		if x+g.width > right {
			break
		}
		if g.width > 0 {
			style := styleAt(x, y)
			// Fill the trailing cells of wide characters first so they do not
			// overwrite the character.
			for i := g.width - 1; i > 0; i-- {
				screen.Put(x+i, y, " ", style)
			}
			screen.Put(x, y, g.text, style)
		}
		x += g.width
		printed += len(g.text)
		width += g.width
	}
	return printed, width
}

// PrintLine prints the segments of a line one after another, not exceeding
// maxWidth. It returns the width used.
func PrintLine(screen tcell.Screen, line Line, x, y, maxWidth int) int {
	used := 0
	for _, segment := range line {
		if used >= maxWidth {
			break
		}
		_, width := PrintWithStyle(screen, segment.Text, x+used, y, maxWidth-used, AlignmentLeft, segment.Style)
		used += width
	}
	return used
}

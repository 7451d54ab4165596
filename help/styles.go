package help

import (
	"github.com/ayn2op/timeline"
	"github.com/gdamore/tcell/v3"
)

// Styles are the styles of the help text. The short and full layouts share
// them.
type Styles struct {
	Key       tcell.Style
	Desc      tcell.Style
	Separator tcell.Style
	Ellipsis  tcell.Style
}

// ThemeStyles derives the help styles from theme: keys in the author color,
// descriptions like message bodies, and separators like timestamps.
func ThemeStyles(theme timeline.Theme) Styles {
	muted := tcell.StyleDefault.Foreground(theme.TertiaryTextColor).Dim(true)
	return Styles{
		Key:       tcell.StyleDefault.Foreground(theme.SecondaryTextColor),
		Desc:      tcell.StyleDefault.Foreground(theme.PrimaryTextColor),
		Separator: muted,
		Ellipsis:  muted,
	}
}

// DefaultStyles returns the styles of the current timeline theme.
func DefaultStyles() Styles {
	return ThemeStyles(timeline.Styles)
}

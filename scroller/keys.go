package scroller

import (
	"github.com/ayn2op/timeline/keybind"
	"github.com/gdamore/tcell/v3"
)

// Keys are the key bindings handled by HandleScrollKey.
type Keys struct {
	ScrollUp     keybind.Keybind
	ScrollDown   keybind.Keybind
	JumpToFirst  keybind.Keybind
	JumpToLatest keybind.Keybind
}

func DefaultKeys() Keys {
	return Keys{
		ScrollUp: keybind.NewKeybind(
			keybind.WithKeys("pgup"),
			keybind.WithHelp("pgup", "page up"),
		),
		ScrollDown: keybind.NewKeybind(
			keybind.WithKeys("pgdn"),
			keybind.WithHelp("pgdn", "page down"),
		),
		JumpToFirst: keybind.NewKeybind(
			keybind.WithKeys("ctrl+home"),
			keybind.WithHelp("ctrl+home", "first message"),
		),
		JumpToLatest: keybind.NewKeybind(
			keybind.WithKeys("ctrl+end"),
			keybind.WithHelp("ctrl+end", "latest message"),
		),
	}
}

func (k Keys) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.ScrollUp, k.ScrollDown, k.JumpToLatest}
}

func (k Keys) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{
		{k.ScrollUp, k.ScrollDown},
		{k.JumpToFirst, k.JumpToLatest},
	}
}

// HandleScrollKey scrolls in response to a scroll key. It reports whether the
// event was a scroll key.
func (e *Engine) HandleScrollKey(event *tcell.EventKey) bool {
	switch {
	case keybind.Matches(event, e.keys.ScrollUp):
		e.ScrollRelative(-1)
	case keybind.Matches(event, e.keys.ScrollDown):
		e.ScrollRelative(1)
	case keybind.Matches(event, e.keys.JumpToFirst):
		e.ScrollToTop()
	case keybind.Matches(event, e.keys.JumpToLatest):
		e.ScrollToBottom()
	default:
		return false
	}

	if e.onUserScroll != nil {
		e.onUserScroll(event)
	}
	return true
}

// UserScroll notifies the user scroll function of a scroll the collaborator
// handled itself, such as a mouse wheel event.
func (e *Engine) UserScroll(event tcell.Event) {
	if e.onUserScroll != nil {
		e.onUserScroll(event)
	}
}

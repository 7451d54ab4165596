package main

import (
	"github.com/ayn2op/timeline"
	"github.com/ayn2op/timeline/help"
	"github.com/ayn2op/timeline/keybind"
	"github.com/gdamore/tcell/v3"
)

type appKeys struct {
	ToggleHelp keybind.Keybind
	Quit       keybind.Keybind
}

func (k appKeys) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.ToggleHelp, k.Quit}
}

func (k appKeys) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{{k.ToggleHelp, k.Quit}}
}

// view is the root primitive: the timeline above a help footer.
type view struct {
	*timeline.Box

	panel  *timeline.ScrollPanel
	help   *help.Help
	keyMap help.KeyMap
	keys   appKeys
}

func newView(panel *timeline.ScrollPanel, keyMap help.KeyMaps, keys appKeys) *view {
	keyMap = append(keyMap, keys)
	return &view{
		Box:    timeline.NewBox(),
		panel:  panel,
		help:   help.New().SetKeyMap(keyMap),
		keyMap: keyMap,
		keys:   keys,
	}
}

func (v *view) Draw(screen tcell.Screen) {
	x, y, width, height := v.GetRect()

	helpHeight := 1
	if v.help.ShowAll() {
		helpHeight = max(len(v.help.FullHelpLines(v.keyMap.FullHelp(), width)), 1)
	}
	helpHeight = min(helpHeight, height)

	v.panel.SetRect(x, y, width, height-helpHeight)
	v.panel.Draw(screen)
	v.help.SetRect(x, y+height-helpHeight, width, helpHeight)
	v.help.Draw(screen)
}

func (v *view) InputHandler(event *tcell.EventKey) timeline.Command {
	switch {
	case keybind.Matches(event, v.keys.Quit):
		return timeline.QuitCommand{}
	case keybind.Matches(event, v.keys.ToggleHelp):
		v.help.SetShowAll(!v.help.ShowAll())
		return timeline.BatchCommand{timeline.RedrawCommand{}, timeline.ConsumeEventCommand{}}
	}
	return v.panel.InputHandler(event)
}

func (v *view) MouseHandler(action timeline.MouseAction, event *tcell.EventMouse) (timeline.Primitive, timeline.Command) {
	return v.panel.MouseHandler(action, event)
}

// Focus passes the focus on to the timeline.
func (v *view) Focus(delegate func(p timeline.Primitive)) {
	delegate(v.panel)
}

func (v *view) HasFocus() bool {
	return v.panel.HasFocus()
}

var _ timeline.Primitive = &view{}

package keybind

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		event *tcell.EventKey
		want  bool
	}{
		{"named key", []string{"pgup"}, tcell.NewEventKey(tcell.KeyPgUp, "", tcell.ModNone), true},
		{"alias", []string{"PageDown"}, tcell.NewEventKey(tcell.KeyPgDn, "", tcell.ModNone), true},
		{"modifier", []string{"ctrl+end"}, tcell.NewEventKey(tcell.KeyEnd, "", tcell.ModCtrl), true},
		{"missing modifier", []string{"ctrl+end"}, tcell.NewEventKey(tcell.KeyEnd, "", tcell.ModNone), false},
		{"rune", []string{"q"}, tcell.NewEventKey(tcell.KeyRune, "q", tcell.ModNone), true},
		{"other key", []string{"q"}, tcell.NewEventKey(tcell.KeyRune, "w", tcell.ModNone), false},
		{"modifier order", []string{"meta+Alt+X"}, tcell.NewEventKey(tcell.KeyRune, "x", tcell.ModAlt|tcell.ModMeta), true},
		{"shifted rune", []string{"?"}, tcell.NewEventKey(tcell.KeyRune, "?", tcell.ModShift), true},
		{"tab", []string{"tab"}, tcell.NewEventKey(tcell.KeyTab, "", tcell.ModNone), true},
		{"backtab", []string{"backtab"}, tcell.NewEventKey(tcell.KeyBacktab, "", tcell.ModNone), true},
		{"nil event", []string{"q"}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeybind(WithKeys(tt.keys...))
			assert.Equal(t, tt.want, Matches(tt.event, kb))
		})
	}
}

func TestKeysCanonical(t *testing.T) {
	kb := NewKeybind(WithKeys("meta+shift+ctrl+a", "Escape", "", "Rune[Q]", "ctrl-d"))
	assert.Equal(t, []string{"ctrl+shift+meta+a", "esc", "Q", "ctrl+d"}, kb.Keys())
}

func TestParseKeys(t *testing.T) {
	keys, err := ParseKeys(" PageUp ", "ctrl+Home", "f5", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"pgup", "ctrl+home", "f5", "x"}, keys)

	_, err = ParseKeys("pgup", "hyper", "f99", "ctrl+")
	require.ErrorIs(t, err, ErrInvalidKey)
	assert.Contains(t, err.Error(), `"hyper"`)
	assert.Contains(t, err.Error(), `"f99"`)
	assert.Contains(t, err.Error(), `"ctrl+"`)
	assert.NotContains(t, err.Error(), `"pgup"`)
}

func TestKeybindHelp(t *testing.T) {
	kb := NewKeybind(WithKeys("pgup"), WithHelp("pgup", "page up"))
	assert.True(t, kb.Enabled())
	assert.Equal(t, Help{Key: "pgup", Desc: "page up"}, kb.Help())

	kb.SetKeys()
	assert.False(t, kb.Enabled())
	assert.False(t, Matches(tcell.NewEventKey(tcell.KeyPgUp, "", tcell.ModNone), kb))
}

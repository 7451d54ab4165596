// Package keybind maps key events to actions through user configurable key
// names such as "pgup", "ctrl+end" or "q".
package keybind

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v3"
)

// Keybind is a set of keys triggering one action, and its help entry.
type Keybind struct {
	keys []string
	help Help
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	var k Keybind
	for _, option := range options {
		option(&k)
	}
	return k
}

func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.SetKeys(keys...)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.SetHelp(key, desc)
	}
}

// Keys returns the keys in their canonical form.
func (k Keybind) Keys() []string {
	return k.keys
}

// SetKeys replaces the keys. Keys naming no key are dropped.
func (k *Keybind) SetKeys(keys ...string) {
	k.keys = k.keys[:0:0]
	for _, key := range keys {
		if key = normalizeKey(key); key != "" {
			k.keys = append(k.keys, key)
		}
	}
}

// Enabled reports whether the keybind has any keys.
func (k Keybind) Enabled() bool {
	return len(k.keys) > 0
}

func (k Keybind) Help() Help {
	return k.help
}

func (k *Keybind) SetHelp(key, desc string) {
	k.help = Help{Key: key, Desc: desc}
}

// Help is the help entry of a keybind: the key label and what it does.
type Help struct {
	Key  string
	Desc string
}

// Matches reports whether event triggers any of keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}
	key := eventKey(event)
	return slices.ContainsFunc(keybinds, func(k Keybind) bool {
		return slices.Contains(k.keys, key)
	})
}

// ErrInvalidKey is returned by ParseKeys for keys that can not be matched.
var ErrInvalidKey = errors.New("invalid key")

// ParseKeys normalizes user supplied keys, rejecting keys that can never
// match an event.
func ParseKeys(keys ...string) ([]string, error) {
	var errs []error
	parsed := make([]string, 0, len(keys))
	for _, key := range keys {
		normalized := normalizeKey(key)
		if !knownKey(normalized) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidKey, key))
			continue
		}
		parsed = append(parsed, normalized)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return parsed, nil
}

type modifier uint8

const (
	modCtrl modifier = 1 << iota
	modAlt
	modShift
	modMeta
)

// Canonical keys list their modifiers in this order.
var modifierNames = [...]struct {
	mod  modifier
	name string
}{
	{modCtrl, "ctrl"},
	{modAlt, "alt"},
	{modShift, "shift"},
	{modMeta, "meta"},
}

var modifierAliases = map[string]modifier{
	"ctrl":    modCtrl,
	"control": modCtrl,
	"alt":     modAlt,
	"shift":   modShift,
	"meta":    modMeta,
}

var primaryAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"pageup":   "pgup",
	"pagedown": "pgdn",
}

// Primary keys accepted besides single characters and function keys.
var namedKeys = []string{
	"enter", "esc", "tab", "home", "end", "up", "down", "left", "right",
	"pgup", "pgdn", "delete", "backspace", "insert",
}

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyDelete:     "delete",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyInsert:     "insert",
}

// format returns the canonical form of a key. Characters with modifiers are
// lower case.
func format(mods modifier, primary string) string {
	if mods != 0 && utf8.RuneCountInString(primary) == 1 {
		primary = strings.ToLower(primary)
	}
	var b strings.Builder
	for _, m := range modifierNames {
		if mods&m.mod != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(primary)
	return b.String()
}

// normalizeKey returns the canonical form of key, or "" if it has no primary
// key. It also accepts tcell's key event names.
func normalizeKey(key string) string {
	var (
		mods    modifier
		primary string
	)
	for part := range strings.SplitSeq(key, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if m, ok := modifierAliases[strings.ToLower(part)]; ok {
			mods |= m
			continue
		}
		primary = part
	}
	if primary == "" {
		return ""
	}

	// Legacy control keys are named like "Ctrl-C".
	if len(primary) > len("ctrl-") && strings.EqualFold(primary[:len("ctrl-")], "ctrl-") {
		mods |= modCtrl
		primary = primary[len("ctrl-"):]
	}

	if inner, ok := strings.CutPrefix(primary, "Rune["); ok && len(inner) > 1 && strings.HasSuffix(inner, "]") {
		primary = strings.TrimSuffix(inner, "]")
	} else if utf8.RuneCountInString(primary) > 1 {
		primary = strings.ToLower(primary)
		if alias, ok := primaryAliases[primary]; ok {
			primary = alias
		}
		if primary == "backtab" {
			mods |= modShift
			primary = "tab"
		}
	}
	return format(mods, primary)
}

// knownKey reports whether the canonical key names a key events can carry.
func knownKey(key string) bool {
	if key == "" {
		return false
	}
	primary := key[strings.LastIndexByte(key, '+')+1:]
	if utf8.RuneCountInString(primary) == 1 || slices.Contains(namedKeys, primary) {
		return true
	}
	if rest, ok := strings.CutPrefix(primary, "f"); ok {
		n, err := strconv.Atoi(rest)
		return err == nil && n >= 1 && n <= 64
	}
	return false
}

// eventKey returns the canonical form of the key of event.
func eventKey(event *tcell.EventKey) string {
	var mods modifier
	m := event.Modifiers()
	for flag, mod := range map[tcell.ModMask]modifier{
		tcell.ModCtrl:  modCtrl,
		tcell.ModAlt:   modAlt,
		tcell.ModShift: modShift,
		tcell.ModMeta:  modMeta,
	} {
		if m&flag != 0 {
			mods |= mod
		}
	}

	key := event.Key()
	// Named keys first: tab, enter and backspace share codes with control
	// letters.
	if name, ok := keyNames[key]; ok {
		return format(mods, name)
	}
	switch {
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		return format(mods|modCtrl, string(rune('a'+(key-tcell.KeyCtrlA))))
	case key == tcell.KeyRune:
		// Shift is already applied to the character.
		return format(mods&^modShift, event.Str())
	case key == tcell.KeyBacktab:
		return format(mods|modShift, "tab")
	}
	return normalizeKey(event.Name())
}

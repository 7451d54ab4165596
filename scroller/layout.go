package scroller

import (
	"slices"
	"strings"
)

// TokenSeparator separates the scroll tokens of an item that aggregates
// several events.
const TokenSeparator = ","

// Node is an item rendered in the list.
type Node interface {
	// ScrollTokens returns the comma separated tokens identifying the item.
	// The first token is canonical. Items returning an empty string are never
	// used as anchors.
	ScrollTokens() string
}

// Layout is the measured render tree the engine scrolls.
//
// The scrollable content starts with the list. Items are bottom-aligned inside
// the list, which is followed by an optional padding used to balance content
// disappearing at the bottom. Tops are measured from the top of the list.
type Layout interface {
	// ScrollTop returns the number of rows scrolled past the top of the content.
	ScrollTop() int
	// SetScrollTop scrolls to top, clamped to the scrollable range.
	SetScrollTop(top int)
	// ScrollBy scrolls by delta rows, clamped to the scrollable range.
	ScrollBy(delta int)
	// ClientHeight returns the height of the viewport.
	ClientHeight() int
	// ScrollHeight returns the total height of the scrollable content.
	ScrollHeight() int

	ListHeight() int
	SetListHeight(height int)
	SetPaddingBottom(padding int)
	SetScrollbarVisible(visible bool)

	// Items returns the rendered items in display order.
	Items() []Node
	// Contains reports whether node is still rendered.
	Contains(node Node) bool
	Top(node Node) int
	Height(node Node) int
}

// SplitTokens splits a comma separated token list.
func SplitTokens(tokens string) []string {
	if tokens == "" {
		return nil
	}
	return strings.Split(tokens, TokenSeparator)
}

// FirstToken returns the canonical token of a token list.
func FirstToken(tokens string) string {
	first, _, _ := strings.Cut(tokens, TokenSeparator)
	return first
}

// JoinTokens builds a token list. Tokens must not contain the separator.
func JoinTokens(tokens ...string) string {
	return strings.Join(tokens, TokenSeparator)
}

func hasToken(tokens, token string) bool {
	return token != "" && slices.Contains(SplitTokens(tokens), token)
}

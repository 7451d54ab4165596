package scroller

import (
	"fmt"
	"slices"
	"testing"
	"time"
)

// testLoop runs queued functions on a single goroutine, like the
// application event loop.
type testLoop struct {
	updates chan func()
	quit    chan struct{}
}

func newTestLoop(t *testing.T) *testLoop {
	t.Helper()
	l := &testLoop{
		updates: make(chan func(), 100),
		quit:    make(chan struct{}),
	}
	go l.run()
	t.Cleanup(func() { close(l.quit) })
	return l
}

func (l *testLoop) run() {
	for {
		select {
		case f := <-l.updates:
			f()
		case <-l.quit:
			return
		}
	}
}

func (l *testLoop) post(f func()) {
	select {
	case l.updates <- f:
	default:
		go func() {
			select {
			case l.updates <- f:
			case <-l.quit:
			}
		}()
	}
}

// do runs f on the loop and waits for it.
func (l *testLoop) do(f func()) {
	done := make(chan struct{})
	l.post(func() {
		f()
		close(done)
	})
	<-done
}

type fakeItem struct {
	tokens string
	height int
}

func (i *fakeItem) ScrollTokens() string { return i.tokens }

// fakeLayout bottom-aligns its items in a list of the given height, followed
// by the bottom padding.
type fakeLayout struct {
	items      []*fakeItem
	client     int
	scrollTop  int
	listHeight int
	padding    int
	scrollbar  bool
}

func newFakeLayout(client int, heights ...int) *fakeLayout {
	l := &fakeLayout{client: client}
	for i, h := range heights {
		l.items = append(l.items, &fakeItem{tokens: fmt.Sprintf("evt%d", i), height: h})
	}
	return l
}

func uniformLayout(client, count, height int) *fakeLayout {
	heights := make([]int, count)
	for i := range heights {
		heights[i] = height
	}
	return newFakeLayout(client, heights...)
}

func (l *fakeLayout) ScrollTop() int { return l.scrollTop }

func (l *fakeLayout) SetScrollTop(top int) {
	l.scrollTop = min(max(top, 0), max(l.ScrollHeight()-l.client, 0))
}

func (l *fakeLayout) ScrollBy(delta int) { l.SetScrollTop(l.scrollTop + delta) }

func (l *fakeLayout) ClientHeight() int { return l.client }

func (l *fakeLayout) ScrollHeight() int { return max(l.listHeight+l.padding, l.client) }

func (l *fakeLayout) ListHeight() int { return l.listHeight }

func (l *fakeLayout) SetListHeight(height int) { l.listHeight = height }

func (l *fakeLayout) SetPaddingBottom(padding int) { l.padding = padding }

func (l *fakeLayout) SetScrollbarVisible(visible bool) { l.scrollbar = visible }

func (l *fakeLayout) Items() []Node {
	nodes := make([]Node, len(l.items))
	for i, item := range l.items {
		nodes[i] = item
	}
	return nodes
}

func (l *fakeLayout) Contains(node Node) bool {
	item, ok := node.(*fakeItem)
	return ok && slices.Contains(l.items, item)
}

func (l *fakeLayout) Top(node Node) int {
	top := l.listHeight
	for i := len(l.items) - 1; i >= 0; i-- {
		top -= l.items[i].height
		if l.items[i] == node {
			return top
		}
	}
	panic("node not in layout")
}

func (l *fakeLayout) Height(node Node) int { return node.(*fakeItem).height }

func (l *fakeLayout) item(token string) *fakeItem {
	for _, item := range l.items {
		if item.tokens == token {
			return item
		}
	}
	return nil
}

// screenTop returns the row of the item's top relative to the viewport.
func (l *fakeLayout) screenTop(token string) int {
	return l.Top(l.item(token)) - l.scrollTop
}

func (l *fakeLayout) append(tokens string, height int) {
	l.items = append(l.items, &fakeItem{tokens: tokens, height: height})
}

func (l *fakeLayout) remove(tokens string) {
	l.items = slices.DeleteFunc(l.items, func(item *fakeItem) bool {
		return item.tokens == tokens
	})
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting")
	}
}

func recoverError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}

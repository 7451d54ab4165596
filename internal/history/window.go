package history

import (
	"context"
	"slices"
	"sync"
)

// Window is the contiguous range of messages loaded into the timeline. It
// grows a page at a time in either direction and is trimmed when content
// scrolls far out of view.
type Window struct {
	store    *Store
	pageSize int

	mu       sync.Mutex
	messages []Message
	atStart  bool
	atEnd    bool
}

func NewWindow(store *Store, pageSize int) *Window {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Window{store: store, pageSize: pageSize}
}

// Load replaces the window with the latest page of messages.
func (w *Window) Load(ctx context.Context) error {
	msgs, err := w.store.Latest(ctx, w.pageSize)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = msgs
	w.atStart = len(msgs) < w.pageSize
	w.atEnd = true
	return nil
}

// Fill loads the next page before (backwards) or after the window. It reports
// whether more messages may remain in that direction.
func (w *Window) Fill(ctx context.Context, backwards bool) (bool, error) {
	w.mu.Lock()
	if len(w.messages) == 0 {
		w.mu.Unlock()
		if err := w.Load(ctx); err != nil {
			return false, err
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if backwards {
			return !w.atStart, nil
		}
		return false, nil
	}

	var (
		edge Message
		msgs []Message
		err  error
		done bool
	)
	if backwards {
		edge, done = w.messages[0], w.atStart
	} else {
		edge, done = w.messages[len(w.messages)-1], w.atEnd
	}
	w.mu.Unlock()
	if done {
		return false, nil
	}

	if backwards {
		msgs, err = w.store.Before(ctx, edge.Seq, w.pageSize)
	} else {
		msgs, err = w.store.After(ctx, edge.Seq, w.pageSize)
	}
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// The window was trimmed or reloaded while the page loaded. Report more
	// content so the caller checks again against the new edge.
	if len(w.messages) == 0 {
		return true, nil
	}
	if backwards {
		if w.messages[0].Seq != edge.Seq {
			return true, nil
		}
		w.messages = append(msgs, w.messages...)
		w.atStart = len(msgs) < w.pageSize
		return !w.atStart, nil
	}
	if w.messages[len(w.messages)-1].Seq != edge.Seq {
		return true, nil
	}
	w.messages = append(w.messages, msgs...)
	w.atEnd = len(msgs) < w.pageSize
	return !w.atEnd, nil
}

// Unfill drops the message with the given id and every message beyond it:
// older ones when backwards, newer ones otherwise. It returns the number of
// dropped messages.
func (w *Window) Unfill(backwards bool, id string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := slices.IndexFunc(w.messages, func(m Message) bool { return m.ID == id })
	if i < 0 {
		return 0
	}
	if backwards {
		w.messages = slices.Clone(w.messages[i+1:])
		w.atStart = false
		return i + 1
	}
	dropped := len(w.messages) - i
	w.messages = slices.Clone(w.messages[:i])
	w.atEnd = false
	return dropped
}

// Push adds a newly sent message. It is only added when the window reaches
// the end of the history; otherwise a later forward fill loads it.
func (w *Window) Push(m Message) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.atEnd {
		return false
	}
	w.messages = append(w.messages, m)
	return true
}

// Messages returns a copy of the loaded messages, oldest first.
func (w *Window) Messages() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.messages)
}

// AtStart reports whether the oldest message is loaded.
func (w *Window) AtStart() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.atStart
}

// AtEnd reports whether the newest message is loaded.
func (w *Window) AtEnd() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.atEnd
}

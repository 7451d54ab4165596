package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ayn2op/timeline"
	"github.com/ayn2op/timeline/internal/history"
	"github.com/ayn2op/timeline/scroller"
	"github.com/gdamore/tcell/v3"
)

// Consecutive messages of one author sent within groupWindow share an item.
const groupWindow = 5 * time.Minute

const typingKey = "typing"

// chat keeps the scroll panel in sync with the loaded history window.
type chat struct {
	store  *history.Store
	window *history.Window
	panel  *timeline.ScrollPanel
	logger *slog.Logger
	// post runs f on the event loop and redraws.
	post func(f func())

	// Items by the tokens of the messages they show, reused across renders so
	// the engine's anchor survives.
	items  map[string]*timeline.TextItem
	typing string
}

func newChat(store *history.Store, window *history.Window, post func(func()), logger *slog.Logger, opts ...scroller.Option) *chat {
	c := &chat{
		store:  store,
		window: window,
		logger: logger,
		post:   post,
		items:  make(map[string]*timeline.TextItem),
	}
	opts = append(opts,
		scroller.WithFillFunc(c.fill),
		scroller.WithUnfillFunc(c.unfill),
		scroller.WithScrollFunc(c.updateTitle),
		scroller.WithLogger(logger),
	)
	c.panel = timeline.NewScrollPanel(post, opts...)
	c.panel.SetBorders(timeline.BordersAll).
		SetBorderSet(timeline.BorderSetRound()).
		SetTitle(titleLatest)
	return c
}

const (
	titleLatest = " timeline "
	titleOlder  = " timeline · reading history "
)

func (c *chat) updateTitle(int) {
	if c.panel.Engine().IsAtBottom() {
		c.panel.SetTitle(titleLatest)
	} else {
		c.panel.SetTitle(titleOlder)
	}
}

// fill runs off the event loop. The render is posted before returning so
// the engine measures the new content when it checks again.
func (c *chat) fill(ctx context.Context, backwards bool) (bool, error) {
	more, err := c.window.Fill(ctx, backwards)
	if err != nil {
		return false, err
	}
	c.post(c.render)
	return more, nil
}

func (c *chat) unfill(backwards bool, token string) {
	n := c.window.Unfill(backwards, scroller.FirstToken(token))
	c.logger.Debug("dropped messages", "backwards", backwards, "count", n)
	if n > 0 {
		c.post(c.render)
	}
}

// render rebuilds the panel's items from the window. It must run on the event
// loop.
func (c *chat) render() {
	msgs := c.window.Messages()
	next := make(map[string]*timeline.TextItem, len(c.items))
	items := make([]timeline.ScrollItem, 0, len(msgs)+1)

	lastDay := ""
	for _, group := range groupMessages(msgs) {
		if day := group[0].SentAt.Format(time.DateOnly); day != lastDay {
			lastDay = day
			items = append(items, c.item(next, "day:"+day, func() *timeline.TextItem {
				return daySeparator(group[0].SentAt)
			}))
		}

		ids := make([]string, len(group))
		for i, m := range group {
			ids[i] = m.ID
		}
		tokens := scroller.JoinTokens(ids...)
		items = append(items, c.item(next, tokens, func() *timeline.TextItem {
			return messageItem(tokens, group)
		}))
	}

	if c.typing != "" {
		typing := c.item(next, typingKey, func() *timeline.TextItem {
			return timeline.NewTextItem("")
		})
		typing.SetText(c.typing+" is typing…", tcell.StyleDefault.Foreground(timeline.Styles.TertiaryTextColor).Italic(true))
		items = append(items, typing)
	}

	c.items = next
	c.panel.SetItems(items)
}

func (c *chat) item(next map[string]*timeline.TextItem, key string, build func() *timeline.TextItem) *timeline.TextItem {
	item, ok := c.items[key]
	if !ok {
		item = build()
	}
	next[key] = item
	return item
}

// setTyping shows or hides the typing indicator. Must run on the event loop.
func (c *chat) setTyping(author string) {
	c.typing = author
	c.render()

	engine := c.panel.Engine()
	if author != "" && engine.Mounted() {
		// Keep the timeline from jumping when the indicator goes away.
		engine.PreventShrinking()
	}
}

// simulate writes incoming messages until ctx is done. Every message is
// preceded by its author typing; some authors stop typing without sending.
func (c *chat) simulate(ctx context.Context, interval time.Duration) {
	authors := []string{"alice", "bob", "carol", "dave"}
	bodies := []string{
		"anyone around?",
		"pushed the fix, CI is running",
		"looks good to me",
		"I'm going to restart the worker pool, expect a short blip in the dashboards while it drains",
		"brb",
	}

	for n := 0; ; n++ {
		if !sleep(ctx, interval) {
			return
		}
		author := authors[rand.IntN(len(authors))]
		c.post(func() { c.setTyping(author) })

		if !sleep(ctx, interval/2) {
			return
		}
		if n%3 == 2 {
			c.post(func() { c.setTyping("") })
			continue
		}

		m, err := c.store.Append(ctx, author, bodies[rand.IntN(len(bodies))], time.Now())
		if err != nil {
			c.logger.Error("failed to store message", "err", err)
			continue
		}
		pushed := c.window.Push(m)
		c.logger.Debug("message received", "id", m.ID, "loaded", pushed)
		c.post(func() { c.setTyping("") })
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func groupMessages(msgs []history.Message) [][]history.Message {
	var groups [][]history.Message
	for i, m := range msgs {
		if i > 0 {
			prev := msgs[i-1]
			last := len(groups) - 1
			if prev.Author == m.Author && m.SentAt.Sub(prev.SentAt) < groupWindow && sameDay(prev.SentAt, m.SentAt) {
				groups[last] = append(groups[last], m)
				continue
			}
		}
		groups = append(groups, []history.Message{m})
	}
	return groups
}

func sameDay(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}

func messageItem(tokens string, group []history.Message) *timeline.TextItem {
	var (
		timeStyle   = tcell.StyleDefault.Foreground(timeline.Styles.TertiaryTextColor)
		authorStyle = tcell.StyleDefault.Foreground(timeline.Styles.SecondaryTextColor).Bold(true)
		bodyStyle   = tcell.StyleDefault.Foreground(timeline.Styles.PrimaryTextColor)
	)

	b := timeline.NewLineBuilder()
	for i, m := range group {
		if i > 0 {
			b.NewLine()
		}
		b.Write(m.SentAt.Format("15:04")+" ", timeStyle)
		if i == 0 {
			b.Write(m.Author, authorStyle)
			b.Write(": ", bodyStyle)
		}
		b.Write(m.Body, bodyStyle)
	}
	return timeline.NewTextItem(tokens).SetLines(b.Finish())
}

func daySeparator(t time.Time) *timeline.TextItem {
	style := tcell.StyleDefault.Foreground(timeline.Styles.TertiaryTextColor)
	return timeline.NewTextItem("").SetText(fmt.Sprintf("── %s ──", t.Format("Mon, Jan 2 2006")), style)
}

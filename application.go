// Package timeline provides terminal primitives for a chat timeline: a
// scrollable panel of variable-height items that keeps its scroll position
// while history is loaded and dropped on either end, and the event loop the
// panel's scroll engine runs on.
package timeline

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v3"
)

const (
	// The size of the queued updates channel.
	updatesQueueSize = 100
	// The minimum time between two consecutive redraws on resize.
	redrawPause = 50 * time.Millisecond
)

// MouseAction indicates one of the actions the mouse is logically doing.
type MouseAction int16

// Available mouse actions.
const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseScrollUp
	MouseScrollDown
)

// queuedUpdate is a function run on the event loop. If done is not nil, it
// receives exactly one element after f has run.
type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// Application owns the screen and runs the event loop. Primitives, and the
// scroll engines of scroll panels, are only touched from the event loop;
// other goroutines hand work to it with QueueUpdate or PostUpdate.
//
//	if err := timeline.NewApplication().SetRoot(p).Run(); err != nil {
//	    panic(err)
//	}
type Application struct {
	sync.RWMutex

	// The screen. Nil before Run (unless set with SetScreen) and after Stop.
	screen tcell.Screen
	// The primitive which currently has the keyboard focus.
	focus Primitive
	// The root primitive to be seen on the screen.
	root Primitive

	events  chan tcell.Event
	updates chan queuedUpdate
	// Closed when Run returns.
	done chan struct{}

	// A primitive returned by a MouseHandler, receiving follow-up mouse events.
	mouseCapture     Primitive
	lastMouseX       int
	lastMouseY       int
	lastMouseButtons tcell.ButtonMask

	// forceRedraw requests a full clear before the next frame.
	forceRedraw bool
}

// NewApplication creates and returns a new application.
func NewApplication() *Application {
	return &Application{
		updates: make(chan queuedUpdate, updatesQueueSize),
		done:    make(chan struct{}),
	}
}

// SetScreen sets the screen used by Run. The screen must be initialized. It
// has no effect once a screen is set.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		a.screen = screen
		a.forceRedraw = true
	}
	return a
}

// Run starts the event loop. It returns when the application is stopped,
// either with Stop or by a QuitCommand.
func (a *Application) Run() error {
	var (
		appErr      error
		lastRedraw  time.Time
		redrawTimer *time.Timer
	)
	defer close(a.done)

	a.Lock()
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.Unlock()
			return err
		}
		if err = screen.Init(); err != nil {
			a.Unlock()
			return err
		}
		a.screen = screen
	}
	screen := a.screen
	a.events = screen.EventQ()
	a.Unlock()

	// Restore the terminal before the panic is printed.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	a.draw()

EventLoop:
	for {
		select {
		case event := <-a.events:
			if event == nil {
				break EventLoop
			}

			switch event := event.(type) {
			case *tcell.EventKey:
				a.RLock()
				root := a.root
				a.RUnlock()
				if root != nil && root.HasFocus() {
					if a.executeCommand(root.InputHandler(event)) {
						a.draw()
					}
				}
			case *tcell.EventResize:
				a.Lock()
				// Terminal state may have changed even if the size did not.
				a.forceRedraw = true
				a.Unlock()
				if time.Since(lastRedraw) < redrawPause {
					if redrawTimer != nil {
						redrawTimer.Stop()
					}
					redrawTimer = time.AfterFunc(redrawPause, func() {
						a.events <- event
					})
				}
				lastRedraw = time.Now()
				a.draw()
			case *tcell.EventMouse:
				if a.fireMouseActions(event) {
					a.draw()
				}
				a.lastMouseButtons = event.Buttons()
			case *tcell.EventError:
				appErr = event
				a.Stop()
			}

		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}
		}
	}

	return appErr
}

// fireMouseActions derives mouse actions from event and forwards them to the
// root primitive, or to the primitive capturing the mouse. It reports whether
// a redraw is needed.
func (a *Application) fireMouseActions(event *tcell.EventMouse) (redraw bool) {
	fire := func(action MouseAction) {
		target := a.mouseCapture
		if target == nil {
			target = a.root
		}
		if target == nil {
			return
		}
		capture, cmd := target.MouseHandler(action, event)
		if a.executeCommand(cmd) {
			redraw = true
		}
		a.mouseCapture = capture
	}

	x, y := event.Position()
	if x != a.lastMouseX || y != a.lastMouseY {
		fire(MouseMove)
		a.lastMouseX, a.lastMouseY = x, y
	}

	buttons := event.Buttons()
	if (buttons^a.lastMouseButtons)&tcell.ButtonPrimary != 0 {
		if buttons&tcell.ButtonPrimary != 0 {
			fire(MouseLeftDown)
		} else {
			fire(MouseLeftUp)
		}
	}
	if buttons&tcell.WheelUp != 0 {
		fire(MouseScrollUp)
	}
	if buttons&tcell.WheelDown != 0 {
		fire(MouseScrollDown)
	}
	return redraw
}

// Stop finalizes the screen, causing Run to return.
func (a *Application) Stop() {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		return
	}
	a.screen.Fini()
	a.screen = nil
}

func (a *Application) draw() {
	a.Lock()
	screen := a.screen
	root := a.root
	forceRedraw := a.forceRedraw
	a.forceRedraw = false
	a.Unlock()

	if screen == nil || root == nil {
		return
	}

	width, height := screen.Size()
	root.SetRect(0, 0, width, height)
	// tcell only emits the cells that changed, so regular frames draw over the
	// previous one.
	if forceRedraw {
		screen.Clear()
	}
	root.Draw(screen)
	screen.Show()
}

// SetRoot sets the root primitive, which fills the screen, and focuses it.
func (a *Application) SetRoot(root Primitive) *Application {
	a.Lock()
	a.root = root
	if a.screen != nil {
		a.forceRedraw = true
	}
	a.Unlock()

	a.SetFocus(root)
	return a
}

// SetFocus blurs the focused primitive and focuses p, which may pass the focus
// on to one of its children.
func (a *Application) SetFocus(p Primitive) *Application {
	a.Lock()
	if a.focus != nil {
		a.focus.Blur()
	}
	a.focus = p
	a.Unlock()

	if p != nil {
		p.Focus(func(p Primitive) {
			a.SetFocus(p)
		})
	}
	return a
}

// GetFocus returns the primitive which has the current focus, or nil.
func (a *Application) GetFocus() Primitive {
	a.RLock()
	defer a.RUnlock()
	return a.focus
}

// QueueUpdate runs f on the event loop and returns after f has run, or once
// the event loop has ended without running it. It must not be called from the
// event loop.
func (a *Application) QueueUpdate(f func()) *Application {
	ch := make(chan struct{}, 1)
	select {
	case a.updates <- queuedUpdate{f: f, done: ch}:
	case <-a.done:
		return a
	}
	select {
	case <-ch:
	case <-a.done:
	}
	return a
}

// QueueUpdateDraw works like QueueUpdate but redraws the screen after f.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	return a.QueueUpdate(func() {
		f()
		a.draw()
	})
}

// PostUpdate queues f for execution on the event loop without waiting for it.
// Unlike QueueUpdate, it is safe to call from the event loop itself.
func (a *Application) PostUpdate(f func()) {
	update := queuedUpdate{f: f}
	select {
	case a.updates <- update:
	default:
		// The queue is full. Never block the caller, which may be the event
		// loop draining it. Updates posted after the loop ended are dropped.
		go func() {
			select {
			case a.updates <- update:
			case <-a.done:
			}
		}()
	}
}

// PostUpdateDraw works like PostUpdate but redraws the screen after f.
func (a *Application) PostUpdateDraw(f func()) {
	a.PostUpdate(func() {
		f()
		a.draw()
	})
}

// executeCommand runs cmd and reports whether the screen needs a redraw.
func (a *Application) executeCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case BatchCommand:
		redraw := false
		for _, item := range c {
			if a.executeCommand(item) {
				redraw = true
			}
		}
		return redraw
	case RedrawCommand:
		return true
	case QuitCommand:
		a.Stop()
	case SetFocusCommand:
		if c.Target == nil {
			return false
		}
		a.RLock()
		changed := a.focus != c.Target
		a.RUnlock()
		a.SetFocus(c.Target)
		return changed
	}
	return false
}

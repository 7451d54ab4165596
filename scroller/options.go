package scroller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v3"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrNotMounted is raised when the layout is accessed before Mount.
	ErrNotMounted = errors.New("scroller: not mounted")
	// ErrUnmounted is raised when the layout is accessed after Unmount.
	ErrUnmounted = errors.New("scroller: unmounted")
	// ErrTimerAborted is returned by Timer.Wait when the timer was aborted.
	ErrTimerAborted = errors.New("scroller: timer aborted")
)

// QueueFunc runs f on the goroutine owning the engine. It must not wait for
// f to run.
type QueueFunc func(f func())

// FillFunc fetches more content before (backwards) or after the loaded
// window. It reports whether more content may remain in that direction.
type FillFunc func(ctx context.Context, backwards bool) (bool, error)

// UnfillFunc drops loaded content at and beyond the item identified by token.
type UnfillFunc func(backwards bool, token string)

// Tuning holds the engine's layout constants.
type Tuning struct {
	// PageSize quantises the list height.
	PageSize int `yaml:"page_size"`
	// UnpaginationPadding is the slack kept on either side before content is
	// dropped.
	UnpaginationPadding int `yaml:"unpagination_padding"`
	// UnfillDebounce delays unfill requests.
	UnfillDebounce time.Duration `yaml:"unfill_debounce"`
	// ScrollIdle is how long after the last scroll the user counts as scrolling.
	ScrollIdle time.Duration `yaml:"scroll_idle"`
	// FillDelay is waited before calling the fill function.
	FillDelay time.Duration `yaml:"fill_delay"`
	// AtBottomTolerance is the unscrolled height still treated as bottom.
	AtBottomTolerance int `yaml:"at_bottom_tolerance"`
	// ShrinkClearThreshold is the space below the viewport that ends shrink
	// prevention.
	ShrinkClearThreshold int `yaml:"shrink_clear_threshold"`
}

// DefaultTuning returns the default layout constants.
func DefaultTuning() Tuning {
	return Tuning{
		PageSize:             400,
		UnpaginationPadding:  6000,
		UnfillDebounce:       200 * time.Millisecond,
		ScrollIdle:           100 * time.Millisecond,
		FillDelay:            time.Millisecond,
		AtBottomTolerance:    1,
		ShrinkClearThreshold: 200,
	}
}

// Validate reports tuning values the engine can not work with.
func (t Tuning) Validate() error {
	var errs []error
	if t.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page_size must be positive, got %d", t.PageSize))
	}
	if t.UnpaginationPadding < 0 {
		errs = append(errs, fmt.Errorf("unpagination_padding must not be negative, got %d", t.UnpaginationPadding))
	}
	if t.UnfillDebounce < 0 || t.ScrollIdle < 0 || t.FillDelay < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if t.AtBottomTolerance < 0 || t.ShrinkClearThreshold < 0 {
		errs = append(errs, errors.New("tolerances must not be negative"))
	}
	return errors.Join(errs...)
}

// withDefaults replaces zero fields with their defaults.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.PageSize == 0 {
		t.PageSize = d.PageSize
	}
	if t.UnpaginationPadding == 0 {
		t.UnpaginationPadding = d.UnpaginationPadding
	}
	if t.UnfillDebounce == 0 {
		t.UnfillDebounce = d.UnfillDebounce
	}
	if t.ScrollIdle == 0 {
		t.ScrollIdle = d.ScrollIdle
	}
	if t.FillDelay == 0 {
		t.FillDelay = d.FillDelay
	}
	if t.AtBottomTolerance == 0 {
		t.AtBottomTolerance = d.AtBottomTolerance
	}
	if t.ShrinkClearThreshold == 0 {
		t.ShrinkClearThreshold = d.ShrinkClearThreshold
	}
	return t
}

type Option func(*Engine)

// WithStickyBottom enables following the bottom once the user scrolled there.
func WithStickyBottom(sticky bool) Option {
	return func(e *Engine) {
		e.stickyBottom = sticky
	}
}

// WithStartAtBottom sets whether the engine starts stuck at the bottom.
func WithStartAtBottom(startAtBottom bool) Option {
	return func(e *Engine) {
		e.startAtBottom = startAtBottom
	}
}

func WithFillFunc(fill FillFunc) Option {
	return func(e *Engine) {
		if fill != nil {
			e.fill = fill
		}
	}
}

func WithUnfillFunc(unfill UnfillFunc) Option {
	return func(e *Engine) {
		if unfill != nil {
			e.unfill = unfill
		}
	}
}

// WithScrollFunc sets a function called with the scroll offset after every
// handled scroll.
func WithScrollFunc(onScroll func(scrollTop int)) Option {
	return func(e *Engine) {
		e.onScroll = onScroll
	}
}

// WithUserScrollFunc sets a function called for scroll key and wheel events.
func WithUserScrollFunc(onUserScroll func(event tcell.Event)) Option {
	return func(e *Engine) {
		e.onUserScroll = onUserScroll
	}
}

func WithTuning(tuning Tuning) Option {
	return func(e *Engine) {
		e.tuning = tuning.withDefaults()
	}
}

func WithKeys(keys Keys) Option {
	return func(e *Engine) {
		e.keys = keys
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

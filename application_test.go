package timeline

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostUpdateDoesNotBlock(t *testing.T) {
	a := NewApplication()

	var ran []int
	for i := range updatesQueueSize + 5 {
		a.PostUpdate(func() { ran = append(ran, i) })
	}

	// Drain like the event loop would.
	deadline := time.After(2 * time.Second)
	for len(ran) < updatesQueueSize+5 {
		select {
		case update := <-a.updates:
			update.f()
		case <-deadline:
			t.Fatalf("ran %d updates", len(ran))
		}
	}
	assert.Equal(t, 0, ran[0])
	assert.Equal(t, updatesQueueSize-1, ran[updatesQueueSize-1])
}

func TestUpdatesAfterRunReturns(t *testing.T) {
	a := NewApplication()
	for range updatesQueueSize + 5 {
		a.PostUpdate(func() {})
	}
	// What Run does on return.
	close(a.done)

	ran := false
	returned := make(chan struct{})
	go func() {
		a.QueueUpdate(func() { ran = true })
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("QueueUpdate blocked after the event loop ended")
	}
	assert.False(t, ran)

	// The overflow updates were dropped instead of waiting for a reader.
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, a.updates, updatesQueueSize)
}

func TestExecuteCommand(t *testing.T) {
	a := NewApplication()
	box := NewBox()

	assert.False(t, a.executeCommand(nil))
	assert.True(t, a.executeCommand(RedrawCommand{}))
	assert.False(t, a.executeCommand(ConsumeEventCommand{}))
	assert.True(t, a.executeCommand(BatchCommand{ConsumeEventCommand{}, SetFocusCommand{Target: box}}))
	assert.Same(t, box, a.GetFocus())
	assert.True(t, box.HasFocus())

	// Focusing the same primitive again changes nothing.
	assert.False(t, a.executeCommand(SetFocusCommand{Target: box}))
}

func TestAppendCommand(t *testing.T) {
	assert.Nil(t, AppendCommand(nil, nil))
	assert.Equal(t, RedrawCommand{}, AppendCommand(nil, RedrawCommand{}))

	cmd := AppendCommand(BatchCommand{RedrawCommand{}}, BatchCommand{QuitCommand{}, ConsumeEventCommand{}})
	assert.Equal(t, BatchCommand{RedrawCommand{}, QuitCommand{}, ConsumeEventCommand{}}, cmd)
}

func TestBoxClickFocuses(t *testing.T) {
	box := NewBox()
	box.SetRect(0, 0, 5, 2)

	_, cmd := box.MouseHandler(MouseLeftDown, tcell.NewEventMouse(1, 1, tcell.ButtonPrimary, tcell.ModNone))
	require.IsType(t, SetFocusCommand{}, cmd)
	assert.Same(t, box, cmd.(SetFocusCommand).Target)

	_, cmd = box.MouseHandler(MouseLeftDown, tcell.NewEventMouse(7, 1, tcell.ButtonPrimary, tcell.ModNone))
	assert.Nil(t, cmd)
}

func TestBoxDrawsBorderAndTitle(t *testing.T) {
	screen := newCellScreen(12, 3)
	box := NewBox().SetBorders(BordersAll).SetTitle("chat")
	box.SetRect(0, 0, 12, 3)
	box.Draw(screen)

	assert.Equal(t, []string{"┌───chat───┐", "│          │", "└──────────┘"}, screen.rows())
	x, y, width, height := box.GetInnerRect()
	assert.Equal(t, []int{1, 1, 10, 1}, []int{x, y, width, height})
}

func TestBoxCutsLongTitle(t *testing.T) {
	screen := newCellScreen(8, 3)
	box := NewBox().SetBorders(BordersAll).SetTitle("timeline")
	box.SetRect(0, 0, 8, 3)
	box.Draw(screen)

	assert.Equal(t, "┌timel…┐", screen.rows()[0])
}

package timeline

// Command is a side effect requested by a primitive while handling an event.
// Commands are executed by the Application event loop.
type Command any

// BatchCommand groups multiple commands into a single command.
type BatchCommand []Command

// AppendCommand merges next into current, flattening batches.
func AppendCommand(current Command, next Command) Command {
	switch {
	case next == nil:
		return current
	case current == nil:
		return next
	}

	var batch BatchCommand
	for _, cmd := range []Command{current, next} {
		if b, ok := cmd.(BatchCommand); ok {
			batch = append(batch, b...)
		} else {
			batch = append(batch, cmd)
		}
	}
	return batch
}

// SetFocusCommand moves the keyboard focus to Target.
type SetFocusCommand struct {
	Target Primitive
}

// RedrawCommand requests a redraw at the end of the current event.
type RedrawCommand struct{}

// QuitCommand stops the application event loop.
type QuitCommand struct{}

// ConsumeEventCommand marks the event as handled. It does not redraw.
type ConsumeEventCommand struct{}

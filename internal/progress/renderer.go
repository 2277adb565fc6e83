package progress

import (
	"fmt"
	"io"
)

// LineRenderer prints one line per research step to w. It is the plain
// non-TUI renderer for the generate command.
type LineRenderer struct {
	w io.Writer
}

// NewLineRenderer creates a renderer writing to w.
func NewLineRenderer(w io.Writer) *LineRenderer {
	return &LineRenderer{w: w}
}

// Handle implements Callback.
func (r *LineRenderer) Handle(ev Event) {
	if ev.Error != nil {
		fmt.Fprintf(r.w, "  [%d/%d] %s — error: %v\n", ev.StepNumber, ev.TotalSteps, ev.Message, ev.Error)
		return
	}
	if ev.Stage == StageComplete {
		fmt.Fprintf(r.w, "  [%d/%d] %s (%s)\n", ev.StepNumber, ev.TotalSteps, ev.Message, ev.Elapsed.Round(1e8))
		return
	}
	fmt.Fprintf(r.w, "  [%d/%d] %s...\n", ev.StepNumber, ev.TotalSteps, ev.Message)
}

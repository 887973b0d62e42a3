package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/forPelevin/hourmix/internal/event"
)

const pollInterval = 100 * time.Millisecond

// consumePlain prints events as plain lines until the stream ends. It is
// the fallback for logs, pipes and dumb terminals.
func consumePlain(w io.Writer, q *event.Queue) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		for _, e := range q.Drain() {
			printEvent(w, e)
		}
		if q.Done() {
			return
		}
		<-ticker.C
	}
}

// printEvent renders one event as a line. Progress and SubProgress are
// dropped here; the status lines already carry the item counters.
func printEvent(w io.Writer, e event.Event) {
	switch e := e.(type) {
	case event.Status:
		fmt.Fprintln(w, e.Text)
	case event.Log:
		switch e.Level {
		case event.LevelWarning:
			fmt.Fprintln(w, warningStyle.Render("warning:"), e.Text)
		case event.LevelError:
			fmt.Fprintln(w, errorStyle.Render("error:"), e.Text)
		default:
			fmt.Fprintln(w, mutedStyle.Render(e.Text))
		}
	case event.Error:
		fmt.Fprintln(w, errorStyle.Render("Error:"), e.Text)
	case event.Completed:
		fmt.Fprintln(w, successStyle.Render("Completed:"), e.OutputPath)
	}
}

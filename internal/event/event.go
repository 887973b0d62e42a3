// Package event defines the typed progress stream a pipeline run emits and
// the queue its consumer polls.
package event

// Levels carried by Log events.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Event is one progress notification from a run. The concrete kinds are
// Status, Progress, SubProgress, Log, Error and Completed; nothing else
// implements it.
type Event interface{ isEvent() }

// Status reports a human-readable description of the current stage.
type Status struct{ Text string }

// Progress reports how many items of the current stage have started.
type Progress struct {
	Current int
	Total   int
}

// SubProgress reports stage completion as a percentage.
type SubProgress struct{ Percent float64 }

// Log carries one log line with its level.
type Log struct {
	Level string
	Text  string
}

// Error reports a fatal run failure.
type Error struct{ Text string }

// Completed reports the final output path of a successful run.
type Completed struct{ OutputPath string }

func (Status) isEvent()      {}
func (Progress) isEvent()    {}
func (SubProgress) isEvent() {}
func (Log) isEvent()         {}
func (Error) isEvent()       {}
func (Completed) isEvent()   {}

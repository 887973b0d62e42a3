// Package run tracks the lifecycle of one pipeline run.
package run

import (
	"fmt"
	"sync"
)

// Stage identifies where a run currently is.
type Stage string

const (
	StageInit          Stage = "init"
	StageResolving     Stage = "resolving"
	StageScanning      Stage = "scanning"
	StageAnalyzing     Stage = "analyzing"
	StageEncoding      Stage = "encoding"
	StageConcatenating Stage = "concatenating"
	StageDone          Stage = "done"
	StageCancelled     Stage = "cancelled"
	StageFailed        Stage = "failed"
)

// IsTerminal reports whether s ends a run.
func IsTerminal(s Stage) bool {
	switch s {
	case StageDone, StageCancelled, StageFailed:
		return true
	default:
		return false
	}
}

// State is a point-in-time snapshot of a run.
type State struct {
	Stage     Stage
	Processed int
	Total     int
	Cancelled bool
}

// Tracker serializes stage transitions and progress counters for one run.
// Only the pipeline controller mutates it.
type Tracker struct {
	mu    sync.RWMutex
	state State
}

// NewTracker creates a tracker at the initial stage.
func NewTracker() *Tracker {
	return &Tracker{state: State{Stage: StageInit}}
}

// To validates and applies a stage transition.
func (t *Tracker) To(next Stage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !isValidTransition(t.state.Stage, next) {
		return fmt.Errorf("invalid transition: %s -> %s", t.state.Stage, next)
	}
	t.state.Stage = next
	if next == StageCancelled {
		t.state.Cancelled = true
	}
	return nil
}

// SetProgress updates the per-item counters for the current stage.
func (t *Tracker) SetProgress(processed, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Processed = processed
	t.state.Total = total
}

// Stage returns the current stage.
func (t *Tracker) Stage() Stage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Stage
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// isValidTransition enforces the allowed run state machine edges. Cancelled
// and Failed are reachable from every non-terminal stage; terminal stages
// are absorbing.
func isValidTransition(from, to Stage) bool {
	switch from {
	case StageInit:
		return to == StageResolving || to == StageCancelled || to == StageFailed
	case StageResolving:
		return to == StageScanning || to == StageCancelled || to == StageFailed
	case StageScanning:
		return to == StageAnalyzing || to == StageCancelled || to == StageFailed
	case StageAnalyzing:
		return to == StageEncoding || to == StageCancelled || to == StageFailed
	case StageEncoding:
		return to == StageConcatenating || to == StageCancelled || to == StageFailed
	case StageConcatenating:
		return to == StageDone || to == StageCancelled || to == StageFailed
	default:
		return false
	}
}

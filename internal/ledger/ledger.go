// Package ledger is the authoritative local record of modification cycles.
// It wraps the state store and enforces the single-active-cycle invariant:
// recording a new request while one is pending or in progress replaces the
// active cycle rather than queueing a second one.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sohei-t/modflow/internal/state"
)

// Ledger records and advances modification cycles against a state store.
type Ledger struct {
	store *state.Store
}

// New creates a ledger over the given store. The store must already be
// loaded; callers check Store().State() for existence themselves.
func New(store *state.Store) *Ledger {
	return &Ledger{store: store}
}

// Store exposes the underlying state store.
func (l *Ledger) Store() *state.Store {
	return l.store
}

// Pending returns the cycle that is currently pending or in progress, or
// nil when every recorded cycle has completed.
func (l *Ledger) Pending() *state.ModificationCycle {
	st := l.store.State()
	if st == nil {
		return nil
	}
	for i := range st.Modifications {
		if st.Modifications[i].Active() {
			return &st.Modifications[i]
		}
	}
	return nil
}

// RecordRequest creates a new pending cycle and persists it. When an active
// cycle already exists it is replaced in place; the returned replaced flag
// tells the caller to warn about the destructive overwrite. The iteration
// counter keeps increasing across replacements so history stays unambiguous.
func (l *Ledger) RecordRequest(feedback, category string, phases []int, labels []string) (*state.ModificationCycle, bool, error) {
	st := l.store.State()
	if st == nil {
		return nil, false, fmt.Errorf("no workflow state loaded")
	}

	cycle := state.ModificationCycle{
		ID:            uuid.New().String(),
		Feedback:      feedback,
		Category:      category,
		PhasesToRerun: phases,
		Labels:        labels,
		Iteration:     l.nextIteration(),
		Status:        state.CyclePending,
		RequestedAt:   time.Now(),
	}

	replaced := false
	for i := range st.Modifications {
		if st.Modifications[i].Active() {
			st.Modifications[i] = cycle
			replaced = true
			break
		}
	}
	if !replaced {
		st.Modifications = append(st.Modifications, cycle)
	}

	if err := l.store.Save(); err != nil {
		return nil, replaced, err
	}
	return l.Pending(), replaced, nil
}

// AttachTracking stores the external tracking artifact on the cycle.
func (l *Ledger) AttachTracking(cycle *state.ModificationCycle, artifact *state.TrackingArtifact) error {
	cycle.Tracking = artifact
	return l.store.Save()
}

// Start transitions a pending cycle to in progress. Feedback, category and
// phase plan are left untouched.
func (l *Ledger) Start(cycle *state.ModificationCycle) error {
	if cycle.Status != state.CyclePending {
		return fmt.Errorf("cycle #%d is %s, not pending", cycle.Iteration, cycle.Status)
	}
	cycle.Status = state.CycleInProgress
	return l.store.Save()
}

// Complete marks the cycle finished. Completed cycles are retained as
// history and never removed.
func (l *Ledger) Complete(cycle *state.ModificationCycle) error {
	now := time.Now()
	cycle.Status = state.CycleCompleted
	cycle.CompletedAt = &now
	return l.store.Save()
}

// CompleteWorkflow marks the whole project finished, independent of any
// pending cycle.
func (l *Ledger) CompleteWorkflow() error {
	st := l.store.State()
	if st == nil {
		return fmt.Errorf("no workflow state loaded")
	}
	st.Status = state.WorkflowCompleted
	return l.store.Save()
}

// nextIteration returns one past the highest iteration recorded so far.
func (l *Ledger) nextIteration() int {
	max := 0
	for _, m := range l.store.State().Modifications {
		if m.Iteration > max {
			max = m.Iteration
		}
	}
	return max + 1
}

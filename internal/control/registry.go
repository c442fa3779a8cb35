package control

import (
	"errors"
	"fmt"
	"sync"

	"lanesim/internal/simulation"
)

// errUnknownRun is returned when a control message references a run ID the
// registry has never issued.
var errUnknownRun = errors.New("unknown run")

// RunEntry tracks one background sweep: its handle, latest progress, and the
// terminal outcome set once it finishes.
type RunEntry struct {
	ID  string
	Run *simulation.Run

	mu       sync.Mutex
	progress *simulation.Progress
	outcomes []simulation.Outcome
	err      error
}

func (e *RunEntry) setProgress(p simulation.Progress) {
	e.mu.Lock()
	e.progress = &p
	e.mu.Unlock()
}

func (e *RunEntry) finish(outcomes []simulation.Outcome, err error) {
	e.mu.Lock()
	e.outcomes = outcomes
	e.err = err
	e.mu.Unlock()
}

// Snapshot returns the entry's current progress without blocking the sweep.
func (e *RunEntry) Snapshot() (simulation.State, *simulation.Progress) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Run.State(), e.progress
}

// Result returns the terminal outcome set. It fails until the run completes.
func (e *RunEntry) Result() ([]simulation.Outcome, error) {
	state := e.Run.State()
	if !state.Terminal() {
		return nil, fmt.Errorf("%w: run %s is still %s", simulation.ErrInvalidParameter, e.ID, state)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	if state != simulation.StateCompleted {
		return nil, fmt.Errorf("%w: run %s terminated as %s with no outcomes", simulation.ErrInvalidParameter, e.ID, state)
	}
	return e.outcomes, nil
}

// Registry is a thread-safe map of live and finished run handles, keyed by
// the IDs it issues.
type Registry struct {
	mu     sync.RWMutex
	runs   map[string]*RunEntry
	nextID int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*RunEntry)}
}

// Add registers a run handle and issues its ID.
func (r *Registry) Add(run *simulation.Run) *RunEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry := &RunEntry{
		ID:  fmt.Sprintf("run-%d", r.nextID),
		Run: run,
	}
	r.runs[entry.ID] = entry
	return entry
}

// Get looks up a run entry by ID.
func (r *Registry) Get(id string) (*RunEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownRun, id)
	}
	return entry, nil
}

package simulation

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"lanesim/internal/distribution"
)

// State is a run's lifecycle position.
// Transitions: Idle → Running → {Paused ⇄ Running} → {Completed | Cancelled | Failed}.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Progress reports batch completion.
type Progress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// Event is one message on a run's event stream: either a progress report or
// a terminal event. Outcomes is set only on StateCompleted, Err only on
// StateFailed.
type Event struct {
	State    State
	Progress *Progress
	Outcomes []Outcome
	Err      error
}

// Runner starts simulation runs. Zero fields fall back to defaults.
type Runner struct {
	BatchSize int   // iterations per batch between progress reports (default 100)
	Workers   int   // concurrent workers per batch (default 1)
	Seed      int64 // base RNG seed; 0 seeds from the wall clock
}

// NewRunner creates a runner with the given batch size and worker count.
func NewRunner(batchSize, workers int) *Runner {
	return &Runner{BatchSize: batchSize, Workers: workers}
}

// Run is a caller-owned handle on one simulation sweep. The sweep executes on
// its own goroutine; the caller observes it through Events and steers it with
// Pause, Resume and Cancel. Pause and Cancel only gate scheduling of the next
// batch: a batch already dispatched always completes.
type Run struct {
	params    Params
	batchSize int

	mu        sync.Mutex
	cond      *sync.Cond
	state     State
	cancelled bool

	events chan Event
}

// Start validates the parameters and launches the sweep. Invalid parameters
// are rejected here, before any iteration is scheduled.
func (r *Runner) Start(params Params) (*Run, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	batch := r.BatchSize
	if batch <= 0 {
		batch = 100
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	seed := r.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Each worker owns an independent random stream, so batch fan-out needs
	// no locking.
	samplers := make([]*distribution.Sampler, workers)
	for i := range samplers {
		samplers[i] = distribution.NewSeededSampler(seed + int64(i))
	}

	numBatches := (params.Iterations + batch - 1) / batch
	run := &Run{
		params:    params,
		batchSize: batch,
		state:     StateIdle,
		// Sized for every progress event plus the terminal event, so the
		// sweep never blocks on a slow consumer.
		events: make(chan Event, numBatches+1),
	}
	run.cond = sync.NewCond(&run.mu)

	run.setState(StateRunning)
	go run.loop(samplers)

	log.Debug().Int("iterations", params.Iterations).Int("batch_size", batch).Int("workers", workers).
		Msg("Simulation run started")
	return run, nil
}

// Events returns the run's event stream. The channel is closed after the
// terminal event.
func (r *Run) Events() <-chan Event {
	return r.events
}

// State returns the run's current state.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Pause stops scheduling of subsequent batches. The batch in flight completes.
func (r *Run) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning {
		r.state = StatePaused
	}
}

// Resume releases a paused run.
func (r *Run) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StatePaused {
		r.state = StateRunning
		r.cond.Broadcast()
	}
}

// Cancel requests termination. Partial results are discarded; the terminal
// event reports StateCancelled, never StateCompleted.
func (r *Run) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning || r.state == StatePaused {
		r.cancelled = true
		r.cond.Broadcast()
	}
}

// Drain consumes the event stream until the terminal event, invoking
// onProgress for each batch report. It returns the ordered outcomes on
// completion, a nil slice on cancellation, and the run error on failure.
func (r *Run) Drain(onProgress func(Progress)) ([]Outcome, State, error) {
	for ev := range r.events {
		if ev.Progress != nil {
			if onProgress != nil {
				onProgress(*ev.Progress)
			}
			continue
		}
		switch ev.State {
		case StateCompleted:
			return ev.Outcomes, ev.State, nil
		case StateCancelled:
			return nil, ev.State, nil
		case StateFailed:
			return nil, ev.State, ev.Err
		}
	}
	return nil, StateFailed, fmt.Errorf("%w: event stream closed without a terminal event", ErrRuntimeFailure)
}

func (r *Run) loop(samplers []*distribution.Sampler) {
	now := time.Now()
	total := r.params.Iterations
	outcomes := make([]Outcome, total)

	for start := 0; start < total; start += r.batchSize {
		// Park while paused; bail out on cancellation. This is the only
		// scheduling gate, so a dispatched batch always runs to completion.
		if !r.awaitSchedulable() {
			r.finish(StateCancelled, nil, nil)
			return
		}

		end := min(start+r.batchSize, total)
		if err := r.runBatch(outcomes, start, end, now, samplers); err != nil {
			r.finish(StateFailed, nil, err)
			return
		}

		// A cancellation received while the batch ran suppresses its
		// progress report: after Cancel the stream carries only the
		// terminal event.
		if r.isCancelled() {
			r.finish(StateCancelled, nil, nil)
			return
		}
		r.emitProgress(end, total)
	}

	r.finish(StateCompleted, outcomes, nil)
}

func (r *Run) runBatch(out []Outcome, start, end int, now time.Time, samplers []*distribution.Sampler) error {
	workers := len(samplers)
	if workers == 1 {
		for i := start; i < end; i++ {
			o, err := Compose(i, now, r.params, samplers[0])
			if err != nil {
				return err
			}
			out[i] = o
		}
		return nil
	}

	// Disjoint chunks per worker: no two workers touch the same index.
	var g errgroup.Group
	chunk := (end - start + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := start + w*chunk
		hi := min(lo+chunk, end)
		if lo >= hi {
			break
		}
		sampler := samplers[w]
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				o, err := Compose(i, now, r.params, sampler)
				if err != nil {
					return err
				}
				out[i] = o
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Run) awaitSchedulable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.state == StatePaused && !r.cancelled {
		r.cond.Wait()
	}
	return !r.cancelled
}

func (r *Run) isCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

func (r *Run) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Run) emitProgress(completed, total int) {
	r.events <- Event{
		State: r.State(),
		Progress: &Progress{
			Completed: completed,
			Total:     total,
			Percent:   float64(completed) / float64(total) * 100,
		},
	}
}

func (r *Run) finish(state State, outcomes []Outcome, err error) {
	r.setState(state)
	r.events <- Event{State: state, Outcomes: outcomes, Err: err}
	close(r.events)

	evt := log.Debug().Str("state", string(state))
	if err != nil {
		evt = log.Warn().Str("state", string(state)).Err(err)
	}
	evt.Msg("Simulation run finished")
}

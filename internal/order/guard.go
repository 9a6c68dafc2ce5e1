package order

import (
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// SubmissionState is the per-shopper checkout state.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateSubmitting SubmissionState = "submitting"
	StateDone       SubmissionState = "done"
	StateFailed     SubmissionState = "failed"
)

// ErrSubmissionInProgress rejects a second submit while one is in flight.
var ErrSubmissionInProgress = errors.New("an order submission is already in progress")

// Guard serializes checkout per shopper: idle -> submitting -> done | failed.
// Done and failed accept a new submission. Only in-flight submissions are
// held in a map; outcomes live in a bounded LRU, and a shopper whose outcome
// was evicted reads as idle. State is per process.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	outcomes *lru.Cache
}

const outcomeCapacity = 4096

func NewGuard() *Guard {
	return newGuard(outcomeCapacity)
}

func newGuard(capacity int) *Guard {
	outcomes, err := lru.New(capacity)
	if err != nil {
		panic(err)
	}
	return &Guard{inFlight: make(map[string]struct{}), outcomes: outcomes}
}

// Begin moves key to submitting.
func (g *Guard) Begin(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return ErrSubmissionInProgress
	}
	g.inFlight[key] = struct{}{}
	return nil
}

// Finish records the outcome of the submission started by Begin.
func (g *Guard) Finish(key string, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, key)
	if ok {
		g.outcomes.Add(key, StateDone)
		return
	}
	g.outcomes.Add(key, StateFailed)
}

// State returns the current state for key.
func (g *Guard) State(key string) SubmissionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return StateSubmitting
	}
	if v, ok := g.outcomes.Get(key); ok {
		return v.(SubmissionState)
	}
	return StateIdle
}

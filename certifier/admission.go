package certifier

import "errors"

// ErrOverloaded is returned by Admitter.Enter when the bounded queue is
// already full, i.e. the service should shed load (HTTP 503).
var ErrOverloaded = errors.New("certifier: overloaded")

// Admitter implements the bounded-semaphore-plus-bounded-queue admission
// control from spec §4.8/§9: at most maxConcurrent CPU-bound
// verifications run at once; up to maxPending more callers wait in a
// buffered channel acting as the queue; beyond that, requests are
// rejected immediately rather than queued unboundedly.
type Admitter struct {
	queue chan struct{}
	slots chan struct{}
}

// NewAdmitter constructs an Admitter with maxConcurrent running slots and
// a queue of maxPending waiters beyond that.
func NewAdmitter(maxConcurrent, maxPending int) *Admitter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if maxPending < 0 {
		maxPending = 0
	}
	return &Admitter{
		slots: make(chan struct{}, maxConcurrent),
		queue: make(chan struct{}, maxConcurrent+maxPending),
	}
}

// Enter reserves a place in the bounded queue, blocks until a concurrency
// slot frees up, and returns a release function the caller must call
// exactly once. It returns ErrOverloaded without blocking if the queue
// itself is full.
func (a *Admitter) Enter() (release func(), err error) {
	select {
	case a.queue <- struct{}{}:
	default:
		return nil, ErrOverloaded
	}

	a.slots <- struct{}{}
	return func() {
		<-a.slots
		<-a.queue
	}, nil
}

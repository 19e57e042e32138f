package feedback

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/agreementchain/agreements/internal/metrics"
	"github.com/agreementchain/agreements/pkg/agreement"
)

var ErrInProgress = &agreement.ValidationError{Message: "A request is already in progress."}

// Staler is told when a contract's cached data is outdated after a write.
type Staler interface {
	MarkStale(contract string)
}

// Operation is one write to run through the tracker. Submit returns the
// transaction hash once the write has been mined.
type Operation struct {
	Contract string
	Name     string
	Success  string
	Submit   func(ctx context.Context) (string, error)
}

type loadingKey struct {
	contract string
	name     string
}

// Tracker runs writes and keeps their loading flags.
type Tracker struct {
	mu      sync.Mutex
	loading map[loadingKey]struct{}

	staler  Staler
	metrics *metrics.Metrics
}

func NewTracker(staler Staler, m *metrics.Metrics) *Tracker {
	return &Tracker{
		loading: map[loadingKey]struct{}{},
		staler:  staler,
		metrics: m,
	}
}

// Loading reports whether the named write is in flight for contract.
func (t *Tracker) Loading(contract, name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.loading[loadingKey{contract, name}]
	return ok
}

func (t *Tracker) start(k loadingKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.loading[k]; ok {
		return false
	}
	t.loading[k] = struct{}{}

	return true
}

func (t *Tracker) stop(k loadingKey) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.loading, k)
}

// Run submits op and turns the outcome into a notification. On success the
// contract is marked stale so the next poll refreshes it. There is no retry.
func (t *Tracker) Run(ctx context.Context, op Operation) Notification {
	k := loadingKey{op.Contract, op.Name}
	if !t.start(k) {
		return t.fail(op, ErrInProgress)
	}

	hash, err := t.submit(ctx, k, op)
	if err != nil {
		return t.fail(op, err)
	}

	if t.staler != nil && op.Contract != "" {
		t.staler.MarkStale(op.Contract)
	}

	t.metrics.IncrementWrite(op.Name, string(VariantSuccess))

	return Success(op.Success, hash)
}

// submit clears the loading flag however Submit returns, panics included.
func (t *Tracker) submit(ctx context.Context, k loadingKey, op Operation) (string, error) {
	defer t.stop(k)

	return op.Submit(ctx)
}

// Reject reports a write that failed before submission, such as a
// validation error.
func (t *Tracker) Reject(op Operation, err error) Notification {
	return t.fail(op, err)
}

func (t *Tracker) fail(op Operation, err error) Notification {
	var verr *agreement.ValidationError
	if !errors.As(err, &verr) {
		log.Default().Println("[feedback]", op.Name, op.Contract, err)
	}

	t.metrics.IncrementWrite(op.Name, string(VariantFailure))

	return Failure(err)
}

package watch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/agreementchain/agreements/internal/metrics"
	"github.com/agreementchain/agreements/internal/sc"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"
)

type ErrPoll error

var (
	ErrPollRecoverable ErrPoll = errors.New("error polling recoverable") // a poll failed but the next one may succeed
)

const (
	maxConcurrentFetches = 4

	// consecutive recoverable poll failures before the webhook is warned
	warnAfterFailures = 20
)

// Store archives observed events so that proposals older than the window are
// still known. It is optional.
type Store interface {
	AddEvents(ctx context.Context, evs []agreement.EventRecord) error
	Events(ctx context.Context, contract string) ([]agreement.EventRecord, error)
}

// Snapshot is the latest event view of one contract.
type Snapshot struct {
	Contract  string                  `json:"contract"`
	Events    []agreement.EventRecord `json:"events"`
	Block     uint64                  `json:"block"`
	UpdatedAt time.Time               `json:"updated_at"`
	Stale     bool                    `json:"stale"`
}

// Creation returns the factory event that deployed the contract, if seen.
func (s *Snapshot) Creation() (agreement.AgreementCreated, bool) {
	return agreement.Creation(s.Events)
}

type Config struct {
	Factory common.Address
	Window  uint64
	Rate    uint64
}

// Watcher polls the event window of every watched contract.
type Watcher struct {
	evm     agreement.EVMReader
	conf    Config
	store   Store
	msg     agreement.WebhookMessager
	metrics *metrics.Metrics

	handlers  map[common.Hash]logHandler
	retryWait time.Duration

	mu        sync.RWMutex
	snapshots map[common.Address]*Snapshot
}

func New(evm agreement.EVMReader, conf Config, store Store, msg agreement.WebhookMessager, m *metrics.Metrics) (*Watcher, error) {
	a, err := sc.AgreementABI()
	if err != nil {
		return nil, err
	}

	f, err := sc.FactoryABI()
	if err != nil {
		return nil, err
	}

	if conf.Rate == 0 {
		conf.Rate = conf.Window + 1
	}

	return &Watcher{
		evm:       evm,
		conf:      conf,
		store:     store,
		msg:       msg,
		metrics:   m,
		handlers:  makeHandlers(a, f),
		retryWait: 250 * time.Millisecond,
		snapshots: map[common.Address]*Snapshot{},
	}, nil
}

// Watch adds a contract to the poll set. Its snapshot stays missing until
// the next poll or Refresh.
func (w *Watcher) Watch(addr common.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.snapshots[addr]; ok {
		return
	}
	w.snapshots[addr] = nil

	w.metrics.SetWatchedContracts(len(w.snapshots))
}

func (w *Watcher) Watched() []common.Address {
	w.mu.RLock()
	defer w.mu.RUnlock()

	addrs := make([]common.Address, 0, len(w.snapshots))
	for addr := range w.snapshots {
		addrs = append(addrs, addr)
	}

	return addrs
}

// Snapshot returns a copy of the contract's last snapshot. ok is false while
// no poll has completed for it.
func (w *Watcher) Snapshot(addr common.Address) (Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := w.snapshots[addr]
	if s == nil {
		return Snapshot{}, false
	}

	return *s, true
}

// MarkStale flags the contract so views report loading until the next poll.
func (w *Watcher) MarkStale(contract string) {
	if !common.IsHexAddress(contract) {
		return
	}
	addr := common.HexToAddress(contract)

	w.mu.Lock()
	defer w.mu.Unlock()

	if s := w.snapshots[addr]; s != nil {
		s.Stale = true
	}
}

func (w *Watcher) set(s *Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.snapshots[common.HexToAddress(s.Contract)] = s
	w.metrics.SetWatchedContracts(len(w.snapshots))
}

func (w *Watcher) watched(addr common.Address) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.snapshots[addr]
	return ok
}

// Refresh fetches the contract's window right away. The contract only joins
// the poll set when it is watched already or the factory created it, any
// other address is served from this one fetch.
func (w *Watcher) Refresh(ctx context.Context, addr common.Address) (Snapshot, error) {
	latest, err := w.evm.LatestBlock(ctx)
	if err != nil {
		return Snapshot{}, ErrPollRecoverable
	}

	s, err := w.fetch(ctx, addr, latest.Uint64())
	if err != nil {
		return Snapshot{}, err
	}

	if _, created := s.Creation(); created || w.watched(addr) {
		w.set(s)
	}

	return *s, nil
}

// Poll fetches the current window of every watched contract.
func (w *Watcher) Poll(ctx context.Context) error {
	start := time.Now()

	err := w.poll(ctx)
	w.metrics.ObservePoll(time.Since(start), err)

	return err
}

func (w *Watcher) poll(ctx context.Context) error {
	latestBlock, err := w.evm.LatestBlock(ctx)
	if err != nil {
		return ErrPollRecoverable
	}
	latest := latestBlock.Uint64()

	w.metrics.SetLatestBlock(latest)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, addr := range w.Watched() {
		g.Go(func() error {
			s, err := w.fetch(gctx, addr, latest)
			if err != nil {
				return err
			}
			w.set(s)

			return nil
		})
	}

	return g.Wait()
}

// Background polls every syncrate seconds until ctx is done or a poll fails
// with an unrecoverable error.
func (w *Watcher) Background(ctx context.Context, syncrate int) error {
	failures := 0

	for {
		err := w.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			// check if the error is recoverable
			if errors.Is(err, ErrPollRecoverable) {
				failures++
				log.Default().Println("[watch] recoverable error: ", err)
				if failures == warnAfterFailures && w.msg != nil {
					w.msg.NotifyWarning(ctx, fmt.Errorf("%d polls failed in a row: %w", failures, err))
				}

				// wait a bit
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(w.retryWait):
				}
				continue
			}

			sentry.CaptureException(err)
			if w.msg != nil {
				w.msg.NotifyError(ctx, err)
			}

			return err
		}

		if failures >= warnAfterFailures && w.msg != nil {
			w.msg.Notify(ctx, fmt.Sprintf("polling recovered after %d failed attempts", failures))
		}
		failures = 0

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(syncrate) * time.Second):
		}
	}
}

func (w *Watcher) fetch(ctx context.Context, addr common.Address, latest uint64) (*Snapshot, error) {
	prev, _ := w.Snapshot(addr)

	evs, err := w.scan(ctx, []common.Address{addr}, sc.AgreementTopics(), latest)
	if err != nil {
		return nil, err
	}

	// creation is immutable, only look for it until found
	created := agreement.FilterKind(prev.Events, agreement.EventAgreementCreated)
	if len(created) == 0 {
		created, err = w.scan(ctx, []common.Address{w.conf.Factory}, sc.FactoryTopics(&addr), latest)
		if err != nil {
			return nil, err
		}
	}
	evs = append(created, evs...)

	evs = w.archive(ctx, addr, evs)

	return &Snapshot{
		Contract:  addr.Hex(),
		Events:    agreement.Dedup(evs),
		Block:     latest,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// archive stores the window and merges back older archived events. Archive
// failures only cost the events outside the window.
func (w *Watcher) archive(ctx context.Context, addr common.Address, window []agreement.EventRecord) []agreement.EventRecord {
	if w.store == nil {
		return window
	}

	err := w.store.AddEvents(ctx, window)
	if err != nil {
		log.Default().Println("[watch] archive:", addr.Hex(), err)
		sentry.CaptureException(err)
		return window
	}

	archived, err := w.store.Events(ctx, addr.Hex())
	if err != nil {
		log.Default().Println("[watch] archive:", addr.Hex(), err)
		sentry.CaptureException(err)
		return window
	}

	return append(archived, window...)
}

// scan filters the trailing window ending at latest, in chunks of at most
// rate blocks, and returns the decoded events in chain order.
func (w *Watcher) scan(ctx context.Context, addrs []common.Address, topics [][]common.Hash, latest uint64) ([]agreement.EventRecord, error) {
	from := uint64(0)
	if latest > w.conf.Window {
		from = latest - w.conf.Window
	}

	chunks := [][]types.Log{}

	// index from the latest block back to the start of the window
	blockNum := latest
	for {
		startBlock := from
		if blockNum-from >= w.conf.Rate {
			startBlock = blockNum - w.conf.Rate + 1
		}

		query := ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(startBlock),
			ToBlock:   new(big.Int).SetUint64(blockNum),
			Addresses: addrs,
			Topics:    topics,
		}

		logs, err := w.evm.FilterLogs(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrPollRecoverable
		}

		chunks = append(chunks, logs)

		if startBlock == from {
			break
		}
		blockNum = startBlock - 1
	}

	evs := []agreement.EventRecord{}
	for i := len(chunks) - 1; i >= 0; i-- {
		for _, l := range chunks[i] {
			if l.Removed || len(l.Topics) == 0 {
				continue
			}

			h, ok := w.handlers[l.Topics[0]]
			if !ok {
				continue
			}

			ev, err := h(l)
			if err != nil {
				log.Default().Println("[watch] skipping log", l.TxHash.Hex(), l.Index, err)
				continue
			}

			evs = append(evs, ev)
			w.metrics.AddEvents(string(ev.Kind), 1)
		}
	}

	return evs, nil
}

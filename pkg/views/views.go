package views

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/agreementchain/agreements/internal/metrics"
	"github.com/agreementchain/agreements/internal/services/gateway"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/agreementchain/agreements/pkg/watch"
	"github.com/ethereum/go-ethereum/common"
	"github.com/getsentry/sentry-go"
)

// ContractData is what the dashboard already knows about an agreement.
type ContractData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Directory remembers contract data read by the dashboard so the contract
// view does not have to read it again.
type Directory struct {
	mu   sync.RWMutex
	data map[common.Address]ContractData
}

func NewDirectory() *Directory {
	return &Directory{data: map[common.Address]ContractData{}}
}

func (d *Directory) Set(addr common.Address, c ContractData) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.data[addr] = c
}

func (d *Directory) Get(addr common.Address) (ContractData, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.data[addr]
	return c, ok
}

// Views builds the read models. Read failures are logged and reported, and
// degrade the view to loading instead of failing it.
type Views struct {
	evm       agreement.EVMReader
	factory   *gateway.Factory
	watcher   *watch.Watcher
	directory *Directory
	metrics   *metrics.Metrics
}

func New(evm agreement.EVMReader, factory *gateway.Factory, w *watch.Watcher, d *Directory, m *metrics.Metrics) *Views {
	return &Views{
		evm:       evm,
		factory:   factory,
		watcher:   w,
		directory: d,
		metrics:   m,
	}
}

func (v *Views) agreement(addr common.Address) (*gateway.Agreement, error) {
	return gateway.NewAgreement(v.evm, addr)
}

func (v *Views) readFailed(ctx context.Context, view string, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return
	}

	log.Default().Println("[views]", view, err)
	sentry.CaptureException(err)
	v.metrics.IncrementReadFailure(view)
}

// snapshot returns the contract's events, fetching them on first use.
// fresh is false while data is missing or stale after a write.
func (v *Views) snapshot(ctx context.Context, view string, addr common.Address) (s watch.Snapshot, fresh bool) {
	s, ok := v.watcher.Snapshot(addr)
	if ok {
		return s, !s.Stale
	}

	s, err := v.watcher.Refresh(ctx, addr)
	if err != nil {
		v.readFailed(ctx, view, err)
		return watch.Snapshot{}, false
	}

	return s, true
}

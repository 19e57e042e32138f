package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agreementchain/agreements/internal/evmtest"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	factoryAddr  = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	creator      = common.HexToAddress("0x480Fbe37526226b6c6E2a7AfA449cDf661939D2f")
	stakeholder  = common.HexToAddress("0x1234567890123456789012345678901234567890")
)

func newWatcher(t *testing.T, evm *evmtest.MockEVMRequester, store Store) *Watcher {
	w, err := New(evm, Config{Factory: factoryAddr, Window: 20, Rate: 10}, store, nil, nil)
	require.NoError(t, err)

	return w
}

func TestScanChunks(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25
	w := newWatcher(t, evm, nil)

	_, err := w.scan(context.Background(), []common.Address{contractAddr}, nil, 25)
	require.NoError(t, err)

	expected := [][2]uint64{{16, 25}, {6, 15}, {5, 5}}
	require.Len(t, evm.Queries, len(expected))
	for i, q := range evm.Queries {
		require.Equal(t, expected[i][0], q.FromBlock.Uint64(), "query %d from", i)
		require.Equal(t, expected[i][1], q.ToBlock.Uint64(), "query %d to", i)
	}
}

func TestScanShortChain(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	w := newWatcher(t, evm, nil)

	_, err := w.scan(context.Background(), []common.Address{contractAddr}, nil, 3)
	require.NoError(t, err)
	require.Len(t, evm.Queries, 1)
	require.Equal(t, uint64(0), evm.Queries[0].FromBlock.Uint64())
	require.Equal(t, uint64(3), evm.Queries[0].ToBlock.Uint64())
}

func seed(evm *evmtest.MockEVMRequester) {
	a1 := common.HexToHash("0xa1")
	a2 := common.HexToHash("0xa2")

	evm.AddLogs(
		evmtest.AgreementCreatedLog(factoryAddr, contractAddr, creator, common.HexToHash("0x10"), 6),
		evmtest.ActionCreatedLog(contractAddr, a1, 0, stakeholder.Hex(), common.HexToHash("0x01"), 8),
		evmtest.ConditionAddedLog(contractAddr, common.HexToHash("0xc1"), "Term", "12 months", common.HexToHash("0x02"), 12),
		evmtest.ActionCreatedLog(contractAddr, a2, 3, "Pause - now", common.HexToHash("0x03"), 20),
		// duplicate of a1 seen again
		evmtest.ActionCreatedLog(contractAddr, a1, 0, stakeholder.Hex(), common.HexToHash("0x04"), 22),
		// outside the window
		evmtest.ActionCreatedLog(contractAddr, common.HexToHash("0xa0"), 1, stakeholder.Hex(), common.HexToHash("0x05"), 2),
		// other contract
		evmtest.ActionCreatedLog(common.HexToAddress("0xdd"), common.HexToHash("0xa9"), 1, "x", common.HexToHash("0x06"), 21),
	)
}

func TestRefresh(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25
	seed(evm)

	w := newWatcher(t, evm, nil)

	_, ok := w.Snapshot(contractAddr)
	require.False(t, ok)

	s, err := w.Refresh(context.Background(), contractAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(25), s.Block)
	require.False(t, s.Stale)

	actions := agreement.FilterKind(s.Events, agreement.EventActionCreated)
	require.Len(t, actions, 2)
	require.Equal(t, common.HexToHash("0xa1").Hex(), actions[0].ActionID)
	require.Equal(t, common.HexToHash("0x01").Hex(), actions[0].TransactionHash)
	require.Equal(t, agreement.ActionPause, actions[1].ActionType)

	conds := agreement.FilterKind(s.Events, agreement.EventConditionAdded)
	require.Len(t, conds, 1)
	require.Equal(t, "Term", conds[0].Key)
	require.Equal(t, "12 months", conds[0].Value)

	created, ok := s.Creation()
	require.True(t, ok)
	require.Equal(t, contractAddr.Hex(), created.Agreement)
	require.Equal(t, creator.Hex(), created.Creator)

	snap, ok := w.Snapshot(contractAddr)
	require.True(t, ok)
	require.Len(t, snap.Events, len(s.Events))
}

func TestRefreshUnknownContract(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25
	seed(evm)

	w := newWatcher(t, evm, nil)

	other := common.HexToAddress("0xdd")
	s, err := w.Refresh(context.Background(), other)
	require.NoError(t, err)
	require.Len(t, agreement.FilterKind(s.Events, agreement.EventActionCreated), 1)

	_, ok := w.Snapshot(other)
	require.False(t, ok)
	require.Empty(t, w.Watched())

	queries := evm.QueryCount()
	require.NoError(t, w.Poll(context.Background()))
	require.Equal(t, queries, evm.QueryCount())
}

func TestRefreshKeepsWatchedContract(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25

	w := newWatcher(t, evm, nil)
	w.Watch(contractAddr)

	_, err := w.Refresh(context.Background(), contractAddr)
	require.NoError(t, err)

	_, ok := w.Snapshot(contractAddr)
	require.True(t, ok)
}

func TestPollSkipsFoundCreation(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25
	seed(evm)

	w := newWatcher(t, evm, nil)
	w.Watch(contractAddr)

	require.NoError(t, w.Poll(context.Background()))
	first := evm.QueryCount()
	// 3 chunks for the agreement, 3 for the factory
	require.Equal(t, 6, first)

	require.NoError(t, w.Poll(context.Background()))
	require.Equal(t, first+3, evm.QueryCount())

	s, ok := w.Snapshot(contractAddr)
	require.True(t, ok)
	_, found := s.Creation()
	require.True(t, found)
}

func TestMarkStale(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25
	w := newWatcher(t, evm, nil)

	// no snapshot yet, nothing to mark
	w.MarkStale(contractAddr.Hex())
	w.MarkStale("not an address")

	_, err := w.Refresh(context.Background(), contractAddr)
	require.NoError(t, err)

	w.MarkStale(contractAddr.Hex())
	s, _ := w.Snapshot(contractAddr)
	require.True(t, s.Stale)

	require.NoError(t, w.Poll(context.Background()))
	s, _ = w.Snapshot(contractAddr)
	require.False(t, s.Stale)
}

func TestPollRecoverable(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25
	evm.FilterErr = errors.New("too many results")

	w := newWatcher(t, evm, nil)
	w.Watch(contractAddr)

	err := w.Poll(context.Background())
	require.ErrorIs(t, err, ErrPollRecoverable)

	evm.LatestErr = errors.New("connection refused")
	err = w.Poll(context.Background())
	require.ErrorIs(t, err, ErrPollRecoverable)
}

func TestBackgroundStops(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25
	w := newWatcher(t, evm, nil)
	w.Watch(contractAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := w.Background(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, ok := w.Snapshot(contractAddr)
	require.True(t, ok)
}

type testMessager struct {
	mu       sync.Mutex
	messages []string
	warnings []error
}

func (m *testMessager) Notify(ctx context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *testMessager) NotifyWarning(ctx context.Context, errorMessage error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, errorMessage)
	return nil
}

func (m *testMessager) NotifyError(ctx context.Context, errorMessage error) error {
	return nil
}

func (m *testMessager) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warnings), len(m.messages)
}

func TestBackgroundWarnsOnRepeatedFailures(t *testing.T) {
	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25
	evm.SetLatestErr(errors.New("connection refused"))

	msg := &testMessager{}
	w, err := New(evm, Config{Factory: factoryAddr, Window: 20, Rate: 10}, nil, msg, nil)
	require.NoError(t, err)
	w.retryWait = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Background(ctx, 1) }()

	require.Eventually(t, func() bool {
		warnings, _ := msg.counts()
		return warnings == 1
	}, 5*time.Second, 5*time.Millisecond)

	evm.SetLatestErr(nil)

	require.Eventually(t, func() bool {
		_, messages := msg.counts()
		return messages == 1
	}, 5*time.Second, 5*time.Millisecond)

	warnings, _ := msg.counts()
	require.Equal(t, 1, warnings)
	require.ErrorIs(t, msg.warnings[0], ErrPollRecoverable)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

type memStore struct {
	mu  sync.Mutex
	evs []agreement.EventRecord
}

func (m *memStore) AddEvents(ctx context.Context, evs []agreement.EventRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evs = agreement.Dedup(append(m.evs, evs...))
	return nil
}

func (m *memStore) Events(ctx context.Context, contract string) ([]agreement.EventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []agreement.EventRecord{}
	for _, ev := range m.evs {
		if ev.Contract == contract {
			out = append(out, ev)
		}
	}
	return out, nil
}

func TestArchiveKeepsOldEvents(t *testing.T) {
	store := &memStore{
		evs: []agreement.EventRecord{{
			Kind:            agreement.EventActionCreated,
			Contract:        contractAddr.Hex(),
			ActionID:        common.HexToHash("0xa0").Hex(),
			ActionType:      agreement.ActionRemove,
			Key:             stakeholder.Hex(),
			TransactionHash: common.HexToHash("0x05").Hex(),
			BlockNumber:     2,
		}},
	}

	evm := evmtest.NewMockEVMRequester()
	evm.Latest = 25
	seed(evm)

	w := newWatcher(t, evm, store)

	s, err := w.Refresh(context.Background(), contractAddr)
	require.NoError(t, err)

	actions := agreement.FilterKind(s.Events, agreement.EventActionCreated)
	require.Len(t, actions, 3)
	require.Equal(t, common.HexToHash("0xa0").Hex(), actions[0].ActionID)

	// window events were archived
	stored, _ := store.Events(context.Background(), contractAddr.Hex())
	require.Len(t, stored, len(s.Events))
}

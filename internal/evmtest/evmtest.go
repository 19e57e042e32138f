// Package evmtest provides an in-memory EVMRequester for tests. Contract
// reads are answered by per-method handlers encoded with the real ABIs.
package evmtest

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/agreementchain/agreements/internal/sc"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrNoHandler = errors.New("no handler for call")

// Handler answers one contract method. args are the decoded inputs and the
// returned values are packed as the method outputs.
type Handler func(from common.Address, args []interface{}) ([]interface{}, error)

type MockEVMRequester struct {
	mu sync.Mutex

	Chain  *big.Int
	Latest uint64

	Logs        []types.Log
	Queries     []ethereum.FilterQuery
	FilterErr   error
	LatestErr   error
	EstimateErr error

	handlers map[common.Address]map[string]Handler
	times    map[uint64]uint64
	txs      map[common.Hash]*types.Transaction
	senders  map[common.Hash]common.Address
	blocks   map[common.Hash]uint64

	Sent          []*types.Transaction
	SendErrs      []error
	PendingPolls  int
	ReceiptStatus uint64
	ReceiptLogs   []*types.Log
}

var _ agreement.EVMRequester = (*MockEVMRequester)(nil)

func NewMockEVMRequester() *MockEVMRequester {
	return &MockEVMRequester{
		Chain:         big.NewInt(1337),
		handlers:      map[common.Address]map[string]Handler{},
		times:         map[uint64]uint64{},
		txs:           map[common.Hash]*types.Transaction{},
		senders:       map[common.Hash]common.Address{},
		blocks:        map[common.Hash]uint64{},
		ReceiptStatus: types.ReceiptStatusSuccessful,
	}
}

// Handle registers h for method on contract.
func (m *MockEVMRequester) Handle(contract common.Address, method string, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.handlers[contract]; !ok {
		m.handlers[contract] = map[string]Handler{}
	}
	m.handlers[contract][method] = h
}

// Return registers a handler that always answers with out.
func (m *MockEVMRequester) Return(contract common.Address, method string, out ...interface{}) {
	m.Handle(contract, method, func(common.Address, []interface{}) ([]interface{}, error) {
		return out, nil
	})
}

// Fail registers a handler that always fails.
func (m *MockEVMRequester) Fail(contract common.Address, method string, err error) {
	m.Handle(contract, method, func(common.Address, []interface{}) ([]interface{}, error) {
		return nil, err
	})
}

func (m *MockEVMRequester) AddLogs(logs ...types.Log) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Logs = append(m.Logs, logs...)
}

func (m *MockEVMRequester) SetBlockTime(number, timestamp uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.times[number] = timestamp
}

// AddTransaction makes tx retrievable by hash with the given sender, mined
// in block.
func (m *MockEVMRequester) AddTransaction(tx *types.Transaction, from common.Address, block uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txs[tx.Hash()] = tx
	m.senders[tx.Hash()] = from
	m.blocks[tx.Hash()] = block
}

func (m *MockEVMRequester) SetLatestErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LatestErr = err
}

func (m *MockEVMRequester) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Queries)
}

func (m *MockEVMRequester) ChainID(ctx context.Context) (*big.Int, error) {
	return m.Chain, nil
}

func (m *MockEVMRequester) LatestBlock(ctx context.Context) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LatestErr != nil {
		return common.Big0, m.LatestErr
	}

	return new(big.Int).SetUint64(m.Latest), nil
}

func (m *MockEVMRequester) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, q)
	if m.FilterErr != nil {
		return nil, m.FilterErr
	}

	logs := []types.Log{}
	for _, l := range m.Logs {
		if matches(q, l) {
			logs = append(logs, l)
		}
	}

	return logs, nil
}

func matches(q ethereum.FilterQuery, l types.Log) bool {
	if q.FromBlock != nil && l.BlockNumber < q.FromBlock.Uint64() {
		return false
	}
	if q.ToBlock != nil && l.BlockNumber > q.ToBlock.Uint64() {
		return false
	}

	if len(q.Addresses) > 0 && !containsAddress(q.Addresses, l.Address) {
		return false
	}

	for i, set := range q.Topics {
		if len(set) == 0 {
			continue
		}
		if i >= len(l.Topics) || !containsHash(set, l.Topics[i]) {
			return false
		}
	}

	return true
}

func containsAddress(addrs []common.Address, a common.Address) bool {
	for _, x := range addrs {
		if x == a {
			return true
		}
	}
	return false
}

func containsHash(hashes []common.Hash, h common.Hash) bool {
	for _, x := range hashes {
		if x == h {
			return true
		}
	}
	return false
}

func (m *MockEVMRequester) method(data []byte) (*abi.Method, error) {
	if len(data) < 4 {
		return nil, ErrNoHandler
	}

	for _, load := range []func() (*abi.ABI, error){sc.AgreementABI, sc.FactoryABI} {
		a, err := load()
		if err != nil {
			return nil, err
		}

		if method, err := a.MethodById(data[:4]); err == nil {
			return method, nil
		}
	}

	return nil, ErrNoHandler
}

func (m *MockEVMRequester) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if call.To == nil {
		return nil, ErrNoHandler
	}

	method, err := m.method(call.Data)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	h, ok := m.handlers[*call.To][method.Name]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNoHandler
	}

	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}

	out, err := h(call.From, args)
	if err != nil {
		return nil, err
	}

	return method.Outputs.Pack(out...)
}

func (m *MockEVMRequester) BlockTime(ctx context.Context, number *big.Int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts, ok := m.times[number.Uint64()]
	if !ok {
		return 0, ethereum.NotFound
	}

	return ts, nil
}

func (m *MockEVMRequester) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.txs[hash]
	if !ok {
		return nil, false, ethereum.NotFound
	}

	return tx, false, nil
}

func (m *MockEVMRequester) TransactionSender(ctx context.Context, tx *types.Transaction) (common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, ok := m.senders[tx.Hash()]
	if !ok {
		return common.Address{}, ethereum.NotFound
	}

	return from, nil
}

func (m *MockEVMRequester) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return uint64(len(m.Sent)), nil
}

func (m *MockEVMRequester) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if m.EstimateErr != nil {
		return 0, m.EstimateErr
	}

	return 100000, nil
}

func (m *MockEVMRequester) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (m *MockEVMRequester) BaseFee(ctx context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

// SendTransaction records every broadcast, then fails with the next queued
// SendErrs entry, if any.
func (m *MockEVMRequester) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sent = append(m.Sent, tx)
	if len(m.SendErrs) > 0 {
		err := m.SendErrs[0]
		m.SendErrs = m.SendErrs[1:]
		return err
	}

	return nil
}

// TransactionReceipt reports NotFound for the first PendingPolls calls.
func (m *MockEVMRequester) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PendingPolls > 0 {
		m.PendingPolls--
		return nil, ethereum.NotFound
	}

	block, ok := m.blocks[hash]
	if !ok {
		block = m.Latest
	}

	return &types.Receipt{
		Status:      m.ReceiptStatus,
		TxHash:      hash,
		Logs:        m.ReceiptLogs,
		BlockNumber: new(big.Int).SetUint64(block),
	}, nil
}

func (m *MockEVMRequester) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return nil, nil
}

func (m *MockEVMRequester) Close() {}

package views

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/agreementchain/agreements/internal/evmtest"
	"github.com/agreementchain/agreements/internal/sc"
	"github.com/agreementchain/agreements/internal/services/gateway"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/agreementchain/agreements/pkg/watch"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

var (
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	factoryAddr  = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	alice        = common.HexToAddress("0x480Fbe37526226b6c6E2a7AfA449cDf661939D2f")
	bob          = common.HexToAddress("0x1234567890123456789012345678901234567890")

	addID    = common.HexToHash("0xa1")
	pauseID  = common.HexToHash("0xa2")
	removeID = common.HexToHash("0xa3")
	termID   = common.HexToHash("0xc1")
	worthID  = common.HexToHash("0xc2")
)

type fixture struct {
	evm     *evmtest.MockEVMRequester
	watcher *watch.Watcher
	dir     *Directory
	views   *Views

	createTx *types.Transaction
	addTx    *types.Transaction
	termTx   *types.Transaction
}

func tx(nonce uint64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{Nonce: nonce, GasPrice: big.NewInt(1), Gas: 21000})
}

func action(id common.Hash, t uint8, key string) sc.ActionView {
	return sc.ActionView{ActionId: id, ActionType: t, Key: key, ApprovalCount: big.NewInt(1), RejectionCount: big.NewInt(0)}
}

func condition(key, value string, active uint8) sc.ConditionView {
	return sc.ConditionView{Key: key, Value: value, Active: active, ApprovalCount: big.NewInt(1), RejectionCount: big.NewInt(0), TotalRequired: big.NewInt(2)}
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		evm:      evmtest.NewMockEVMRequester(),
		createTx: tx(1),
		addTx:    tx(2),
		termTx:   tx(3),
	}
	f.evm.Latest = 100

	f.evm.AddTransaction(f.createTx, alice, 10)
	f.evm.AddTransaction(f.addTx, alice, 20)
	f.evm.AddTransaction(f.termTx, bob, 30)
	f.evm.SetBlockTime(10, 1700000000)
	f.evm.SetBlockTime(20, 1700000100)
	f.evm.SetBlockTime(30, 1700000200)

	f.evm.AddLogs(
		evmtest.AgreementCreatedLog(factoryAddr, contractAddr, alice, f.createTx.Hash(), 10),
		evmtest.ActionCreatedLog(contractAddr, addID, 0, bob.Hex(), f.addTx.Hash(), 20),
		evmtest.ConditionAddedLog(contractAddr, termID, "Term", "12 months", f.termTx.Hash(), 30),
		evmtest.ConditionAddedLog(contractAddr, worthID, "Contract Worth", "1000", f.termTx.Hash(), 30),
		evmtest.ActionCreatedLog(contractAddr, removeID, 2, "Country", f.termTx.Hash(), 40),
	)

	f.evm.Return(factoryAddr, "getStakeholderAgreements", []common.Address{contractAddr})
	f.evm.Return(contractAddr, "title", "Lease")
	f.evm.Return(contractAddr, "description", "Office lease")
	f.evm.Return(contractAddr, "TOTAL_STAKE_HOLDERS", big.NewInt(2))
	f.evm.Return(contractAddr, "currentState", uint8(1))
	f.evm.Return(contractAddr, "getStakeholders", []common.Address{alice, bob})
	f.evm.Return(contractAddr, "getAllActiveConditions", []sc.ConditionView{condition("Country", "BE", 1)})
	f.evm.Handle(contractAddr, "getPendingActionsByType", func(from common.Address, args []interface{}) ([]interface{}, error) {
		switch agreement.ActionType(args[0].(uint8)) {
		case agreement.ActionAdd:
			return []interface{}{[]sc.ActionView{action(addID, 0, bob.Hex())}}, nil
		case agreement.ActionPause:
			// no event seen for this one
			return []interface{}{[]sc.ActionView{action(pauseID, 3, "Pause - now")}}, nil
		case agreement.ActionConditionRemove:
			return []interface{}{[]sc.ActionView{action(removeID, 2, "Country")}}, nil
		}
		return []interface{}{[]sc.ActionView{}}, nil
	})
	f.evm.Handle(contractAddr, "getConditionDetails", func(from common.Address, args []interface{}) ([]interface{}, error) {
		key := args[0].(string)
		if key == "Term" {
			return []interface{}{condition(key, "12 months", 0)}, nil
		}
		return []interface{}{condition(key, "1000", 1)}, nil
	})
	f.evm.Return(contractAddr, "getActionVotersList", []common.Address{alice}, []common.Address{})
	f.evm.Return(contractAddr, "getApprovers", []common.Address{bob})
	f.evm.Return(contractAddr, "getRejectors", []common.Address{})

	fac, err := gateway.NewFactory(f.evm, factoryAddr)
	require.NoError(t, err)

	f.watcher, err = watch.New(f.evm, watch.Config{Factory: factoryAddr, Window: 1000, Rate: 500}, nil, nil, nil)
	require.NoError(t, err)

	f.dir = NewDirectory()
	f.views = New(f.evm, fac, f.watcher, f.dir, nil)

	return f
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)

	view, err := f.views.Dashboard(context.Background(), alice)
	require.NoError(t, err)
	require.False(t, view.Loading)
	require.Len(t, view.Agreements, 1)

	card := view.Agreements[0]
	require.Equal(t, contractAddr.Hex(), card.Address)
	require.Equal(t, "Lease", card.Title)
	require.Equal(t, "Office lease", card.Description)
	require.Equal(t, int64(2), card.TotalStakeholders.Int64())
	require.Equal(t, "Active", card.StateLabel)
	require.False(t, card.Loading)

	data, ok := f.dir.Get(contractAddr)
	require.True(t, ok)
	require.Equal(t, "Lease", data.Title)

	require.Contains(t, f.watcher.Watched(), contractAddr)
}

func TestDashboardReadFailure(t *testing.T) {
	f := newFixture(t)
	f.evm.Fail(factoryAddr, "getStakeholderAgreements", errors.New("rpc down"))

	view, err := f.views.Dashboard(context.Background(), alice)
	require.NoError(t, err)
	require.True(t, view.Loading)
	require.Empty(t, view.Agreements)
}

func TestDashboardCardFailure(t *testing.T) {
	f := newFixture(t)
	f.evm.Fail(contractAddr, "currentState", errors.New("rpc down"))

	view, err := f.views.Dashboard(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, view.Agreements, 1)
	require.True(t, view.Agreements[0].Loading)
	require.Equal(t, "Pending Approval", view.Agreements[0].StateLabel)
}

func TestContract(t *testing.T) {
	f := newFixture(t)

	view, err := f.views.Contract(context.Background(), contractAddr)
	require.NoError(t, err)
	require.False(t, view.Loading)
	require.Equal(t, "Lease", view.Title)
	require.Equal(t, agreement.StateActive, view.State)
	require.Equal(t, []string{alice.Hex(), bob.Hex()}, view.Stakeholders)
	require.Len(t, view.Conditions, 1)

	require.NotNil(t, view.Creation)
	require.Equal(t, alice.Hex(), view.Creation.Creator)
	require.Equal(t, f.createTx.Hash().Hex(), view.Creation.TransactionHash)
	require.NotNil(t, view.CreatedAt)
	require.Equal(t, int64(1700000000), view.CreatedAt.Unix())
}

func TestContractUsesDirectory(t *testing.T) {
	f := newFixture(t)
	f.dir.Set(contractAddr, ContractData{Title: "Known", Description: "From dashboard"})
	f.evm.Fail(contractAddr, "title", errors.New("must not be read"))

	view, err := f.views.Contract(context.Background(), contractAddr)
	require.NoError(t, err)
	require.False(t, view.Loading)
	require.Equal(t, "Known", view.Title)
}

func TestPendingRequests(t *testing.T) {
	f := newFixture(t)

	view, err := f.views.PendingRequests(context.Background(), contractAddr, alice.Hex(), SortAsc)
	require.NoError(t, err)
	require.False(t, view.Loading)
	require.Len(t, view.Items, 2)

	require.Equal(t, addID.Hex(), view.Items[0].ActionID)
	require.Equal(t, "Add", view.Items[0].Label)
	require.Equal(t, f.addTx.Hash().Hex(), view.Items[0].TransactionHash)

	require.Equal(t, pauseID.Hex(), view.Items[1].ActionID)
	require.False(t, view.Items[1].HasTransaction())

	desc, err := f.views.PendingRequests(context.Background(), contractAddr, alice.Hex(), SortDesc)
	require.NoError(t, err)
	require.Equal(t, agreement.ActionPause, desc.Items[0].ActionType)
	require.Equal(t, agreement.ActionAdd, desc.Items[1].ActionType)
}

func TestPendingRequestsStale(t *testing.T) {
	f := newFixture(t)

	_, err := f.views.PendingRequests(context.Background(), contractAddr, "", SortAsc)
	require.NoError(t, err)

	f.watcher.MarkStale(contractAddr.Hex())

	view, err := f.views.PendingRequests(context.Background(), contractAddr, "", SortAsc)
	require.NoError(t, err)
	require.True(t, view.Loading)

	require.NoError(t, f.watcher.Poll(context.Background()))

	view, err = f.views.PendingRequests(context.Background(), contractAddr, "", SortAsc)
	require.NoError(t, err)
	require.False(t, view.Loading)
}

func TestPendingRequestsReadFailure(t *testing.T) {
	f := newFixture(t)
	f.evm.Fail(contractAddr, "getPendingActionsByType", errors.New("rpc down"))

	view, err := f.views.PendingRequests(context.Background(), contractAddr, "", SortAsc)
	require.NoError(t, err)
	require.True(t, view.Loading)
	require.Empty(t, view.Items)
}

func TestPendingConditions(t *testing.T) {
	f := newFixture(t)

	view, err := f.views.PendingConditions(context.Background(), contractAddr, alice.Hex())
	require.NoError(t, err)
	require.False(t, view.Loading)

	require.Len(t, view.Additions, 1)
	require.Equal(t, termID.Hex(), view.Additions[0].ConditionID)
	require.Equal(t, "Term", view.Additions[0].Details.Key)
	require.Equal(t, f.termTx.Hash().Hex(), view.Additions[0].TransactionHash)

	require.Len(t, view.Removals, 1)
	require.Equal(t, removeID.Hex(), view.Removals[0].ActionID)
	require.Equal(t, "ConditionRemove", view.Removals[0].Label)
	require.Equal(t, f.termTx.Hash().Hex(), view.Removals[0].TransactionHash)
}

func TestRequestDetails(t *testing.T) {
	f := newFixture(t)

	view, err := f.views.RequestDetails(context.Background(), contractAddr, addID.Hex(), "", alice.Hex())
	require.NoError(t, err)
	require.False(t, view.Loading)
	require.Equal(t, []string{alice.Hex()}, view.Approvers)
	require.Empty(t, view.Rejectors)

	require.NotNil(t, view.Origin)
	require.Equal(t, alice.Hex(), view.Origin.From)
	require.Equal(t, f.addTx.Hash().Hex(), view.Origin.TransactionHash)
	require.Equal(t, int64(1700000100), view.Origin.Timestamp.Unix())
}

func TestRequestDetailsUpperCaseID(t *testing.T) {
	f := newFixture(t)

	id := "0x" + strings.ToUpper(addID.Hex()[2:])
	view, err := f.views.RequestDetails(context.Background(), contractAddr, id, "", alice.Hex())
	require.NoError(t, err)
	require.False(t, view.Loading)
	require.Equal(t, addID.Hex(), view.ActionID)
	require.NotNil(t, view.Origin)
	require.Equal(t, f.addTx.Hash().Hex(), view.Origin.TransactionHash)
}

func TestRequestDetailsWithoutTransaction(t *testing.T) {
	f := newFixture(t)

	view, err := f.views.RequestDetails(context.Background(), contractAddr, pauseID.Hex(), "", "")
	require.NoError(t, err)
	require.True(t, view.Loading)
	require.Nil(t, view.Origin)
	require.Equal(t, []string{alice.Hex()}, view.Approvers)
}

func TestConditionVoters(t *testing.T) {
	f := newFixture(t)

	view, err := f.views.ConditionVoters(context.Background(), contractAddr, "Term", f.termTx.Hash().Hex())
	require.NoError(t, err)
	require.False(t, view.Loading)
	require.Equal(t, []string{bob.Hex()}, view.Approvers)
	require.Empty(t, view.Rejectors)
	require.Equal(t, bob.Hex(), view.Origin.From)
	require.Equal(t, int64(1700000200), view.Origin.Timestamp.Unix())
}

func TestViewsCancelled(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.views.PendingRequests(ctx, contractAddr, "", SortAsc)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("")
	require.NoError(t, err)
	require.Equal(t, SortAsc, s)

	s, err = ParseSort("DESC")
	require.NoError(t, err)
	require.Equal(t, SortDesc, s)

	_, err = ParseSort("sideways")
	require.Error(t, err)
}

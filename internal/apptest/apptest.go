// Package apptest builds an App over a mocked node for handler and command
// tests.
package apptest

import (
	"context"
	"math/big"
	"testing"

	"github.com/agreementchain/agreements/internal/app"
	"github.com/agreementchain/agreements/internal/config"
	"github.com/agreementchain/agreements/internal/evmtest"
	"github.com/agreementchain/agreements/internal/sc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

const SignerKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var (
	Contract = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	Factory  = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	Alice    = common.HexToAddress("0x480Fbe37526226b6c6E2a7AfA449cDf661939D2f")
	Bob      = common.HexToAddress("0x1234567890123456789012345678901234567890")

	AddID  = common.HexToHash("0xa1")
	TermID = common.HexToHash("0xc1")
)

type Fixture struct {
	EVM *evmtest.MockEVMRequester
	App *app.App

	CreateTx *types.Transaction
	AddTx    *types.Transaction
	TermTx   *types.Transaction
}

func tx(nonce uint64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{Nonce: nonce, GasPrice: big.NewInt(1), Gas: 21000})
}

// New returns an app over one agreement, Lease, between Alice and Bob with
// a pending stakeholder request and a pending condition. With signer set
// writes are submitted to the mock.
func New(t *testing.T, signer bool) *Fixture {
	t.Helper()

	f := &Fixture{
		EVM:      evmtest.NewMockEVMRequester(),
		CreateTx: tx(1),
		AddTx:    tx(2),
		TermTx:   tx(3),
	}
	f.EVM.Latest = 100

	f.EVM.AddTransaction(f.CreateTx, Alice, 10)
	f.EVM.AddTransaction(f.AddTx, Alice, 20)
	f.EVM.AddTransaction(f.TermTx, Bob, 30)
	f.EVM.SetBlockTime(10, 1700000000)
	f.EVM.SetBlockTime(20, 1700000100)
	f.EVM.SetBlockTime(30, 1700000200)

	f.EVM.AddLogs(
		evmtest.AgreementCreatedLog(Factory, Contract, Alice, f.CreateTx.Hash(), 10),
		evmtest.ActionCreatedLog(Contract, AddID, 0, Bob.Hex(), f.AddTx.Hash(), 20),
		evmtest.ConditionAddedLog(Contract, TermID, "Term", "12 months", f.TermTx.Hash(), 30),
	)

	f.EVM.Return(Factory, "getStakeholderAgreements", []common.Address{Contract})
	f.EVM.Return(Contract, "title", "Lease")
	f.EVM.Return(Contract, "description", "Office lease")
	f.EVM.Return(Contract, "TOTAL_STAKE_HOLDERS", big.NewInt(2))
	f.EVM.Return(Contract, "currentState", uint8(1))
	f.EVM.Return(Contract, "getStakeholders", []common.Address{Alice, Bob})
	f.EVM.Return(Contract, "getAllActiveConditions", []sc.ConditionView{condition("Country", "BE", 1)})
	f.EVM.Handle(Contract, "getPendingActionsByType", func(from common.Address, args []interface{}) ([]interface{}, error) {
		if args[0].(uint8) == 0 {
			return []interface{}{[]sc.ActionView{{
				ActionId:       AddID,
				ActionType:     0,
				Key:            Bob.Hex(),
				ApprovalCount:  big.NewInt(1),
				RejectionCount: big.NewInt(0),
			}}}, nil
		}
		return []interface{}{[]sc.ActionView{}}, nil
	})
	f.EVM.Handle(Contract, "getConditionDetails", func(from common.Address, args []interface{}) ([]interface{}, error) {
		return []interface{}{condition(args[0].(string), "12 months", 0)}, nil
	})
	f.EVM.Return(Contract, "getActionVotersList", []common.Address{Alice}, []common.Address{})
	f.EVM.Return(Contract, "getApprovers", []common.Address{Bob})
	f.EVM.Return(Contract, "getRejectors", []common.Address{})

	conf := &config.Config{
		FactoryAddress: Factory.Hex(),
		EventWindow:    1000,
		FilterRate:     500,
	}
	if signer {
		conf.SignerKey = SignerKey
	}

	a, err := app.New(context.Background(), conf, f.EVM, app.Options{})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	f.App = a

	return f
}

func condition(key, value string, active uint8) sc.ConditionView {
	return sc.ConditionView{
		Key:            key,
		Value:          value,
		Active:         active,
		ApprovalCount:  big.NewInt(1),
		RejectionCount: big.NewInt(0),
		TotalRequired:  big.NewInt(2),
	}
}

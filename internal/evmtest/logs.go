package evmtest

import (
	"github.com/agreementchain/agreements/internal/sc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func mustPack(contract, event string, values ...interface{}) []byte {
	load := sc.AgreementABI
	if contract == "factory" {
		load = sc.FactoryABI
	}

	a, err := load()
	if err != nil {
		panic(err)
	}

	data, err := a.Events[event].Inputs.NonIndexed().Pack(values...)
	if err != nil {
		panic(err)
	}

	return data
}

// ActionCreatedLog builds an ActionCreated log as emitted by an agreement.
func ActionCreatedLog(contract common.Address, actionID common.Hash, actionType uint8, key string, tx common.Hash, block uint64) types.Log {
	return types.Log{
		Address:     contract,
		Topics:      []common.Hash{sc.AgreementActionCreatedID, actionID},
		Data:        mustPack("agreement", "ActionCreated", actionType, key),
		BlockNumber: block,
		TxHash:      tx,
	}
}

// ConditionAddedLog builds a ConditionAdded log as emitted by an agreement.
func ConditionAddedLog(contract common.Address, conditionID common.Hash, key, value string, tx common.Hash, block uint64) types.Log {
	return types.Log{
		Address:     contract,
		Topics:      []common.Hash{sc.AgreementConditionAddedID, conditionID},
		Data:        mustPack("agreement", "ConditionAdded", key, value),
		BlockNumber: block,
		TxHash:      tx,
	}
}

// AgreementCreatedLog builds an AgreementCreated log as emitted by the factory.
func AgreementCreatedLog(factory, agreement, creator common.Address, tx common.Hash, block uint64) types.Log {
	return types.Log{
		Address:     factory,
		Topics:      []common.Hash{sc.FactoryAgreementCreatedID, common.BytesToHash(agreement.Bytes()), common.BytesToHash(creator.Bytes())},
		BlockNumber: block,
		TxHash:      tx,
	}
}

package watch

import (
	"errors"

	"github.com/agreementchain/agreements/internal/sc"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrUnknownLog = errors.New("unknown log")

type logHandler func(l types.Log) (agreement.EventRecord, error)

func makeHandlers(agreementABI, factoryABI *abi.ABI) map[common.Hash]logHandler {
	return map[common.Hash]logHandler{
		sc.AgreementActionCreatedID: func(l types.Log) (agreement.EventRecord, error) {
			return parseActionCreated(agreementABI, l)
		},
		sc.AgreementConditionAddedID: func(l types.Log) (agreement.EventRecord, error) {
			return parseConditionAdded(agreementABI, l)
		},
		sc.FactoryAgreementCreatedID: parseAgreementCreated,
	}
}

func record(kind agreement.EventKind, l types.Log) agreement.EventRecord {
	return agreement.EventRecord{
		Kind:            kind,
		Contract:        l.Address.Hex(),
		TransactionHash: l.TxHash.Hex(),
		BlockNumber:     l.BlockNumber,
		LogIndex:        l.Index,
	}
}

func parseActionCreated(a *abi.ABI, l types.Log) (agreement.EventRecord, error) {
	if len(l.Topics) < 2 {
		return agreement.EventRecord{}, ErrUnknownLog
	}

	var data sc.LogActionCreated
	err := a.UnpackIntoInterface(&data, "ActionCreated", l.Data)
	if err != nil {
		return agreement.EventRecord{}, err
	}

	at, err := agreement.ParseActionType(data.ActionType)
	if err != nil {
		return agreement.EventRecord{}, err
	}

	ev := record(agreement.EventActionCreated, l)
	ev.ActionID = l.Topics[1].Hex()
	ev.ActionType = at
	ev.Key = data.Key

	return ev, nil
}

func parseConditionAdded(a *abi.ABI, l types.Log) (agreement.EventRecord, error) {
	if len(l.Topics) < 2 {
		return agreement.EventRecord{}, ErrUnknownLog
	}

	var data sc.LogConditionAdded
	err := a.UnpackIntoInterface(&data, "ConditionAdded", l.Data)
	if err != nil {
		return agreement.EventRecord{}, err
	}

	ev := record(agreement.EventConditionAdded, l)
	ev.ActionID = l.Topics[1].Hex()
	ev.Key = data.Key
	ev.Value = data.Value

	return ev, nil
}

// parseAgreementCreated keys the record by the created agreement so it is
// stored with that agreement's events.
func parseAgreementCreated(l types.Log) (agreement.EventRecord, error) {
	if len(l.Topics) < 3 {
		return agreement.EventRecord{}, ErrUnknownLog
	}

	created := common.BytesToAddress(l.Topics[1].Bytes()).Hex()

	ev := record(agreement.EventAgreementCreated, l)
	ev.Contract = created
	ev.Key = created
	ev.Value = common.BytesToAddress(l.Topics[2].Bytes()).Hex()

	return ev, nil
}

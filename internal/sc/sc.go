package sc

import (
	"embed"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	AgreementActionCreated  = "ActionCreated(bytes32,uint8,string)"
	AgreementConditionAdded = "ConditionAdded(bytes32,string,string)"
	FactoryAgreementCreated = "AgreementCreated(address,address)"
)

var (
	AgreementActionCreatedID  = crypto.Keccak256Hash([]byte(AgreementActionCreated))
	AgreementConditionAddedID = crypto.Keccak256Hash([]byte(AgreementConditionAdded))
	FactoryAgreementCreatedID = crypto.Keccak256Hash([]byte(FactoryAgreementCreated))
)

//go:embed abi/*.json
var abiFiles embed.FS

// LogActionCreated is the non-indexed part of ActionCreated.
type LogActionCreated struct {
	ActionType uint8
	Key        string
}

// LogConditionAdded is the non-indexed part of ConditionAdded.
type LogConditionAdded struct {
	Key   string
	Value string
}

// ConditionView is the tuple returned by getConditionDetails and
// getAllActiveConditions.
type ConditionView struct {
	Key                string
	Value              string
	Active             uint8
	ApprovalCount      *big.Int
	RejectionCount     *big.Int
	TotalRequired      *big.Int
	UserApprovalStatus uint8
}

// ActionView is one element of getPendingActionsByType.
type ActionView struct {
	ActionId       [32]byte
	ActionType     uint8
	Key            string
	ApprovalCount  *big.Int
	RejectionCount *big.Int
	Status         uint8
	HasVoted       bool
	UserApproved   bool
}

var (
	loadOnce     sync.Once
	agreementABI *abi.ABI
	factoryABI   *abi.ABI
	loadErr      error
)

func extractContractABI(jsonFile string) (*abi.ABI, error) {
	contractBytes, err := abiFiles.ReadFile(jsonFile)
	if err != nil {
		return nil, err
	}

	var m map[string]json.RawMessage
	if err = json.Unmarshal(contractBytes, &m); err != nil {
		return nil, err
	}

	parsed, err := abi.JSON(strings.NewReader(string(m["abi"])))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", jsonFile, err)
	}

	return &parsed, nil
}

func load() {
	agreementABI, loadErr = extractContractABI("abi/Agreement.json")
	if loadErr != nil {
		return
	}

	factoryABI, loadErr = extractContractABI("abi/AgreementFactory.json")
}

// AgreementABI returns the parsed ABI of an agreement contract.
func AgreementABI() (*abi.ABI, error) {
	loadOnce.Do(load)
	return agreementABI, loadErr
}

// FactoryABI returns the parsed ABI of the agreement factory.
func FactoryABI() (*abi.ABI, error) {
	loadOnce.Do(load)
	return factoryABI, loadErr
}

// AgreementTopics matches every agreement event we observe.
func AgreementTopics() [][]common.Hash {
	return [][]common.Hash{
		{AgreementActionCreatedID, AgreementConditionAddedID},
	}
}

// FactoryTopics matches AgreementCreated, optionally for one agreement.
func FactoryTopics(agreement *common.Address) [][]common.Hash {
	topics := [][]common.Hash{{FactoryAgreementCreatedID}}
	if agreement != nil {
		topics = append(topics, []common.Hash{common.BytesToHash(agreement.Bytes())})
	}

	return topics
}

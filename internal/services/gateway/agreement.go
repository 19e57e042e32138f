package gateway

import (
	"context"
	"math/big"

	"github.com/agreementchain/agreements/internal/sc"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Agreement reads and prepares writes for one agreement contract.
type Agreement struct {
	contract
}

func NewAgreement(evm agreement.EVMReader, addr common.Address) (*Agreement, error) {
	a, err := sc.AgreementABI()
	if err != nil {
		return nil, err
	}

	return &Agreement{contract{evm: evm, abi: a, address: addr}}, nil
}

func (a *Agreement) Address() common.Address {
	return a.address
}

func (a *Agreement) Title(ctx context.Context) (string, error) {
	out, err := a.call(ctx, nil, "title")
	if err != nil {
		return "", err
	}

	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (a *Agreement) Description(ctx context.Context) (string, error) {
	out, err := a.call(ctx, nil, "description")
	if err != nil {
		return "", err
	}

	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (a *Agreement) TotalStakeholders(ctx context.Context) (*big.Int, error) {
	out, err := a.call(ctx, nil, "TOTAL_STAKE_HOLDERS")
	if err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (a *Agreement) CurrentState(ctx context.Context) (agreement.State, error) {
	out, err := a.call(ctx, nil, "currentState")
	if err != nil {
		return agreement.StatePendingApproval, err
	}

	return agreement.State(*abi.ConvertType(out[0], new(uint8)).(*uint8)), nil
}

func (a *Agreement) Stakeholders(ctx context.Context) ([]string, error) {
	out, err := a.call(ctx, nil, "getStakeholders")
	if err != nil {
		return nil, err
	}

	return addressStrings(*abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)), nil
}

func (a *Agreement) ActiveConditions(ctx context.Context) ([]agreement.ConditionDetails, error) {
	out, err := a.call(ctx, nil, "getAllActiveConditions")
	if err != nil {
		return nil, err
	}

	views := *abi.ConvertType(out[0], new([]sc.ConditionView)).(*[]sc.ConditionView)

	conds := make([]agreement.ConditionDetails, 0, len(views))
	for _, v := range views {
		conds = append(conds, conditionDetails(v))
	}

	return conds, nil
}

// ConditionDetails reads a condition as seen by from.
func (a *Agreement) ConditionDetails(ctx context.Context, key, from string) (agreement.ConditionDetails, error) {
	out, err := a.call(ctx, fromPtr(from), "getConditionDetails", key)
	if err != nil {
		return agreement.ConditionDetails{}, err
	}

	v := *abi.ConvertType(out[0], new(sc.ConditionView)).(*sc.ConditionView)

	return conditionDetails(v), nil
}

func (a *Agreement) Approvers(ctx context.Context, key string) ([]string, error) {
	out, err := a.call(ctx, nil, "getApprovers", key)
	if err != nil {
		return nil, err
	}

	return addressStrings(*abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)), nil
}

func (a *Agreement) Rejectors(ctx context.Context, key string) ([]string, error) {
	out, err := a.call(ctx, nil, "getRejectors", key)
	if err != nil {
		return nil, err
	}

	return addressStrings(*abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)), nil
}

// PendingActionsByType reads the pending actions of one type as seen by from.
// Entries with an action type the contract does not define are dropped.
func (a *Agreement) PendingActionsByType(ctx context.Context, t agreement.ActionType, from string) ([]agreement.PendingAction, error) {
	out, err := a.call(ctx, fromPtr(from), "getPendingActionsByType", uint8(t))
	if err != nil {
		return nil, err
	}

	views := *abi.ConvertType(out[0], new([]sc.ActionView)).(*[]sc.ActionView)

	actions := make([]agreement.PendingAction, 0, len(views))
	for _, v := range views {
		at, err := agreement.ParseActionType(v.ActionType)
		if err != nil {
			continue
		}

		actions = append(actions, agreement.PendingAction{
			ActionID:       common.Hash(v.ActionId).Hex(),
			ActionType:     at,
			Key:            v.Key,
			ApprovalCount:  v.ApprovalCount,
			RejectionCount: v.RejectionCount,
			Status:         agreement.ActionStatus(v.Status),
			HasVoted:       v.HasVoted,
			UserApproved:   v.UserApproved,
		})
	}

	return actions, nil
}

func (a *Agreement) ActionVoters(ctx context.Context, actionID, from string) (agreement.Voters, error) {
	id, err := ParseID(actionID)
	if err != nil {
		return agreement.Voters{}, err
	}

	out, err := a.call(ctx, fromPtr(from), "getActionVotersList", id)
	if err != nil {
		return agreement.Voters{}, err
	}
	if len(out) < 2 {
		return agreement.Voters{}, nil
	}

	return agreement.Voters{
		Approvers: addressStrings(*abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)),
		Rejectors: addressStrings(*abi.ConvertType(out[1], new([]common.Address)).(*[]common.Address)),
	}, nil
}

func (a *Agreement) CreateAction(t agreement.ActionType, key string) (*PreparedCall, error) {
	return a.prepare("createAction", uint8(t), key)
}

func (a *Agreement) AddCondition(key, value string) (*PreparedCall, error) {
	return a.prepare("addCondition", key, value)
}

func (a *Agreement) ApproveCondition(conditionID string, approved bool) (*PreparedCall, error) {
	id, err := ParseID(conditionID)
	if err != nil {
		return nil, err
	}

	return a.prepare("approveCondition", id, approved)
}

func (a *Agreement) VoteOnAction(actionID string, approved bool) (*PreparedCall, error) {
	id, err := ParseID(actionID)
	if err != nil {
		return nil, err
	}

	return a.prepare("voteOnAction", id, approved)
}

func conditionDetails(v sc.ConditionView) agreement.ConditionDetails {
	return agreement.ConditionDetails{
		Key:                v.Key,
		Value:              v.Value,
		Active:             agreement.ConditionActivity(v.Active),
		ApprovalCount:      v.ApprovalCount,
		RejectionCount:     v.RejectionCount,
		TotalRequired:      v.TotalRequired,
		UserApprovalStatus: agreement.VoteStatus(v.UserApprovalStatus),
	}
}

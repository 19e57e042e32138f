package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agreementchain/agreements/internal/services/gateway"
	"github.com/agreementchain/agreements/internal/services/txsend"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/agreementchain/agreements/pkg/feedback"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	OpAddStakeholder    = "add_stakeholder"
	OpRemoveStakeholder = "remove_stakeholder"
	OpAddCondition      = "add_condition"
	OpRemoveCondition   = "remove_condition"
	OpVoteAction        = "vote_action"
	OpVoteCondition     = "vote_condition"
	OpChangeState       = "change_state"
	OpCreateAgreement   = "create_agreement"
)

const (
	msgStakeholderRequest = "Stakeholder Request added successfully."
	msgConditionRequest   = "Condition Request added Successfully"
	msgConditionRemove    = "Condition Remove request added successfully"
	msgVoted              = "Voted Successfully"
	msgCreated            = "Contract created successfully."
)

// Watcher is told about agreements deployed through CreateAgreement.
type Watcher interface {
	Watch(addr common.Address)
}

// Result is the outcome of a write. Without a sender the write is not
// submitted and Prepared holds the call to sign elsewhere.
type Result struct {
	Notification *feedback.Notification `json:"notification,omitempty"`
	Prepared     *gateway.PreparedCall  `json:"prepared,omitempty"`
	Agreement    string                 `json:"agreement,omitempty"`
}

func (r *Result) OK() bool {
	return r.Notification == nil || r.Notification.OK()
}

type Actions struct {
	evm     agreement.EVMReader
	factory *gateway.Factory
	sender  txsend.Sender
	tracker *feedback.Tracker
	watcher Watcher

	now func() time.Time
}

// New returns the write operations. sender may be nil.
func New(evm agreement.EVMReader, factory *gateway.Factory, sender txsend.Sender, tracker *feedback.Tracker, w Watcher) *Actions {
	return &Actions{
		evm:     evm,
		factory: factory,
		sender:  sender,
		tracker: tracker,
		watcher: w,
		now:     time.Now,
	}
}

func (a *Actions) CanSubmit() bool {
	return a.sender != nil
}

func (a *Actions) reject(contract, name string, err error) *Result {
	if errors.Is(err, gateway.ErrInvalidID) || errors.Is(err, agreement.ErrInvalidActionType) {
		err = &agreement.ValidationError{Message: err.Error()}
	}

	n := a.tracker.Reject(feedback.Operation{Contract: contract, Name: name}, err)
	return &Result{Notification: &n}
}

// run submits call through the tracker, or returns it when there is no
// sender. onMined sees the receipt of a successful write.
func (a *Actions) run(ctx context.Context, contract, name, success string, call *gateway.PreparedCall, onMined func(*types.Receipt)) *Result {
	if a.sender == nil {
		return &Result{Prepared: call}
	}

	n := a.tracker.Run(ctx, feedback.Operation{
		Contract: contract,
		Name:     name,
		Success:  success,
		Submit: func(ctx context.Context) (string, error) {
			rcpt, err := a.sender.Send(ctx, call)
			if err != nil {
				return "", err
			}
			if onMined != nil {
				onMined(rcpt)
			}

			return rcpt.TxHash.Hex(), nil
		},
	})

	return &Result{Notification: &n}
}

func (a *Actions) contract(addr common.Address) (*gateway.Agreement, error) {
	return gateway.NewAgreement(a.evm, addr)
}

func (a *Actions) createAction(ctx context.Context, contract common.Address, name, success string, t agreement.ActionType, key string) *Result {
	c, err := a.contract(contract)
	if err != nil {
		return a.reject(contract.Hex(), name, err)
	}

	call, err := c.CreateAction(t, key)
	if err != nil {
		return a.reject(contract.Hex(), name, err)
	}

	return a.run(ctx, contract.Hex(), name, success, call, nil)
}

// AddStakeholder proposes adding a stakeholder.
func (a *Actions) AddStakeholder(ctx context.Context, contract common.Address, stakeholder string) *Result {
	if err := agreement.ValidateStakeholder(stakeholder); err != nil {
		return a.reject(contract.Hex(), OpAddStakeholder, err)
	}

	return a.createAction(ctx, contract, OpAddStakeholder, msgStakeholderRequest, agreement.ActionAdd, common.HexToAddress(stakeholder).Hex())
}

// RemoveStakeholder proposes removing a stakeholder.
func (a *Actions) RemoveStakeholder(ctx context.Context, contract common.Address, stakeholder string) *Result {
	if err := agreement.ValidateStakeholder(stakeholder); err != nil {
		return a.reject(contract.Hex(), OpRemoveStakeholder, err)
	}

	return a.createAction(ctx, contract, OpRemoveStakeholder, msgStakeholderRequest, agreement.ActionRemove, common.HexToAddress(stakeholder).Hex())
}

// RemoveCondition proposes removing the condition with key.
func (a *Actions) RemoveCondition(ctx context.Context, contract common.Address, key string) *Result {
	if err := agreement.ValidateConditionRemoval(key); err != nil {
		return a.reject(contract.Hex(), OpRemoveCondition, err)
	}

	return a.createAction(ctx, contract, OpRemoveCondition, msgConditionRemove, agreement.ActionConditionRemove, key)
}

// ChangeState proposes pausing, resuming or cancelling the agreement.
func (a *Actions) ChangeState(ctx context.Context, contract common.Address, t agreement.ActionType) *Result {
	if !t.IsStateChange() {
		return a.reject(contract.Hex(), OpChangeState, fmt.Errorf("%w: %s is not a state change", agreement.ErrInvalidActionType, t.Label()))
	}

	success := fmt.Sprintf("%s Request added successfully.", t.Label())

	return a.createAction(ctx, contract, OpChangeState, success, t, agreement.StateChangeKey(t, a.now()))
}

func (a *Actions) AddCondition(ctx context.Context, contract common.Address, key, value string) *Result {
	if err := agreement.ValidateCondition(key, value); err != nil {
		return a.reject(contract.Hex(), OpAddCondition, err)
	}

	c, err := a.contract(contract)
	if err != nil {
		return a.reject(contract.Hex(), OpAddCondition, err)
	}

	call, err := c.AddCondition(key, value)
	if err != nil {
		return a.reject(contract.Hex(), OpAddCondition, err)
	}

	return a.run(ctx, contract.Hex(), OpAddCondition, msgConditionRequest, call, nil)
}

// VoteOnAction approves or rejects a pending proposal.
func (a *Actions) VoteOnAction(ctx context.Context, contract common.Address, actionID string, approved bool) *Result {
	c, err := a.contract(contract)
	if err != nil {
		return a.reject(contract.Hex(), OpVoteAction, err)
	}

	call, err := c.VoteOnAction(actionID, approved)
	if err != nil {
		return a.reject(contract.Hex(), OpVoteAction, err)
	}

	return a.run(ctx, contract.Hex(), OpVoteAction, msgVoted, call, nil)
}

// VoteOnCondition approves or rejects a pending condition.
func (a *Actions) VoteOnCondition(ctx context.Context, contract common.Address, conditionID string, approved bool) *Result {
	c, err := a.contract(contract)
	if err != nil {
		return a.reject(contract.Hex(), OpVoteCondition, err)
	}

	call, err := c.ApproveCondition(conditionID, approved)
	if err != nil {
		return a.reject(contract.Hex(), OpVoteCondition, err)
	}

	return a.run(ctx, contract.Hex(), OpVoteCondition, msgVoted, call, nil)
}

// CreateAgreement deploys a new agreement through the factory. The new
// agreement is watched once mined.
func (a *Actions) CreateAgreement(ctx context.Context, req *agreement.CreateRequest) *Result {
	contract := a.factory.Address().Hex()

	if err := req.Validate(); err != nil {
		return a.reject(contract, OpCreateAgreement, err)
	}

	call, err := a.factory.CreateAgreement(req)
	if err != nil {
		return a.reject(contract, OpCreateAgreement, err)
	}

	var created common.Address
	res := a.run(ctx, contract, OpCreateAgreement, msgCreated, call, func(rcpt *types.Receipt) {
		addr, ok := a.factory.CreatedAgreement(rcpt)
		if !ok {
			return
		}

		created = addr
		if a.watcher != nil {
			a.watcher.Watch(addr)
		}
	})

	if created != (common.Address{}) {
		res.Agreement = created.Hex()
	}

	return res
}

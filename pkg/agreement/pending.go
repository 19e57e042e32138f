package agreement

import (
	"math/big"
	"time"
)

// PendingAction is one entry of getPendingActionsByType, as seen by the
// reading account.
type PendingAction struct {
	ActionID       string       `json:"action_id"`
	ActionType     ActionType   `json:"action_type"`
	Key            string       `json:"key"`
	ApprovalCount  *big.Int     `json:"approval_count"`
	RejectionCount *big.Int     `json:"rejection_count"`
	Status         ActionStatus `json:"status"`
	HasVoted       bool         `json:"has_voted"`
	UserApproved   bool         `json:"user_approved"`
}

// Vote reports the reading account's vote on the action.
func (p PendingAction) Vote() VoteStatus {
	if !p.HasVoted {
		return VoteNone
	}
	if p.UserApproved {
		return VoteApproved
	}

	return VoteRejected
}

// MergedItem is a pending action joined with the transaction that created it.
// TransactionHash is empty while the creating event has not been observed.
type MergedItem struct {
	PendingAction
	Label           string `json:"label"`
	TransactionHash string `json:"transaction_hash,omitempty"`
}

func (m MergedItem) HasTransaction() bool {
	return m.TransactionHash != ""
}

type Condition struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ConditionDetails mirrors the condition view struct of the agreement.
type ConditionDetails struct {
	Key                string            `json:"key"`
	Value              string            `json:"value"`
	Active             ConditionActivity `json:"active"`
	ApprovalCount      *big.Int          `json:"approval_count"`
	RejectionCount     *big.Int          `json:"rejection_count"`
	TotalRequired      *big.Int          `json:"total_required"`
	UserApprovalStatus VoteStatus        `json:"user_approval_status"`
}

// PendingCondition is a condition addition still waiting for votes.
type PendingCondition struct {
	ConditionID     string           `json:"condition_id"`
	Details         ConditionDetails `json:"details"`
	TransactionHash string           `json:"transaction_hash,omitempty"`
}

type Voters struct {
	Approvers []string `json:"approvers"`
	Rejectors []string `json:"rejectors"`
}

// TxOrigin is who sent a transaction and when it was mined.
type TxOrigin struct {
	TransactionHash string     `json:"transaction_hash"`
	From            string     `json:"from"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
}

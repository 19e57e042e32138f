package views

import (
	"context"

	"github.com/agreementchain/agreements/internal/services/gateway"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

type RequestDetailsView struct {
	Contract  string              `json:"contract"`
	ActionID  string              `json:"action_id"`
	Approvers []string            `json:"approvers"`
	Rejectors []string            `json:"rejectors"`
	Origin    *agreement.TxOrigin `json:"origin,omitempty"`
	Loading   bool                `json:"loading"`
}

// RequestDetails shows who voted on a proposal and who created it. When
// txHash is empty it is looked up in the contract's events.
func (v *Views) RequestDetails(ctx context.Context, addr common.Address, actionID, txHash, account string) (*RequestDetailsView, error) {
	// events carry lower case ids
	if id, err := gateway.ParseID(actionID); err == nil {
		actionID = common.Hash(id).Hex()
	}

	view := &RequestDetailsView{
		Contract:  addr.Hex(),
		ActionID:  actionID,
		Approvers: []string{},
		Rejectors: []string{},
	}

	a, err := v.agreement(addr)
	if err != nil {
		v.readFailed(ctx, "request_details", err)
		view.Loading = true
		return view, nil
	}

	if txHash == "" {
		txHash = v.eventHash(ctx, addr, func(ev agreement.EventRecord) bool {
			return ev.Kind == agreement.EventActionCreated && ev.ActionID == actionID
		})
	}

	var voters agreement.Voters
	var origin *agreement.TxOrigin

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		voters, err = a.ActionVoters(gctx, actionID, account)
		if err != nil {
			v.readFailed(gctx, "request_details", err)
			view.Loading = true
		}
		return nil
	})
	g.Go(func() error {
		origin = v.origin(gctx, "request_details", txHash)
		return nil
	})
	g.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if voters.Approvers != nil {
		view.Approvers = voters.Approvers
	}
	if voters.Rejectors != nil {
		view.Rejectors = voters.Rejectors
	}

	view.Origin = origin
	if origin == nil || origin.Timestamp == nil {
		view.Loading = true
	}

	return view, nil
}

type ConditionVotersView struct {
	Contract  string              `json:"contract"`
	Key       string              `json:"key"`
	Approvers []string            `json:"approvers"`
	Rejectors []string            `json:"rejectors"`
	Origin    *agreement.TxOrigin `json:"origin,omitempty"`
	Loading   bool                `json:"loading"`
}

// ConditionVoters shows who voted on a condition and who proposed it.
func (v *Views) ConditionVoters(ctx context.Context, addr common.Address, key, txHash string) (*ConditionVotersView, error) {
	view := &ConditionVotersView{
		Contract:  addr.Hex(),
		Key:       key,
		Approvers: []string{},
		Rejectors: []string{},
	}

	a, err := v.agreement(addr)
	if err != nil {
		v.readFailed(ctx, "condition_voters", err)
		view.Loading = true
		return view, nil
	}

	if txHash == "" {
		txHash = v.eventHash(ctx, addr, func(ev agreement.EventRecord) bool {
			return ev.Kind == agreement.EventConditionAdded && ev.Key == key
		})
	}

	var approvers, rejectors []string
	var origin *agreement.TxOrigin

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		approvers, err = a.Approvers(gctx, key)
		if err != nil {
			v.readFailed(gctx, "condition_voters", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rejectors, err = a.Rejectors(gctx, key)
		if err != nil {
			v.readFailed(gctx, "condition_voters", err)
		}
		return nil
	})
	g.Go(func() error {
		origin = v.origin(gctx, "condition_voters", txHash)
		return nil
	})
	g.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if approvers != nil {
		view.Approvers = approvers
	} else {
		view.Loading = true
	}
	if rejectors != nil {
		view.Rejectors = rejectors
	} else {
		view.Loading = true
	}

	view.Origin = origin
	if origin == nil || origin.Timestamp == nil {
		view.Loading = true
	}

	return view, nil
}

// eventHash returns the transaction hash of the last matching event.
func (v *Views) eventHash(ctx context.Context, addr common.Address, match func(agreement.EventRecord) bool) string {
	s, _ := v.snapshot(ctx, "events", addr)

	hash := ""
	for _, ev := range s.Events {
		if match(ev) {
			hash = ev.TransactionHash
		}
	}

	return hash
}

// origin reads the sender and mining time of a transaction. It returns nil
// when the hash is unknown.
func (v *Views) origin(ctx context.Context, view, txHash string) *agreement.TxOrigin {
	if txHash == "" {
		return nil
	}

	hash := common.HexToHash(txHash)

	tx, _, err := v.evm.TransactionByHash(ctx, hash)
	if err != nil {
		v.readFailed(ctx, view, err)
		return nil
	}

	from, err := v.evm.TransactionSender(ctx, tx)
	if err != nil {
		v.readFailed(ctx, view, err)
		return nil
	}

	o := &agreement.TxOrigin{
		TransactionHash: hash.Hex(),
		From:            from.Hex(),
	}

	rcpt, err := v.evm.TransactionReceipt(ctx, hash)
	if err != nil {
		v.readFailed(ctx, view, err)
		return o
	}

	o.Timestamp = v.blockTime(ctx, view, rcpt.BlockNumber.Uint64())

	return o
}

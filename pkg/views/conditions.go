package views

import (
	"context"

	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

type ConditionsView struct {
	Contract  string                       `json:"contract"`
	Account   string                       `json:"account,omitempty"`
	Additions []agreement.PendingCondition `json:"additions"`
	Removals  []agreement.MergedItem       `json:"removals"`
	Loading   bool                         `json:"loading"`
}

// PendingConditions lists condition additions still waiting for votes and
// open condition removal proposals.
func (v *Views) PendingConditions(ctx context.Context, addr common.Address, account string) (*ConditionsView, error) {
	view := &ConditionsView{
		Contract:  addr.Hex(),
		Account:   account,
		Additions: []agreement.PendingCondition{},
		Removals:  []agreement.MergedItem{},
	}

	a, err := v.agreement(addr)
	if err != nil {
		v.readFailed(ctx, "conditions", err)
		view.Loading = true
		return view, nil
	}

	s, fresh := v.snapshot(ctx, "conditions", addr)
	view.Loading = !fresh

	added := agreement.Dedup(agreement.FilterKind(s.Events, agreement.EventConditionAdded))
	details := make([]*agreement.ConditionDetails, len(added))

	var removals []agreement.MergedItem
	var removalsOK bool

	g, gctx := errgroup.WithContext(ctx)
	for i, ev := range added {
		g.Go(func() error {
			d, err := a.ConditionDetails(gctx, ev.Key, account)
			if err != nil {
				v.readFailed(gctx, "conditions", err)
				return nil
			}

			details[i] = &d
			return nil
		})
	}
	g.Go(func() error {
		removals, removalsOK = v.merged(gctx, "conditions", addr, account, []agreement.ActionType{agreement.ActionConditionRemove}, s.Events)
		return nil
	})
	g.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	for i, ev := range added {
		d := details[i]
		if d == nil {
			view.Loading = true
			continue
		}
		if d.Active != agreement.ConditionPending {
			continue
		}

		view.Additions = append(view.Additions, agreement.PendingCondition{
			ConditionID:     ev.ActionID,
			Details:         *d,
			TransactionHash: ev.TransactionHash,
		})
	}

	if !removalsOK {
		view.Loading = true
	}
	view.Removals = removals

	return view, nil
}

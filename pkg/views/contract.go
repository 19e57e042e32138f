package views

import (
	"context"
	"math/big"
	"time"

	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

type ContractView struct {
	Address      string                       `json:"address"`
	Title        string                       `json:"title"`
	Description  string                       `json:"description"`
	State        agreement.State              `json:"state"`
	StateLabel   string                       `json:"state_label"`
	Stakeholders []string                     `json:"stakeholders"`
	Conditions   []agreement.ConditionDetails `json:"conditions"`
	Creation     *agreement.AgreementCreated  `json:"creation,omitempty"`
	CreatedAt    *time.Time                   `json:"created_at,omitempty"`
	Loading      bool                         `json:"loading"`
}

// Contract builds the agreement info view.
func (v *Views) Contract(ctx context.Context, addr common.Address) (*ContractView, error) {
	view := &ContractView{
		Address:      addr.Hex(),
		StateLabel:   agreement.StatePendingApproval.Label(),
		Stakeholders: []string{},
		Conditions:   []agreement.ConditionDetails{},
	}

	a, err := v.agreement(addr)
	if err != nil {
		v.readFailed(ctx, "contract", err)
		view.Loading = true
		return view, nil
	}

	data, known := v.directory.Get(addr)

	g, gctx := errgroup.WithContext(ctx)
	if !known {
		g.Go(func() (err error) {
			data.Title, err = a.Title(gctx)
			if err != nil {
				return
			}
			data.Description, err = a.Description(gctx)
			return
		})
	}
	g.Go(func() (err error) {
		view.State, err = a.CurrentState(gctx)
		return
	})
	g.Go(func() (err error) {
		view.Stakeholders, err = a.Stakeholders(gctx)
		return
	})
	g.Go(func() (err error) {
		view.Conditions, err = a.ActiveConditions(gctx)
		return
	})

	err = g.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		v.readFailed(ctx, "contract", err)
		view.Loading = true
	}
	if !known && err == nil {
		v.directory.Set(addr, data)
	}

	if view.Stakeholders == nil {
		view.Stakeholders = []string{}
	}
	if view.Conditions == nil {
		view.Conditions = []agreement.ConditionDetails{}
	}

	view.Title = data.Title
	view.Description = data.Description
	view.StateLabel = view.State.Label()

	s, fresh := v.snapshot(ctx, "contract", addr)
	if !fresh {
		view.Loading = true
	}

	if created, ok := s.Creation(); ok {
		view.Creation = &created
		view.CreatedAt = v.blockTime(ctx, "contract", created.BlockNumber)
	}

	return view, nil
}

func (v *Views) blockTime(ctx context.Context, view string, block uint64) *time.Time {
	ts, err := v.evm.BlockTime(ctx, new(big.Int).SetUint64(block))
	if err != nil {
		v.readFailed(ctx, view, err)
		return nil
	}

	t := time.Unix(int64(ts), 0).UTC()
	return &t
}

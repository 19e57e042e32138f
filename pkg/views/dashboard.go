package views

import (
	"context"
	"math/big"

	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

type Card struct {
	Address           string          `json:"address"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	TotalStakeholders *big.Int        `json:"total_stakeholders"`
	State             agreement.State `json:"state"`
	StateLabel        string          `json:"state_label"`
	Loading           bool            `json:"loading"`
}

type DashboardView struct {
	Wallet     string `json:"wallet"`
	Agreements []Card `json:"agreements"`
	Loading    bool   `json:"loading"`
}

// Dashboard lists the agreements the wallet is a stakeholder of. Listed
// contracts are added to the watcher.
func (v *Views) Dashboard(ctx context.Context, wallet common.Address) (*DashboardView, error) {
	view := &DashboardView{
		Wallet:     wallet.Hex(),
		Agreements: []Card{},
	}

	addrs, err := v.factory.StakeholderAgreements(ctx, wallet)
	if err != nil {
		v.readFailed(ctx, "dashboard", err)
		view.Loading = true
		return view, ctx.Err()
	}

	cards := make([]Card, len(addrs))

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range addrs {
		addr := common.HexToAddress(a)
		v.watcher.Watch(addr)

		g.Go(func() error {
			cards[i] = v.card(gctx, addr)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view.Agreements = cards
	return view, nil
}

func (v *Views) card(ctx context.Context, addr common.Address) Card {
	c := Card{
		Address:    addr.Hex(),
		StateLabel: agreement.StatePendingApproval.Label(),
	}

	a, err := v.agreement(addr)
	if err != nil {
		v.readFailed(ctx, "dashboard", err)
		c.Loading = true
		return c
	}

	var title, desc string
	var total *big.Int
	var state agreement.State

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		title, err = a.Title(gctx)
		return
	})
	g.Go(func() (err error) {
		desc, err = a.Description(gctx)
		return
	})
	g.Go(func() (err error) {
		total, err = a.TotalStakeholders(gctx)
		return
	})
	g.Go(func() (err error) {
		state, err = a.CurrentState(gctx)
		return
	})

	if err := g.Wait(); err != nil {
		v.readFailed(ctx, "dashboard", err)
		c.Loading = true
		return c
	}

	v.directory.Set(addr, ContractData{Title: title, Description: desc})

	c.Title = title
	c.Description = desc
	c.TotalStakeholders = total
	c.State = state
	c.StateLabel = state.Label()

	return c
}

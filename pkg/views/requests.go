package views

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

type Sort string

const (
	SortAsc  Sort = "asc"
	SortDesc Sort = "desc"
)

// ParseSort defaults to ascending.
func ParseSort(s string) (Sort, error) {
	switch Sort(strings.ToLower(s)) {
	case "", SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}

	return SortAsc, fmt.Errorf("invalid sort: %s", s)
}

type RequestsView struct {
	Contract string                 `json:"contract"`
	Account  string                 `json:"account,omitempty"`
	Sort     Sort                   `json:"sort"`
	Items    []agreement.MergedItem `json:"items"`
	Loading  bool                   `json:"loading"`
}

// PendingRequests lists the stakeholder and state change proposals still
// open, each joined with the transaction that created it.
func (v *Views) PendingRequests(ctx context.Context, addr common.Address, account string, sort Sort) (*RequestsView, error) {
	view := &RequestsView{
		Contract: addr.Hex(),
		Account:  account,
		Sort:     sort,
		Items:    []agreement.MergedItem{},
	}

	s, fresh := v.snapshot(ctx, "requests", addr)
	view.Loading = !fresh

	items, ok := v.merged(ctx, "requests", addr, account, agreement.StakeholderRequestTypes(), s.Events)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !ok {
		view.Loading = true
	}

	slices.SortStableFunc(items, func(a, b agreement.MergedItem) int {
		if sort == SortDesc {
			return int(b.ActionType) - int(a.ActionType)
		}
		return int(a.ActionType) - int(b.ActionType)
	})

	view.Items = items
	return view, nil
}

// merged reads the pending actions of every type concurrently and reconciles
// each type with its events. ok is false when a read failed.
func (v *Views) merged(ctx context.Context, view string, addr common.Address, account string, actionTypes []agreement.ActionType, events []agreement.EventRecord) ([]agreement.MergedItem, bool) {
	a, err := v.agreement(addr)
	if err != nil {
		v.readFailed(ctx, view, err)
		return []agreement.MergedItem{}, false
	}

	groups := agreement.GroupByType(events)

	results := make([][]agreement.MergedItem, len(actionTypes))
	failed := make([]bool, len(actionTypes))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range actionTypes {
		g.Go(func() error {
			pending, err := a.PendingActionsByType(gctx, t, account)
			if err != nil {
				v.readFailed(gctx, view, err)
				failed[i] = true
				return nil
			}

			results[i] = agreement.Reconcile(groups[t], pending)
			return nil
		})
	}
	g.Wait()

	items := []agreement.MergedItem{}
	for _, r := range results {
		items = append(items, r...)
	}

	return items, !slices.Contains(failed, true)
}

package agreement

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func pending(id string, t ActionType, approvals int64) PendingAction {
	return PendingAction{
		ActionID:       id,
		ActionType:     t,
		Key:            "k-" + id,
		ApprovalCount:  big.NewInt(approvals),
		RejectionCount: big.NewInt(approvals + 1),
		Status:         ActionStatus(approvals % 3),
		HasVoted:       true,
		UserApproved:   approvals%2 == 0,
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name    string
		events  []EventRecord
		pending []PendingAction
		hashes  []string
	}{
		{
			name:    "single match",
			events:  []EventRecord{{Kind: EventActionCreated, ActionID: "0xa1", Key: "k", TransactionHash: "0xabc"}},
			pending: []PendingAction{pending("0xa1", ActionAdd, 2)},
			hashes:  []string{"0xabc"},
		},
		{
			name:    "no pending",
			events:  []EventRecord{{Kind: EventActionCreated, ActionID: "0xa1", Key: "k", TransactionHash: "0xabc"}},
			pending: nil,
			hashes:  []string{},
		},
		{
			name:    "event missing",
			events:  nil,
			pending: []PendingAction{pending("0xa1", ActionRemove, 0), pending("0xa2", ActionPause, 1)},
			hashes:  []string{"", ""},
		},
		{
			name: "last event wins",
			events: []EventRecord{
				{Kind: EventActionCreated, ActionID: "0xa1", Key: "k1", TransactionHash: "0x01"},
				{Kind: EventActionCreated, ActionID: "0xa1", Key: "k2", TransactionHash: "0x02"},
			},
			pending: []PendingAction{pending("0xa1", ActionAdd, 0)},
			hashes:  []string{"0x02"},
		},
		{
			name: "order follows pending",
			events: []EventRecord{
				{Kind: EventActionCreated, ActionID: "0xa2", TransactionHash: "0x02"},
				{Kind: EventActionCreated, ActionID: "0xa1", TransactionHash: "0x01"},
				{Kind: EventActionCreated, ActionID: "0xff", TransactionHash: "0x0f"},
			},
			pending: []PendingAction{pending("0xa1", ActionAdd, 0), pending("0xa2", ActionCancel, 0)},
			hashes:  []string{"0x01", "0x02"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Reconcile(tt.events, tt.pending)
			if items == nil {
				t.Fatalf("expected non-nil result")
			}
			if len(items) != len(tt.pending) {
				t.Fatalf("expected %d items, got %d", len(tt.pending), len(items))
			}

			for i, item := range items {
				require.Equal(t, tt.pending[i], item.PendingAction, "item %d", i)
				if item.TransactionHash != tt.hashes[i] {
					t.Errorf("item %d: expected hash %q, got %q", i, tt.hashes[i], item.TransactionHash)
				}
				if item.Label != tt.pending[i].ActionType.Label() {
					t.Errorf("item %d: expected label %s, got %s", i, tt.pending[i].ActionType.Label(), item.Label)
				}
				if item.HasTransaction() != (tt.hashes[i] != "") {
					t.Errorf("item %d: HasTransaction mismatch", i)
				}
			}
		})
	}
}

func TestDedup(t *testing.T) {
	events := []EventRecord{
		{ActionID: "0xa1", Key: "k", TransactionHash: "0x01"},
		{ActionID: "0xa1", Key: "k", TransactionHash: "0x02"},
		{ActionID: "0xa1", Key: "j", TransactionHash: "0x03"},
		{ActionID: "0xa2", Key: "k", TransactionHash: "0x04"},
		{ActionID: "0xa2", Key: "k", TransactionHash: "0x05"},
	}

	out := Dedup(events)
	if len(out) != 3 {
		t.Fatalf("expected 3 distinct pairs, got %d", len(out))
	}

	expected := []string{"0x01", "0x03", "0x04"}
	for i, ev := range out {
		if ev.TransactionHash != expected[i] {
			t.Errorf("event %d: expected first occurrence %s, got %s", i, expected[i], ev.TransactionHash)
		}
	}

	// idempotent
	again := Dedup(out)
	if len(again) != len(out) {
		t.Errorf("expected dedup to be idempotent, got %d from %d", len(again), len(out))
	}

	if got := Dedup(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result for nil input")
	}
}

func TestGroupByType(t *testing.T) {
	events := []EventRecord{
		{Kind: EventActionCreated, ActionID: "0xa1", ActionType: ActionAdd, Key: "0x01"},
		{Kind: EventActionCreated, ActionID: "0xa1", ActionType: ActionAdd, Key: "0x01"},
		{Kind: EventActionCreated, ActionID: "0xa2", ActionType: ActionPause, Key: "Pause - now"},
		{Kind: EventConditionAdded, ActionID: "0xc1", Key: "Country", Value: "BE"},
	}

	groups := GroupByType(events)
	if len(groups[ActionAdd]) != 1 {
		t.Errorf("expected 1 add event, got %d", len(groups[ActionAdd]))
	}
	if len(groups[ActionPause]) != 1 {
		t.Errorf("expected 1 pause event, got %d", len(groups[ActionPause]))
	}
	if len(groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(groups))
	}

	conds := FilterKind(events, EventConditionAdded)
	if len(conds) != 1 || conds[0].ActionID != "0xc1" {
		t.Errorf("expected the condition event, got %v", conds)
	}
}

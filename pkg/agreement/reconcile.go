package agreement

import "github.com/samber/lo"

// Reconcile joins the authoritative pending actions with the events that
// created them. The output has one item per pending action, in the same
// order. When several events share an action id the last one wins. Events
// without a pending action are dropped.
func Reconcile(events []EventRecord, pending []PendingAction) []MergedItem {
	hashes := make(map[string]string, len(events))
	for _, ev := range events {
		hashes[ev.ActionID] = ev.TransactionHash
	}

	items := make([]MergedItem, 0, len(pending))
	for _, pa := range pending {
		items = append(items, MergedItem{
			PendingAction:   pa,
			Label:           pa.ActionType.Label(),
			TransactionHash: hashes[pa.ActionID],
		})
	}

	return items
}

// Dedup removes repeated (ActionID, Key) pairs, keeping the first occurrence.
func Dedup(events []EventRecord) []EventRecord {
	seen := make(map[eventKey]struct{}, len(events))

	out := make([]EventRecord, 0, len(events))
	for _, ev := range events {
		k := ev.dedupKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}

		out = append(out, ev)
	}

	return out
}

// GroupByType deduplicates ActionCreated events and groups them by action type.
func GroupByType(events []EventRecord) map[ActionType][]EventRecord {
	actions := lo.Filter(Dedup(events), func(ev EventRecord, _ int) bool {
		return ev.Kind == EventActionCreated
	})

	return lo.GroupBy(actions, func(ev EventRecord) ActionType {
		return ev.ActionType
	})
}

// FilterKind returns the events of one kind, preserving order.
func FilterKind(events []EventRecord, kind EventKind) []EventRecord {
	return lo.Filter(events, func(ev EventRecord, _ int) bool {
		return ev.Kind == kind
	})
}

package agreement

// State is the value returned by currentState().
type State uint8

const (
	StatePendingApproval State = iota
	StateActive
	StateCancelled
	StatePaused
)

func (s State) Label() string {
	switch s {
	case StatePendingApproval:
		return "PendingApproval"
	case StateActive:
		return "Active"
	case StateCancelled:
		return "Cancelled"
	case StatePaused:
		return "Paused"
	}

	return "Pending Approval"
}

// ConditionActivity is the active field of a condition view.
type ConditionActivity uint8

const (
	ConditionPending ConditionActivity = iota
	ConditionActive
)

// VoteStatus is how the reading account has voted on a proposal.
type VoteStatus uint8

const (
	VoteNone VoteStatus = iota
	VoteApproved
	VoteRejected
)

func (v VoteStatus) String() string {
	switch v {
	case VoteApproved:
		return "approved"
	case VoteRejected:
		return "rejected"
	}

	return "none"
}

// ActionStatus is the status field of a pending action.
type ActionStatus uint8

const (
	ActionStatusPending ActionStatus = iota
	ActionStatusApproved
	ActionStatusRejected
)

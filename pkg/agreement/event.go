package agreement

// EventKind identifies which contract event an EventRecord was decoded from.
type EventKind string

const (
	EventActionCreated    EventKind = "ActionCreated"
	EventConditionAdded   EventKind = "ConditionAdded"
	EventAgreementCreated EventKind = "AgreementCreated"
)

// EventRecord is one observed log entry. Records are immutable and unique by
// (ActionID, Key).
//
// For AgreementCreated, Key holds the agreement address, Value the creator and
// ActionID is empty. For ConditionAdded, ActionID holds the condition id.
type EventRecord struct {
	Kind            EventKind  `json:"kind"`
	Contract        string     `json:"contract"`
	ActionID        string     `json:"action_id"`
	ActionType      ActionType `json:"action_type"`
	Key             string     `json:"key"`
	Value           string     `json:"value,omitempty"`
	TransactionHash string     `json:"transaction_hash"`
	BlockNumber     uint64     `json:"block_number"`
	LogIndex        uint       `json:"log_index"`
}

type eventKey struct {
	actionID string
	key      string
}

func (e EventRecord) dedupKey() eventKey {
	return eventKey{e.ActionID, e.Key}
}

// AgreementCreated is the factory event that deployed an agreement.
type AgreementCreated struct {
	Agreement       string `json:"agreement"`
	Creator         string `json:"creator"`
	TransactionHash string `json:"transaction_hash"`
	BlockNumber     uint64 `json:"block_number"`
}

// Creation returns the AgreementCreated event among evs, if any.
func Creation(evs []EventRecord) (AgreementCreated, bool) {
	for _, ev := range evs {
		if ev.Kind != EventAgreementCreated {
			continue
		}

		return AgreementCreated{
			Agreement:       ev.Key,
			Creator:         ev.Value,
			TransactionHash: ev.TransactionHash,
			BlockNumber:     ev.BlockNumber,
		}, true
	}

	return AgreementCreated{}, false
}

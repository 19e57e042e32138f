package agreement

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ActionType is the action code understood by createAction(uint8,string).
type ActionType uint8

const (
	ActionAdd ActionType = iota
	ActionRemove
	ActionConditionRemove
	ActionPause
	ActionResume
	ActionCancel
)

var ErrInvalidActionType = errors.New("invalid action type")

// Param describes the key that a createAction call of a given type carries.
type Param string

const (
	ParamAddress      Param = "address"
	ParamConditionKey Param = "condition_key"
	ParamNone         Param = ""
)

// ParseActionType rejects any code that the agreement contract does not define.
func ParseActionType(code uint8) (ActionType, error) {
	if code > uint8(ActionCancel) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidActionType, code)
	}

	return ActionType(code), nil
}

// ParseStateAction maps pause, resume and cancel to their action type.
func ParseStateAction(s string) (ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pause":
		return ActionPause, nil
	case "resume":
		return ActionResume, nil
	case "cancel":
		return ActionCancel, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrInvalidActionType, s)
}

func (t ActionType) Label() string {
	switch t {
	case ActionAdd:
		return "Add"
	case ActionRemove:
		return "Remove"
	case ActionConditionRemove:
		return "ConditionRemove"
	case ActionPause:
		return "Pause"
	case ActionResume:
		return "Resume"
	case ActionCancel:
		return "Cancel"
	}

	return "Unknown"
}

// Param returns what the key of a createAction call must hold for this type.
func (t ActionType) Param() Param {
	switch t {
	case ActionAdd, ActionRemove:
		return ParamAddress
	case ActionConditionRemove:
		return ParamConditionKey
	}

	return ParamNone
}

func (t ActionType) IsStateChange() bool {
	return t == ActionPause || t == ActionResume || t == ActionCancel
}

func (t ActionType) String() string {
	return t.Label()
}

// StakeholderRequestTypes are the types listed in the stakeholder requests view.
func StakeholderRequestTypes() []ActionType {
	return []ActionType{ActionAdd, ActionRemove, ActionPause, ActionResume, ActionCancel}
}

// StateChangeKey builds the key used for pause, resume and cancel proposals.
func StateChangeKey(t ActionType, now time.Time) string {
	return fmt.Sprintf("%s - %s", t.Label(), now.Format("1/2/2006, 3:04:05 PM"))
}

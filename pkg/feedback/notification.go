package feedback

import (
	"time"

	"github.com/google/uuid"
)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantFailure Variant = "failure"
)

// Notification is the outcome of one write, shown once to the user.
type Notification struct {
	ID              string    `json:"id"`
	Variant         Variant   `json:"variant"`
	Message         string    `json:"message"`
	TransactionHash string    `json:"transaction_hash,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func Success(msg, txHash string) Notification {
	return Notification{
		ID:              uuid.NewString(),
		Variant:         VariantSuccess,
		Message:         msg,
		TransactionHash: txHash,
		CreatedAt:       time.Now().UTC(),
	}
}

// Failure builds a failure notification from err using Reason.
func Failure(err error) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Variant:   VariantFailure,
		Message:   Reason(err),
		CreatedAt: time.Now().UTC(),
	}
}

func (n Notification) OK() bool {
	return n.Variant == VariantSuccess
}

package agreement

import (
	"errors"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
)

const (
	ConditionKeyWorth   = "Contract Worth"
	ConditionKeyCountry = "Country"
)

var ErrValidation = errors.New("validation failed")

// ValidationError carries a message meant to be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// CreateRequest is the form behind createAgreement on the factory.
type CreateRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Stakeholders    []string `json:"stakeholders"`
	Amount          string   `json:"amount"`
	Country         string   `json:"country"`
	ConditionKeys   []string `json:"condition_keys"`
	ConditionValues []string `json:"condition_values"`
}

func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" ||
		strings.TrimSpace(r.Description) == "" ||
		len(r.Stakeholders) == 0 ||
		strings.TrimSpace(r.Country) == "" {
		return invalid("Please fill in all required fields.")
	}

	if len(r.ConditionKeys) != len(r.ConditionValues) {
		return invalid("Please fill out Condition Values")
	}

	for _, s := range r.Stakeholders {
		if !common.IsHexAddress(s) {
			return invalid("Invalid stakeholder address: " + s)
		}
	}

	return nil
}

// Conditions returns the condition keys and values to submit, with the
// amount and country appended as regular conditions.
func (r *CreateRequest) Conditions() ([]string, []string) {
	keys := append([]string{}, r.ConditionKeys...)
	values := append([]string{}, r.ConditionValues...)

	if r.Amount != "" {
		keys = append(keys, ConditionKeyWorth)
		values = append(values, r.Amount)
	}

	keys = append(keys, ConditionKeyCountry)
	values = append(values, r.Country)

	return keys, values
}

// StakeholderAddresses returns the stakeholders as checksummed addresses.
func (r *CreateRequest) StakeholderAddresses() []common.Address {
	addrs := make([]common.Address, 0, len(r.Stakeholders))
	for _, s := range r.Stakeholders {
		addrs = append(addrs, common.HexToAddress(s))
	}

	return addrs
}

// ParseStakeholders splits pasted text on whitespace and commas.
func ParseStakeholders(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// ValidateStakeholder checks the address of an add or remove request.
func ValidateStakeholder(addr string) error {
	if !common.IsHexAddress(addr) {
		return invalid("Please provide a valid stakeholder address.")
	}

	return nil
}

// ValidateCondition checks the key and value of a new condition.
func ValidateCondition(key, value string) error {
	if key == "" || value == "" {
		return invalid("Please provide both key and value for the condition.")
	}

	return nil
}

// ValidateConditionRemoval checks that a condition was picked for removal.
func ValidateConditionRemoval(key string) error {
	if key == "" {
		return invalid("Please select a condition to remove")
	}

	return nil
}

package gateway

import (
	"context"

	"github.com/agreementchain/agreements/internal/sc"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Factory is the agreement factory contract.
type Factory struct {
	contract
}

func NewFactory(evm agreement.EVMReader, addr common.Address) (*Factory, error) {
	f, err := sc.FactoryABI()
	if err != nil {
		return nil, err
	}

	return &Factory{contract{evm: evm, abi: f, address: addr}}, nil
}

func (f *Factory) Address() common.Address {
	return f.address
}

// StakeholderAgreements lists the agreements a wallet takes part in.
func (f *Factory) StakeholderAgreements(ctx context.Context, stakeholder common.Address) ([]string, error) {
	out, err := f.call(ctx, nil, "getStakeholderAgreements", stakeholder)
	if err != nil {
		return nil, err
	}

	return addressStrings(*abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)), nil
}

func (f *Factory) CreateAgreement(req *agreement.CreateRequest) (*PreparedCall, error) {
	keys, values := req.Conditions()

	return f.prepare("createAgreement", req.Title, req.Description, req.StakeholderAddresses(), keys, values)
}

// CreatedAgreement finds the address of the agreement deployed by a
// createAgreement receipt.
func (f *Factory) CreatedAgreement(receipt *types.Receipt) (common.Address, bool) {
	for _, l := range receipt.Logs {
		if l.Address != f.address || len(l.Topics) < 2 || l.Topics[0] != sc.FactoryAgreementCreatedID {
			continue
		}

		return common.BytesToAddress(l.Topics[1].Bytes()), true
	}

	return common.Address{}, false
}

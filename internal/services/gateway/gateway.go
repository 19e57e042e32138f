package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var ErrInvalidID = errors.New("invalid id")

// PreparedCall is an encoded contract write, ready to be signed by whoever
// holds the key.
type PreparedCall struct {
	To     common.Address `json:"to"`
	Data   hexutil.Bytes  `json:"data"`
	Method string         `json:"method"`
}

type contract struct {
	evm     agreement.EVMReader
	abi     *abi.ABI
	address common.Address
}

func (c *contract) call(ctx context.Context, from *common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}
	if from != nil {
		msg.From = *from
	}

	res, err := c.evm.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.address.Hex(), method, err)
	}

	out, err := c.abi.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}

	return out, nil
}

func (c *contract) prepare(method string, args ...interface{}) (*PreparedCall, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	return &PreparedCall{
		To:     c.address,
		Data:   data,
		Method: method,
	}, nil
}

// ParseID decodes a 32 byte action or condition id.
func ParseID(id string) ([32]byte, error) {
	b, err := hexutil.Decode(id)
	if err != nil || len(b) != 32 {
		return [32]byte{}, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	return [32]byte(b), nil
}

func addressStrings(addrs []common.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.Hex())
	}

	return out
}

func fromPtr(from string) *common.Address {
	if from == "" || !common.IsHexAddress(from) {
		return nil
	}

	addr := common.HexToAddress(from)
	return &addr
}

package txsend

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/agreementchain/agreements/internal/services/gateway"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrNoSigner = errors.New("no signer configured")
	ErrReverted = errors.New("transaction reverted")
)

// Sender submits a prepared call and waits for it to be mined.
type Sender interface {
	From() common.Address
	Send(ctx context.Context, call *gateway.PreparedCall) (*types.Receipt, error)
}

// KeyedSender signs EIP-1559 transactions with a local private key.
type KeyedSender struct {
	evm     agreement.EVMWriter
	chainID *big.Int
	key     *ecdsa.PrivateKey
	from    common.Address
}

// NewKeyedSender parses a hex private key, with or without 0x prefix.
func NewKeyedSender(evm agreement.EVMWriter, chainID *big.Int, hexKey string) (*KeyedSender, error) {
	if hexKey == "" {
		return nil, ErrNoSigner
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid signer key: %w", err)
	}

	return &KeyedSender{
		evm:     evm,
		chainID: chainID,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (s *KeyedSender) From() common.Address {
	return s.from
}

func (s *KeyedSender) Send(ctx context.Context, call *gateway.PreparedCall) (*types.Receipt, error) {
	nonce, err := s.evm.PendingNonceAt(ctx, s.from)
	if err != nil {
		return nil, err
	}

	to := call.To

	// the node simulates the call here, so reverts surface with their reason
	gas, err := s.evm.EstimateGas(ctx, ethereum.CallMsg{
		From: s.from,
		To:   &to,
		Data: call.Data,
	})
	if err != nil {
		return nil, err
	}

	tip, err := s.evm.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}

	baseFee, err := s.evm.BaseFee(ctx)
	if err != nil {
		return nil, err
	}

	// twice the base fee leaves room for a few full blocks
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(baseFee, common.Big2))

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Data:      call.Data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return nil, err
	}

	err = s.evm.SendTransaction(ctx, signed)
	if err != nil && !alreadyKnown(err) {
		return nil, err
	}

	log.Default().Println("[txsend]", call.Method, "sent", signed.Hash().Hex())

	rcpt, err := bind.WaitMined(ctx, s.evm, signed)
	if err != nil {
		return nil, err
	}

	if rcpt.Status != types.ReceiptStatusSuccessful {
		return rcpt, fmt.Errorf("%w: %s", ErrReverted, signed.Hash().Hex())
	}

	return rcpt, nil
}

// alreadyKnown reports that the node already holds this exact signed
// transaction in its pool, so it only needs to be waited for.
func alreadyKnown(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already known")
}

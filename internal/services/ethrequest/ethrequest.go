package ethrequest

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	ETHChainID          = "eth_chainId"
	ETHGetBlockByNumber = "eth_getBlockByNumber"
)

var ErrNoBaseFee = errors.New("latest block has no base fee")

// EthBlock is the subset of a block header we decode from raw responses.
type EthBlock struct {
	Number        string  `json:"number"`
	Timestamp     string  `json:"timestamp"`
	BaseFeePerGas *string `json:"baseFeePerGas"`
}

type EthService struct {
	rpc    *rpc.Client
	client *ethclient.Client
	ctx    context.Context
}

func (e *EthService) Context() context.Context {
	return e.ctx
}

func NewEthService(ctx context.Context, endpoint string) (*EthService, error) {
	rpc, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	client := ethclient.NewClient(rpc)

	return &EthService{rpc, client, ctx}, nil
}

func (e *EthService) Close() {
	e.client.Close()
}

func (e *EthService) header(ctx context.Context, number *big.Int) (*EthBlock, error) {
	tag := "latest"
	if number != nil {
		tag = hexutil.EncodeBig(number)
	}

	var blk *EthBlock
	err := e.rpc.CallContext(ctx, &blk, ETHGetBlockByNumber, tag, false)
	if err != nil {
		return nil, err
	}
	if blk == nil {
		return nil, ethereum.NotFound
	}

	return blk, nil
}

// BlockTime returns the timestamp of the block at the given number
func (e *EthService) BlockTime(ctx context.Context, number *big.Int) (uint64, error) {
	blk, err := e.header(ctx, number)
	if err != nil {
		return 0, err
	}

	return hexutil.DecodeUint64(blk.Timestamp)
}

func (e *EthService) LatestBlock(ctx context.Context) (*big.Int, error) {
	blk, err := e.header(ctx, nil)
	if err != nil {
		return common.Big0, err
	}

	v, err := hexutil.DecodeBig(blk.Number)
	if err != nil {
		return common.Big0, err
	}

	return v, nil
}

func (e *EthService) BaseFee(ctx context.Context) (*big.Int, error) {
	blk, err := e.header(ctx, nil)
	if err != nil {
		return nil, err
	}
	if blk.BaseFeePerGas == nil {
		return nil, ErrNoBaseFee
	}

	return hexutil.DecodeBig(*blk.BaseFeePerGas)
}

func (e *EthService) ChainID(ctx context.Context) (*big.Int, error) {
	var id string
	err := e.rpc.CallContext(ctx, &id, ETHChainID)
	if err != nil {
		return nil, err
	}

	chid, ok := big.NewInt(0).SetString(strip0x(id), 16)
	if !ok {
		return nil, errors.New("invalid chain id")
	}

	return chid, nil
}

func (e *EthService) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return e.client.FilterLogs(ctx, q)
}

func (e *EthService) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return e.client.CallContract(ctx, call, blockNumber)
}

func (e *EthService) TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error) {
	return e.client.TransactionByHash(ctx, hash)
}

// TransactionSender recovers the sender of a transaction from its signature.
func (e *EthService) TransactionSender(ctx context.Context, tx *types.Transaction) (common.Address, error) {
	chainID := tx.ChainId()
	if chainID == nil || chainID.Sign() == 0 {
		var err error
		chainID, err = e.ChainID(ctx)
		if err != nil {
			return common.Address{}, err
		}
	}

	return types.Sender(types.LatestSignerForChainID(chainID), tx)
}

func (e *EthService) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return e.client.PendingNonceAt(ctx, account)
}

func (e *EthService) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return e.client.EstimateGas(ctx, msg)
}

func (e *EthService) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return e.client.SuggestGasTipCap(ctx)
}

func (e *EthService) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return e.client.SendTransaction(ctx, tx)
}

func (e *EthService) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return e.client.TransactionReceipt(ctx, hash)
}

func (e *EthService) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return e.client.CodeAt(ctx, account, blockNumber)
}

func strip0x(h string) string {
	if len(h) > 2 && h[:2] == "0x" {
		return h[2:]
	}

	return h
}

package treasury

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Minimal ABI for the season treasury contract.
const reefTreasuryABI = `[
	{"type":"function","name":"currentSeason","stateMutability":"view","inputs":[],"outputs":[{"type":"uint64"}]},
	{"type":"function","name":"seasonActive","stateMutability":"view","inputs":[],"outputs":[{"type":"bool"}]},
	{"type":"function","name":"entryFee","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"prizePool","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"hasEntered","stateMutability":"view","inputs":[{"type":"address"}],"outputs":[{"type":"bool"}]},
	{"type":"function","name":"payout","stateMutability":"nonpayable","inputs":[{"type":"address"},{"type":"uint256"}],"outputs":[]}
]`

// Chain talks to the deployed treasury over JSON-RPC using the backend
// signing key. All payout calls are serialized by the transactor's nonce
// management.
type Chain struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	opts     *bind.TransactOpts
	log      *zap.Logger
}

// NewChain dials rpcURL and binds the contract at contractAddr. privKeyHex is
// the backend signer's key without the 0x prefix.
func NewChain(ctx context.Context, rpcURL, contractAddr, privKeyHex string, log *zap.Logger) (*Chain, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privKeyHex, "0x"))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("parse backend key: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(reefTreasuryABI))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	contract := bind.NewBoundContract(common.HexToAddress(contractAddr), parsed, client, client, client)
	return &Chain{client: client, contract: contract, opts: opts, log: log}, nil
}

func (c *Chain) Close() {
	c.client.Close()
}

func (c *Chain) SeasonInfo(ctx context.Context) (*SeasonInfo, error) {
	callOpts := &bind.CallOpts{Context: ctx}

	var out []any
	if err := c.contract.Call(callOpts, &out, "currentSeason"); err != nil {
		return nil, fmt.Errorf("currentSeason: %w", err)
	}
	seasonID := out[0].(uint64)

	out = nil
	if err := c.contract.Call(callOpts, &out, "seasonActive"); err != nil {
		return nil, fmt.Errorf("seasonActive: %w", err)
	}
	active := out[0].(bool)

	out = nil
	if err := c.contract.Call(callOpts, &out, "entryFee"); err != nil {
		return nil, fmt.Errorf("entryFee: %w", err)
	}
	fee := out[0].(*big.Int)

	out = nil
	if err := c.contract.Call(callOpts, &out, "prizePool"); err != nil {
		return nil, fmt.Errorf("prizePool: %w", err)
	}
	pool := out[0].(*big.Int)

	return &SeasonInfo{SeasonID: seasonID, Active: active, EntryFeeWei: fee, PrizePoolWei: pool}, nil
}

func (c *Chain) HasEntered(ctx context.Context, wallet string) (bool, error) {
	var out []any
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "hasEntered", common.HexToAddress(wallet))
	if err != nil {
		return false, fmt.Errorf("hasEntered: %w", err)
	}
	return out[0].(bool), nil
}

func (c *Chain) Distribute(ctx context.Context, kind string, payouts []Payout) ([]string, error) {
	hashes := make([]string, len(payouts))
	var firstErr error
	for i, p := range payouts {
		if p.AmountWei == nil || p.AmountWei.Sign() <= 0 {
			continue
		}
		opts := *c.opts
		opts.Context = ctx
		tx, err := c.contract.Transact(&opts, "payout", common.HexToAddress(p.Wallet), p.AmountWei)
		if err != nil {
			c.log.Error("treasury payout failed",
				zap.String("kind", kind),
				zap.String("wallet", p.Wallet),
				zap.String("amount_wei", p.AmountWei.String()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		hashes[i] = tx.Hash().Hex()
		c.log.Info("treasury payout sent",
			zap.String("kind", kind),
			zap.String("wallet", p.Wallet),
			zap.String("amount_wei", p.AmountWei.String()),
			zap.String("tx", hashes[i]))
	}
	return hashes, firstErr
}

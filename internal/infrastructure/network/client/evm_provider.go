package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"estate_addendum/internal/app/port"
	"estate_addendum/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"
)

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
	erc20MethodID   []byte
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			// Critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		balanceOfMethod, ok := parsedERC20ABI.Methods["balanceOf"]
		if !ok {
			panic("balanceOf method not found in parsed ERC20 ABI")
		}
		erc20MethodID = balanceOfMethod.ID
	})
}

// EVMProvider implements the port.AssetProvider capability for one
// EVM-compatible network: native balance plus tracked ERC-20 balances in a
// single JSON-RPC batch.
type EVMProvider struct {
	ethClient   *ethclient.Client
	network     entity.NetworkDescriptor
	tokens      []entity.TokenInfo
	limiter     *rate.Limiter
	callTimeout time.Duration
}

// NewEVMProvider dials the network's RPC endpoints in order and returns a
// provider bound to the first one that answers.
func NewEVMProvider(
	network entity.NetworkDescriptor,
	tokens []entity.TokenInfo,
	connectTimeout, callTimeout time.Duration,
	limiter *rate.Limiter,
) (port.AssetProvider, error) {
	initParsedERC20ABI()
	rpcURLs := append([]string{network.PrimaryRPCURL}, network.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		ec, err := ethclient.DialContext(ctx, rpcURL)
		cancel()
		if err == nil {
			return &EVMProvider{
				ethClient:   ec,
				network:     network,
				tokens:      tokens,
				limiter:     limiter,
				callTimeout: callTimeout,
			}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", network.ID, lastErr)
}

// FetchAssets fetches the native balance and all tracked token balances for
// the address using one JSON-RPC batch call. Zero balances are omitted.
func (p *EVMProvider) FetchAssets(ctx context.Context, address string, network entity.NetworkDescriptor) ([]entity.ProviderAssetRecord, error) {
	if !strings.EqualFold(network.ID, p.network.ID) {
		return nil, fmt.Errorf("provider for %s asked to fetch %s", p.network.ID, network.ID)
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	owner := common.HexToAddress(address)
	batchElems := make([]rpc.BatchElem, 0, len(p.tokens)+1)

	batchElems = append(batchElems, rpc.BatchElem{
		Method: "eth_getBalance",
		Args:   []interface{}{owner, "latest"},
		Result: new(*hexutil.Big),
	})

	for _, token := range p.tokens {
		paddedOwner := common.LeftPadBytes(owner.Bytes(), 32)
		callData := append(append([]byte{}, erc20MethodID...), paddedOwner...)
		callArgs := map[string]interface{}{
			"to":   common.HexToAddress(token.Address),
			"data": hexutil.Bytes(callData),
		}
		batchElems = append(batchElems, rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{callArgs, "latest"},
			Result: new(hexutil.Bytes),
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	if err := p.ethClient.Client().BatchCallContext(callCtx, batchElems); err != nil {
		return nil, fmt.Errorf("RPC batch call failed: %w", err)
	}

	var records []entity.ProviderAssetRecord

	if batchElems[0].Error != nil {
		return nil, fmt.Errorf("failed to fetch native balance for %s: %w", address, batchElems[0].Error)
	}
	if result, ok := batchElems[0].Result.(**hexutil.Big); ok && result != nil && *result != nil {
		nativeBalance := (*big.Int)(*result)
		if nativeBalance.Sign() != 0 {
			decimals := p.network.NativeDecimals
			records = append(records, entity.ProviderAssetRecord{
				Kind:       entity.AssetKindNative,
				Symbol:     p.network.NativeSymbol,
				Name:       p.network.Name,
				RawBalance: nativeBalance.String(),
				Decimals:   &decimals,
				CoinID:     p.network.NativeCoinID,
			})
		}
	}

	for i, token := range p.tokens {
		elem := batchElems[i+1]
		if elem.Error != nil {
			// One token failing should not sink the whole provider call;
			// the caller only sees positions that resolved.
			continue
		}
		result, ok := elem.Result.(*hexutil.Bytes)
		if !ok || result == nil || len(*result) == 0 {
			continue
		}
		unpacked, err := parsedERC20ABI.Unpack("balanceOf", *result)
		if err != nil || len(unpacked) == 0 {
			continue
		}
		balance, ok := unpacked[0].(*big.Int)
		if !ok || balance.Sign() == 0 {
			continue
		}
		tokenDecimals := token.Decimals
		records = append(records, entity.ProviderAssetRecord{
			Kind:            entity.AssetKindFungible,
			Symbol:          token.Symbol,
			Name:            token.Name,
			RawBalance:      balance.String(),
			Decimals:        &tokenDecimals,
			ContractAddress: token.Address,
			CoinID:          token.CoinID,
		})
	}

	return records, nil
}

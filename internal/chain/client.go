package chain

import (
	"context"
	"fmt"
	"math/big"

	"orderbook-core/pkg/config"
	"orderbook-core/pkg/errno"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// Client 在 ethclient 之上加了一层令牌桶限速
// 嵌入 *ethclient.Client, 因此依然满足 bind.ContractBackend / bind.DeployBackend
type Client struct {
	*ethclient.Client
	limiter *rate.Limiter
}

// Dial 连接 RPC 节点
func Dial(ctx context.Context, cfg config.ChainConfig) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, cfg.RpcUrl)
	if err != nil {
		return nil, errno.Wrap(errno.ErrNetwork, fmt.Errorf("dial %s: %w", cfg.RpcUrl, err))
	}
	return NewClient(ec, cfg.RPS, cfg.Burst), nil
}

// NewClient rps <= 0 表示不限速
func NewClient(ec *ethclient.Client, rps float64, burst int) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		Client:  ec,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// BlockNumber 即 ChainHeadReader: 读取当前链头高度
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	head, err := c.Client.BlockNumber(ctx)
	if err != nil {
		return 0, ClassifyRPCError(err)
	}
	return head, nil
}

func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.Client.FilterLogs(ctx, q)
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.Client.CallContract(ctx, msg, blockNumber)
}

package scanner

import (
	"context"
	"math/big"
	"sort"

	"orderbook-core/internal/chain"
	"orderbook-core/internal/model"
	"orderbook-core/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// ChainHeadReader 读取链头高度, *chain.Client 实现了它
type ChainHeadReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// LogFilterer eth_getLogs
type LogFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Fetcher 取出 [from, to] 内的订单事件
type Fetcher interface {
	Fetch(ctx context.Context, from, to uint64) ([]model.OrderEvent, error)
}

// EventFetcher 拉取订单簿合约在一个区块区间内的事件
type EventFetcher struct {
	client   LogFilterer
	contract common.Address
	log      *zap.Logger
}

func NewEventFetcher(client LogFilterer, contract common.Address) *EventFetcher {
	return &EventFetcher{
		client:   client,
		contract: contract,
		log:      logger.Named("fetcher"),
	}
}

// Fetch 返回按 (blockNumber, logIndex) 排序的事件
// 错误为 errno.ErrRangeTooLarge 或 errno.ErrNetwork
func (f *EventFetcher) Fetch(ctx context.Context, from, to uint64) ([]model.OrderEvent, error) {
	logs, err := f.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{f.contract},
		Topics:    chain.OrderEventTopics(),
	})
	if err != nil {
		return nil, chain.ClassifyLogsError(err)
	}

	events := make([]model.OrderEvent, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		ev, ok, err := chain.DecodeOrderEvent(l)
		if err != nil {
			// ABI 不匹配的日志重试也解不出来, 记下来跳过
			f.log.Warn("skip undecodable log",
				zap.Uint64("block", l.BlockNumber),
				zap.Uint("log_index", l.Index),
				zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber < events[j].BlockNumber
		}
		return events[i].LogIndex < events[j].LogIndex
	})
	return events, nil
}

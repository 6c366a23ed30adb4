package chain

import (
	"fmt"
	"math/big"

	"orderbook-core/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	OrderPlacedTopic   = OrderBookABI.Events["OrderPlaced"].ID
	OrderFilledTopic   = OrderBookABI.Events["OrderFilled"].ID
	OrdersMatchedTopic = OrderBookABI.Events["OrdersMatched"].ID
)

// OrderEventTopics eth_getLogs 的 topic0 过滤条件
func OrderEventTopics() [][]common.Hash {
	return [][]common.Hash{{OrderPlacedTopic, OrderFilledTopic, OrdersMatchedTopic}}
}

// DecodeOrderEvent 解码一条订单簿日志
// 不认识的 topic 返回 ok=false, 解码失败返回 error
func DecodeOrderEvent(l types.Log) (model.OrderEvent, bool, error) {
	if len(l.Topics) == 0 {
		return model.OrderEvent{}, false, nil
	}

	ev := model.OrderEvent{
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash,
		LogIndex:    l.Index,
	}

	switch l.Topics[0] {
	case OrderPlacedTopic, OrderFilledTopic:
		name := "OrderPlaced"
		ev.Kind = model.EventOrderPlaced
		if l.Topics[0] == OrderFilledTopic {
			name = "OrderFilled"
			ev.Kind = model.EventOrderFilled
		}
		values, err := OrderBookABI.Unpack(name, l.Data)
		if err != nil {
			return ev, false, fmt.Errorf("decode %s at block %d: %w", name, l.BlockNumber, err)
		}
		id, err := toUint64(values[0])
		if err != nil {
			return ev, false, fmt.Errorf("decode %s id: %w", name, err)
		}
		ev.OrderID = id

	case OrdersMatchedTopic:
		ev.Kind = model.EventOrdersMatched
		values, err := OrderBookABI.Unpack("OrdersMatched", l.Data)
		if err != nil {
			return ev, false, fmt.Errorf("decode OrdersMatched at block %d: %w", l.BlockNumber, err)
		}
		taker, err := toUint64(values[0])
		if err != nil {
			return ev, false, fmt.Errorf("decode OrdersMatched takerId: %w", err)
		}
		maker, err := toUint64(values[1])
		if err != nil {
			return ev, false, fmt.Errorf("decode OrdersMatched makerId: %w", err)
		}
		ev.OrderID, ev.MakerID = taker, maker

	default:
		return ev, false, nil
	}

	return ev, true, nil
}

func toUint64(v interface{}) (uint64, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected type %T", v)
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("order id %s overflows uint64", n)
	}
	return n.Uint64(), nil
}

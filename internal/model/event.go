package model

import "github.com/ethereum/go-ethereum/common"

// EventKind 订单簿合约事件类型
type EventKind string

const (
	EventOrderPlaced   EventKind = "OrderPlaced"
	EventOrderFilled   EventKind = "OrderFilled"
	EventOrdersMatched EventKind = "OrdersMatched"
)

// OrderEvent 从日志解码出来的订单事件
// OrdersMatched 时 OrderID 是 taker, MakerID 是 maker
type OrderEvent struct {
	Kind        EventKind   `json:"kind"`
	OrderID     uint64      `json:"order_id"`
	MakerID     uint64      `json:"maker_id,omitempty"`
	BlockNumber uint64      `json:"block_number"`
	TxHash      common.Hash `json:"tx_hash"`
	LogIndex    uint        `json:"log_index"`
}

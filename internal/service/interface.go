package service

import (
	"context"

	"orderbook-core/internal/fhe"
	"orderbook-core/internal/model"
	"orderbook-core/internal/orderbook"

	"github.com/ethereum/go-ethereum/common"
)

// OrderReader 读取订单的三个密文字段, *chain.OrderBook 实现了它
type OrderReader interface {
	GetOrder(ctx context.Context, permission model.Permission, orderID uint64) ([3]model.EncryptedField, error)
}

// PermitSource *fhe.PermitManager 实现了它
type PermitSource interface {
	Get(ctx context.Context, contract common.Address) (*fhe.Permit, error)
	Invalidate(contract common.Address)
}

// Resolver 根据订单 id 得到明文订单
type Resolver interface {
	Resolve(ctx context.Context, orderID uint64) (model.OrderRecord, error)
}

// OrderPoster 把订单转发给下游撮合服务, *orderbook.Client 实现了它
type OrderPoster interface {
	PostOrder(ctx context.Context, order orderbook.NewOrder) error
}

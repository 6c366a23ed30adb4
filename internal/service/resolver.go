package service

import (
	"context"
	"errors"
	"time"

	"orderbook-core/internal/fhe"
	"orderbook-core/internal/model"
	"orderbook-core/pkg/errno"
	"orderbook-core/pkg/logger"
	"orderbook-core/pkg/monitor"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// OrderResolver permit -> getOrder -> 解密三个字段 -> OrderRecord
// 并发安全, 不缓存解析结果
type OrderResolver struct {
	book     OrderReader
	contract common.Address
	permits  PermitSource
	unsealer fhe.Unsealer
	timeout  time.Duration
	log      *zap.Logger
}

func NewOrderResolver(book OrderReader, contract common.Address, permits PermitSource, unsealer fhe.Unsealer, timeout time.Duration) *OrderResolver {
	return &OrderResolver{
		book:     book,
		contract: contract,
		permits:  permits,
		unsealer: unsealer,
		timeout:  timeout,
		log:      logger.Named("resolver"),
	}
}

// Resolve 订单不存在返回 errno.ErrNotFound, 任一字段解密失败返回 errno.ErrDecryption
// permit 被合约拒绝时丢弃缓存的 permit 并重试一次
func (r *OrderResolver) Resolve(ctx context.Context, orderID uint64) (model.OrderRecord, error) {
	order, err := r.resolveOnce(ctx, orderID)
	if errors.Is(err, errno.ErrPermitRejected) {
		r.log.Warn("permit rejected, reissuing", zap.Uint64("order_id", orderID), zap.Error(err))
		r.permits.Invalidate(r.contract)
		order, err = r.resolveOnce(ctx, orderID)
	}

	monitor.OrderResolveTotal.WithLabelValues(resolveResult(err)).Inc()
	if err != nil {
		return model.OrderRecord{}, err
	}
	return order, nil
}

func (r *OrderResolver) resolveOnce(ctx context.Context, orderID uint64) (model.OrderRecord, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// 1. 获取 permit
	permit, err := r.permits.Get(ctx, r.contract)
	if err != nil {
		return model.OrderRecord{}, err
	}

	// 2. 读取密文
	fields, err := r.book.GetOrder(ctx, permit.Permission(), orderID)
	if err != nil {
		return model.OrderRecord{}, err
	}

	// 3. 解密, 任何一个字段失败都整体失败
	side, err := fhe.UnsealBool(r.unsealer, permit, fields[0].Data)
	if err != nil {
		return model.OrderRecord{}, err
	}
	amount, err := fhe.UnsealUint64(r.unsealer, permit, fields[1].Data)
	if err != nil {
		return model.OrderRecord{}, err
	}
	price, err := fhe.UnsealUint64(r.unsealer, permit, fields[2].Data)
	if err != nil {
		return model.OrderRecord{}, err
	}

	return model.OrderRecord{
		ID:     orderID,
		Side:   side,
		Amount: amount,
		Price:  price,
	}, nil
}

func resolveResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errno.ErrNotFound):
		return "not_found"
	case errors.Is(err, errno.ErrDecryption):
		return "decrypt_error"
	}
	return "error"
}

package chain

import (
	"context"
	"fmt"
	"math/big"

	"orderbook-core/internal/model"
	"orderbook-core/pkg/errno"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// OrderBook 订单簿合约的手写绑定 (只覆盖用到的方法)
type OrderBook struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewOrderBook backend 一般是 *chain.Client
func NewOrderBook(address common.Address, backend bind.ContractBackend) *OrderBook {
	return &OrderBook{
		address:  address,
		contract: bind.NewBoundContract(address, OrderBookABI, backend, backend, backend),
	}
}

func (o *OrderBook) Address() common.Address {
	return o.address
}

// PlaceOrder 提交加密订单，返回已广播的交易
func (o *OrderBook) PlaceOrder(opts *bind.TransactOpts, side, amount, price model.EncryptedField) (*types.Transaction, error) {
	order := orderInput{
		Side:   toTuple(side),
		Amount: toTuple(amount),
		Price:  toTuple(price),
	}
	tx, err := o.contract.Transact(opts, "placeOrder", order)
	if err != nil {
		return nil, ClassifyRPCError(fmt.Errorf("placeOrder: %w", err))
	}
	return tx, nil
}

// GetOrder 读取订单的三个密文字段 (side, amount, price)
// 订单不存在时返回 errno.ErrNotFound
func (o *OrderBook) GetOrder(ctx context.Context, permission model.Permission, orderID uint64) ([3]model.EncryptedField, error) {
	var fields [3]model.EncryptedField

	var out []interface{}
	err := o.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getOrder",
		permissionTuple{PublicKey: permission.PublicKey, Signature: permission.Signature},
		new(big.Int).SetUint64(orderID),
	)
	if err != nil {
		return fields, ClassifyCallError(fmt.Errorf("getOrder(%d): %w", orderID, err))
	}
	if len(out) != 3 {
		return fields, errno.Wrapf(errno.ErrNetwork, "getOrder(%d): unexpected %d outputs", orderID, len(out))
	}

	for i := range out {
		t := *abi.ConvertType(out[i], new(encryptedTuple)).(*encryptedTuple)
		// 合约对不存在的 id 返回空密文而不是 revert 的情况
		if len(t.Data) == 0 {
			return fields, errno.Wrapf(errno.ErrNotFound, "order %d", orderID)
		}
		fields[i] = fromTuple(t)
	}
	return fields, nil
}

func toTuple(f model.EncryptedField) encryptedTuple {
	return encryptedTuple{Data: f.Data, SecurityZone: f.SecurityZone}
}

func fromTuple(t encryptedTuple) model.EncryptedField {
	return model.EncryptedField{Data: t.Data, SecurityZone: t.SecurityZone}
}

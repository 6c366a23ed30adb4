package cmd

import (
	"math"

	"orderbook-core/internal/model"
	"orderbook-core/pkg/validator"

	"github.com/ethereum/go-ethereum/common"
)

// amount / price 在链上是 euint32
const maxUint32 = math.MaxUint32

type PlaceOrderOptions struct {
	Type   string `flag:"type" validate:"required,oneof=buy sell"`
	Amount uint64 `flag:"amount" validate:"required,max=4294967295"`
	Price  uint64 `flag:"price" validate:"required,max=4294967295"`
}

// Validate 校验并返回解析后的订单方向
func (o PlaceOrderOptions) Validate() (model.OrderSide, error) {
	if err := validator.Struct(o); err != nil {
		return "", err
	}
	return model.ParseOrderSide(o.Type)
}

type MintTokenOptions struct {
	Address string `flag:"address" validate:"required,eth_addr"`
	Amount  uint64 `flag:"amount" validate:"required"`
}

func (o MintTokenOptions) Validate() (common.Address, error) {
	if err := validator.Struct(o); err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(o.Address), nil
}

type ViewBalanceOptions struct {
	Address  string `flag:"address" validate:"required,eth_addr"`
	Decimals int32  `flag:"decimals" validate:"gte=0,lte=36"`
}

func (o ViewBalanceOptions) Validate() (common.Address, error) {
	if err := validator.Struct(o); err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(o.Address), nil
}

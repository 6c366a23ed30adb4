package model

import (
	"fmt"
	"strings"
)

// OrderSide 订单方向. 链上用 ebool 存储: false = buy, true = sell
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// ParseOrderSide 解析命令行/接口传入的订单方向
func ParseOrderSide(s string) (OrderSide, error) {
	switch OrderSide(strings.ToLower(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("invalid order side %q, must be 'buy' or 'sell'", s)
}

// Bool 返回链上使用的布尔编码
func (s OrderSide) Bool() bool {
	return s == SideSell
}

// SideFromBool 链上布尔值 -> OrderSide
func SideFromBool(b bool) OrderSide {
	if b {
		return SideSell
	}
	return SideBuy
}

// OrderRecord 解密后的明文订单. 三个字段要么全部解出，要么整体失败
type OrderRecord struct {
	ID     uint64 `json:"id"`
	Side   bool   `json:"side"`
	Amount uint64 `json:"amount"`
	Price  uint64 `json:"price"`
}

func (o OrderRecord) OrderSide() OrderSide {
	return SideFromBool(o.Side)
}

// EncryptedField 一个密文值的传输封装 (inEbool / inEuint32 / sealed output)
type EncryptedField struct {
	Data         []byte `json:"data"`
	SecurityZone int32  `json:"securityZone"`
}

// Permission 从 Permit 中提取出来、随合约调用一起发送的授权信息
type Permission struct {
	PublicKey [32]byte `json:"publicKey"`
	Signature []byte   `json:"signature"`
}

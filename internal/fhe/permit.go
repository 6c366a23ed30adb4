package fhe

import (
	"time"

	"orderbook-core/internal/model"

	"github.com/ethereum/go-ethereum/common"
)

// Permit 某个请求者针对某个合约签发的读权限
// sealingKey 只在进程内使用, 永远不序列化
type Permit struct {
	ContractAddress common.Address
	Requester       common.Address
	PublicKey       [32]byte
	Signature       []byte
	ExpiresAt       time.Time

	sealingKey [32]byte
}

// Permission 提取随合约调用一起发送的部分 (publicKey + signature)
func (p *Permit) Permission() model.Permission {
	sig := make([]byte, len(p.Signature))
	copy(sig, p.Signature)
	return model.Permission{PublicKey: p.PublicKey, Signature: sig}
}

func (p *Permit) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

package fhe

import (
	"context"
	"time"

	"orderbook-core/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PermitManager 缓存 Permit, 在有效期内复用
// 并发的 Get 对同一个合约只会签发一次
type PermitManager struct {
	issuer PermitIssuer
	cache  *cache.Cache
	group  singleflight.Group
	now    func() time.Time

	verifyChainID int64 // 非 0 时签发后先用 VerifyPermit 自检
}

func NewPermitManager(issuer PermitIssuer, ttl time.Duration) *PermitManager {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &PermitManager{
		issuer: issuer,
		cache:  cache.New(ttl, 10*time.Minute),
		now:    time.Now,
	}
}

// VerifyIssued 开启签发后自检, 签名对不上的 permit 不会进缓存
func (m *PermitManager) VerifyIssued(chainID int64) *PermitManager {
	m.verifyChainID = chainID
	return m
}

func (m *PermitManager) key(contract common.Address) string {
	return contract.Hex() + ":" + m.issuer.Requester().Hex()
}

// Get 返回缓存中的 Permit, 没有或已过期时重新签发
func (m *PermitManager) Get(ctx context.Context, contract common.Address) (*Permit, error) {
	key := m.key(contract)
	if v, ok := m.cache.Get(key); ok {
		if p := v.(*Permit); !p.Expired(m.now()) {
			return p, nil
		}
	}

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		p, err := m.issuer.Issue(ctx, contract)
		if err != nil {
			return nil, err
		}
		if m.verifyChainID != 0 {
			if err := VerifyPermit(p, m.verifyChainID); err != nil {
				return nil, err
			}
		}
		m.cache.SetDefault(key, p)
		logger.Debug("permit issued",
			zap.String("contract", contract.Hex()),
			zap.Time("expires_at", p.ExpiresAt))
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Permit), nil
}

// Invalidate 丢弃缓存的 Permit (例如被合约拒绝之后)
func (m *PermitManager) Invalidate(contract common.Address) {
	m.cache.Delete(m.key(contract))
}

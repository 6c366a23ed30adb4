package fhe

import (
	"context"
	"testing"
	"time"

	"orderbook-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChainID = 8008148

var testContract = common.HexToAddress("0x00000000000000000000000000000000000000c0")

func newTestIssuer(t *testing.T, ttl time.Duration) *EIP712Issuer {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return NewEIP712Issuer(key, testChainID, ttl)
}

func TestIssuePermit(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)

	p, err := issuer.Issue(context.Background(), testContract)
	require.NoError(t, err)

	assert.Equal(t, testContract, p.ContractAddress)
	assert.Equal(t, issuer.Requester(), p.Requester)
	assert.Len(t, p.Signature, crypto.SignatureLength)
	assert.Contains(t, []byte{27, 28}, p.Signature[crypto.RecoveryIDOffset])
	assert.False(t, p.Expired(time.Now()))
	assert.True(t, p.Expired(time.Now().Add(2*time.Hour)))

	require.NoError(t, VerifyPermit(p, testChainID))
}

func TestVerifyPermitRejectsTampering(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)
	p, err := issuer.Issue(context.Background(), testContract)
	require.NoError(t, err)

	// 换一个合约地址, 签名就对不上了
	other := *p
	other.ContractAddress = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	assert.ErrorIs(t, VerifyPermit(&other, testChainID), errno.ErrPermitRejected)

	// 不同链
	assert.ErrorIs(t, VerifyPermit(p, 1), errno.ErrPermitRejected)

	short := *p
	short.Signature = p.Signature[:10]
	assert.ErrorIs(t, VerifyPermit(&short, testChainID), errno.ErrPermitRejected)
}

func TestPermissionIsACopy(t *testing.T) {
	issuer := newTestIssuer(t, 0)
	p, err := issuer.Issue(context.Background(), testContract)
	require.NoError(t, err)
	assert.False(t, p.Expired(time.Now().Add(24*time.Hour)), "ttl 0 never expires")

	perm := p.Permission()
	assert.Equal(t, p.PublicKey, perm.PublicKey)
	perm.Signature[0] ^= 0xff
	assert.NotEqual(t, perm.Signature[0], p.Signature[0])
}

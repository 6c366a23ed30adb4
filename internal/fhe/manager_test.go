package fhe

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"orderbook-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingIssuer struct {
	inner PermitIssuer
	calls atomic.Int32
	err   error
}

func (c *countingIssuer) Issue(ctx context.Context, contract common.Address) (*Permit, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	// 让并发请求有机会撞在一起
	time.Sleep(10 * time.Millisecond)
	return c.inner.Issue(ctx, contract)
}

func (c *countingIssuer) Requester() common.Address {
	return c.inner.Requester()
}

func TestPermitManagerCaches(t *testing.T) {
	issuer := &countingIssuer{inner: newTestIssuer(t, time.Hour)}
	m := NewPermitManager(issuer, time.Hour)

	p1, err := m.Get(context.Background(), testContract)
	require.NoError(t, err)
	p2, err := m.Get(context.Background(), testContract)
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	assert.Equal(t, int32(1), issuer.calls.Load())
}

func TestPermitManagerConcurrentGet(t *testing.T) {
	issuer := &countingIssuer{inner: newTestIssuer(t, time.Hour)}
	m := NewPermitManager(issuer, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Get(context.Background(), testContract)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), issuer.calls.Load())
}

func TestPermitManagerInvalidate(t *testing.T) {
	issuer := &countingIssuer{inner: newTestIssuer(t, time.Hour)}
	m := NewPermitManager(issuer, time.Hour)

	p1, err := m.Get(context.Background(), testContract)
	require.NoError(t, err)
	m.Invalidate(testContract)
	p2, err := m.Get(context.Background(), testContract)
	require.NoError(t, err)

	assert.NotSame(t, p1, p2)
	assert.Equal(t, int32(2), issuer.calls.Load())
}

func TestPermitManagerReissuesExpired(t *testing.T) {
	issuer := &countingIssuer{inner: newTestIssuer(t, time.Minute)}
	m := NewPermitManager(issuer, time.Hour)

	_, err := m.Get(context.Background(), testContract)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Get(context.Background(), testContract)
	require.NoError(t, err)
	assert.Equal(t, int32(2), issuer.calls.Load())
}

func TestPermitManagerIssueError(t *testing.T) {
	issuer := &countingIssuer{inner: newTestIssuer(t, time.Hour), err: errors.New("signer offline")}
	m := NewPermitManager(issuer, time.Hour)

	_, err := m.Get(context.Background(), testContract)
	assert.EqualError(t, err, "signer offline")
}

func TestPermitManagerVerifyIssued(t *testing.T) {
	issuer := &countingIssuer{inner: newTestIssuer(t, time.Hour)}

	// 链 ID 一致, 自检通过并缓存
	m := NewPermitManager(issuer, time.Hour).VerifyIssued(testChainID)
	_, err := m.Get(context.Background(), testContract)
	require.NoError(t, err)

	// 签名所用的链 ID 与自检的不一致, 不能进缓存
	bad := NewPermitManager(issuer, time.Hour).VerifyIssued(1)
	_, err = bad.Get(context.Background(), testContract)
	assert.ErrorIs(t, err, errno.ErrPermitRejected)
	_, err = bad.Get(context.Background(), testContract)
	assert.ErrorIs(t, err, errno.ErrPermitRejected)
	assert.Equal(t, int32(3), issuer.calls.Load())
}

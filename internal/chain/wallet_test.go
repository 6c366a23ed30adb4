package chain

import (
	"testing"

	"orderbook-core/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hardhat 默认账户 #0
const testKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestLoadWallet(t *testing.T) {
	w, err := LoadWallet(testKey)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", w.Address().Hex())

	opts, err := w.TransactOpts(8008148)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), opts.From)
}

func TestLoadWalletInvalid(t *testing.T) {
	_, err := LoadWallet("not-a-key")
	assert.ErrorIs(t, err, errno.ErrConfig)
}

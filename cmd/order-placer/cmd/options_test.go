package cmd

import (
	"testing"

	"orderbook-core/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderOptions(t *testing.T) {
	side, err := PlaceOrderOptions{Type: "sell", Amount: 50, Price: 100}.Validate()
	require.NoError(t, err)
	assert.Equal(t, model.SideSell, side)

	_, err = PlaceOrderOptions{Type: "hold", Amount: 50, Price: 100}.Validate()
	assert.ErrorContains(t, err, "--type must be one of [buy sell]")

	_, err = PlaceOrderOptions{Type: "buy", Amount: maxUint32 + 1, Price: 1}.Validate()
	assert.ErrorContains(t, err, "--amount must be <= 4294967295")

	_, err = PlaceOrderOptions{Type: "buy", Amount: 1}.Validate()
	assert.ErrorContains(t, err, "--price is required")
}

func TestMintTokenOptions(t *testing.T) {
	addr, err := MintTokenOptions{Address: "0x00000000000000000000000000000000000000aa", Amount: 10}.Validate()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xaa"), addr)

	_, err = MintTokenOptions{Address: "not-an-address", Amount: 10}.Validate()
	assert.ErrorContains(t, err, "--address")
}

func TestViewBalanceOptions(t *testing.T) {
	_, err := ViewBalanceOptions{Address: "0x00000000000000000000000000000000000000aa"}.Validate()
	assert.NoError(t, err)

	_, err = ViewBalanceOptions{Address: "0x00000000000000000000000000000000000000aa", Decimals: -1}.Validate()
	assert.Error(t, err)
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "1500", formatBalance(1500, 0))
	assert.Equal(t, "1.5", formatBalance(1500, 3))
	assert.Equal(t, "0.0001", formatBalance(1, 4))
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"place-order", "mint-token", "view-balance"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}

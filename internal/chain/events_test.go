package chain

import (
	"math/big"
	"testing"

	"orderbook-core/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderLog(t *testing.T, name string, block uint64, index uint, args ...interface{}) types.Log {
	t.Helper()
	ev := OrderBookABI.Events[name]
	data, err := ev.Inputs.Pack(args...)
	require.NoError(t, err)
	return types.Log{
		Topics:      []common.Hash{ev.ID},
		Data:        data,
		BlockNumber: block,
		TxHash:      common.HexToHash("0xabc"),
		Index:       index,
	}
}

func TestDecodeOrderPlaced(t *testing.T) {
	ev, ok, err := DecodeOrderEvent(orderLog(t, "OrderPlaced", 10600, 2, big.NewInt(7)))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, model.EventOrderPlaced, ev.Kind)
	assert.Equal(t, uint64(7), ev.OrderID)
	assert.Equal(t, uint64(10600), ev.BlockNumber)
	assert.Equal(t, uint(2), ev.LogIndex)
}

func TestDecodeOrderFilled(t *testing.T) {
	ev, ok, err := DecodeOrderEvent(orderLog(t, "OrderFilled", 1, 0, big.NewInt(3)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.EventOrderFilled, ev.Kind)
	assert.Equal(t, uint64(3), ev.OrderID)
}

func TestDecodeOrdersMatched(t *testing.T) {
	ev, ok, err := DecodeOrderEvent(orderLog(t, "OrdersMatched", 1, 0, big.NewInt(9), big.NewInt(4)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.EventOrdersMatched, ev.Kind)
	assert.Equal(t, uint64(9), ev.OrderID)
	assert.Equal(t, uint64(4), ev.MakerID)
}

func TestDecodeUnknownTopic(t *testing.T) {
	_, ok, err := DecodeOrderEvent(types.Log{Topics: []common.Hash{common.HexToHash("0x1234")}})
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = DecodeOrderEvent(types.Log{})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeOverflowingID(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	_, _, err := DecodeOrderEvent(orderLog(t, "OrderPlaced", 1, 0, huge))
	assert.Error(t, err)
}

func TestDecodeTruncatedData(t *testing.T) {
	l := orderLog(t, "OrderPlaced", 1, 0, big.NewInt(1))
	l.Data = l.Data[:10]
	_, _, err := DecodeOrderEvent(l)
	assert.Error(t, err)
}

package chain

import (
	"context"
	"fmt"

	"orderbook-core/pkg/errno"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
)

// WaitMined 等待交易上链, 回执状态为失败时返回 errno.ErrTxFailed
func WaitMined(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, ClassifyRPCError(fmt.Errorf("wait for %s: %w", tx.Hash().Hex(), err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, errno.Wrapf(errno.ErrTxFailed, "tx %s in block %d", tx.Hash().Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}

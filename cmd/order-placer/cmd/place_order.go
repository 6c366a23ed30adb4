package cmd

import (
	"fmt"

	"orderbook-core/internal/chain"
	"orderbook-core/internal/fhe"

	"github.com/spf13/cobra"
)

var placeOrderOpts PlaceOrderOptions

var placeOrderCmd = &cobra.Command{
	Use:   "place-order",
	Short: "下一个加密订单",
	Long:  `在本地加密 side / amount / price 后调用订单簿合约的 placeOrder，并等待交易上链。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 校验参数
		side, err := placeOrderOpts.Validate()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		// 2. 加载配置并连接节点
		s, err := connect(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		// 3. 加密订单字段
		enc := fhe.NewHTTPEncryptor(s.cfg.FHE.EncryptURL, s.cfg.FHE.SecurityZone, 0)
		encSide, err := enc.EncryptBool(ctx, side.Bool())
		if err != nil {
			return fmt.Errorf("encrypt side: %w", err)
		}
		encAmount, err := enc.EncryptUint32(ctx, uint32(placeOrderOpts.Amount))
		if err != nil {
			return fmt.Errorf("encrypt amount: %w", err)
		}
		encPrice, err := enc.EncryptUint32(ctx, uint32(placeOrderOpts.Price))
		if err != nil {
			return fmt.Errorf("encrypt price: %w", err)
		}

		// 4. 发送交易
		opts, err := s.wallet.TransactOpts(s.cfg.Chain.ChainID)
		if err != nil {
			return err
		}
		opts.Context = ctx

		book := chain.NewOrderBook(s.cfg.ContractAddr(), s.client)
		tx, err := book.PlaceOrder(opts, encSide, encAmount, encPrice)
		if err != nil {
			return err
		}
		fmt.Printf("Order submitted: %s\n", tx.Hash().Hex())

		// 5. 等待回执
		receipt, err := chain.WaitMined(ctx, s.client, tx)
		if err != nil {
			return err
		}
		fmt.Printf("Order placed in block %d (gas used %d)\n", receipt.BlockNumber.Uint64(), receipt.GasUsed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(placeOrderCmd)

	placeOrderCmd.Flags().StringVarP(&placeOrderOpts.Type, "type", "t", "", "Order type (buy/sell)")
	placeOrderCmd.Flags().Uint64VarP(&placeOrderOpts.Amount, "amount", "a", 0, "Order amount")
	placeOrderCmd.Flags().Uint64VarP(&placeOrderOpts.Price, "price", "p", 0, "Order price")
	_ = placeOrderCmd.MarkFlagRequired("type")
	_ = placeOrderCmd.MarkFlagRequired("amount")
	_ = placeOrderCmd.MarkFlagRequired("price")
}

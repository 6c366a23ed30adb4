package cmd

import (
	"fmt"
	"math/big"

	"orderbook-core/internal/chain"

	"github.com/spf13/cobra"
)

var mintTokenOpts MintTokenOptions

var mintTokenCmd = &cobra.Command{
	Use:   "mint-token",
	Short: "给自己铸造测试代币",
	Long:  `调用代币合约的 mint，把代币铸造到 PRIVATE_KEY 对应的地址。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := mintTokenOpts.Validate()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := connect(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("Minting %d tokens at address %s\n", mintTokenOpts.Amount, token.Hex())

		opts, err := s.wallet.TransactOpts(s.cfg.Chain.ChainID)
		if err != nil {
			return err
		}
		opts.Context = ctx

		tx, err := chain.NewToken(token, s.client).Mint(opts, s.wallet.Address(), new(big.Int).SetUint64(mintTokenOpts.Amount))
		if err != nil {
			return err
		}
		if _, err := chain.WaitMined(ctx, s.client, tx); err != nil {
			return err
		}

		fmt.Printf("Tokens minted successfully (tx %s)\n", tx.Hash().Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mintTokenCmd)

	mintTokenCmd.Flags().StringVarP(&mintTokenOpts.Address, "address", "a", "", "Token address")
	mintTokenCmd.Flags().Uint64VarP(&mintTokenOpts.Amount, "amount", "m", 0, "Amount to mint")
	_ = mintTokenCmd.MarkFlagRequired("address")
	_ = mintTokenCmd.MarkFlagRequired("amount")
}

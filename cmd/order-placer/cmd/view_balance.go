package cmd

import (
	"fmt"
	"math/big"

	"orderbook-core/internal/chain"
	"orderbook-core/internal/fhe"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var viewBalanceOpts ViewBalanceOptions

var viewBalanceCmd = &cobra.Command{
	Use:   "view-balance",
	Short: "查看解密后的代币余额",
	Long:  `用代币合约的 permit 读取加密余额，并在本地解密。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := viewBalanceOpts.Validate()
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

		fmt.Printf("Getting balance for token at address %s\n", token.Hex())

		// 1. 针对代币合约签发 permit
		issuer := fhe.NewEIP712Issuer(s.wallet.PrivateKey(), s.cfg.Chain.ChainID, s.cfg.FHE.PermitTTL)
		permit, err := issuer.Issue(ctx, token)
		if err != nil {
			return err
		}

		// 2. 读取并解密
		sealed, err := chain.NewToken(token, s.client).CheckBalanceEncrypted(ctx, s.wallet.Address(), permit.Permission())
		if err != nil {
			return err
		}
		raw, err := fhe.UnsealUint64(fhe.NaClUnsealer{}, permit, sealed.Data)
		if err != nil {
			return err
		}

		fmt.Printf("Balance: %s\n", formatBalance(raw, viewBalanceOpts.Decimals))
		return nil
	},
}

// formatBalance 按代币精度格式化, decimals = 0 时就是原始整数
func formatBalance(raw uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), 0).Shift(-decimals).String()
}

func init() {
	rootCmd.AddCommand(viewBalanceCmd)

	viewBalanceCmd.Flags().StringVarP(&viewBalanceOpts.Address, "address", "a", "", "Token address")
	viewBalanceCmd.Flags().Int32Var(&viewBalanceOpts.Decimals, "decimals", 0, "Token decimals used to format the balance")
	_ = viewBalanceCmd.MarkFlagRequired("address")
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderbook-core/internal/chain"
	"orderbook-core/pkg/config"
	"orderbook-core/pkg/logger"

	"github.com/spf13/cobra"
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:     "order-placer",
	Short:   "机密订单簿命令行工具",
	Long:    `向 FHE 订单簿下加密订单、铸造测试代币以及查看解密后的代币余额。`,
	Version: "1.0.0",

	SilenceUsage:  true,
	SilenceErrors: true,
}

var timeout time.Duration

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall timeout, including waiting for the receipt")
}

// session 一次命令执行需要的配置、钱包和 RPC 连接
type session struct {
	cfg    *config.Config
	wallet *chain.Wallet
	client *chain.Client
}

// connect 先校验配置再建立连接, 缺少 PRIVATE_KEY / CONTRACT_ADDRESS 时不会发出任何网络请求
func connect(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateWallet(); err != nil {
		return nil, err
	}
	logger.Init(cfg.App.Env)

	wallet, err := chain.LoadWallet(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	client, err := chain.Dial(ctx, cfg.Chain)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, wallet: wallet, client: client}, nil
}

func (s *session) Close() {
	s.client.Close()
	logger.Sync()
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"orderbook-core/internal/chain"
	"orderbook-core/internal/fhe"
	"orderbook-core/internal/handler"
	"orderbook-core/internal/orderbook"
	"orderbook-core/internal/scanner"
	"orderbook-core/internal/server"
	"orderbook-core/internal/service"
	"orderbook-core/internal/service/mq"
	"orderbook-core/internal/store"
	"orderbook-core/pkg/config"
	"orderbook-core/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title Order Scanner API
// @version 1.0
// @description Confidential order book scanner and order lookup API

// @host localhost:3000
// @BasePath /
func main() {
	// 0. 加载并校验配置, 缺少必填项时在任何网络请求之前退出
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateScanner()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	// 1. 初始化 Logger
	logger.Init(cfg.App.Env)
	defer logger.Sync()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		logger.Error("order-scanner exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	contract := cfg.ContractAddr()

	// 2. 钱包 & RPC
	wallet, err := chain.LoadWallet(cfg.PrivateKey)
	if err != nil {
		return err
	}
	client, err := chain.Dial(ctx, cfg.Chain)
	if err != nil {
		return err
	}
	defer client.Close()

	// 3. 游标存储
	cursorStore, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer cursorStore.Close()

	cursor, err := scanner.ResumeCursor(ctx, cursorStore, cfg.Scanner.StartBlock, cfg.Scanner.BlockWindow)
	if err != nil {
		return err
	}

	// 4. 订单解析: permit -> getOrder -> unseal
	issuer := fhe.NewEIP712Issuer(wallet.PrivateKey(), cfg.Chain.ChainID, cfg.FHE.PermitTTL)
	permits := fhe.NewPermitManager(issuer, cfg.FHE.PermitTTL).VerifyIssued(cfg.Chain.ChainID)
	book := chain.NewOrderBook(contract, client)
	resolver := service.NewOrderResolver(book, contract, permits, fhe.NaClUnsealer{}, cfg.Scanner.RequestTimeout)

	// 5. 事件投递
	sinks := service.MultiSink{service.NewLoggingSink()}
	if cfg.OrderBook.Enabled {
		logger.Info("forwarding new orders", zap.String("orderbook", cfg.OrderBook.URL))
		sinks = append(sinks, service.NewForwardingSink(resolver, orderbook.NewClient(cfg.OrderBook.URL, cfg.OrderBook.Timeout)))
	}
	producer, err := mq.Open(cfg)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
		logger.Info("publishing events", zap.String("mq", cfg.MQ.Type), zap.String("topic", cfg.MQ.Topic))
		sinks = append(sinks, service.NewPublishingSink(producer, cfg.MQ.Topic))
	}

	loop := scanner.NewPollLoop(cursor, client, scanner.NewEventFetcher(client, contract), sinks, cursorStore, scanner.Options{
		PollingInterval: cfg.Scanner.PollingInterval,
		RequestTimeout:  cfg.Scanner.RequestTimeout,
		MaxBackoff:      cfg.Scanner.MaxBackoff,
		AlertThreshold:  cfg.Scanner.AlertThreshold,
	})

	// 6. HTTP
	api := server.WithCORS(server.NewAPIRouter(handler.NewOrderHandler(resolver)), cfg.App.CorsOrigins)
	app := server.New(server.Config{
		HttpPort:  cfg.App.HttpPort,
		AdminPort: cfg.App.AdminPort,
	}, api, server.NewAdminRouter())

	logger.Info("order-scanner starting",
		zap.String("contract", contract.Hex()),
		zap.String("requester", wallet.Address().Hex()),
		zap.Uint64("start_block", cursor.CurrentBlock()),
		zap.String("cursor_store", cfg.Scanner.CursorStore))

	// 7. 运行直到收到退出信号, 任何一个出错都会让另一个退出
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return app.Run(gctx) })

	err = g.Wait()
	logger.Info("系统已退出")
	return err
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"orderbook-core/pkg/logger"

	"go.uber.org/zap"
)

type Config struct {
	HttpPort  string
	AdminPort string
}

// App 对外 API + 管理端口两个 HTTP 服务
type App struct {
	apiServer   *http.Server
	adminServer *http.Server
}

func New(cfg Config, api http.Handler, admin http.Handler) *App {
	return &App{
		apiServer: &http.Server{
			Addr:              ":" + cfg.HttpPort,
			Handler:           api,
			ReadHeaderTimeout: 10 * time.Second,
		},
		adminServer: &http.Server{
			Addr:              ":" + cfg.AdminPort,
			Handler:           admin,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run 启动服务并阻塞，直到 ctx 被取消或某个服务启动失败
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// 1. Start HTTP
	for _, srv := range []*http.Server{a.apiServer, a.adminServer} {
		go func(srv *http.Server) {
			logger.Info("Starting HTTP Server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	// 2. 等待退出
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case runErr = <-errCh:
		logger.Error("HTTP Server failure", zap.Error(runErr))
	}

	// 3. Graceful Shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, srv := range []*http.Server{a.apiServer, a.adminServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP Server forced to shutdown", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}
	logger.Info("Server exited properly")
	return runErr
}

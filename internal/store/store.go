package store

import (
	"context"
	"fmt"

	"orderbook-core/internal/model"
	"orderbook-core/pkg/config"
	"orderbook-core/pkg/database"
	"orderbook-core/pkg/errno"
	"orderbook-core/pkg/logger"
)

// CursorStore 持久化扫描游标 (下一个待扫描的区块)
// Save 只会让游标前进, 更小的值被忽略
type CursorStore interface {
	Load(ctx context.Context) (next uint64, found bool, err error)
	Save(ctx context.Context, next uint64) error
	Close() error
}

// Open 按 scanner.cursor_store 创建对应的实现
func Open(cfg *config.Config) (CursorStore, error) {
	key := cfg.Scanner.CursorKey
	switch cfg.Scanner.CursorStore {
	case "", "memory":
		return NewMemory(), nil
	case "postgres":
		db, err := database.ConnectPostgres(cfg.DB, false)
		if err != nil {
			return nil, err
		}
		if cfg.App.Env == "development" {
			logger.Info("开发环境: 自动迁移 Schema (GORM AutoMigrate)")
			if err := db.AutoMigrate(model.AllModels()...); err != nil {
				return nil, fmt.Errorf("auto migrate: %w", err)
			}
		} else {
			logger.Info("生产环境: 跳过 AutoMigrate，请使用 migrate 工具管理 Schema")
		}
		return NewPostgres(db, key), nil
	case "redis":
		rdb, err := database.ConnectRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedis(rdb, key), nil
	}
	return nil, errno.Wrap(errno.ErrConfig, fmt.Errorf("unknown cursor store %q", cfg.Scanner.CursorStore))
}

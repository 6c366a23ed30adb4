package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderbook-core/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres 游标存在 scan_cursors 表, 一个 name 一行
type Postgres struct {
	db   *gorm.DB
	name string
}

func NewPostgres(db *gorm.DB, name string) *Postgres {
	return &Postgres{db: db, name: name}
}

func (p *Postgres) Load(ctx context.Context) (uint64, bool, error) {
	var cp model.ScanCheckpoint
	err := p.db.WithContext(ctx).Where("name = ?", p.name).First(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load cursor %s: %w", p.name, err)
	}
	return cp.NextBlock, true, nil
}

// Save upsert, 只有新值更大时才覆盖
func (p *Postgres) Save(ctx context.Context, next uint64) error {
	cp := model.ScanCheckpoint{
		Name:      p.name,
		NextBlock: next,
		UpdatedAt: time.Now().UTC(),
	}
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"next_block", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "scan_cursors.next_block < excluded.next_block"},
		}},
	}).Create(&cp).Error
	if err != nil {
		return fmt.Errorf("save cursor %s: %w", p.name, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

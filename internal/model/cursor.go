package model

import "time"

// ScanCheckpoint 扫描游标的持久化记录
// NextBlock 是下一个待扫描的区块 (即 ScanCursor.currentBlock)
type ScanCheckpoint struct {
	Name      string    `gorm:"primaryKey;size:64"`
	NextBlock uint64    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ScanCheckpoint) TableName() string {
	return "scan_cursors"
}

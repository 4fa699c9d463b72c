package model

// User 用户表 — 对应 users
type User struct {
	BaseModel
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"        json:"username"`
	Name         string `gorm:"type:varchar(100);not null"                   json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                   json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                   json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'lecturer'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true"                        json:"is_active"`

	// 关联
	Lecturer *Lecturer `gorm:"foreignKey:UserID;references:ID" json:"lecturer,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go

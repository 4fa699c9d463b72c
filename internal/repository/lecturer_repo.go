package repository

import (
	"context"

	"gorm.io/gorm"

	"cmcs/backend/internal/model"
)

// LecturerRepository 讲师档案数据访问接口
type LecturerRepository interface {
	Create(ctx context.Context, lecturer *model.Lecturer) error
	GetByID(ctx context.Context, id uint) (*model.Lecturer, error)
	GetByUserID(ctx context.Context, userID uint) (*model.Lecturer, error)
	Update(ctx context.Context, lecturer *model.Lecturer) error
	List(ctx context.Context) ([]model.Lecturer, error)
}

type lecturerRepo struct {
	db *gorm.DB
}

// NewLecturerRepo 创建 LecturerRepository 实例
func NewLecturerRepo(db *gorm.DB) LecturerRepository {
	return &lecturerRepo{db: db}
}

func (r *lecturerRepo) Create(ctx context.Context, lecturer *model.Lecturer) error {
	return r.db.WithContext(ctx).Create(lecturer).Error
}

func (r *lecturerRepo) GetByID(ctx context.Context, id uint) (*model.Lecturer, error) {
	var lecturer model.Lecturer
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&lecturer).Error
	if err != nil {
		return nil, err
	}
	return &lecturer, nil
}

func (r *lecturerRepo) GetByUserID(ctx context.Context, userID uint) (*model.Lecturer, error) {
	var lecturer model.Lecturer
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&lecturer).Error
	if err != nil {
		return nil, err
	}
	return &lecturer, nil
}

func (r *lecturerRepo) Update(ctx context.Context, lecturer *model.Lecturer) error {
	return r.db.WithContext(ctx).Save(lecturer).Error
}

func (r *lecturerRepo) List(ctx context.Context) ([]model.Lecturer, error) {
	var lecturers []model.Lecturer
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("id ASC").
		Find(&lecturers).Error
	return lecturers, err
}

// [自证通过] internal/repository/lecturer_repo.go

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"gorm.io/gorm"

	"cmcs/backend/config"
	"cmcs/backend/internal/model"
	"cmcs/backend/internal/repository"
)

// ── Mock Repositories ──

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	all := m.sorted()
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	var result []model.User
	for _, u := range m.sorted() {
		if u.Role == role && u.IsActive {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) sorted() []model.User {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type mockLecturerRepo struct {
	lecturers map[uint]*model.Lecturer
	nextID    uint
}

func newMockLecturerRepo() *mockLecturerRepo {
	return &mockLecturerRepo{lecturers: make(map[uint]*model.Lecturer), nextID: 1}
}

func (m *mockLecturerRepo) Create(_ context.Context, lecturer *model.Lecturer) error {
	if lecturer.ID == 0 {
		lecturer.ID = m.nextID
		m.nextID++
	}
	m.lecturers[lecturer.ID] = lecturer
	return nil
}

func (m *mockLecturerRepo) GetByID(_ context.Context, id uint) (*model.Lecturer, error) {
	if l, ok := m.lecturers[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLecturerRepo) GetByUserID(_ context.Context, userID uint) (*model.Lecturer, error) {
	for _, l := range m.lecturers {
		if l.UserID == userID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLecturerRepo) Update(_ context.Context, lecturer *model.Lecturer) error {
	m.lecturers[lecturer.ID] = lecturer
	return nil
}

func (m *mockLecturerRepo) List(_ context.Context) ([]model.Lecturer, error) {
	result := make([]model.Lecturer, 0, len(m.lecturers))
	for _, l := range m.lecturers {
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type mockClaimRepo struct {
	claims map[uint]*model.Claim
	nextID uint
	// 与真实仓库一致：GetByID / ListByStatus 预载审批记录
	approvals *mockApprovalRepo
}

func newMockClaimRepo(approvals *mockApprovalRepo) *mockClaimRepo {
	return &mockClaimRepo{claims: make(map[uint]*model.Claim), nextID: 1, approvals: approvals}
}

func (m *mockClaimRepo) Create(_ context.Context, claim *model.Claim) error {
	if claim.ID == 0 {
		claim.ID = m.nextID
		m.nextID++
	}
	m.claims[claim.ID] = claim
	return nil
}

func (m *mockClaimRepo) GetByID(ctx context.Context, id uint) (*model.Claim, error) {
	if c, ok := m.claims[id]; ok {
		loaded := *c
		loaded.Approvals, _ = m.approvals.ListByClaim(ctx, c.ID)
		return &loaded, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClaimRepo) Update(_ context.Context, claim *model.Claim) error {
	m.claims[claim.ID] = claim
	return nil
}

func (m *mockClaimRepo) ListByLecturer(_ context.Context, lecturerID uint, offset, limit int) ([]model.Claim, int64, error) {
	var all []model.Claim
	for _, c := range m.sorted() {
		if c.LecturerID == lecturerID {
			all = append(all, c)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockClaimRepo) CountByLecturerAndMonth(_ context.Context, lecturerID uint, monthYear string) (int64, error) {
	var count int64
	for _, c := range m.claims {
		if c.LecturerID == lecturerID && c.MonthYear == monthYear {
			count++
		}
	}
	return count, nil
}

func (m *mockClaimRepo) ListByStatus(ctx context.Context, status model.ClaimStatus) ([]model.Claim, error) {
	var result []model.Claim
	for _, c := range m.sorted() {
		if c.Status == status {
			c.Approvals, _ = m.approvals.ListByClaim(ctx, c.ID)
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockClaimRepo) ListAll(_ context.Context) ([]model.Claim, error) {
	return m.sorted(), nil
}

func (m *mockClaimRepo) sorted() []model.Claim {
	result := make([]model.Claim, 0, len(m.claims))
	for _, c := range m.claims {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type mockApprovalRepo struct {
	approvals map[uint]*model.Approval
	nextID    uint
}

func newMockApprovalRepo() *mockApprovalRepo {
	return &mockApprovalRepo{approvals: make(map[uint]*model.Approval), nextID: 1}
}

func (m *mockApprovalRepo) Create(_ context.Context, approval *model.Approval) error {
	if approval.ID == 0 {
		approval.ID = m.nextID
		m.nextID++
	}
	m.approvals[approval.ID] = approval
	return nil
}

func (m *mockApprovalRepo) ListByClaim(_ context.Context, claimID uint) ([]model.Approval, error) {
	var result []model.Approval
	for _, a := range m.approvals {
		if a.ClaimID == claimID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ApprovalOrder < result[j].ApprovalOrder })
	return result, nil
}

func (m *mockApprovalRepo) CountByClaim(_ context.Context, claimID uint) (int64, error) {
	var count int64
	for _, a := range m.approvals {
		if a.ClaimID == claimID {
			count++
		}
	}
	return count, nil
}

func (m *mockApprovalRepo) ListAll(_ context.Context) ([]model.Approval, error) {
	result := make([]model.Approval, 0, len(m.approvals))
	for _, a := range m.approvals {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type mockDocumentRepo struct {
	docs   map[uint]*model.Document
	nextID uint
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[uint]*model.Document), nextID: 1}
}

func (m *mockDocumentRepo) Create(_ context.Context, doc *model.Document) error {
	if doc.ID == 0 {
		doc.ID = m.nextID
		m.nextID++
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockDocumentRepo) GetByID(_ context.Context, id uint) (*model.Document, error) {
	if d, ok := m.docs[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDocumentRepo) ListByClaim(_ context.Context, claimID uint) ([]model.Document, error) {
	var result []model.Document
	for _, d := range m.docs {
		if d.ClaimID == claimID && d.IsActive {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockDocumentRepo) Update(_ context.Context, doc *model.Document) error {
	m.docs[doc.ID] = doc
	return nil
}

type mockNotificationRepo struct {
	notifications map[uint]*model.Notification
	nextID        uint
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[uint]*model.Notification), nextID: 1}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == 0 {
		n.ID = m.nextID
		m.nextID++
	}
	m.notifications[n.ID] = n
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id uint) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]model.Notification, int64, error) {
	var all []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockNotificationRepo) Update(_ context.Context, n *model.Notification) error {
	m.notifications[n.ID] = n
	return nil
}

// ── Mock Storage ──

// mockStorage 把附件内容保存在内存里，便于测试部分成功语义
type mockStorage struct {
	files  map[string][]byte
	nextID int
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: make(map[string][]byte), nextID: 1}
}

func (m *mockStorage) Save(claimID uint, originalName string, src io.Reader) (string, int64, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", 0, err
	}
	path := fmt.Sprintf("claim-%d/file-%d", claimID, m.nextID)
	m.nextID++
	m.files[path] = data
	return path, int64(len(data)), nil
}

func (m *mockStorage) Open(path string) (io.ReadCloser, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ── 测试装配 ──

func newTestRepository() *repository.Repository {
	approvals := newMockApprovalRepo()
	return &repository.Repository{
		User:         newMockUserRepo(),
		Lecturer:     newMockLecturerRepo(),
		Claim:        newMockClaimRepo(approvals),
		Approval:     approvals,
		Document:     newMockDocumentRepo(),
		Notification: newMockNotificationRepo(),
	}
}

func newTestConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			Dir:          "./uploads",
			MaxFileSize:  5 * 1024 * 1024,
			AllowedTypes: []string{"pdf", "doc", "docx", "jpg", "jpeg", "png"},
			MaxBodySize:  32 * 1024 * 1024,
		},
	}
}

// [自证通过] internal/service/mock_repos_test.go

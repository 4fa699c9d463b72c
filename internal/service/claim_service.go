package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cmcs/backend/config"
	"cmcs/backend/internal/dto"
	"cmcs/backend/internal/model"
	"cmcs/backend/internal/repository"
)

// ── 报账模块业务错误 ──

var (
	ErrClaimNotFound    = errors.New("报账单不存在")
	ErrLecturerNotFound = errors.New("讲师档案不存在")
	ErrInvalidStatus    = errors.New("状态值无效")
	ErrRoleCannotDecide = errors.New("该角色无审批权限")
)

// UploadedFile 提交报账时携带的一个附件
type UploadedFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Storage 附件存储协作方
type Storage interface {
	Save(claimID uint, originalName string, src io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
}

// ClaimService 报账业务接口
type ClaimService interface {
	// Submit 提交报账：computeAmount → validate → 落库 Submitted → 附件 → 通知协调员
	// 附件校验失败只跳过不阻断提交（部分成功语义）
	Submit(ctx context.Context, userID uint, req *dto.SubmitClaimRequest, files []UploadedFile) (*dto.SubmitClaimResponse, error)
	// Decide 记录一次审批决定：覆盖状态并追加审批记录
	// 对已到终态的报账单再次调用仍被允许（沿用原系统行为）
	Decide(ctx context.Context, claimID uint, req *dto.DecideClaimRequest, approverID uint, approverRole model.Role) (*dto.ClaimResponse, error)
	GetByID(ctx context.Context, claimID uint) (*dto.ClaimResponse, error)
	ListMine(ctx context.Context, userID uint, req *dto.ClaimListRequest) ([]dto.ClaimResponse, int64, error)
	// ListPending 审批队列：Submitted 状态，按
	// RequiresManagerApproval 降序 → 金额降序 → 提交时间升序 排序
	ListPending(ctx context.Context) ([]dto.ClaimResponse, error)
	// HRUpdate 带外编辑：工时/时薪/备注/状态；金额始终重新推导
	HRUpdate(ctx context.Context, claimID uint, req *dto.HRUpdateClaimRequest) (*dto.ClaimResponse, error)
}

type claimService struct {
	cfg     *config.Config
	repo    *repository.Repository
	storage Storage
	logger  *zap.Logger
}

// NewClaimService 创建 ClaimService 实例
func NewClaimService(cfg *config.Config, repo *repository.Repository, storage Storage, logger *zap.Logger) ClaimService {
	return &claimService{cfg: cfg, repo: repo, storage: storage, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *claimService) Submit(ctx context.Context, userID uint, req *dto.SubmitClaimRequest, files []UploadedFile) (*dto.SubmitClaimResponse, error) {
	// 1. 定位讲师档案
	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLecturerNotFound
		}
		s.logger.Error("查询讲师档案失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 2. 解析数值
	hours, err := decimal.NewFromString(req.HoursWorked)
	if err != nil {
		return nil, ErrInvalidNumber
	}
	rate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil {
		return nil, ErrInvalidNumber
	}

	// 3. 当月已提交次数
	now := time.Now()
	bucket := MonthBucket(now)
	existing, err := s.repo.Claim.CountByLecturerAndMonth(ctx, lecturer.ID, bucket)
	if err != nil {
		s.logger.Error("统计当月报账次数失败", zap.Uint("lecturer_id", lecturer.ID), zap.Error(err))
		return nil, err
	}

	// 4. 校验（短路，第一个失败的检查直接返回）
	if err := ValidateSubmission(hours, rate, int(existing)); err != nil {
		return nil, err
	}

	// 5. 金额由计费引擎推导，不接受调用方提供
	amount := ComputeAmount(hours, rate)

	claim := &model.Claim{
		LecturerID:  lecturer.ID,
		MonthYear:   bucket,
		ClaimDate:   now,
		HoursWorked: hours,
		HourlyRate:  rate,
		Amount:      amount,
		Status:      model.StatusSubmitted,
		Comments:    req.Comments,
	}
	if err := s.repo.Claim.Create(ctx, claim); err != nil {
		s.logger.Error("保存报账单失败", zap.Uint("lecturer_id", lecturer.ID), zap.Error(err))
		return nil, err
	}

	// 6. 附件：逐个校验并保存，失败只跳过，不回滚报账单
	docs, skipped := s.saveDocuments(ctx, claim.ID, files)

	// 7. 通知协调员（即发即忘）
	s.notifyCoordinators(ctx, claim, lecturer)

	resp := s.toClaimResponse(claim, nil)
	resp.Documents = docs
	return &dto.SubmitClaimResponse{Claim: *resp, SkippedFiles: skipped}, nil
}

// saveDocuments 保存通过校验的附件，返回已保存的附件与被跳过的文件名
func (s *claimService) saveDocuments(ctx context.Context, claimID uint, files []UploadedFile) ([]dto.DocumentResponse, []string) {
	var docs []dto.DocumentResponse
	var skipped []string

	for _, f := range files {
		if err := s.validateUpload(f.Name, f.Size); err != nil {
			s.logger.Warn("附件校验未通过，已跳过",
				zap.Uint("claim_id", claimID),
				zap.String("file", f.Name),
				zap.Error(err),
			)
			skipped = append(skipped, f.Name)
			continue
		}

		path, size, err := s.storage.Save(claimID, f.Name, f.Content)
		if err != nil {
			s.logger.Error("附件写入失败，已跳过",
				zap.Uint("claim_id", claimID),
				zap.String("file", f.Name),
				zap.Error(err),
			)
			skipped = append(skipped, f.Name)
			continue
		}

		doc := &model.Document{
			ClaimID:     claimID,
			FileName:    f.Name,
			StoragePath: path,
			FileSize:    size,
			FileType:    strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), "."),
			IsActive:    true,
		}
		if err := s.repo.Document.Create(ctx, doc); err != nil {
			// 元数据落库失败同样不阻断提交（接受的不一致，报账单保持 Submitted）
			s.logger.Error("附件元数据保存失败，已跳过",
				zap.Uint("claim_id", claimID),
				zap.String("file", f.Name),
				zap.Error(err),
			)
			skipped = append(skipped, f.Name)
			continue
		}

		docs = append(docs, toDocumentResponse(doc))
	}

	return docs, skipped
}

// validateUpload 单个附件校验：大小与扩展名白名单
func (s *claimService) validateUpload(name string, size int64) error {
	if size > s.cfg.Upload.MaxFileSize {
		return fmt.Errorf("文件超过大小上限 %d 字节", s.cfg.Upload.MaxFileSize)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, allowed := range s.cfg.Upload.AllowedTypes {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("不支持的文件类型: %q", ext)
}

// ────────────────────── Decide ──────────────────────

func (s *claimService) Decide(ctx context.Context, claimID uint, req *dto.DecideClaimRequest, approverID uint, approverRole model.Role) (*dto.ClaimResponse, error) {
	// 路由层已按角色放行，这里再按枚举兜底一次
	if !approverRole.CanDecide() {
		return nil, ErrRoleCannotDecide
	}

	claim, err := s.repo.Claim.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		s.logger.Error("查询报账单失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}

	// 覆盖状态：不校验当前状态，终态报账单可被再次决定（沿用原系统行为）
	// 读-改-写之间无并发保护，并发 Decide 存在后写覆盖（已知弱点，见 DESIGN.md）
	now := time.Now()
	if *req.Approved {
		claim.Status = model.StatusApproved
	} else {
		claim.Status = model.StatusRejected
	}
	if err := s.repo.Claim.Update(ctx, claim); err != nil {
		s.logger.Error("更新报账单状态失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}

	// 追加审批记录：序号 = 既有记录数 + 1
	count, err := s.repo.Approval.CountByClaim(ctx, claimID)
	if err != nil {
		s.logger.Error("统计审批记录失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}
	approval := &model.Approval{
		ClaimID:       claimID,
		ApproverID:    approverID,
		ApproverRole:  approverRole,
		Approved:      *req.Approved,
		Comment:       req.Comment,
		ApprovalOrder: int(count) + 1,
		DecidedAt:     now,
	}
	if err := s.repo.Approval.Create(ctx, approval); err != nil {
		s.logger.Error("保存审批记录失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}

	// 通知讲师（即发即忘）
	s.notifyLecturerOfDecision(ctx, claim, *req.Approved, req.Comment)

	resp := s.toClaimResponse(claim, nil)
	if approvals, err := s.repo.Approval.ListByClaim(ctx, claimID); err == nil {
		resp.Approvals = toApprovalResponses(approvals)
	}
	return resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *claimService) GetByID(ctx context.Context, claimID uint) (*dto.ClaimResponse, error) {
	claim, err := s.repo.Claim.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		s.logger.Error("查询报账单失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}

	flags := computeFlags(claim, time.Now())
	resp := s.toClaimResponse(claim, flags)

	if approvals, err := s.repo.Approval.ListByClaim(ctx, claimID); err == nil {
		resp.Approvals = toApprovalResponses(approvals)
	}
	if docs, err := s.repo.Document.ListByClaim(ctx, claimID); err == nil {
		for i := range docs {
			resp.Documents = append(resp.Documents, toDocumentResponse(&docs[i]))
		}
	}

	return resp, nil
}

func (s *claimService) ListMine(ctx context.Context, userID uint, req *dto.ClaimListRequest) ([]dto.ClaimResponse, int64, error) {
	lecturer, err := s.repo.Lecturer.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrLecturerNotFound
		}
		s.logger.Error("查询讲师档案失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	claims, total, err := s.repo.Claim.ListByLecturer(ctx, lecturer.ID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询报账单列表失败", zap.Uint("lecturer_id", lecturer.ID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ClaimResponse, 0, len(claims))
	for i := range claims {
		result = append(result, *s.toClaimResponse(&claims[i], nil))
	}
	return result, total, nil
}

func (s *claimService) ListPending(ctx context.Context) ([]dto.ClaimResponse, error) {
	claims, err := s.repo.Claim.ListByStatus(ctx, model.StatusSubmitted)
	if err != nil {
		s.logger.Error("查询待审报账单失败", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	type entry struct {
		claim *model.Claim
		flags *dto.ClaimFlags
	}
	entries := make([]entry, 0, len(claims))
	for i := range claims {
		entries = append(entries, entry{
			claim: &claims[i],
			flags: computeFlags(&claims[i], now),
		})
	}

	// 队列排序：需经理审批优先 → 金额降序 → 最早提交优先
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.flags.RequiresManagerApproval != b.flags.RequiresManagerApproval {
			return a.flags.RequiresManagerApproval
		}
		if cmp := a.claim.Amount.Cmp(b.claim.Amount); cmp != 0 {
			return cmp > 0
		}
		return a.claim.ClaimDate.Before(b.claim.ClaimDate)
	})

	result := make([]dto.ClaimResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, *s.toClaimResponse(e.claim, e.flags))
	}
	return result, nil
}

// ────────────────────── HRUpdate ──────────────────────

func (s *claimService) HRUpdate(ctx context.Context, claimID uint, req *dto.HRUpdateClaimRequest) (*dto.ClaimResponse, error) {
	claim, err := s.repo.Claim.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		s.logger.Error("查询报账单失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}

	if req.HoursWorked != nil {
		hours, err := decimal.NewFromString(*req.HoursWorked)
		if err != nil {
			return nil, ErrInvalidNumber
		}
		claim.HoursWorked = hours
	}
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(*req.HourlyRate)
		if err != nil {
			return nil, ErrInvalidNumber
		}
		claim.HourlyRate = rate
	}
	if req.Comments != nil {
		claim.Comments = *req.Comments
	}
	if req.Status != nil {
		// under_review / paid 只能经由此带外编辑到达
		status := model.ClaimStatus(*req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		claim.Status = status
	}

	// 金额始终重新推导，不接受直接编辑
	claim.Amount = ComputeAmount(claim.HoursWorked, claim.HourlyRate)

	if err := s.repo.Claim.Update(ctx, claim); err != nil {
		s.logger.Error("更新报账单失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}

	return s.toClaimResponse(claim, nil), nil
}

// ── 通知（即发即忘：失败仅记日志，不影响主流程）──

func (s *claimService) notifyCoordinators(ctx context.Context, claim *model.Claim, lecturer *model.Lecturer) {
	coordinators, err := s.repo.User.ListByRole(ctx, model.RoleCoordinator)
	if err != nil {
		s.logger.Error("查询协调员列表失败", zap.Error(err))
		return
	}

	name := ""
	if lecturer.User != nil {
		name = lecturer.User.Name
	}
	claimID := claim.ID
	for i := range coordinators {
		n := &model.Notification{
			UserID:  coordinators[i].ID,
			Type:    "claim_submitted",
			Title:   "有新的报账单待审批",
			Content: fmt.Sprintf("讲师 %s 提交了 %s 月报账单，金额 %s", name, claim.MonthYear, claim.Amount.StringFixed(2)),
			ClaimID: &claimID,
		}
		if err := s.repo.Notification.Create(ctx, n); err != nil {
			s.logger.Error("写入协调员通知失败", zap.Uint("user_id", coordinators[i].ID), zap.Error(err))
		}
	}
}

func (s *claimService) notifyLecturerOfDecision(ctx context.Context, claim *model.Claim, approved bool, comment string) {
	lecturer, err := s.repo.Lecturer.GetByID(ctx, claim.LecturerID)
	if err != nil {
		s.logger.Error("查询讲师档案失败", zap.Uint("lecturer_id", claim.LecturerID), zap.Error(err))
		return
	}

	result := "已批准"
	if !approved {
		result = "已驳回"
	}
	content := fmt.Sprintf("您 %s 月的报账单（金额 %s）%s", claim.MonthYear, claim.Amount.StringFixed(2), result)
	if comment != "" {
		content += "，审批意见: " + comment
	}

	claimID := claim.ID
	n := &model.Notification{
		UserID:  lecturer.UserID,
		Type:    "claim_decided",
		Title:   "报账单审批结果",
		Content: content,
		ClaimID: &claimID,
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Error("写入讲师通知失败", zap.Uint("user_id", lecturer.UserID), zap.Error(err))
	}
}

// ── 内部辅助方法 ──

// computeFlags 计算派生标记
// RequiresManagerApproval 由报账单自身的审批历史推导：
// 大额单被协调员决定后等待经理确认
func computeFlags(claim *model.Claim, now time.Time) *dto.ClaimFlags {
	days := DaysPending(claim.ClaimDate, now)
	return &dto.ClaimFlags{
		HasExcessiveHours:       HasExcessiveHours(claim.HoursWorked),
		HasUnusualAmount:        HasUnusualAmount(claim.Amount),
		RequiresManagerApproval: RequiresManagerApproval(claim.Amount, LastDecidingRole(claim.Approvals)),
		Priority:                PriorityOf(claim.Amount, days),
		RequiresAttention:       RequiresAttention(claim.HoursWorked, claim.Amount, days),
		DaysPending:             days,
	}
}

func (s *claimService) toClaimResponse(claim *model.Claim, flags *dto.ClaimFlags) *dto.ClaimResponse {
	resp := &dto.ClaimResponse{
		ID:          claim.ID,
		LecturerID:  claim.LecturerID,
		MonthYear:   claim.MonthYear,
		ClaimDate:   claim.ClaimDate.Format("2006-01-02T15:04:05Z"),
		HoursWorked: claim.HoursWorked.StringFixed(2),
		HourlyRate:  claim.HourlyRate.StringFixed(2),
		Amount:      claim.Amount.StringFixed(2),
		Status:      string(claim.Status),
		Comments:    claim.Comments,
		Flags:       flags,
		CreatedAt:   claim.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   claim.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if claim.Lecturer != nil {
		name := ""
		if claim.Lecturer.User != nil {
			name = claim.Lecturer.User.Name
		}
		resp.Lecturer = &dto.LecturerBrief{
			ID:         claim.Lecturer.ID,
			Name:       name,
			EmployeeNo: claim.Lecturer.EmployeeNo,
			Department: claim.Lecturer.Department,
		}
	}
	return resp
}

func toApprovalResponses(approvals []model.Approval) []dto.ApprovalResponse {
	result := make([]dto.ApprovalResponse, 0, len(approvals))
	for i := range approvals {
		a := &approvals[i]
		name := ""
		if a.Approver != nil {
			name = a.Approver.Name
		}
		result = append(result, dto.ApprovalResponse{
			ID:            a.ID,
			ClaimID:       a.ClaimID,
			ApproverID:    a.ApproverID,
			ApproverName:  name,
			ApproverRole:  string(a.ApproverRole),
			Approved:      a.Approved,
			Comment:       a.Comment,
			ApprovalOrder: a.ApprovalOrder,
			DecidedAt:     a.DecidedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return result
}

func toDocumentResponse(doc *model.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:         doc.ID,
		ClaimID:    doc.ClaimID,
		FileName:   doc.FileName,
		FileSize:   doc.FileSize,
		FileType:   doc.FileType,
		UploadedAt: doc.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/claim_service.go

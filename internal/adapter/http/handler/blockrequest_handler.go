package handler

import (
	"time"

	"bank-card-api/internal/adapter/http/dto"
	"bank-card-api/internal/adapter/http/middleware"
	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
	"bank-card-api/pkg/apperror"
	"bank-card-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BlockRequestHandler handles the card block request workflow.
type BlockRequestHandler struct {
	reqSvc ports.BlockRequestService
}

// NewBlockRequestHandler creates a new BlockRequestHandler.
func NewBlockRequestHandler(reqSvc ports.BlockRequestService) *BlockRequestHandler {
	return &BlockRequestHandler{reqSvc: reqSvc}
}

// Create handles POST /api/v1/block-requests.
func (h *BlockRequestHandler) Create(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateBlockRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.reqSvc.Create(c.Request.Context(), caller, req.CardNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toBlockRequestResponse(result))
}

// GetByID handles GET /api/v1/block-requests/:id.
func (h *BlockRequestHandler) GetByID(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid block request id"))
		return
	}

	result, err := h.reqSvc.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toBlockRequestResponse(result))
}

// List handles GET /api/v1/block-requests.
func (h *BlockRequestHandler) List(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	page := ports.PageParams{Page: q.Page, PageSize: q.PageSize}.Normalize()
	requests, total, err := h.reqSvc.List(c.Request.Context(), caller, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BlockRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, toBlockRequestResponse(&requests[i]))
	}

	response.OK(c, dto.BlockRequestListResponse{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: dto.TotalPages(total, page.PageSize),
	})
}

// Approve handles POST /api/v1/block-requests/:id/approve (admin only).
func (h *BlockRequestHandler) Approve(c *gin.Context) {
	h.process(c, true)
}

// Reject handles POST /api/v1/block-requests/:id/reject (admin only).
func (h *BlockRequestHandler) Reject(c *gin.Context) {
	h.process(c, false)
}

func (h *BlockRequestHandler) process(c *gin.Context, approve bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid block request id"))
		return
	}

	var result *domain.BlockRequest
	if approve {
		result, err = h.reqSvc.Approve(c.Request.Context(), caller, id)
	} else {
		result, err = h.reqSvc.Reject(c.Request.Context(), caller, id)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toBlockRequestResponse(result))
}

// toBlockRequestResponse converts domain.BlockRequest to DTO.
func toBlockRequestResponse(r *domain.BlockRequest) dto.BlockRequestResponse {
	resp := dto.BlockRequestResponse{
		ID:         r.ID.String(),
		CardNumber: domain.MaskCardNumber(r.CardNumber),
		UserID:     r.UserID.String(),
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
	if r.AdminID != nil {
		s := r.AdminID.String()
		resp.AdminID = &s
	}
	if r.UpdatedAt != nil {
		s := r.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &s
	}
	return resp
}

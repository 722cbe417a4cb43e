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

// TransactionHandler handles card-to-card transfer endpoints.
type TransactionHandler struct {
	txSvc ports.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txSvc ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{txSvc: txSvc}
}

// Create handles POST /api/v1/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.txSvc.Create(c.Request.Context(), caller, ports.TransferRequest{
		SenderCardNumber:   req.SenderCardNumber,
		ReceiverCardNumber: req.ReceiverCardNumber,
		Amount:             req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// GetByID handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) GetByID(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	txn, err := h.txSvc.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// List handles GET /api/v1/transactions.
// Regular users only see transfers sent from their own cards.
func (h *TransactionHandler) List(c *gin.Context) {
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
	txns, total, err := h.txSvc.List(c.Request.Context(), caller, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: dto.TotalPages(total, page.PageSize),
	})
}

// toTransactionResponse converts domain.Transaction to DTO with masked numbers.
func toTransactionResponse(txn *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                 txn.ID.String(),
		SenderCardNumber:   domain.MaskCardNumber(txn.SenderCardNumber),
		ReceiverCardNumber: domain.MaskCardNumber(txn.ReceiverCardNumber),
		Amount:             txn.Amount,
		Status:             string(txn.Status),
		CreatedAt:          txn.CreatedAt.Format(time.RFC3339),
	}
}

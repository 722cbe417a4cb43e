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

// CardHandler handles card management endpoints.
type CardHandler struct {
	cardSvc ports.CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardSvc ports.CardService) *CardHandler {
	return &CardHandler{cardSvc: cardSvc}
}

// Create handles POST /api/v1/cards (admin only).
func (h *CardHandler) Create(c *gin.Context) {
	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid owner id"))
		return
	}

	card, err := h.cardSvc.Create(c.Request.Context(), ports.CreateCardRequest{
		OwnerID:        ownerID,
		ValidityPeriod: req.ValidityPeriod,
		Balance:        req.Balance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toCardResponse(card))
}

// GetByNumber handles GET /api/v1/cards/:number.
func (h *CardHandler) GetByNumber(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	number, err := cardNumberParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	card, err := h.cardSvc.GetByNumber(c.Request.Context(), caller, number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toCardResponse(card))
}

// List handles GET /api/v1/cards.
// Regular users only ever see their own cards regardless of filters.
func (h *CardHandler) List(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.CardListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	filter := ports.CardFilter{
		Page: ports.PageParams{Page: q.Page, PageSize: q.PageSize}.Normalize(),
	}
	if q.Status != "" {
		status := domain.CardStatus(q.Status)
		filter.Status = &status
	}
	if q.Contains != "" {
		filter.NumberContains = &q.Contains
	}
	if q.OwnerID != "" {
		ownerID, err := uuid.Parse(q.OwnerID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid owner id"))
			return
		}
		filter.OwnerID = &ownerID
	}

	cards, total, err := h.cardSvc.List(c.Request.Context(), caller, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.CardResponse, 0, len(cards))
	for i := range cards {
		items = append(items, toCardResponse(&cards[i]))
	}

	response.OK(c, dto.CardListResponse{
		Items:      items,
		Total:      total,
		Page:       filter.Page.Page,
		PageSize:   filter.Page.PageSize,
		TotalPages: dto.TotalPages(total, filter.Page.PageSize),
	})
}

// Update handles PUT /api/v1/cards/:number (admin only).
func (h *CardHandler) Update(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	number, err := cardNumberParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid owner id"))
		return
	}

	card, err := h.cardSvc.Update(c.Request.Context(), caller, number, ports.UpdateCardRequest{
		OwnerID:        ownerID,
		ValidityPeriod: req.ValidityPeriod,
		Status:         domain.CardStatus(req.Status),
		Balance:        req.Balance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toCardResponse(card))
}

// Delete handles DELETE /api/v1/cards/:number (admin only).
func (h *CardHandler) Delete(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	number, err := cardNumberParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.cardSvc.Delete(c.Request.Context(), caller, number); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// cardNumberParam extracts and validates the :number route parameter.
func cardNumberParam(c *gin.Context) (string, error) {
	number := c.Param("number")
	if len(number) != domain.CardNumberLength {
		return "", apperror.Validation("card number must be 16 digits")
	}
	for _, ch := range number {
		if ch < '0' || ch > '9' {
			return "", apperror.Validation("card number must be 16 digits")
		}
	}
	return number, nil
}

// toCardResponse converts domain.Card to DTO, masking the card number.
func toCardResponse(card *domain.Card) dto.CardResponse {
	return dto.CardResponse{
		Number:         domain.MaskCardNumber(card.Number),
		OwnerID:        card.OwnerID.String(),
		ValidityPeriod: card.ValidityPeriod.String(),
		Status:         string(card.Status),
		Balance:        card.Balance,
		CreatedAt:      card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      card.UpdatedAt.Format(time.RFC3339),
	}
}

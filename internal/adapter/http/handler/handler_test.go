package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bank-card-api/internal/adapter/http/dto"
	"bank-card-api/internal/adapter/http/middleware"
	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
	"bank-card-api/internal/core/ports/mocks"
	"bank-card-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContext builds a gin context carrying an optional JSON body and the
// authenticated caller identity set by the JWT middleware.
func newTestContext(w *httptest.ResponseRecorder, method, target string, body interface{}, caller *domain.Caller) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if caller != nil {
		c.Set(middleware.CtxUserID, caller.ID)
		c.Set(middleware.CtxRole, caller.Role)
	}
	return c
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), "newuser", "password123").Return(&domain.User{
		ID:       userID,
		Username: "newuser",
		Role:     domain.RoleUser,
	}, nil)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Username: "newuser",
		Password: "password123",
	}, nil)

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, userID.String(), data["id"])
	assert.Equal(t, "newuser", data["username"])
	assert.Equal(t, "USER", data["role"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/auth/register", map[string]string{}, nil)

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestRegister_UsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), "taken", "password123").
		Return(nil, apperror.ErrUsernameTaken("taken"))

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Username: "taken",
		Password: "password123",
	}, nil)

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_002")
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "alice", "password123").Return("jwt-token-123", expiry, nil)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Username: "alice",
		Password: "password123",
	}, nil)

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "jwt-token-123", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad", "wrongpass").
		Return("", time.Time{}, apperror.ErrInvalidCredentials())

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Username: "bad",
		Password: "wrongpass",
	}, nil)

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_001")
}

// --- User Handler Tests ---

func TestUserCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockUserService(ctrl)
	h := NewUserHandler(mockUsers)

	userID := uuid.New()
	mockUsers.EXPECT().Create(gomock.Any(), ports.CreateUserRequest{
		Username: "operator",
		Password: "password123",
		Role:     domain.RoleAdmin,
	}).Return(&domain.User{ID: userID, Username: "operator", Role: domain.RoleAdmin}, nil)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/users", dto.CreateUserRequest{
		Username: "operator",
		Password: "password123",
		Role:     "ADMIN",
	}, nil)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "ADMIN", data["role"])
}

func TestUserCreate_RejectsUnknownRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockUserService(ctrl)
	h := NewUserHandler(mockUsers)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/users", dto.CreateUserRequest{
		Username: "operator",
		Password: "password123",
		Role:     "SUPERUSER",
	}, nil)

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserGetByID_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockUserService(ctrl)
	h := NewUserHandler(mockUsers)

	userID := uuid.New()
	mockUsers.EXPECT().GetByID(gomock.Any(), userID).
		Return(nil, apperror.ErrNotFound("User", userID.String()))

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/api/v1/users/"+userID.String(), nil, nil)
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RES_001")
}

func TestUserGetByID_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockUserService(ctrl)
	h := NewUserHandler(mockUsers)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/api/v1/users/not-a-uuid", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserList_Paginated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockUserService(ctrl)
	h := NewUserHandler(mockUsers)

	mockUsers.EXPECT().List(gomock.Any(), ports.PageParams{Page: 2, PageSize: 10}).
		Return([]domain.User{{ID: uuid.New(), Username: "alice", Role: domain.RoleUser}}, int64(11), nil)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/api/v1/users?page=2&page_size=10", nil, nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(11), data["total"])
	assert.Equal(t, float64(2), data["page"])
	assert.Equal(t, float64(2), data["total_pages"])
}

// --- Card Handler Tests ---

func TestCardCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardService(ctrl)
	h := NewCardHandler(mockCards)

	ownerID := uuid.New()
	validity := domain.YearMonth{Year: 2030, Month: 12}
	mockCards.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, req ports.CreateCardRequest) (*domain.Card, error) {
			assert.Equal(t, ownerID, req.OwnerID)
			assert.Equal(t, validity, req.ValidityPeriod)
			assert.True(t, req.Balance.Equal(decimal.NewFromInt(100)))
			return &domain.Card{
				Number:         "4000001234567899",
				OwnerID:        ownerID,
				ValidityPeriod: validity,
				Status:         domain.CardStatusActive,
				Balance:        req.Balance,
			}, nil
		})

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/cards", dto.CreateCardRequest{
		OwnerID:        ownerID.String(),
		ValidityPeriod: validity,
		Balance:        decimal.NewFromInt(100),
	}, nil)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "**** **** **** 7899", data["number"])
	assert.Equal(t, "ACTIVE", data["status"])
	assert.Equal(t, "12/30", data["validity_period"])
}

func TestCardGetByNumber_MasksNumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardService(ctrl)
	h := NewCardHandler(mockCards)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleUser}
	mockCards.EXPECT().GetByNumber(gomock.Any(), caller, "4000001234567899").
		Return(&domain.Card{
			Number:         "4000001234567899",
			OwnerID:        caller.ID,
			ValidityPeriod: domain.YearMonth{Year: 2030, Month: 12},
			Status:         domain.CardStatusActive,
			Balance:        decimal.NewFromInt(50),
		}, nil)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/api/v1/cards/4000001234567899", nil, &caller)
	c.Params = gin.Params{{Key: "number", Value: "4000001234567899"}}

	h.GetByNumber(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "**** **** **** 7899", data["number"])
	assert.NotContains(t, w.Body.String(), "4000001234567899")
}

func TestCardGetByNumber_InvalidParam(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardService(ctrl)
	h := NewCardHandler(mockCards)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleUser}
	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/api/v1/cards/12345", nil, &caller)
	c.Params = gin.Params{{Key: "number", Value: "12345"}}

	h.GetByNumber(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardGetByNumber_NoAuthContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardService(ctrl)
	h := NewCardHandler(mockCards)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/api/v1/cards/4000001234567899", nil, nil)
	c.Params = gin.Params{{Key: "number", Value: "4000001234567899"}}

	h.GetByNumber(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCardList_ForwardsFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardService(ctrl)
	h := NewCardHandler(mockCards)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
	mockCards.EXPECT().List(gomock.Any(), caller, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ domain.Caller, filter ports.CardFilter) ([]domain.Card, int64, error) {
			require.NotNil(t, filter.Status)
			assert.Equal(t, domain.CardStatusActive, *filter.Status)
			require.NotNil(t, filter.NumberContains)
			assert.Equal(t, "7899", *filter.NumberContains)
			assert.Equal(t, 1, filter.Page.Page)
			assert.Equal(t, 20, filter.Page.PageSize)
			return []domain.Card{}, 0, nil
		})

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/api/v1/cards?status=ACTIVE&contains=7899", nil, &caller)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCardDelete_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCards := mocks.NewMockCardService(ctrl)
	h := NewCardHandler(mockCards)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
	mockCards.EXPECT().Delete(gomock.Any(), caller, "4000001234567899").Return(nil)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodDelete, "/api/v1/cards/4000001234567899", nil, &caller)
	c.Params = gin.Params{{Key: "number", Value: "4000001234567899"}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

// --- Transaction Handler Tests ---

func TestTransactionCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTx)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleUser}
	txnID := uuid.New()
	amount := decimal.RequireFromString("25.50")

	mockTx.EXPECT().Create(gomock.Any(), caller, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ domain.Caller, req ports.TransferRequest) (*domain.Transaction, error) {
			assert.Equal(t, "4000001234567899", req.SenderCardNumber)
			assert.Equal(t, "4000009876543216", req.ReceiverCardNumber)
			assert.True(t, req.Amount.Equal(amount))
			return &domain.Transaction{
				ID:                 txnID,
				SenderCardNumber:   req.SenderCardNumber,
				ReceiverCardNumber: req.ReceiverCardNumber,
				Amount:             req.Amount,
				Status:             domain.TransactionStatusCompleted,
				CreatedAt:          time.Now(),
			}, nil
		})

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/transactions", dto.TransferRequest{
		SenderCardNumber:   "4000001234567899",
		ReceiverCardNumber: "4000009876543216",
		Amount:             amount,
	}, &caller)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, txnID.String(), data["id"])
	assert.Equal(t, "COMPLETED", data["status"])
	assert.Equal(t, "**** **** **** 7899", data["sender_card_number"])
	assert.Equal(t, "**** **** **** 3216", data["receiver_card_number"])
}

func TestTransactionCreate_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTx)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleUser}
	mockTx.EXPECT().Create(gomock.Any(), caller, gomock.Any()).
		Return(nil, apperror.ErrInsufficientFunds("4000001234567899"))

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/transactions", dto.TransferRequest{
		SenderCardNumber:   "4000001234567899",
		ReceiverCardNumber: "4000009876543216",
		Amount:             decimal.NewFromInt(1000),
	}, &caller)

	h.Create(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "CARD_002")
}

func TestTransactionCreate_BadCardNumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTx)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleUser}
	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"sender_card_number":   "not-a-card",
		"receiver_card_number": "4000009876543216",
		"amount":               "10.00",
	}, &caller)

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionList_Paginated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTx)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleUser}
	mockTx.EXPECT().List(gomock.Any(), caller, ports.PageParams{Page: 1, PageSize: 20}).
		Return([]domain.Transaction{}, int64(0), nil)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/api/v1/transactions", nil, &caller)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Block Request Handler Tests ---

func TestBlockRequestCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReq := mocks.NewMockBlockRequestService(ctrl)
	h := NewBlockRequestHandler(mockReq)

	caller := domain.Caller{ID: uuid.New(), Role: domain.RoleUser}
	reqID := uuid.New()
	mockReq.EXPECT().Create(gomock.Any(), caller, "4000001234567899").
		Return(&domain.BlockRequest{
			ID:         reqID,
			CardNumber: "4000001234567899",
			UserID:     caller.ID,
			Status:     domain.RequestStatusPending,
			CreatedAt:  time.Now(),
		}, nil)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/block-requests", dto.CreateBlockRequestRequest{
		CardNumber: "4000001234567899",
	}, &caller)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, reqID.String(), data["id"])
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "**** **** **** 7899", data["card_number"])
}

func TestBlockRequestApprove_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReq := mocks.NewMockBlockRequestService(ctrl)
	h := NewBlockRequestHandler(mockReq)

	admin := domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
	reqID := uuid.New()
	now := time.Now()
	mockReq.EXPECT().Approve(gomock.Any(), admin, reqID).
		Return(&domain.BlockRequest{
			ID:         reqID,
			CardNumber: "4000001234567899",
			UserID:     uuid.New(),
			Status:     domain.RequestStatusApproved,
			AdminID:    &admin.ID,
			CreatedAt:  now.Add(-time.Hour),
			UpdatedAt:  &now,
		}, nil)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/block-requests/"+reqID.String()+"/approve", nil, &admin)
	c.Params = gin.Params{{Key: "id", Value: reqID.String()}}

	h.Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "APPROVED", data["status"])
	assert.Equal(t, admin.ID.String(), data["admin_id"])
}

func TestBlockRequestReject_AlreadyProcessed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReq := mocks.NewMockBlockRequestService(ctrl)
	h := NewBlockRequestHandler(mockReq)

	admin := domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
	reqID := uuid.New()
	mockReq.EXPECT().Reject(gomock.Any(), admin, reqID).
		Return(nil, apperror.ErrRequestAlreadyProcessed())

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodPost, "/api/v1/block-requests/"+reqID.String()+"/reject", nil, &admin)
	c.Params = gin.Params{{Key: "id", Value: reqID.String()}}

	h.Reject(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "REQ_001")
}

// --- Health Check Tests ---

// staticChecker implements ports.HealthChecker with a fixed result.
type staticChecker struct {
	name string
	err  error
}

func (s staticChecker) Ping(_ context.Context) error { return s.err }
func (s staticChecker) Name() string                 { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	h := HealthCheck(staticChecker{name: "postgresql"}, staticChecker{name: "redis"})

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/health", nil, nil)

	h(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	h := HealthCheck(
		staticChecker{name: "postgresql"},
		staticChecker{name: "redis", err: errors.New("connection refused")},
	)

	w := httptest.NewRecorder()
	c := newTestContext(w, http.MethodGet, "/health", nil, nil)

	h(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), "connection refused")
}

// --- Router Tests ---

func TestSetupRouter_UnauthenticatedRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := RouterDeps{
		AuthSvc:         mocks.NewMockAuthService(ctrl),
		UserSvc:         mocks.NewMockUserService(ctrl),
		CardSvc:         mocks.NewMockCardService(ctrl),
		TransactionSvc:  mocks.NewMockTransactionService(ctrl),
		BlockRequestSvc: mocks.NewMockBlockRequestService(ctrl),
		TokenSvc:        mocks.NewMockTokenService(ctrl),
	}
	router := SetupRouter(deps)

	for _, path := range []string{"/api/v1/cards", "/api/v1/transactions", "/api/v1/block-requests", "/api/v1/users"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}

func TestSetupRouter_AdminRoutesForbidNonAdmins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	tokenSvc.EXPECT().Validate("user-token").Return(&ports.TokenClaims{
		UserID: uuid.New(),
		Role:   domain.RoleUser,
	}, nil).AnyTimes()

	deps := RouterDeps{
		AuthSvc:         mocks.NewMockAuthService(ctrl),
		UserSvc:         mocks.NewMockUserService(ctrl),
		CardSvc:         mocks.NewMockCardService(ctrl),
		TransactionSvc:  mocks.NewMockTransactionService(ctrl),
		BlockRequestSvc: mocks.NewMockBlockRequestService(ctrl),
		TokenSvc:        tokenSvc,
	}
	router := SetupRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_004")
}

func TestSetupRouter_HealthRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := RouterDeps{
		AuthSvc:         mocks.NewMockAuthService(ctrl),
		UserSvc:         mocks.NewMockUserService(ctrl),
		CardSvc:         mocks.NewMockCardService(ctrl),
		TransactionSvc:  mocks.NewMockTransactionService(ctrl),
		BlockRequestSvc: mocks.NewMockBlockRequestService(ctrl),
		TokenSvc:        mocks.NewMockTokenService(ctrl),
	}
	router := SetupRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Resources (RES) ----

func ErrNotFound(entity, id string) *AppError {
	return New("RES_001", fmt.Sprintf("%s %s not found", entity, id), http.StatusNotFound)
}

// ---- Authentication & Authorization (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameTaken(username string) *AppError {
	return New("AUTH_002", fmt.Sprintf("Username %s is already in use", username), http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAccessDenied() *AppError {
	return New("AUTH_004", "Access denied", http.StatusForbidden)
}

// ---- Card Business Logic (CARD) ----

func ErrInactiveCard(message string) *AppError {
	return New("CARD_001", message, http.StatusUnprocessableEntity)
}

func ErrInsufficientFunds(cardNumber string) *AppError {
	return New("CARD_002",
		fmt.Sprintf("There are insufficient funds on the %s card", cardNumber),
		http.StatusPaymentRequired)
}

func ErrCardAlreadyBlocked() *AppError {
	return New("CARD_003", "The card has already been blocked", http.StatusConflict)
}

// ---- Block Requests (REQ) ----

func ErrRequestAlreadyProcessed() *AppError {
	return New("REQ_001", "The request has already been processed", http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_001 validation error with a detail message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

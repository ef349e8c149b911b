package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response, mapping domain errors to HTTP statuses
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = fromDomainError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// fromDomainError maps sentinel domain errors to app errors. Validation
// failures are expected business conditions (400); inconsistent ledger state
// is not (500).
func fromDomainError(err error) *domainerrors.AppError {
	switch {
	case errors.Is(err, domainerrors.ErrWalletNotFound), errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("Wallet not found")
	case errors.Is(err, domainerrors.ErrInvalidAmount):
		return domainerrors.NewAppError(http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be positive", err)
	case errors.Is(err, domainerrors.ErrInsufficientBalance):
		return domainerrors.NewAppError(http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Insufficient wallet balance", err)
	case errors.Is(err, domainerrors.ErrNegativeLimitExceeded):
		return domainerrors.NewAppError(http.StatusBadRequest, "NEGATIVE_LIMIT_EXCEEDED", "Debit would exceed the negative balance limit", err)
	case errors.Is(err, domainerrors.ErrWalletSuspended):
		return domainerrors.NewAppError(http.StatusForbidden, "WALLET_SUSPENDED", "Wallet is suspended", err)
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest("Invalid input")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized("Unauthorized")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("Forbidden")
	default:
		return domainerrors.InternalError(err)
	}
}

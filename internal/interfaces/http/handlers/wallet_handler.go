package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"dairy-ledger.backend/internal/domain/entities"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/interfaces/http/middleware"
	"dairy-ledger.backend/internal/interfaces/http/response"
	"dairy-ledger.backend/internal/usecases"
)

type walletReportingService interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	GetTransactions(ctx context.Context, userID uuid.UUID, page, limit int) (*usecases.TransactionListResult, error)
}

// WalletHandler handles customer-facing wallet endpoints
type WalletHandler struct {
	reporting walletReportingService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(reporting *usecases.ReportingUsecase) *WalletHandler {
	return &WalletHandler{reporting: reporting}
}

// GetMyWallet returns the authenticated customer's wallet.
// GET /api/v1/wallet
// Wallets are created on the first financial event, not on read: a customer
// with no wallet yet sees a zero balance.
func (h *WalletHandler) GetMyWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.reporting.GetWallet(c.Request.Context(), userID)
	if err != nil {
		if err == domainerrors.ErrWalletNotFound {
			response.Success(c, http.StatusOK, gin.H{"wallet": &entities.Wallet{
				UserID:   userID,
				Balance:  decimal.Zero,
				IsActive: true,
			}})
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// GetMyTransactions returns the customer's ledger history, newest first.
// GET /api/v1/wallet/transactions?page=&limit=
func (h *WalletHandler) GetMyTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var params paginationQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid pagination parameters"))
		return
	}

	result, err := h.reporting.GetTransactions(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

type paginationQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

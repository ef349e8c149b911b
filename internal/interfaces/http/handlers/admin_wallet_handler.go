package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"dairy-ledger.backend/internal/domain/entities"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/interfaces/http/middleware"
	"dairy-ledger.backend/internal/interfaces/http/response"
	"dairy-ledger.backend/internal/usecases"
)

type ledgerService interface {
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string, reference null.String, referenceType string, processedBy *uuid.UUID) (*entities.Wallet, error)
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string, reference null.String, referenceType string, processedBy *uuid.UUID) (*entities.Wallet, error)
	Adjust(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, direction entities.AdjustmentDirection, description string, processedBy uuid.UUID) (*entities.Wallet, error)
}

type clearanceService interface {
	CheckAndClearWallet(ctx context.Context, userID uuid.UUID, triggeredBy string) (bool, error)
	ForceClear(ctx context.Context, userID uuid.UUID, processedBy uuid.UUID) (bool, error)
}

type walletAdminService interface {
	SetThreshold(ctx context.Context, userID uuid.UUID, threshold *decimal.Decimal, processedBy uuid.UUID) error
	BulkSetThreshold(ctx context.Context, threshold decimal.Decimal, userIDs []uuid.UUID, processedBy uuid.UUID) (int64, error)
	SetActive(ctx context.Context, userID uuid.UUID, active bool, processedBy uuid.UUID) error
}

type adminReportingService interface {
	ListWallets(ctx context.Context, filter entities.WalletListFilter) (*usecases.WalletListResult, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	GetTransactions(ctx context.Context, userID uuid.UUID, page, limit int) (*usecases.TransactionListResult, error)
	ExportTransactionsCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error
}

// AdminWalletHandler handles admin wallet endpoints
type AdminWalletHandler struct {
	ledger      ledgerService
	clearance   clearanceService
	walletAdmin walletAdminService
	reporting   adminReportingService
}

// NewAdminWalletHandler creates a new admin wallet handler
func NewAdminWalletHandler(
	ledger *usecases.LedgerUsecase,
	clearance *usecases.ClearanceUsecase,
	walletAdmin *usecases.WalletAdminUsecase,
	reporting *usecases.ReportingUsecase,
) *AdminWalletHandler {
	return &AdminWalletHandler{
		ledger:      ledger,
		clearance:   clearance,
		walletAdmin: walletAdmin,
		reporting:   reporting,
	}
}

type creditDebitInput struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Reference     string          `json:"reference"`
	ReferenceType string          `json:"referenceType"`
	ProcessedBy   string          `json:"processedBy"` // API key callers only; JWT admins are taken from the token
}

type adjustInput struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Direction   string          `json:"direction" binding:"required"`
	Description string          `json:"description" binding:"required"`
	ProcessedBy string          `json:"processedBy"`
}

type thresholdInput struct {
	Threshold *decimal.Decimal `json:"threshold"` // null clears the override
}

type bulkThresholdInput struct {
	Threshold decimal.Decimal `json:"threshold" binding:"required"`
	UserIDs   []string        `json:"userIds"` // empty = all wallets
}

type statusInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// resolveProcessedBy returns the acting admin principal: the JWT subject, or
// an explicit processedBy field for API key callers.
func resolveProcessedBy(c *gin.Context, explicit string) (uuid.UUID, error) {
	if id, ok := middleware.GetUserID(c); ok && id != uuid.Nil {
		return id, nil
	}
	if explicit != "" {
		id, err := uuid.Parse(explicit)
		if err != nil {
			return uuid.Nil, domainerrors.ErrInvalidInput
		}
		return id, nil
	}
	return uuid.Nil, domainerrors.ErrInvalidInput
}

func parseUserIDParam(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return uuid.Nil, false
	}
	return userID, true
}

// CreditWallet credits a user's wallet.
// POST /api/v1/admin/wallets/:userId/credit
func (h *AdminWalletHandler) CreditWallet(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	var input creditDebitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	processedBy, err := resolveProcessedBy(c, input.ProcessedBy)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("processedBy is required"))
		return
	}

	referenceType := input.ReferenceType
	if referenceType == "" {
		referenceType = entities.ReferenceTypeManualAdjustment
	}

	wallet, err := h.ledger.Credit(c.Request.Context(), userID, input.Amount,
		input.Description, nullableString(input.Reference), referenceType, &processedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// DebitWallet debits a user's wallet.
// POST /api/v1/admin/wallets/:userId/debit
func (h *AdminWalletHandler) DebitWallet(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	var input creditDebitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	processedBy, err := resolveProcessedBy(c, input.ProcessedBy)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("processedBy is required"))
		return
	}

	referenceType := input.ReferenceType
	if referenceType == "" {
		referenceType = entities.ReferenceTypeManualAdjustment
	}

	wallet, err := h.ledger.Debit(c.Request.Context(), userID, input.Amount,
		input.Description, nullableString(input.Reference), referenceType, &processedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// AdjustWallet applies a manual correction in an explicit direction.
// POST /api/v1/admin/wallets/:userId/adjust
func (h *AdminWalletHandler) AdjustWallet(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	var input adjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	processedBy, err := resolveProcessedBy(c, input.ProcessedBy)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("processedBy is required"))
		return
	}

	wallet, err := h.ledger.Adjust(c.Request.Context(), userID, input.Amount,
		entities.AdjustmentDirection(input.Direction), input.Description, processedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// ClearWallet zeroes a positive balance regardless of threshold.
// POST /api/v1/admin/wallets/:userId/clear
func (h *AdminWalletHandler) ClearWallet(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	var input struct {
		ProcessedBy string `json:"processedBy"`
	}
	// Body is optional for JWT admins
	_ = c.ShouldBindJSON(&input)

	processedBy, err := resolveProcessedBy(c, input.ProcessedBy)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("processedBy is required"))
		return
	}

	cleared, err := h.clearance.ForceClear(c.Request.Context(), userID, processedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cleared": cleared})
}

// CheckClearance evaluates the threshold policy for one wallet now.
// POST /api/v1/admin/wallets/:userId/check-clearance
func (h *AdminWalletHandler) CheckClearance(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	cleared, err := h.clearance.CheckAndClearWallet(c.Request.Context(), userID, "admin")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cleared": cleared})
}

// SetThreshold sets or clears a wallet's threshold override.
// PUT /api/v1/admin/wallets/:userId/threshold
func (h *AdminWalletHandler) SetThreshold(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	var input thresholdInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	processedBy, err := resolveProcessedBy(c, "")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("processedBy is required"))
		return
	}

	if err := h.walletAdmin.SetThreshold(c.Request.Context(), userID, input.Threshold, processedBy); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Threshold updated"})
}

// BulkSetThreshold applies a threshold to many wallets at once.
// PUT /api/v1/admin/wallets/thresholds
func (h *AdminWalletHandler) BulkSetThreshold(c *gin.Context) {
	var input bulkThresholdInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userIDs := make([]uuid.UUID, 0, len(input.UserIDs))
	for _, raw := range input.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest(fmt.Sprintf("Invalid user ID: %s", raw)))
			return
		}
		userIDs = append(userIDs, id)
	}

	processedBy, err := resolveProcessedBy(c, "")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("processedBy is required"))
		return
	}

	updated, err := h.walletAdmin.BulkSetThreshold(c.Request.Context(), input.Threshold, userIDs, processedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"walletsUpdated": updated})
}

// SetWalletStatus suspends or resumes a wallet.
// PUT /api/v1/admin/wallets/:userId/status
func (h *AdminWalletHandler) SetWalletStatus(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	processedBy, err := resolveProcessedBy(c, "")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("processedBy is required"))
		return
	}

	if err := h.walletAdmin.SetActive(c.Request.Context(), userID, *input.IsActive, processedBy); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Wallet status updated"})
}

// ListWallets lists wallets with balance filters.
// GET /api/v1/admin/wallets?page=&limit=&minBalance=&maxBalance=
func (h *AdminWalletHandler) ListWallets(c *gin.Context) {
	var query struct {
		Page       int    `form:"page"`
		Limit      int    `form:"limit"`
		MinBalance string `form:"minBalance"`
		MaxBalance string `form:"maxBalance"`
		ActiveOnly bool   `form:"activeOnly"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid query parameters"))
		return
	}

	filter := entities.WalletListFilter{
		Page:       query.Page,
		Limit:      query.Limit,
		ActiveOnly: query.ActiveOnly,
	}
	if query.MinBalance != "" {
		min, err := decimal.NewFromString(query.MinBalance)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid minBalance"))
			return
		}
		filter.MinBalance = &min
	}
	if query.MaxBalance != "" {
		max, err := decimal.NewFromString(query.MaxBalance)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid maxBalance"))
			return
		}
		filter.MaxBalance = &max
	}

	result, err := h.reporting.ListWallets(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetWallet returns one user's wallet.
// GET /api/v1/admin/wallets/:userId
func (h *AdminWalletHandler) GetWallet(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	wallet, err := h.reporting.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// GetWalletTransactions returns one user's ledger history.
// GET /api/v1/admin/wallets/:userId/transactions?page=&limit=
func (h *AdminWalletHandler) GetWalletTransactions(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
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

// ExportWalletTransactions streams one user's full ledger as CSV.
// GET /api/v1/admin/wallets/:userId/transactions/export
func (h *AdminWalletHandler) ExportWalletTransactions(c *gin.Context) {
	userID, ok := parseUserIDParam(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("wallet-transactions-%s-%s.csv", userID, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.reporting.ExportTransactionsCSV(c.Request.Context(), userID, c.Writer); err != nil {
		// Headers may already be out; log-and-abort is the best we can do.
		c.Status(http.StatusInternalServerError)
		return
	}
}

func nullableString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"dairy-ledger.backend/internal/domain/entities"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/interfaces/http/response"
	"dairy-ledger.backend/internal/usecases"
)

type settingsService interface {
	GetSettings(ctx context.Context) (*entities.WalletSettings, error)
	UpdateSettings(ctx context.Context, input *entities.UpdateWalletSettingsInput, processedBy uuid.UUID) (*entities.WalletSettings, error)
}

// WalletSettingsHandler handles the global settings endpoints
type WalletSettingsHandler struct {
	settings settingsService
}

// NewWalletSettingsHandler creates a new wallet settings handler
func NewWalletSettingsHandler(settings *usecases.SettingsUsecase) *WalletSettingsHandler {
	return &WalletSettingsHandler{settings: settings}
}

// GetSettings returns the global wallet configuration.
// GET /api/v1/admin/wallet-settings
func (h *WalletSettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings applies a partial admin update.
// PUT /api/v1/admin/wallet-settings
func (h *WalletSettingsHandler) UpdateSettings(c *gin.Context) {
	var input entities.UpdateWalletSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	processedBy, err := resolveProcessedBy(c, "")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("processedBy is required"))
		return
	}

	settings, err := h.settings.UpdateSettings(c.Request.Context(), &input, processedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

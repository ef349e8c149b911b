package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"dairy-ledger.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	walletHandler       *handlers.WalletHandler
	adminWalletHandler  *handlers.AdminWalletHandler
	settingsHandler     *handlers.WalletSettingsHandler
	authMiddleware      gin.HandlerFunc
	adminAuthMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// Customer wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(d.authMiddleware)
		{
			wallet.GET("", d.walletHandler.GetMyWallet)
			wallet.GET("/transactions", d.walletHandler.GetMyTransactions)
		}

		// Admin routes (admin JWT or API key)
		admin := v1.Group("/admin")
		admin.Use(d.adminAuthMiddleware)
		{
			admin.GET("/wallets", d.adminWalletHandler.ListWallets)
			admin.PUT("/wallet-thresholds", d.adminWalletHandler.BulkSetThreshold)
			admin.GET("/wallets/:userId", d.adminWalletHandler.GetWallet)
			admin.POST("/wallets/:userId/credit", d.adminWalletHandler.CreditWallet)
			admin.POST("/wallets/:userId/debit", d.adminWalletHandler.DebitWallet)
			admin.POST("/wallets/:userId/adjust", d.adminWalletHandler.AdjustWallet)
			admin.POST("/wallets/:userId/clear", d.adminWalletHandler.ClearWallet)
			admin.POST("/wallets/:userId/check-clearance", d.adminWalletHandler.CheckClearance)
			admin.PUT("/wallets/:userId/threshold", d.adminWalletHandler.SetThreshold)
			admin.PUT("/wallets/:userId/status", d.adminWalletHandler.SetWalletStatus)
			admin.GET("/wallets/:userId/transactions", d.adminWalletHandler.GetWalletTransactions)
			admin.GET("/wallets/:userId/transactions/export", d.adminWalletHandler.ExportWalletTransactions)

			admin.GET("/wallet-settings", d.settingsHandler.GetSettings)
			admin.PUT("/wallet-settings", d.settingsHandler.UpdateSettings)
		}
	}
}

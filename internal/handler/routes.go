package handler

import (
	"github.com/labstack/echo/v4"
)

// Register mounts the merchant API on e
func Register(e *echo.Echo, merchants *MerchantHandler, transactions *TransactionHandler) {
	api := e.Group("/api/v1/merchants")
	api.GET("", merchants.ListMerchants)
	api.GET("/:id", merchants.GetMerchant)
	api.POST("", merchants.CreateMerchant)
	api.PUT("/:id", merchants.UpdateMerchant)
	api.DELETE("/:id", merchants.DeleteMerchant)

	api.GET("/:id/transactions", transactions.ListMerchantTransactions)
}

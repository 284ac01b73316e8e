package handler

import (
	"net/http"

	"merchant-api/internal/service"
	"merchant-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultTransactionSize = 20

type TransactionHandler struct {
	transactions *service.TransactionService
}

func NewTransactionHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// ListMerchantTransactions returns a page of a merchant's transactions with a summary.
// page is 0-based here, unlike the merchant list.
func (h *TransactionHandler) ListMerchantTransactions(c echo.Context) error {
	q := service.TransactionQuery{
		MerchantID: c.Param("id"),
		StartDate:  c.QueryParam("startDate"),
		EndDate:    c.QueryParam("endDate"),
		Status:     c.QueryParam("status"),
		Size:       defaultTransactionSize,
	}
	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("size", &q.Size).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page and size must be integers")
	}

	res, err := h.transactions.ListForMerchant(logger.RequestContext(c), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

package handler

import (
	"net/http"

	"merchant-api/internal/listing"
	"merchant-api/internal/service"
	"merchant-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	defaultMerchantPage  = 1
	defaultMerchantLimit = 20
)

// MerchantRequest defines the structure for merchant creation/update requests
type MerchantRequest struct {
	Name               string `json:"name" validate:"required,max=100"`
	Email              string `json:"email" validate:"required,email,max=100"`
	Phone              string `json:"phone" validate:"max=20"`
	BusinessName       string `json:"businessName" validate:"max=150"`
	RegistrationNumber string `json:"registrationNumber" validate:"max=50"`
	Address            string `json:"address" validate:"max=500"`
	City               string `json:"city" validate:"max=100"`
	Country            string `json:"country" validate:"max=100"`
	Status             string `json:"status" validate:"required,oneof=active inactive"`
}

func (r MerchantRequest) input() service.MerchantInput {
	return service.MerchantInput{
		Name:               r.Name,
		Email:              r.Email,
		Phone:              r.Phone,
		BusinessName:       r.BusinessName,
		RegistrationNumber: r.RegistrationNumber,
		Address:            r.Address,
		City:               r.City,
		Country:            r.Country,
		Status:             r.Status,
	}
}

type MerchantHandler struct {
	merchants *service.MerchantService
}

func NewMerchantHandler(merchants *service.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchants: merchants}
}

// ListMerchants returns a filtered, sorted page of merchants
func (h *MerchantHandler) ListMerchants(c echo.Context) error {
	q := listing.Query{
		Search:        c.QueryParam("search"),
		Status:        c.QueryParam("status"),
		SortField:     c.QueryParam("sortField"),
		SortDirection: c.QueryParam("sortDirection"),
		Page:          defaultMerchantPage,
		PageSize:      defaultMerchantLimit,
	}
	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.PageSize).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}

	res, err := h.merchants.List(logger.RequestContext(c), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// GetMerchant retrieves a merchant by ID
func (h *MerchantHandler) GetMerchant(c echo.Context) error {
	merchant, err := h.merchants.Get(logger.RequestContext(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, merchant)
}

// CreateMerchant adds a new merchant
func (h *MerchantHandler) CreateMerchant(c echo.Context) error {
	log := logger.FromEcho(c)

	var req MerchantRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	merchant, err := h.merchants.Create(logger.RequestContext(c), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, merchant)
}

// UpdateMerchant replaces the mutable fields of a merchant
func (h *MerchantHandler) UpdateMerchant(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req MerchantRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.String("merchant_id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	merchant, err := h.merchants.Update(logger.RequestContext(c), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, merchant)
}

// DeleteMerchant removes a merchant
func (h *MerchantHandler) DeleteMerchant(c echo.Context) error {
	if err := h.merchants.Delete(logger.RequestContext(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

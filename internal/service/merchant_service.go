package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"merchant-api/internal/listing"
	"merchant-api/internal/model"
	"merchant-api/internal/repository"
	"merchant-api/pkg/logger"
	"merchant-api/prometheus"

	"go.uber.org/zap"
)

// MerchantStore is the persistence the merchant service needs
type MerchantStore interface {
	FindByID(ctx context.Context, id string) (*model.Merchant, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, status string) ([]model.Merchant, error)
	Create(ctx context.Context, merchant *model.Merchant, nextID func(existing []string) string) error
	Update(ctx context.Context, merchant *model.Merchant) error
	Delete(ctx context.Context, id string) error
}

// MerchantInput is the writable part of a merchant
type MerchantInput struct {
	Name               string
	Email              string
	Phone              string
	BusinessName       string
	RegistrationNumber string
	Address            string
	City               string
	Country            string
	Status             string
}

// PaginatedResponse is the envelope for merchant lists
type PaginatedResponse struct {
	Data        []model.Merchant `json:"data"`
	TotalCount  int64            `json:"totalCount"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	PageSize    int              `json:"pageSize"`
}

// MerchantOptions tunes MerchantService
type MerchantOptions struct {
	MaxPageSize int
	MaxScan     int
	Metrics     *prometheus.Metrics
	Now         func() time.Time
}

type MerchantService struct {
	store       MerchantStore
	maxPageSize int
	maxScan     int
	metrics     *prometheus.Metrics
	now         func() time.Time
}

func NewMerchantService(store MerchantStore, opts MerchantOptions) *MerchantService {
	if opts.MaxPageSize < 1 {
		opts.MaxPageSize = 100
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &MerchantService{
		store:       store,
		maxPageSize: opts.MaxPageSize,
		maxScan:     opts.MaxScan,
		metrics:     opts.Metrics,
		now:         opts.Now,
	}
}

// List filters, sorts and paginates merchants in memory. The status filter is also
// pushed down to the store to shrink the scan.
func (s *MerchantService) List(ctx context.Context, q listing.Query) (*PaginatedResponse, error) {
	s.metrics.RecordMerchantOperation("list")
	log := logger.FromContext(ctx)

	if q.PageSize < 1 || q.PageSize > s.maxPageSize {
		return nil, invalidInput("limit must be between 1 and %d", s.maxPageSize)
	}

	all, err := s.store.List(ctx, q.Status)
	if err != nil {
		log.Error("Failed to load merchants", zap.Error(err))
		return nil, err
	}
	if s.maxScan > 0 && len(all) > s.maxScan {
		log.Warn("Merchant listing scanned more rows than the configured bound",
			zap.Int("rows", len(all)),
			zap.Int("max_scan", s.maxScan))
	}

	res := listing.List(all, q)

	log.Debug("Merchants listed",
		zap.Int("scanned", len(all)),
		zap.Int64("matched", res.TotalCount),
		zap.Int("returned", len(res.Items)))

	return &PaginatedResponse{
		Data:        res.Items,
		TotalCount:  res.TotalCount,
		TotalPages:  res.TotalPages,
		CurrentPage: res.Page,
		PageSize:    res.PageSize,
	}, nil
}

func (s *MerchantService) Get(ctx context.Context, id string) (*model.Merchant, error) {
	s.metrics.RecordMerchantOperation("get")

	merchant, err := s.store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Merchant not found with ID: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return merchant, nil
}

// Create stores a new merchant with a generated MCH- id and fresh timestamps
func (s *MerchantService) Create(ctx context.Context, in MerchantInput) (*model.Merchant, error) {
	s.metrics.RecordMerchantOperation("create")
	log := logger.FromContext(ctx)

	in = normalize(in)
	if err := checkInput(in); err != nil {
		return nil, err
	}

	taken, err := s.store.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, duplicateEmail(in.Email)
	}

	now := s.timestamp()
	merchant := &model.Merchant{CreatedAt: &now, UpdatedAt: &now}
	apply(merchant, in)

	if err := s.store.Create(ctx, merchant, NextMerchantID); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, duplicateEmail(in.Email)
		}
		log.Error("Failed to create merchant", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}

	log.Info("Merchant created", zap.String("id", merchant.ID), zap.String("name", merchant.Name))
	return merchant, nil
}

// Update overwrites every field except id and createdAt and refreshes updatedAt
func (s *MerchantService) Update(ctx context.Context, id string, in MerchantInput) (*model.Merchant, error) {
	s.metrics.RecordMerchantOperation("update")
	log := logger.FromContext(ctx)

	in = normalize(in)
	if err := checkInput(in); err != nil {
		return nil, err
	}

	merchant, err := s.store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Merchant not found with ID: %s", id)
	}
	if err != nil {
		return nil, err
	}

	if merchant.Email != in.Email {
		taken, err := s.store.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, duplicateEmail(in.Email)
		}
	}

	apply(merchant, in)
	now := s.timestamp()
	merchant.UpdatedAt = &now

	if err := s.store.Update(ctx, merchant); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("Merchant not found with ID: %s", id)
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, duplicateEmail(in.Email)
		}
		log.Error("Failed to update merchant", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Merchant updated", zap.String("id", id))
	return merchant, nil
}

// Delete hard-deletes the merchant
func (s *MerchantService) Delete(ctx context.Context, id string) error {
	s.metrics.RecordMerchantOperation("delete")

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Merchant not found with ID: %s", id)
		}
		logger.FromContext(ctx).Error("Failed to delete merchant", zap.String("id", id), zap.Error(err))
		return err
	}

	logger.FromContext(ctx).Info("Merchant deleted", zap.String("id", id))
	return nil
}

// timestamp reads the clock at microsecond precision, the finest postgres stores, so a
// written merchant reads back unchanged
func (s *MerchantService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func normalize(in MerchantInput) MerchantInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.Status = strings.TrimSpace(in.Status)
	return in
}

func checkInput(in MerchantInput) error {
	switch {
	case in.Name == "":
		return invalidInput("name is required")
	case in.Email == "":
		return invalidInput("email is required")
	case in.Status != model.MerchantStatusActive && in.Status != model.MerchantStatusInactive:
		return invalidInput("status must be one of: active, inactive")
	}
	return nil
}

func apply(m *model.Merchant, in MerchantInput) {
	m.Name = in.Name
	m.Email = in.Email
	m.Phone = in.Phone
	m.BusinessName = in.BusinessName
	m.RegistrationNumber = in.RegistrationNumber
	m.Address = in.Address
	m.City = in.City
	m.Country = in.Country
	m.Status = in.Status
}

func duplicateEmail(email string) error {
	return invalidInput("Merchant with email %s already exists", email)
}

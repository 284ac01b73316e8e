package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"merchant-api/internal/model"
	"merchant-api/prometheus"

	"gorm.io/gorm"
)

// merchantIDLockKey names the postgres advisory lock that serializes id allocation
const merchantIDLockKey int64 = 0x4d4348 // "MCH"

// MerchantRepository stores merchants
type MerchantRepository struct {
	db            *gorm.DB
	metrics       *prometheus.Metrics
	idMaxAttempts int
}

// NewMerchantRepository creates a merchant repository. idMaxAttempts bounds how many
// times Create re-allocates an id after losing a primary-key race.
func NewMerchantRepository(db *gorm.DB, metrics *prometheus.Metrics, idMaxAttempts int) *MerchantRepository {
	if idMaxAttempts < 1 {
		idMaxAttempts = 1
	}
	return &MerchantRepository{db: db, metrics: metrics, idMaxAttempts: idMaxAttempts}
}

// FindByID returns ErrNotFound when no merchant has id
func (r *MerchantRepository) FindByID(ctx context.Context, id string) (*model.Merchant, error) {
	defer r.metrics.TrackDBOperation("merchant_find")(time.Now())

	var merchant model.Merchant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&merchant).Error; err != nil {
		return nil, translate(err)
	}
	return &merchant, nil
}

func (r *MerchantRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

func (r *MerchantRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *MerchantRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	defer r.metrics.TrackDBOperation("merchant_exists")(time.Now())

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Merchant{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every merchant, optionally restricted to an exact status, in id order.
// A blank status does not filter.
func (r *MerchantRepository) List(ctx context.Context, status string) ([]model.Merchant, error) {
	defer r.metrics.TrackDBOperation("merchant_list")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.Merchant{})
	if strings.TrimSpace(status) != "" {
		query = query.Where("status = ?", status)
	}

	var merchants []model.Merchant
	if err := query.Order("id").Find(&merchants).Error; err != nil {
		return nil, err
	}
	return merchants, nil
}

// Create allocates an id with nextID and inserts merchant in one transaction.
//
// On postgres the allocation is serialized with an advisory lock; everywhere the
// primary key is the final guard, and a lost race is retried with a fresh id.
// A collision on the unique email index returns ErrEmailTaken.
func (r *MerchantRepository) Create(ctx context.Context, merchant *model.Merchant, nextID func(existing []string) string) error {
	defer r.metrics.TrackDBOperation("merchant_insert")(time.Now())

	for attempt := 1; ; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if tx.Dialector.Name() == "postgres" {
				if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", merchantIDLockKey).Error; err != nil {
					return err
				}
			}

			var ids []string
			if err := tx.Model(&model.Merchant{}).Pluck("id", &ids).Error; err != nil {
				return err
			}
			merchant.ID = nextID(ids)

			return tx.Create(merchant).Error
		})
		if err == nil {
			return nil
		}
		if !isDuplicate(err) {
			return err
		}

		taken, checkErr := r.ExistsByEmail(ctx, merchant.Email)
		if checkErr != nil {
			return checkErr
		}
		if taken {
			return ErrEmailTaken
		}

		r.metrics.RecordMerchantIDConflict()
		if attempt >= r.idMaxAttempts {
			return fmt.Errorf("allocate merchant id after %d attempts: %w", attempt, ErrDuplicateKey)
		}
	}
}

// Update overwrites every column except id and createdAt. It returns ErrNotFound when
// the merchant no longer exists and ErrEmailTaken on an email collision.
func (r *MerchantRepository) Update(ctx context.Context, merchant *model.Merchant) error {
	defer r.metrics.TrackDBOperation("merchant_update")(time.Now())

	result := r.db.WithContext(ctx).
		Model(merchant).
		Select("*").
		Omit("id", "created_at").
		Updates(merchant)
	if result.Error != nil {
		if err := translate(result.Error); errors.Is(err, ErrDuplicateKey) {
			return ErrEmailTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the merchant permanently
func (r *MerchantRepository) Delete(ctx context.Context, id string) error {
	defer r.metrics.TrackDBOperation("merchant_delete")(time.Now())

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Merchant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

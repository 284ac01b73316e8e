package repository

import (
	"context"
	"time"

	"merchant-api/internal/model"
	"merchant-api/prometheus"

	"gorm.io/gorm"
)

// TxnFilter selects a merchant's transactions. Empty Status and nil bounds do not filter.
type TxnFilter struct {
	MerchantID string
	Status     string
	Start      *time.Time
	End        *time.Time
}

// TransactionRepository reads transaction masters, details and members
type TransactionRepository struct {
	db      *gorm.DB
	metrics *prometheus.Metrics
}

func NewTransactionRepository(db *gorm.DB, metrics *prometheus.Metrics) *TransactionRepository {
	return &TransactionRepository{db: db, metrics: metrics}
}

func (r *TransactionRepository) filtered(ctx context.Context, f TxnFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.TransactionMaster{}).Where("merchant_id = ?", f.MerchantID)
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Start != nil {
		query = query.Where("local_txn_date_time >= ?", f.Start.UTC())
	}
	if f.End != nil {
		query = query.Where("local_txn_date_time <= ?", f.End.UTC())
	}
	return query
}

// FindPage returns limit rows starting at offset, newest first, plus the total match count
func (r *TransactionRepository) FindPage(ctx context.Context, f TxnFilter, offset, limit int) ([]model.TransactionMaster, int64, error) {
	defer r.metrics.TrackDBOperation("transaction_page")(time.Now())

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []model.TransactionMaster
	if int64(offset) >= total {
		return txns, total, nil
	}

	err := r.filtered(ctx, f).
		Order("local_txn_date_time DESC").
		Order("txn_id DESC").
		Offset(offset).
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// FindAll returns every matching row, newest first
func (r *TransactionRepository) FindAll(ctx context.Context, f TxnFilter) ([]model.TransactionMaster, error) {
	defer r.metrics.TrackDBOperation("transaction_all")(time.Now())

	var txns []model.TransactionMaster
	err := r.filtered(ctx, f).
		Order("local_txn_date_time DESC").
		Order("txn_id DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// FindDetailsByMasterIDs loads the details of every listed master in one query
func (r *TransactionRepository) FindDetailsByMasterIDs(ctx context.Context, ids []int64) ([]model.TransactionDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	defer r.metrics.TrackDBOperation("transaction_details")(time.Now())

	var details []model.TransactionDetail
	err := r.db.WithContext(ctx).
		Where("master_txn_id IN ?", ids).
		Order("detail_id").
		Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

// FindMembersByIDs resolves every listed member in one query. Unknown ids are absent
// from the result.
func (r *TransactionRepository) FindMembersByIDs(ctx context.Context, ids []int64) ([]model.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	defer r.metrics.TrackDBOperation("member_lookup")(time.Now())

	var members []model.Member
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

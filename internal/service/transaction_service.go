package service

import (
	"context"
	"math"
	"strings"
	"time"

	"merchant-api/internal/listing"
	"merchant-api/internal/model"
	"merchant-api/internal/repository"
	"merchant-api/pkg/logger"
	"merchant-api/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const unknownMember = "Unknown"

// TransactionStore is the read side the transaction service needs
type TransactionStore interface {
	FindPage(ctx context.Context, f repository.TxnFilter, offset, limit int) ([]model.TransactionMaster, int64, error)
	FindAll(ctx context.Context, f repository.TxnFilter) ([]model.TransactionMaster, error)
	FindDetailsByMasterIDs(ctx context.Context, ids []int64) ([]model.TransactionDetail, error)
	FindMembersByIDs(ctx context.Context, ids []int64) ([]model.Member, error)
}

// MerchantLookup checks merchant existence
type MerchantLookup interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// TransactionQuery is a transactions request as received. Page is 0-based.
type TransactionQuery struct {
	MerchantID string
	Page       int
	Size       int
	StartDate  string
	EndDate    string
	Status     string
}

type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type PaginationInfo struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"totalPages"`
	TotalCount int64 `json:"totalCount"`
}

type TransactionDetailResponse struct {
	DetailID    int64            `json:"detailId"`
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency"`
	Description string           `json:"description"`
}

type TransactionResponse struct {
	TxnID     int64                       `json:"txnId"`
	Amount    *decimal.Decimal            `json:"amount"`
	Currency  *string                     `json:"currency"`
	Status    *string                     `json:"status"`
	Timestamp time.Time                   `json:"timestamp"`
	CardType  string                      `json:"cardType"`
	CardLast4 string                      `json:"cardLast4"`
	Acquirer  *string                     `json:"acquirer"`
	Issuer    *string                     `json:"issuer"`
	Details   []TransactionDetailResponse `json:"details"`
}

type MerchantTransactionsResponse struct {
	MerchantID   string                `json:"merchantId"`
	DateRange    DateRange             `json:"dateRange"`
	Summary      TransactionSummary    `json:"summary"`
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationInfo        `json:"pagination"`
}

// TransactionOptions tunes TransactionService
type TransactionOptions struct {
	MaxPageSize int
	Metrics     *prometheus.Metrics
}

type TransactionService struct {
	txns        TransactionStore
	merchants   MerchantLookup
	maxPageSize int
	metrics     *prometheus.Metrics
}

func NewTransactionService(txns TransactionStore, merchants MerchantLookup, opts TransactionOptions) *TransactionService {
	if opts.MaxPageSize < 1 {
		opts.MaxPageSize = 100
	}
	return &TransactionService{
		txns:        txns,
		merchants:   merchants,
		maxPageSize: opts.MaxPageSize,
		metrics:     opts.Metrics,
	}
}

func (s *TransactionService) validate(q TransactionQuery) error {
	if strings.TrimSpace(q.MerchantID) == "" {
		return invalidInput("Merchant ID cannot be empty")
	}
	if q.Page < 0 {
		return invalidInput("Page number must be >= 0")
	}
	if q.Size < 1 || q.Size > s.maxPageSize {
		return invalidInput("Page size must be between 1 and %d", s.maxPageSize)
	}
	if q.Page > math.MaxInt32/q.Size {
		return invalidInput("Page number is out of range")
	}
	if q.Status != "" && !model.IsTxnStatus(q.Status) {
		return invalidInput("Status must be one of: %s", strings.Join(model.TxnStatuses, ", "))
	}
	return checkDateOrder(q.StartDate, q.EndDate)
}

// ListForMerchant returns one page of a merchant's transactions, enriched with details
// and member names, plus a summary over every transaction matching the same filter.
func (s *TransactionService) ListForMerchant(ctx context.Context, q TransactionQuery) (*MerchantTransactionsResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.validate(q); err != nil {
		return nil, err
	}

	exists, err := s.merchants.ExistsByID(ctx, q.MerchantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound("Merchant not found with ID: %s", q.MerchantID)
	}

	filter := repository.TxnFilter{
		MerchantID: q.MerchantID,
		Status:     q.Status,
		Start:      ParseBoundary(ctx, q.StartDate, true),
		End:        ParseBoundary(ctx, q.EndDate, false),
	}

	page, total, err := s.txns.FindPage(ctx, filter, q.Page*q.Size, q.Size)
	if err != nil {
		log.Error("Failed to load transactions", zap.String("merchant_id", q.MerchantID), zap.Error(err))
		return nil, err
	}

	entries, err := s.enrich(ctx, page)
	if err != nil {
		log.Error("Failed to enrich transactions", zap.String("merchant_id", q.MerchantID), zap.Error(err))
		return nil, err
	}

	all, err := s.txns.FindAll(ctx, filter)
	if err != nil {
		log.Error("Failed to load transactions for summary", zap.String("merchant_id", q.MerchantID), zap.Error(err))
		return nil, err
	}
	s.metrics.ObserveSummarySize(len(all))

	return &MerchantTransactionsResponse{
		MerchantID:   q.MerchantID,
		DateRange:    DateRange{Start: filter.Start, End: filter.End},
		Summary:      Summarize(all),
		Transactions: entries,
		Pagination: PaginationInfo{
			Page:       q.Page,
			Size:       q.Size,
			TotalPages: listing.TotalPages(int(total), q.Size),
			TotalCount: total,
		},
	}, nil
}

// enrich attaches details and acquirer/issuer names to a page of masters using one
// batched query for details and one for members.
func (s *TransactionService) enrich(ctx context.Context, txns []model.TransactionMaster) ([]TransactionResponse, error) {
	entries := make([]TransactionResponse, 0, len(txns))
	if len(txns) == 0 {
		return entries, nil
	}

	txnIDs := make([]int64, 0, len(txns))
	memberIDs := make([]int64, 0)
	seen := make(map[int64]bool)
	for _, txn := range txns {
		txnIDs = append(txnIDs, txn.TxnID)
		for _, id := range []*int64{txn.AcquirerMemberID, txn.IssuerMemberID} {
			if id != nil && !seen[*id] {
				seen[*id] = true
				memberIDs = append(memberIDs, *id)
			}
		}
	}

	details, err := s.txns.FindDetailsByMasterIDs(ctx, txnIDs)
	if err != nil {
		return nil, err
	}
	detailsByTxn := make(map[int64][]TransactionDetailResponse)
	for _, d := range details {
		detailsByTxn[d.MasterTxnID] = append(detailsByTxn[d.MasterTxnID], TransactionDetailResponse{
			DetailID:    d.DetailID,
			Type:        d.Type,
			Amount:      nullableDecimal(d.Amount),
			Currency:    d.Currency,
			Description: d.Description,
		})
	}

	members, err := s.txns.FindMembersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	memberNames := make(map[int64]string, len(members))
	for _, m := range members {
		memberNames[m.ID] = m.MemberName
	}

	for _, txn := range txns {
		entry := TransactionResponse{
			TxnID:     txn.TxnID,
			Amount:    nullableDecimal(txn.Amount),
			Currency:  txn.Currency,
			Status:    txn.Status,
			Timestamp: txn.LocalTxnDateTime.UTC(),
			CardType:  txn.CardType,
			CardLast4: txn.CardLast4,
			Acquirer:  memberName(memberNames, txn.AcquirerMemberID),
			Issuer:    memberName(memberNames, txn.IssuerMemberID),
			Details:   detailsByTxn[txn.TxnID],
		}
		if entry.Details == nil {
			entry.Details = []TransactionDetailResponse{}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// memberName is nil when the transaction has no member and "Unknown" when the member
// could not be resolved
func memberName(names map[int64]string, id *int64) *string {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok {
		name = unknownMember
	}
	return &name
}

func nullableDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

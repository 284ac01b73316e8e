package service

import (
	"merchant-api/internal/model"

	"github.com/shopspring/decimal"
)

const (
	defaultCurrency = "USD"
	unknownStatus   = "unknown"
)

// TransactionSummary aggregates a filtered transaction set
type TransactionSummary struct {
	TotalTransactions int64            `json:"totalTransactions"`
	TotalAmount       decimal.Decimal  `json:"totalAmount"`
	Currency          string           `json:"currency"`
	ByStatus          map[string]int64 `json:"byStatus"`
}

// Summarize counts txns, sums their non-null amounts exactly and buckets them by status.
// Currency is taken from the first transaction that has one; mixed currencies are not
// split out.
func Summarize(txns []model.TransactionMaster) TransactionSummary {
	summary := TransactionSummary{
		TotalTransactions: int64(len(txns)),
		TotalAmount:       decimal.Zero,
		ByStatus:          make(map[string]int64),
	}

	currencyFound := false
	for _, txn := range txns {
		if txn.Amount.Valid {
			summary.TotalAmount = summary.TotalAmount.Add(txn.Amount.Decimal)
		}
		if !currencyFound && txn.Currency != nil {
			summary.Currency = *txn.Currency
			currencyFound = true
		}

		status := unknownStatus
		if txn.Status != nil {
			status = *txn.Status
		}
		summary.ByStatus[status]++
	}

	if !currencyFound {
		summary.Currency = defaultCurrency
	}
	return summary
}

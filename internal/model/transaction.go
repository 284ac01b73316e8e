package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TxnStatusPending   = "pending"
	TxnStatusCompleted = "completed"
	TxnStatusFailed    = "failed"
	TxnStatusReversed  = "reversed"
)

// TxnStatuses lists every status a transaction master may carry
var TxnStatuses = []string{TxnStatusPending, TxnStatusCompleted, TxnStatusFailed, TxnStatusReversed}

// IsTxnStatus reports whether s is one of TxnStatuses
func IsTxnStatus(s string) bool {
	for _, status := range TxnStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// TransactionMaster is a single payment event tied to a merchant. Rows are written by
// the settlement pipeline; this service only reads them.
type TransactionMaster struct {
	TxnID            int64               `gorm:"column:txn_id;primaryKey;autoIncrement"`
	MerchantID       string              `gorm:"type:varchar(20);index:idx_txn_merchant_time,priority:1;not null"`
	Amount           decimal.NullDecimal `gorm:"type:numeric(20,2)"`
	Currency         *string             `gorm:"type:varchar(3)"`
	Status           *string             `gorm:"type:varchar(20);index"`
	LocalTxnDateTime time.Time           `gorm:"index:idx_txn_merchant_time,priority:2;not null"`
	CardType         string              `gorm:"type:varchar(20)"`
	CardLast4        string              `gorm:"column:card_last4;type:varchar(4)"`
	AcquirerMemberID *int64              `gorm:"index"`
	IssuerMemberID   *int64              `gorm:"index"`
}

func (TransactionMaster) TableName() string {
	return "transaction_master"
}

// TransactionDetail is an itemized component of a master transaction's amount
type TransactionDetail struct {
	DetailID    int64               `gorm:"column:detail_id;primaryKey;autoIncrement"`
	MasterTxnID int64               `gorm:"index;not null"`
	Type        string              `gorm:"column:detail_type;type:varchar(30)"`
	Amount      decimal.NullDecimal `gorm:"type:numeric(20,2)"`
	Currency    *string             `gorm:"type:varchar(3)"`
	Description string              `gorm:"type:text"`
}

func (TransactionDetail) TableName() string {
	return "transaction_detail"
}

// Member is a financial institution acting as acquirer or issuer
type Member struct {
	ID         int64  `gorm:"primaryKey"`
	MemberName string `gorm:"type:varchar(100);not null"`
}

func (Member) TableName() string {
	return "members"
}

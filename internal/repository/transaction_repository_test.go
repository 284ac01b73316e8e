package repository

import (
	"context"
	"testing"
	"time"

	"merchant-api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func seedTransactions(t *testing.T, db *gorm.DB) {
	t.Helper()

	day := func(d, h int) time.Time { return time.Date(2025, 11, d, h, 0, 0, 0, time.UTC) }
	amount := func(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }

	masters := []model.TransactionMaster{
		{TxnID: 1, MerchantID: "MCH-00001", Amount: amount("10.00"), Currency: ptr("THB"), Status: ptr("completed"), LocalTxnDateTime: day(1, 9), AcquirerMemberID: ptr(int64(100))},
		{TxnID: 2, MerchantID: "MCH-00001", Amount: amount("20.00"), Currency: ptr("THB"), Status: ptr("pending"), LocalTxnDateTime: day(1, 23)},
		{TxnID: 3, MerchantID: "MCH-00001", Amount: amount("5.25"), Status: ptr("completed"), LocalTxnDateTime: day(2, 8)},
		{TxnID: 4, MerchantID: "MCH-00001", Status: ptr("failed"), LocalTxnDateTime: day(2, 8)},
		{TxnID: 5, MerchantID: "MCH-00002", Amount: amount("99.00"), Status: ptr("completed"), LocalTxnDateTime: day(1, 12)},
	}
	if err := db.Create(&masters).Error; err != nil {
		t.Fatalf("seed masters: %v", err)
	}

	details := []model.TransactionDetail{
		{DetailID: 10, MasterTxnID: 1, Type: "fee", Amount: amount("0.50"), Description: "processing fee"},
		{DetailID: 11, MasterTxnID: 3, Type: "tax", Amount: amount("0.70"), Description: "vat"},
		{DetailID: 12, MasterTxnID: 5, Type: "fee", Description: "other merchant"},
	}
	if err := db.Create(&details).Error; err != nil {
		t.Fatalf("seed details: %v", err)
	}

	members := []model.Member{{ID: 100, MemberName: "Acquirer Bank"}, {ID: 200, MemberName: "Issuer Bank"}}
	if err := db.Create(&members).Error; err != nil {
		t.Fatalf("seed members: %v", err)
	}
}

func txnIDs(txns []model.TransactionMaster) []int64 {
	ids := make([]int64, len(txns))
	for i, txn := range txns {
		ids[i] = txn.TxnID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTransactionRepository_FindPage(t *testing.T) {
	db := newTestDB(t)
	seedTransactions(t, db)
	repo := NewTransactionRepository(db, nil)
	ctx := context.Background()

	f := TxnFilter{MerchantID: "MCH-00001"}
	page, total, err := repo.FindPage(ctx, f, 0, 3)
	if err != nil {
		t.Fatalf("find page: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4 matches, got %d", total)
	}
	// equal timestamps fall back to txn id, newest first
	if got := txnIDs(page); !equalIDs(got, []int64{4, 3, 2}) {
		t.Fatalf("unexpected order: %v", got)
	}

	page, _, err = repo.FindPage(ctx, f, 3, 3)
	if err != nil {
		t.Fatalf("find second page: %v", err)
	}
	if got := txnIDs(page); !equalIDs(got, []int64{1}) {
		t.Fatalf("unexpected second page: %v", got)
	}
	if !page[0].Amount.Valid || !page[0].Amount.Decimal.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("unexpected amount: %+v", page[0].Amount)
	}
	if page[0].AcquirerMemberID == nil || *page[0].AcquirerMemberID != 100 || page[0].IssuerMemberID != nil {
		t.Fatalf("unexpected member ids: %+v", page[0])
	}

	page, total, err = repo.FindPage(ctx, f, 40, 3)
	if err != nil {
		t.Fatalf("find past end: %v", err)
	}
	if len(page) != 0 || total != 4 {
		t.Fatalf("expected empty page with total 4, got %d rows and %d", len(page), total)
	}
}

func TestTransactionRepository_Filters(t *testing.T) {
	db := newTestDB(t)
	seedTransactions(t, db)
	repo := NewTransactionRepository(db, nil)
	ctx := context.Background()

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 1, 23, 59, 59, 0, time.UTC)

	cases := []struct {
		name string
		f    TxnFilter
		want []int64
	}{
		{"whole day", TxnFilter{MerchantID: "MCH-00001", Start: &start, End: &end}, []int64{2, 1}},
		{"start only", TxnFilter{MerchantID: "MCH-00001", Start: ptr(end)}, []int64{4, 3}},
		{"end only", TxnFilter{MerchantID: "MCH-00001", End: ptr(start.Add(9 * time.Hour))}, []int64{1}},
		{"status", TxnFilter{MerchantID: "MCH-00001", Status: "completed"}, []int64{3, 1}},
		{"other merchant", TxnFilter{MerchantID: "MCH-00002"}, []int64{5}},
		{"no match", TxnFilter{MerchantID: "MCH-00009"}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			all, err := repo.FindAll(ctx, tc.f)
			if err != nil {
				t.Fatalf("find all: %v", err)
			}
			if got := txnIDs(all); !equalIDs(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTransactionRepository_BatchLookups(t *testing.T) {
	db := newTestDB(t)
	seedTransactions(t, db)
	repo := NewTransactionRepository(db, nil)
	ctx := context.Background()

	details, err := repo.FindDetailsByMasterIDs(ctx, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details) != 2 || details[0].DetailID != 10 || details[1].MasterTxnID != 3 || details[1].Type != "tax" {
		t.Fatalf("unexpected details: %+v", details)
	}

	members, err := repo.FindMembersByIDs(ctx, []int64{100, 200, 999})
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected unknown member to be absent, got %+v", members)
	}

	none, err := repo.FindMembersByIDs(ctx, nil)
	if err != nil || none != nil {
		t.Fatalf("expected no query for empty ids, got %v %v", none, err)
	}
	noDetails, err := repo.FindDetailsByMasterIDs(ctx, []int64{})
	if err != nil || noDetails != nil {
		t.Fatalf("expected no query for empty ids, got %v %v", noDetails, err)
	}
}

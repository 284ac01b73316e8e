package service

import (
	"context"
	"slices"
	"sort"

	"merchant-api/internal/model"
	"merchant-api/internal/repository"
)

type fakeMerchantStore struct {
	merchants map[string]model.Merchant
	order     []string
	failWith  error
}

func newFakeMerchantStore(ms ...model.Merchant) *fakeMerchantStore {
	s := &fakeMerchantStore{merchants: make(map[string]model.Merchant)}
	for _, m := range ms {
		s.merchants[m.ID] = m
		s.order = append(s.order, m.ID)
	}
	return s
}

func (s *fakeMerchantStore) FindByID(_ context.Context, id string) (*model.Merchant, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	m, ok := s.merchants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (s *fakeMerchantStore) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := s.merchants[id]
	return ok, s.failWith
}

func (s *fakeMerchantStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, m := range s.merchants {
		if m.Email == email {
			return true, nil
		}
	}
	return false, s.failWith
}

func (s *fakeMerchantStore) List(_ context.Context, status string) ([]model.Merchant, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []model.Merchant
	for _, id := range s.order {
		m, ok := s.merchants[id]
		if ok && (status == "" || m.Status == status) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMerchantStore) Create(_ context.Context, m *model.Merchant, nextID func([]string) string) error {
	if s.failWith != nil {
		return s.failWith
	}
	ids := make([]string, 0, len(s.merchants))
	for id := range s.merchants {
		ids = append(ids, id)
	}
	m.ID = nextID(ids)
	s.merchants[m.ID] = *m
	s.order = append(s.order, m.ID)
	return nil
}

func (s *fakeMerchantStore) Update(_ context.Context, m *model.Merchant) error {
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.merchants[m.ID]; !ok {
		return repository.ErrNotFound
	}
	s.merchants[m.ID] = *m
	return nil
}

func (s *fakeMerchantStore) Delete(_ context.Context, id string) error {
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.merchants[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.merchants, id)
	return nil
}

type fakeTxnStore struct {
	txns    []model.TransactionMaster
	details []model.TransactionDetail
	members []model.Member

	memberLookups [][]int64
	detailLookups [][]int64
}

func (s *fakeTxnStore) match(f repository.TxnFilter) []model.TransactionMaster {
	var out []model.TransactionMaster
	for _, t := range s.txns {
		if t.MerchantID != f.MerchantID {
			continue
		}
		if f.Status != "" && (t.Status == nil || *t.Status != f.Status) {
			continue
		}
		if f.Start != nil && t.LocalTxnDateTime.Before(*f.Start) {
			continue
		}
		if f.End != nil && t.LocalTxnDateTime.After(*f.End) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LocalTxnDateTime.After(out[j].LocalTxnDateTime) })
	return out
}

func (s *fakeTxnStore) FindPage(_ context.Context, f repository.TxnFilter, offset, limit int) ([]model.TransactionMaster, int64, error) {
	all := s.match(f)
	if offset >= len(all) {
		return nil, int64(len(all)), nil
	}
	return all[offset:min(offset+limit, len(all))], int64(len(all)), nil
}

func (s *fakeTxnStore) FindAll(_ context.Context, f repository.TxnFilter) ([]model.TransactionMaster, error) {
	return s.match(f), nil
}

func (s *fakeTxnStore) FindDetailsByMasterIDs(_ context.Context, ids []int64) ([]model.TransactionDetail, error) {
	s.detailLookups = append(s.detailLookups, ids)
	var out []model.TransactionDetail
	for _, d := range s.details {
		if slices.Contains(ids, d.MasterTxnID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *fakeTxnStore) FindMembersByIDs(_ context.Context, ids []int64) ([]model.Member, error) {
	s.memberLookups = append(s.memberLookups, ids)
	var out []model.Member
	for _, m := range s.members {
		if slices.Contains(ids, m.ID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func strp(s string) *string { return &s }

func int64p(i int64) *int64 { return &i }

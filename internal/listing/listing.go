// Package listing implements the merchant list pipeline: filter, then sort, then paginate.
// Counts are always taken on the filtered set, before the page is cut.
package listing

import (
	"slices"
	"strings"
	"time"

	"merchant-api/internal/model"
)

const (
	SortByName      = "name"
	SortByEmail     = "email"
	SortByStatus    = "status"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"

	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Query carries the listing parameters as received from the caller
type Query struct {
	Search        string
	Status        string
	SortField     string
	SortDirection string
	Page          int // 1-based
	PageSize      int
}

// Result is one page of merchants plus counts over the whole filtered set.
// Page and PageSize echo the request, not the clamped values.
type Result struct {
	Items      []model.Merchant
	TotalCount int64
	TotalPages int
	Page       int
	PageSize   int
}

// List runs the full pipeline over all. The input slice is not modified.
func List(all []model.Merchant, q Query) Result {
	filtered := Filter(all, q.Search, q.Status)
	Sort(filtered, q.SortField, q.SortDirection)

	return Result{
		Items:      Paginate(filtered, q.Page, q.PageSize),
		TotalCount: int64(len(filtered)),
		TotalPages: TotalPages(len(filtered), q.PageSize),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
}

// Filter keeps merchants whose status equals status and whose name, id or email contains
// search case-insensitively. A blank or whitespace-only term does not filter; a non-blank
// one is matched as given, surrounding spaces included. It returns a new slice.
func Filter(all []model.Merchant, search, status string) []model.Merchant {
	needle := strings.ToLower(search)
	bySearch := strings.TrimSpace(search) != ""
	byStatus := strings.TrimSpace(status) != ""

	out := make([]model.Merchant, 0, len(all))
	for _, m := range all {
		if byStatus && m.Status != status {
			continue
		}
		if bySearch && !matches(m, needle) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matches(m model.Merchant, needle string) bool {
	return strings.Contains(strings.ToLower(m.Name), needle) ||
		strings.Contains(strings.ToLower(m.ID), needle) ||
		strings.Contains(strings.ToLower(m.Email), needle)
}

// NormalizeSortField maps a requested sort field onto one of the SortBy constants.
// Matching ignores case and accepts snake_case timestamps; anything else sorts by name.
func NormalizeSortField(field string) string {
	switch strings.ToLower(field) {
	case "email":
		return SortByEmail
	case "status":
		return SortByStatus
	case "createdat", "created_at":
		return SortByCreatedAt
	case "updatedat", "updated_at":
		return SortByUpdatedAt
	default:
		return SortByName
	}
}

// NormalizeDirection returns DirectionDesc for any casing of "desc", DirectionAsc otherwise
func NormalizeDirection(direction string) string {
	if strings.EqualFold(direction, DirectionDesc) {
		return DirectionDesc
	}
	return DirectionAsc
}

// Sort orders merchants in place. The sort is stable: equal keys keep their input order
// in both directions.
func Sort(merchants []model.Merchant, field, direction string) {
	cmp := comparator(NormalizeSortField(field))
	if NormalizeDirection(direction) == DirectionDesc {
		asc := cmp
		cmp = func(a, b model.Merchant) int { return -asc(a, b) }
	}
	slices.SortStableFunc(merchants, cmp)
}

func comparator(field string) func(a, b model.Merchant) int {
	switch field {
	case SortByEmail:
		return func(a, b model.Merchant) int { return compareFold(a.Email, b.Email) }
	case SortByStatus:
		return func(a, b model.Merchant) int { return compareFold(a.Status, b.Status) }
	case SortByCreatedAt:
		return func(a, b model.Merchant) int { return compareTime(a.CreatedAt, b.CreatedAt) }
	case SortByUpdatedAt:
		return func(a, b model.Merchant) int { return compareTime(a.UpdatedAt, b.UpdatedAt) }
	default:
		return func(a, b model.Merchant) int { return compareFold(a.Name, b.Name) }
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareTime orders a missing timestamp before any present one
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// Paginate returns the 1-based page of size pageSize. Pages before the first are
// treated as the first; pages past the end are empty.
func Paginate(merchants []model.Merchant, page, pageSize int) []model.Merchant {
	if pageSize <= 0 {
		return []model.Merchant{}
	}
	index := max(0, page-1)
	// compare page indexes rather than offsets so huge page numbers cannot overflow
	if index >= TotalPages(len(merchants), pageSize) {
		return []model.Merchant{}
	}
	offset := index * pageSize
	end := min(offset+pageSize, len(merchants))
	return merchants[offset:end]
}

// TotalPages is ceil(total / pageSize), or 0 when pageSize is not positive
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

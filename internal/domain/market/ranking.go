package market

import (
	"fmt"
	"sort"
	"strings"
)

// SortDirection orders price records by modal price
type SortDirection string

const (
	SortNone       SortDirection = "none"
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ParseSortDirection accepts asc/desc/none (and the empty string as none)
func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNone:
		return SortNone, nil
	case SortAscending, "ascending", "low":
		return SortAscending, nil
	case SortDescending, "descending", "high":
		return SortDescending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortDirection, s)
}

// SortByPrice returns a stably sorted copy of records. SortNone keeps insertion order.
func SortByPrice(records []PriceRecord, direction SortDirection) []PriceRecord {
	out := make([]PriceRecord, len(records))
	copy(out, records)

	switch direction {
	case SortAscending:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ModalPrice < out[j].ModalPrice })
	case SortDescending:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ModalPrice > out[j].ModalPrice })
	}
	return out
}

// BestPrice returns the record with the highest modal price. Ties keep the first seen.
func BestPrice(records []PriceRecord) (PriceRecord, bool) {
	if len(records) == 0 {
		return PriceRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if r.ModalPrice > best.ModalPrice {
			best = r
		}
	}
	return best, true
}

// Paginate returns the 1-based page of records. Out-of-range pages yield an
// empty slice; clamping is up to the caller (see ClampPage).
func Paginate(records []PriceRecord, pageSize, page int) ([]PriceRecord, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	if page < 1 {
		return []PriceRecord{}, nil
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []PriceRecord{}, nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], nil
}

// TotalPages is the number of pages needed for total items
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage pulls page into [1, TotalPages]
func ClampPage(page, total, pageSize int) int {
	pages := TotalPages(total, pageSize)
	if page < 1 || pages == 0 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

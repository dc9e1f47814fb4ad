package engine

import "github.com/boddenberg/expense-dashboard-bfa/internal/domain"

// TotalPages is ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns rows ((page-1)*size, page*size]. It does not clamp: a page
// before the first or past the last yields an empty slice.
func Paginate[T any](records []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(records) {
		return []T{}
	}
	end := min(start+size, len(records))
	out := make([]T, end-start)
	copy(out, records[start:end])
	return out
}

// PageOf clamps the requested page and slices it.
func PageOf[T any](records []T, page, size int) domain.Page[T] {
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	total := TotalPages(len(records), size)
	page = ClampPage(page, total)
	return domain.Page[T]{
		Rows:       Paginate(records, page, size),
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		TotalRows:  len(records),
	}
}

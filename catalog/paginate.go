package catalog

// Pages returns how many pages of size perPage are needed for total
// items: ceil(total/perPage) for any positive total. Zero items (and a
// non-positive perPage) still report one page, deliberately diverging
// from the plain ceiling, so list views and ClampPage always have a
// valid page to land on.
func Pages(total, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// Page slices items down to the given zero-based page. Out-of-range
// pages clamp to the nearest valid one.
func Page[T any](items []T, page, perPage int) []T {
	if perPage <= 0 || len(items) == 0 {
		return items
	}
	last := Pages(len(items), perPage) - 1
	if page < 0 {
		page = 0
	}
	if page > last {
		page = last
	}
	start := page * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ClampPage normalizes a requested page index into the valid range for
// total items.
func ClampPage(page, total, perPage int) int {
	last := Pages(total, perPage) - 1
	if page < 0 {
		return 0
	}
	if page > last {
		return last
	}
	return page
}

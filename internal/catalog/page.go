package catalog

// PageSize is fixed for every catalog table.
const PageSize = 10

type Page struct {
	Items      []Item `json:"items"`
	Number     int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	TotalCount int    `json:"totalCount"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
}

// TotalPages is ceil(count / PageSize).
func TotalPages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + PageSize - 1) / PageSize
}

// ClampPage keeps page within [1, TotalPages(count)], never below 1.
func ClampPage(page, count int) int {
	last := TotalPages(count)
	if page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate slices items for the 1-indexed page after clamping it.
func Paginate(items []Item, page int) Page {
	count := len(items)
	page = ClampPage(page, count)
	pages := TotalPages(count)

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}

	window := make([]Item, end-start)
	copy(window, items[start:end])

	return Page{
		Items:      window,
		Number:     page,
		TotalPages: pages,
		TotalCount: count,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

package product

// PageMeta describes where a page sits in the full available set.
type PageMeta struct {
	Page     int   `json:"page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"lastPage"`
}

// LastPage returns ceil(total/limit), or 0 when there is nothing to page.
// limit must be positive.
func LastPage(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}

// Offset returns the number of rows to skip for a 1-indexed page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

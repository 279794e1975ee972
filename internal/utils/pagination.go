package utils

// PageRequest is a 1-based page request.
type PageRequest struct {
	Page     int
	PageSize int
}

// Clamp normalizes the request: page at least 1, page size within
// [1, maxSize], falling back to defaultSize when unset.
func (r PageRequest) Clamp(defaultSize, maxSize int) PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = defaultSize
	}
	if r.PageSize > maxSize {
		r.PageSize = maxSize
	}
	return r
}

func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Pagination describes one page of a filtered result set. Total is the
// filtered count, not the overall row count.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
}

func NewPagination(req PageRequest, total int64) Pagination {
	pages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	return Pagination{
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
		Pages:    pages,
	}
}

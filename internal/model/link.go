package model

// Link is a saved bookmark. CategoryID is optional and, when set, must
// reference a category owned by the same user.
type Link struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	UserID      int64   `json:"userId"`
	CategoryID  *int64  `json:"categoryId"`
}

// LinkWithCategory is a listing row with the joined category name.
// CategoryName is nil for uncategorized links.
type LinkWithCategory struct {
	Link
	CategoryName *string `json:"category"`
}

// Pagination describes the position of a listing inside the full
// result set.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// LinkPage is the result envelope for link listings.
type LinkPage struct {
	Data       []LinkWithCategory `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

// NewPagination computes the envelope numbers for a paginated listing.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// SearchPagination is the envelope for search mode: the full match set
// is returned as a single page.
func SearchPagination(total int) Pagination {
	return Pagination{
		Page:       1,
		Limit:      total,
		Total:      total,
		TotalPages: 1,
	}
}

package model

// Category groups links for one owner. Names are unique per owner,
// not globally.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"userId"`
}

// CategoryLink is the trimmed link view embedded in a category detail.
type CategoryLink struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
}

// CategoryWithLinks is the category detail view returned by the
// category-by-id read.
type CategoryWithLinks struct {
	Category
	Links []CategoryLink `json:"links"`
}

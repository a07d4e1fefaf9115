package dto

// CreateCategoryRequest is the payload for POST /api/v1/categories.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// UpdateCategoryRequest is the payload for PUT /api/v1/categories/{id}.
type UpdateCategoryRequest struct {
	Name string `json:"name"`
}

package dto

import "encoding/json"

// OptionalID distinguishes an absent field from an explicit JSON null.
// An absent categoryId leaves the link's category alone; a null one
// detaches it.
type OptionalID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// CreateLinkRequest is the payload for POST /api/v1/links.
type CreateLinkRequest struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"categoryId"`
}

// UpdateLinkRequest is the payload for PATCH /api/v1/links/{id}.
// Absent fields are left unchanged.
type UpdateLinkRequest struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description *string    `json:"description"`
	CategoryID  OptionalID `json:"categoryId"`
}

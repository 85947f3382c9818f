package models

// Category is a read-only course category served by the upstream
// course-management API.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

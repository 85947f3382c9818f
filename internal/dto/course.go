package dto

import "github.com/cursolab/authoring-api/internal/models"

// LessonPayload is the wire shape of one lesson inside the course-creation
// request.
type LessonPayload struct {
	Title           string `json:"title"`
	Type            string `json:"type" validate:"required,oneof=video article quiz"`
	DurationMinutes int    `json:"durationMinutes" validate:"gte=0"`
}

// ModulePayload is the wire shape of one module inside the course-creation
// request.
type ModulePayload struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Lessons     []LessonPayload `json:"lessons" validate:"dive"`
}

// CreateCourseRequest is the serialized course payload sent to the upstream
// course-management API. The modules list is an optional structural addition
// layered onto the base course fields.
type CreateCourseRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Price       string          `json:"price" validate:"omitempty,numeric"`
	Level       string          `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Language    string          `json:"language"`
	Status      string          `json:"status" validate:"required,oneof=draft published"`
	CategoryID  string          `json:"categoryId"`
	Modules     []ModulePayload `json:"modules,omitempty" validate:"omitempty,dive"`
}

// CourseRecord is the created course returned by the upstream API.
type CourseRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Level       string `json:"level"`
	Language    string `json:"language"`
	Status      string `json:"status"`
	CategoryID  string `json:"categoryId"`
}

// UpdateCourseFieldsRequest carries the closed set of course field updates.
// Absent pointers leave the corresponding field untouched.
type UpdateCourseFieldsRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Level       *string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Language    *string `json:"language"`
	CategoryID  *string `json:"categoryId"`
}

// UpdateModuleFieldsRequest carries the closed set of module field updates.
type UpdateModuleFieldsRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// UpdateLessonFieldsRequest carries the closed set of lesson field updates.
type UpdateLessonFieldsRequest struct {
	Title           *string `json:"title"`
	Type            *string `json:"type" binding:"omitempty,oneof=video article quiz"`
	DurationMinutes *int    `json:"durationMinutes"`
}

// SubmitCourseRequest selects the submission mode.
type SubmitCourseRequest struct {
	Status string `json:"status" binding:"required,oneof=draft published"`
}

// SessionResponse identifies a newly created authoring session.
type SessionResponse struct {
	SessionID string `json:"sessionId"`
}

// OutlineResponse is the read-only outline snapshot served to the
// presentation layer.
type OutlineResponse struct {
	SessionID string             `json:"sessionId"`
	Course    models.CourseDraft `json:"course"`
}

// SubmitRejectedResponse reports per-field validation errors without any
// upstream request having been sent.
type SubmitRejectedResponse struct {
	Errors []models.FieldError `json:"errors"`
}

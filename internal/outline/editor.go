// Package outline implements the in-memory Module→Lesson authoring tree for a
// single course draft. The editor is not safe for concurrent use; the owning
// session serializes access to it.
package outline

import (
	"github.com/cursolab/authoring-api/internal/dto"
	"github.com/cursolab/authoring-api/internal/models"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
)

// Editor owns one course draft and applies structural and field edits to it.
// All operations are synchronous and total-ordered by the caller.
type Editor struct {
	course models.CourseDraft
}

// NewEditor starts a fresh draft with no modules. Removing every module from
// an existing draft yields the same submittable state.
func NewEditor() *Editor {
	return &Editor{
		course: models.CourseDraft{
			Price:    "0",
			Level:    models.LevelBeginner,
			Language: "pt-BR",
			Status:   models.StatusDraft,
		},
	}
}

// AddModule appends a new module with one default video lesson. Always
// succeeds.
func (e *Editor) AddModule() {
	e.course.Modules = append(e.course.Modules, models.DefaultModule())
}

// RemoveModule removes the module at index, shifting subsequent modules down
// by one position. Out-of-range indices are an explicit error rather than a
// silent no-op.
func (e *Editor) RemoveModule(index int) error {
	if err := e.checkModule(index); err != nil {
		return err
	}
	e.course.Modules = append(e.course.Modules[:index], e.course.Modules[index+1:]...)
	return nil
}

// AddLesson appends a default lesson to the given module.
func (e *Editor) AddLesson(moduleIndex int) error {
	if err := e.checkModule(moduleIndex); err != nil {
		return err
	}
	m := &e.course.Modules[moduleIndex]
	m.Lessons = append(m.Lessons, models.DefaultLesson())
	return nil
}

// RemoveLesson removes the lesson at lessonIndex from the given module,
// shifting subsequent lessons down.
func (e *Editor) RemoveLesson(moduleIndex, lessonIndex int) error {
	if err := e.checkLesson(moduleIndex, lessonIndex); err != nil {
		return err
	}
	m := &e.course.Modules[moduleIndex]
	m.Lessons = append(m.Lessons[:lessonIndex], m.Lessons[lessonIndex+1:]...)
	return nil
}

// Course field setters. No validation happens at mutation time; validation is
// deferred to submission.

func (e *Editor) SetTitle(title string)             { e.course.Title = title }
func (e *Editor) SetDescription(description string) { e.course.Description = description }
func (e *Editor) SetPrice(price string)             { e.course.Price = price }
func (e *Editor) SetLevel(level models.CourseLevel) { e.course.Level = level }
func (e *Editor) SetLanguage(language string)       { e.course.Language = language }
func (e *Editor) SetCategoryID(id string)           { e.course.CategoryID = id }

// SetModuleTitle updates a module title in place.
func (e *Editor) SetModuleTitle(index int, title string) error {
	if err := e.checkModule(index); err != nil {
		return err
	}
	e.course.Modules[index].Title = title
	return nil
}

// SetModuleDescription updates a module description in place.
func (e *Editor) SetModuleDescription(index int, description string) error {
	if err := e.checkModule(index); err != nil {
		return err
	}
	e.course.Modules[index].Description = description
	return nil
}

// SetLessonTitle updates a lesson title in place.
func (e *Editor) SetLessonTitle(moduleIndex, lessonIndex int, title string) error {
	if err := e.checkLesson(moduleIndex, lessonIndex); err != nil {
		return err
	}
	e.course.Modules[moduleIndex].Lessons[lessonIndex].Title = title
	return nil
}

// SetLessonType updates a lesson type in place.
func (e *Editor) SetLessonType(moduleIndex, lessonIndex int, t models.LessonType) error {
	if err := e.checkLesson(moduleIndex, lessonIndex); err != nil {
		return err
	}
	e.course.Modules[moduleIndex].Lessons[lessonIndex].Type = t
	return nil
}

// SetLessonDuration updates a lesson duration in place.
func (e *Editor) SetLessonDuration(moduleIndex, lessonIndex, minutes int) error {
	if err := e.checkLesson(moduleIndex, lessonIndex); err != nil {
		return err
	}
	e.course.Modules[moduleIndex].Lessons[lessonIndex].DurationMinutes = minutes
	return nil
}

// Snapshot returns a deep copy of the current draft for read-only rendering.
func (e *Editor) Snapshot() models.CourseDraft {
	snapshot := e.course
	snapshot.Modules = make([]models.Module, len(e.course.Modules))
	for i, m := range e.course.Modules {
		copied := m
		copied.Lessons = make([]models.Lesson, len(m.Lessons))
		copy(copied.Lessons, m.Lessons)
		snapshot.Modules[i] = copied
	}
	return snapshot
}

// Serialize produces the course-creation payload for the requested submission
// status. Pure transform of current state; the tree is left untouched.
func (e *Editor) Serialize(status models.CourseStatus) dto.CreateCourseRequest {
	req := dto.CreateCourseRequest{
		Title:       e.course.Title,
		Description: e.course.Description,
		Price:       e.course.Price,
		Level:       string(e.course.Level),
		Language:    e.course.Language,
		Status:      string(status),
		CategoryID:  e.course.CategoryID,
	}
	if req.Price == "" {
		req.Price = "0"
	}
	if len(e.course.Modules) == 0 {
		return req
	}
	req.Modules = make([]dto.ModulePayload, len(e.course.Modules))
	for i, m := range e.course.Modules {
		payload := dto.ModulePayload{
			Title:       m.Title,
			Description: m.Description,
			Lessons:     make([]dto.LessonPayload, len(m.Lessons)),
		}
		for j, l := range m.Lessons {
			payload.Lessons[j] = dto.LessonPayload{
				Title:           l.Title,
				Type:            string(l.Type),
				DurationMinutes: l.DurationMinutes,
			}
		}
		req.Modules[i] = payload
	}
	return req
}

func (e *Editor) checkModule(index int) error {
	if index < 0 || index >= len(e.course.Modules) {
		return appErrors.Clone(appErrors.ErrIndexOutOfRange, "module index out of range")
	}
	return nil
}

func (e *Editor) checkLesson(moduleIndex, lessonIndex int) error {
	if err := e.checkModule(moduleIndex); err != nil {
		return err
	}
	if lessonIndex < 0 || lessonIndex >= len(e.course.Modules[moduleIndex].Lessons) {
		return appErrors.Clone(appErrors.ErrIndexOutOfRange, "lesson index out of range")
	}
	return nil
}

package models

// CourseLevel grades the intended audience of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// CourseStatus distinguishes work-in-progress drafts from published courses.
type CourseStatus string

const (
	StatusDraft     CourseStatus = "draft"
	StatusPublished CourseStatus = "published"
)

// LessonType enumerates the supported lesson content kinds.
type LessonType string

const (
	LessonVideo   LessonType = "video"
	LessonArticle LessonType = "article"
	LessonQuiz    LessonType = "quiz"
)

// Lesson is one unit of content inside a module. Identity is positional
// within the owning module for the lifetime of the editing session.
type Lesson struct {
	Title           string     `json:"title"`
	Type            LessonType `json:"type"`
	DurationMinutes int        `json:"durationMinutes"`
}

// Module groups an ordered sequence of lessons. An empty lesson sequence is
// valid. Identity is positional within the course.
type Module struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons"`
}

// CourseDraft is the in-memory authoring state for one editing session. It is
// never persisted locally; on successful submission it is handed to the
// upstream course-management API and discarded.
type CourseDraft struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Price       string       `json:"price"`
	Level       CourseLevel  `json:"level"`
	Language    string       `json:"language"`
	Status      CourseStatus `json:"status"`
	CategoryID  string       `json:"categoryId"`
	Modules     []Module     `json:"modules"`
}

// FieldError reports one validation failure against a specific field path,
// e.g. "title" or "modules[0].lessons[1].type".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DefaultLesson returns the lesson appended by structural add operations.
func DefaultLesson() Lesson {
	return Lesson{Type: LessonVideo, DurationMinutes: 0}
}

// DefaultModule returns a fresh module containing one default lesson.
func DefaultModule() Module {
	return Module{Lessons: []Lesson{DefaultLesson()}}
}

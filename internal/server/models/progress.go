package models

import "time"

type LessonProgress struct {
	UserID               int64
	LessonID             int64
	Completed            bool
	CompletionDate       *time.Time
	WatchDurationSeconds int
}

// LessonStatus is one row of a learner's per-course progress view.
type LessonStatus struct {
	LessonID       int64      `json:"lessonId"`
	Completed      bool       `json:"completed"`
	CompletionDate *time.Time `json:"completionDate"`
}

type AnswerAttempt struct {
	ID          int64
	UserID      int64
	ExerciseID  int64
	Answer      string
	Correct     bool
	AttemptedAt time.Time
}

// AttemptCounts aggregates a user's AnswerAttempt rows.
type AttemptCounts struct {
	Attempted int
	Correct   int
}

type Stats struct {
	LessonsCompleted   int
	ExercisesAttempted int
	CorrectAnswers     int
	Accuracy           float64
	PointsEarned       int
}

package models

// QuestionType names how an exercise is answered and graded.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
)

// Exercise is owned by the catalog and read-only to the progress core.
type Exercise struct {
	ID           int64            `json:"id"`
	LessonID     int64            `json:"lesson_id"`
	QuestionType QuestionType     `json:"question_type"`
	Points       int              `json:"points"`
	Options      []ExerciseOption `json:"options"`
}

type ExerciseOption struct {
	ID         int64  `json:"id"`
	ExerciseID int64  `json:"exercise_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

// Option returns the option with the given id, if it belongs to e.
func (e *Exercise) Option(id int64) (ExerciseOption, bool) {
	for _, o := range e.Options {
		if o.ID == id && o.ExerciseID == e.ID {
			return o, true
		}
	}
	return ExerciseOption{}, false
}

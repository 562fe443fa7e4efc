package models

import "database/sql"

// Quiz is a row of the quizzes table.
type Quiz struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Difficulty  string         `db:"difficulty"`
	TimeLimit   sql.NullInt64  `db:"time_limit"`
	IsExamMode  bool           `db:"is_exam_mode"`
	SubjectID   int64          `db:"subject_id"`
	CategoryID  int64          `db:"category_id"`
}

// Question is a row of the questions table.
type Question struct {
	ID          int64          `db:"id"`
	QuizID      int64          `db:"quiz_id"`
	Content     string         `db:"content"`
	Type        string         `db:"type"`
	ImageURL    sql.NullString `db:"image_url"`
	Explanation sql.NullString `db:"explanation"`
}

// Option is a row of the options table.
type Option struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	Text       string `db:"text"`
	IsCorrect  bool   `db:"is_correct"`
}

// Pair is a row of the pairs table. The columns are left_text/right_text
// because LEFT and RIGHT are SQL keywords.
type Pair struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	Left       string `db:"left_text"`
	Right      string `db:"right_text"`
}

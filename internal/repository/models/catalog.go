package models

// Subject is a row of the subjects table.
type Subject struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Category is a row of the categories table.
type Category struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	SubjectID int64  `db:"subject_id"`
}

// Flashcard is a row of the flashcards table.
type Flashcard struct {
	ID         int64  `db:"id"`
	Front      string `db:"front"`
	Back       string `db:"back"`
	Difficulty string `db:"difficulty"`
	CategoryID int64  `db:"category_id"`
	UserID     int64  `db:"user_id"`
}

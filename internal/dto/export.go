package dto

// Export projections. Field sets are fixed so that an exported file can be
// imported again unchanged. Nested children never carry their owner's id.

type SubjectExport struct {
	Name string `json:"name"`
}

type CategoryExport struct {
	Name      string `json:"name"`
	SubjectID int64  `json:"subject_id"`
}

type QuizExport struct {
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Difficulty  *string          `json:"difficulty,omitempty"`
	TimeLimit   *int64           `json:"time_limit,omitempty"`
	IsExamMode  *bool            `json:"is_exam_mode,omitempty"`
	SubjectID   int64            `json:"subject_id"`
	CategoryID  int64            `json:"category_id"`
	Questions   []QuestionExport `json:"questions"`
}

type QuestionExport struct {
	Content     string         `json:"content"`
	Type        string         `json:"type"`
	ImageURL    *string        `json:"image_url,omitempty"`
	Explanation *string        `json:"explanation,omitempty"`
	Options     []OptionExport `json:"options"`
	Pairs       []PairExport   `json:"pairs"`
}

type OptionExport struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type PairExport struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type FlashcardExport struct {
	Front      string  `json:"front"`
	Back       string  `json:"back"`
	Difficulty *string `json:"difficulty,omitempty"`
	CategoryID int64   `json:"category_id"`
	UserID     int64   `json:"user_id"`
}

type UserExport struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Role     *string `json:"role,omitempty"`
}

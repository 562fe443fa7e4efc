package dto

// Import payloads mirror the wire JSON. Every field is a pointer so that an
// absent key and an explicit null both decode to nil.

type SubjectPayload struct {
	Name *string `json:"name"`
}

type CategoryPayload struct {
	Name      *string `json:"name"`
	SubjectID *int64  `json:"subject_id"`
}

type QuizPayload struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Difficulty  *string           `json:"difficulty"`
	TimeLimit   *int64            `json:"time_limit"`
	IsExamMode  *bool             `json:"is_exam_mode"`
	SubjectID   *int64            `json:"subject_id"`
	CategoryID  *int64            `json:"category_id"`
	Questions   []QuestionPayload `json:"questions"`
}

type QuestionPayload struct {
	Content     *string         `json:"content"`
	Type        *string         `json:"type"`
	ImageURL    *string         `json:"image_url"`
	Explanation *string         `json:"explanation"`
	Options     []OptionPayload `json:"options"`
	Pairs       []PairPayload   `json:"pairs"`
}

type OptionPayload struct {
	Text      *string `json:"text"`
	IsCorrect *bool   `json:"is_correct"`
}

type PairPayload struct {
	Left  *string `json:"left"`
	Right *string `json:"right"`
}

type FlashcardPayload struct {
	Front      *string `json:"front"`
	Back       *string `json:"back"`
	Difficulty *string `json:"difficulty"`
	CategoryID *int64  `json:"category_id"`
	UserID     *int64  `json:"user_id"`
}

type UserPayload struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
}

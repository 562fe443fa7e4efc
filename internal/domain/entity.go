package domain

import (
	"fmt"
	"strings"
)

// EntityKind names an exchangeable entity type.
type EntityKind string

const (
	KindSubject   EntityKind = "subject"
	KindCategory  EntityKind = "category"
	KindQuiz      EntityKind = "quiz"
	KindQuestion  EntityKind = "question"
	KindOption    EntityKind = "option"
	KindPair      EntityKind = "pair"
	KindFlashcard EntityKind = "flashcard"
	KindUser      EntityKind = "user"

	// KindImages and KindDatabase are the binary interchange variants.
	KindImages   EntityKind = "images"
	KindDatabase EntityKind = "database"
)

// ExportableKinds is the closed keyword set accepted by the JSON exporter.
var ExportableKinds = []EntityKind{KindSubject, KindCategory, KindQuiz, KindFlashcard, KindUser}

// ParseExportKind resolves an export keyword, case-insensitively.
func ParseExportKind(s string) (EntityKind, bool) {
	k := EntityKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ExportableKinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

func ExportableKindNames() []string {
	names := make([]string, len(ExportableKinds))
	for i, k := range ExportableKinds {
		names[i] = string(k)
	}
	return names
}

// Difficulty is the quiz difficulty enumeration.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

var Difficulties = []string{string(DifficultyEasy), string(DifficultyMedium), string(DifficultyHard)}

// Role is the user role enumeration.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var Roles = []string{string(RoleUser), string(RoleAdmin)}

// FlashcardDifficulty is the self-assessed recall difficulty of a flashcard.
type FlashcardDifficulty string

const (
	FlashcardEasy   FlashcardDifficulty = "EASY"
	FlashcardMedium FlashcardDifficulty = "MEDIUM"
	FlashcardHard   FlashcardDifficulty = "HARD"
)

var FlashcardDifficulties = []string{string(FlashcardEasy), string(FlashcardMedium), string(FlashcardHard)}

// parseEnum trims and upper-cases s, then checks it against allowed.
func parseEnum(s string, allowed []string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %s", s, strings.Join(allowed, ", "))
}

func ParseDifficulty(s string) (Difficulty, error) {
	v, err := parseEnum(s, Difficulties)
	return Difficulty(v), err
}

func ParseRole(s string) (Role, error) {
	v, err := parseEnum(s, Roles)
	return Role(v), err
}

func ParseFlashcardDifficulty(s string) (FlashcardDifficulty, error) {
	v, err := parseEnum(s, FlashcardDifficulties)
	return FlashcardDifficulty(v), err
}

// Subject is the root classification node.
type Subject struct {
	ID   int64
	Name string
}

// Category belongs to a Subject. SubjectID is taken as given.
type Category struct {
	ID        int64
	Name      string
	SubjectID int64
}

// Quiz owns its questions; it is created and exported as one graph.
// Nil optional fields mean "not set" so store defaults apply.
type Quiz struct {
	ID          int64
	Title       string
	Description *string
	Difficulty  *Difficulty
	TimeLimit   *int64
	IsExamMode  *bool
	SubjectID   int64
	CategoryID  int64
	Questions   []Question
}

// Question is owned by exactly one Quiz.
type Question struct {
	ID          int64
	QuizID      int64
	Content     string
	Type        string
	ImageURL    *string
	Explanation *string
	Options     []Option
	Pairs       []Pair
}

type Option struct {
	ID         int64
	QuestionID int64
	Text       string
	IsCorrect  bool
}

// Pair is one left/right match of a matching-type question.
type Pair struct {
	ID         int64
	QuestionID int64
	Left       string
	Right      string
}

// Flashcard references a Category and a User by id, accepted verbatim.
type Flashcard struct {
	ID         int64
	Front      string
	Back       string
	Difficulty *FlashcardDifficulty
	CategoryID int64
	UserID     int64
}

// User carries the stored password verbatim; it is never re-hashed or masked.
type User struct {
	ID       int64
	Email    string
	Password string
	Name     string
	Role     *Role
}

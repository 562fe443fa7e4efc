package codec

import (
	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
)

func EncodeSubjects(subjects []domain.Subject) []dto.SubjectExport {
	out := make([]dto.SubjectExport, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, dto.SubjectExport{Name: s.Name})
	}
	return out
}

func EncodeCategories(categories []domain.Category) []dto.CategoryExport {
	out := make([]dto.CategoryExport, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryExport{Name: c.Name, SubjectID: c.SubjectID})
	}
	return out
}

func EncodeFlashcards(flashcards []domain.Flashcard) []dto.FlashcardExport {
	out := make([]dto.FlashcardExport, 0, len(flashcards))
	for _, f := range flashcards {
		out = append(out, dto.FlashcardExport{
			Front:      f.Front,
			Back:       f.Back,
			Difficulty: enumString(f.Difficulty),
			CategoryID: f.CategoryID,
			UserID:     f.UserID,
		})
	}
	return out
}

// EncodeUsers exports the stored password as-is.
func EncodeUsers(users []domain.User) []dto.UserExport {
	out := make([]dto.UserExport, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserExport{
			Email:    u.Email,
			Password: u.Password,
			Name:     u.Name,
			Role:     enumString(u.Role),
		})
	}
	return out
}

func EncodeQuizzes(quizzes []domain.Quiz) []dto.QuizExport {
	out := make([]dto.QuizExport, 0, len(quizzes))
	for _, q := range quizzes {
		qe := dto.QuizExport{
			Title:       q.Title,
			Description: q.Description,
			Difficulty:  enumString(q.Difficulty),
			TimeLimit:   q.TimeLimit,
			IsExamMode:  q.IsExamMode,
			SubjectID:   q.SubjectID,
			CategoryID:  q.CategoryID,
			Questions:   make([]dto.QuestionExport, 0, len(q.Questions)),
		}
		for _, question := range q.Questions {
			qe.Questions = append(qe.Questions, encodeQuestion(question))
		}
		out = append(out, qe)
	}
	return out
}

func encodeQuestion(q domain.Question) dto.QuestionExport {
	qe := dto.QuestionExport{
		Content:     q.Content,
		Type:        q.Type,
		ImageURL:    q.ImageURL,
		Explanation: q.Explanation,
		Options:     make([]dto.OptionExport, 0, len(q.Options)),
		Pairs:       make([]dto.PairExport, 0, len(q.Pairs)),
	}
	for _, o := range q.Options {
		qe.Options = append(qe.Options, dto.OptionExport{Text: o.Text, IsCorrect: o.IsCorrect})
	}
	for _, p := range q.Pairs {
		qe.Pairs = append(qe.Pairs, dto.PairExport{Left: p.Left, Right: p.Right})
	}
	return qe
}

func enumString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

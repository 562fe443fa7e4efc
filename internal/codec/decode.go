package codec

import (
	"fmt"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
)

func DecodeSubjects(data []byte) ([]domain.Subject, error) {
	return decodeEach(data, func(path string, p *dto.SubjectPayload, c *collector) domain.Subject {
		return domain.Subject{
			Name: c.requireString(path+".name", p.Name),
		}
	})
}

func DecodeCategories(data []byte) ([]domain.Category, error) {
	return decodeEach(data, func(path string, p *dto.CategoryPayload, c *collector) domain.Category {
		return domain.Category{
			Name:      c.requireString(path+".name", p.Name),
			SubjectID: c.requireID(path+".subject_id", p.SubjectID),
		}
	})
}

func DecodeFlashcards(data []byte) ([]domain.Flashcard, error) {
	return decodeEach(data, func(path string, p *dto.FlashcardPayload, c *collector) domain.Flashcard {
		return domain.Flashcard{
			Front:      c.requireString(path+".front", p.Front),
			Back:       c.requireString(path+".back", p.Back),
			Difficulty: enum(c, path+".difficulty", p.Difficulty, domain.FlashcardDifficulties, domain.ParseFlashcardDifficulty),
			CategoryID: c.requireID(path+".category_id", p.CategoryID),
			UserID:     c.requireID(path+".user_id", p.UserID),
		}
	})
}

func DecodeUsers(data []byte) ([]domain.User, error) {
	return decodeEach(data, func(path string, p *dto.UserPayload, c *collector) domain.User {
		return domain.User{
			Email:    c.requireString(path+".email", p.Email),
			Password: c.requireString(path+".password", p.Password),
			Name:     c.requireString(path+".name", p.Name),
			Role:     enum(c, path+".role", p.Role, domain.Roles, domain.ParseRole),
		}
	})
}

// DecodeQuizzes rebuilds the question graph of every quiz. Each question
// always ends up with non-nil Options and Pairs.
func DecodeQuizzes(data []byte) ([]domain.Quiz, error) {
	return decodeEach(data, func(path string, p *dto.QuizPayload, c *collector) domain.Quiz {
		quiz := domain.Quiz{
			Title:       c.requireString(path+".title", p.Title),
			Description: p.Description,
			Difficulty:  enum(c, path+".difficulty", p.Difficulty, domain.Difficulties, domain.ParseDifficulty),
			TimeLimit:   p.TimeLimit,
			IsExamMode:  p.IsExamMode,
			SubjectID:   c.requireID(path+".subject_id", p.SubjectID),
			CategoryID:  c.requireID(path+".category_id", p.CategoryID),
			Questions:   make([]domain.Question, 0, len(p.Questions)),
		}
		for qi := range p.Questions {
			quiz.Questions = append(quiz.Questions, decodeQuestion(fmt.Sprintf("%s.questions[%d]", path, qi), &p.Questions[qi], c))
		}
		return quiz
	})
}

func decodeQuestion(path string, p *dto.QuestionPayload, c *collector) domain.Question {
	q := domain.Question{
		Content:     c.requireString(path+".content", p.Content),
		Type:        c.requireString(path+".type", p.Type),
		ImageURL:    p.ImageURL,
		Explanation: p.Explanation,
		Options:     make([]domain.Option, 0, len(p.Options)),
		Pairs:       make([]domain.Pair, 0, len(p.Pairs)),
	}
	for oi, o := range p.Options {
		opt := domain.Option{
			Text: c.requireString(fmt.Sprintf("%s.options[%d].text", path, oi), o.Text),
		}
		if o.IsCorrect != nil {
			opt.IsCorrect = *o.IsCorrect
		}
		q.Options = append(q.Options, opt)
	}
	for pi, pr := range p.Pairs {
		q.Pairs = append(q.Pairs, domain.Pair{
			Left:  c.requireString(fmt.Sprintf("%s.pairs[%d].left", path, pi), pr.Left),
			Right: c.requireString(fmt.Sprintf("%s.pairs[%d].right", path, pi), pr.Right),
		})
	}
	return q
}

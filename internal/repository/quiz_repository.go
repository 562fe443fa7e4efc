package repository

import (
	"context"
	"fmt"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
	"quizdeck/internal/util"
)

type quizRepository struct {
	baseRepository
}

func NewQuizRepository(store *Store) domain.QuizRepository {
	return &quizRepository{baseRepository: newBaseRepository(store)}
}

// CreateDeep inserts the quiz and its whole question graph in one
// transaction. Generated ids are written back into quiz.
func (r *quizRepository) CreateDeep(ctx context.Context, quiz *domain.Quiz) error {
	return r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		db, release, err := r.store.Executor(ctx)
		if err != nil {
			return err
		}
		defer release()

		b := insertInto("quizzes").value("title", quiz.Title)
		optional(b, "description", quiz.Description)
		optionalEnum(b, "difficulty", quiz.Difficulty)
		optional(b, "time_limit", quiz.TimeLimit)
		optional(b, "is_exam_mode", quiz.IsExamMode)
		b.value("subject_id", quiz.SubjectID).value("category_id", quiz.CategoryID)

		quizID, err := b.exec(ctx, db)
		if err != nil {
			return storeError(err, "failed to insert quiz")
		}
		quiz.ID = quizID

		for qi := range quiz.Questions {
			question := &quiz.Questions[qi]
			question.QuizID = quizID

			qb := insertInto("questions").
				value("quiz_id", quizID).
				value("content", question.Content).
				value("type", question.Type)
			optional(qb, "image_url", question.ImageURL)
			optional(qb, "explanation", question.Explanation)

			questionID, err := qb.exec(ctx, db)
			if err != nil {
				return storeError(err, "failed to insert question").
					WithContext("record", fmt.Sprintf("questions[%d]", qi))
			}
			question.ID = questionID

			for oi := range question.Options {
				option := &question.Options[oi]
				option.QuestionID = questionID
				id, err := insertInto("options").
					value("question_id", questionID).
					value("text", option.Text).
					value("is_correct", option.IsCorrect).
					exec(ctx, db)
				if err != nil {
					return storeError(err, "failed to insert option").
						WithContext("record", fmt.Sprintf("questions[%d].options[%d]", qi, oi))
				}
				option.ID = id
			}

			for pi := range question.Pairs {
				pair := &question.Pairs[pi]
				pair.QuestionID = questionID
				id, err := insertInto("pairs").
					value("question_id", questionID).
					value("left_text", pair.Left).
					value("right_text", pair.Right).
					exec(ctx, db)
				if err != nil {
					return storeError(err, "failed to insert pair").
						WithContext("record", fmt.Sprintf("questions[%d].pairs[%d]", qi, pi))
				}
				pair.ID = id
			}
		}
		return nil
	})
}

// FindAllDeep reads the four tables inside one transaction so the nested
// result is a consistent view.
func (r *quizRepository) FindAllDeep(ctx context.Context) ([]domain.Quiz, error) {
	var (
		quizRows     []models.Quiz
		questionRows []models.Question
		optionRows   []models.Option
		pairRows     []models.Pair
	)

	err := r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if quizRows, err = selectAll[models.Quiz](ctx, r.baseRepository,
			`SELECT id, title, description, difficulty, time_limit, is_exam_mode, subject_id, category_id FROM quizzes ORDER BY id`); err != nil {
			return err
		}
		if questionRows, err = selectAll[models.Question](ctx, r.baseRepository,
			`SELECT id, quiz_id, content, type, image_url, explanation FROM questions ORDER BY id`); err != nil {
			return err
		}
		if optionRows, err = selectAll[models.Option](ctx, r.baseRepository,
			`SELECT id, question_id, text, is_correct FROM options ORDER BY id`); err != nil {
			return err
		}
		pairRows, err = selectAll[models.Pair](ctx, r.baseRepository,
			`SELECT id, question_id, left_text, right_text FROM pairs ORDER BY id`)
		return err
	})
	if err != nil {
		return nil, err
	}

	return assembleQuizzes(quizRows, questionRows, optionRows, pairRows), nil
}

func assembleQuizzes(quizRows []models.Quiz, questionRows []models.Question, optionRows []models.Option, pairRows []models.Pair) []domain.Quiz {
	options := make(map[int64][]domain.Option)
	for _, row := range optionRows {
		options[row.QuestionID] = append(options[row.QuestionID], domain.Option{
			ID:         row.ID,
			QuestionID: row.QuestionID,
			Text:       row.Text,
			IsCorrect:  row.IsCorrect,
		})
	}

	pairs := make(map[int64][]domain.Pair)
	for _, row := range pairRows {
		pairs[row.QuestionID] = append(pairs[row.QuestionID], domain.Pair{
			ID:         row.ID,
			QuestionID: row.QuestionID,
			Left:       row.Left,
			Right:      row.Right,
		})
	}

	questions := make(map[int64][]domain.Question)
	for _, row := range questionRows {
		q := domain.Question{
			ID:          row.ID,
			QuizID:      row.QuizID,
			Content:     row.Content,
			Type:        row.Type,
			ImageURL:    util.NullStringPtr(row.ImageURL),
			Explanation: util.NullStringPtr(row.Explanation),
			Options:     options[row.ID],
			Pairs:       pairs[row.ID],
		}
		if q.Options == nil {
			q.Options = []domain.Option{}
		}
		if q.Pairs == nil {
			q.Pairs = []domain.Pair{}
		}
		questions[row.QuizID] = append(questions[row.QuizID], q)
	}

	quizzes := make([]domain.Quiz, 0, len(quizRows))
	for _, row := range quizRows {
		difficulty := domain.Difficulty(row.Difficulty)
		examMode := row.IsExamMode
		quiz := domain.Quiz{
			ID:          row.ID,
			Title:       row.Title,
			Description: util.NullStringPtr(row.Description),
			Difficulty:  &difficulty,
			TimeLimit:   util.NullInt64Ptr(row.TimeLimit),
			IsExamMode:  &examMode,
			SubjectID:   row.SubjectID,
			CategoryID:  row.CategoryID,
			Questions:   questions[row.ID],
		}
		if quiz.Questions == nil {
			quiz.Questions = []domain.Question{}
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes
}

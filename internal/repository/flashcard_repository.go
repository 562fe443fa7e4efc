package repository

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
)

type flashcardRepository struct {
	baseRepository
}

func NewFlashcardRepository(store *Store) domain.FlashcardRepository {
	return &flashcardRepository{baseRepository: newBaseRepository(store)}
}

// BulkCreate leaves difficulty to the column default when it is unset.
func (r *flashcardRepository) BulkCreate(ctx context.Context, flashcards []domain.Flashcard) (int64, error) {
	return bulkInsert(ctx, r.baseRepository, "flashcards", flashcards,
		func(f *domain.Flashcard) *insertBuilder {
			b := insertInto("flashcards").
				value("front", f.Front).
				value("back", f.Back)
			optionalEnum(b, "difficulty", f.Difficulty)
			return b.value("category_id", f.CategoryID).
				value("user_id", f.UserID)
		},
		func(f *domain.Flashcard, id int64) { f.ID = id },
	)
}

func (r *flashcardRepository) FindAll(ctx context.Context) ([]domain.Flashcard, error) {
	rows, err := selectAll[models.Flashcard](ctx, r.baseRepository,
		`SELECT id, front, back, difficulty, category_id, user_id FROM flashcards ORDER BY id`)
	if err != nil {
		return nil, err
	}
	flashcards := make([]domain.Flashcard, 0, len(rows))
	for _, row := range rows {
		difficulty := domain.FlashcardDifficulty(row.Difficulty)
		flashcards = append(flashcards, domain.Flashcard{
			ID:         row.ID,
			Front:      row.Front,
			Back:       row.Back,
			Difficulty: &difficulty,
			CategoryID: row.CategoryID,
			UserID:     row.UserID,
		})
	}
	return flashcards, nil
}

package repository

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
)

type categoryRepository struct {
	baseRepository
}

func NewCategoryRepository(store *Store) domain.CategoryRepository {
	return &categoryRepository{baseRepository: newBaseRepository(store)}
}

func (r *categoryRepository) BulkCreate(ctx context.Context, categories []domain.Category) (int64, error) {
	return bulkInsert(ctx, r.baseRepository, "categories", categories,
		func(c *domain.Category) *insertBuilder {
			return insertInto("categories").
				value("name", c.Name).
				value("subject_id", c.SubjectID)
		},
		func(c *domain.Category, id int64) { c.ID = id },
	)
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := selectAll[models.Category](ctx, r.baseRepository, `SELECT id, name, subject_id FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category{ID: row.ID, Name: row.Name, SubjectID: row.SubjectID})
	}
	return categories, nil
}

package repository

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
)

type subjectRepository struct {
	baseRepository
}

func NewSubjectRepository(store *Store) domain.SubjectRepository {
	return &subjectRepository{baseRepository: newBaseRepository(store)}
}

func (r *subjectRepository) BulkCreate(ctx context.Context, subjects []domain.Subject) (int64, error) {
	return bulkInsert(ctx, r.baseRepository, "subjects", subjects,
		func(s *domain.Subject) *insertBuilder {
			return insertInto("subjects").value("name", s.Name)
		},
		func(s *domain.Subject, id int64) { s.ID = id },
	)
}

func (r *subjectRepository) FindAll(ctx context.Context) ([]domain.Subject, error) {
	rows, err := selectAll[models.Subject](ctx, r.baseRepository, `SELECT id, name FROM subjects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	subjects := make([]domain.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, domain.Subject{ID: row.ID, Name: row.Name})
	}
	return subjects, nil
}

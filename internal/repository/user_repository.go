package repository

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
)

type userRepository struct {
	baseRepository
}

func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{baseRepository: newBaseRepository(store)}
}

// BulkCreate stores the password string as given. Hashing belongs to the
// account service, not to bulk interchange.
func (r *userRepository) BulkCreate(ctx context.Context, users []domain.User) (int64, error) {
	return bulkInsert(ctx, r.baseRepository, "users", users,
		func(u *domain.User) *insertBuilder {
			b := insertInto("users").
				value("email", u.Email).
				value("password", u.Password).
				value("name", u.Name)
			return optionalEnum(b, "role", u.Role)
		},
		func(u *domain.User, id int64) { u.ID = id },
	)
}

func (r *userRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := selectAll[models.User](ctx, r.baseRepository, `SELECT id, email, password, name, role FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		role := domain.Role(row.Role)
		users = append(users, domain.User{
			ID:       row.ID,
			Email:    row.Email,
			Password: row.Password,
			Name:     row.Name,
			Role:     &role,
		})
	}
	return users, nil
}

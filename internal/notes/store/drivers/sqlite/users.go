package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmailIndex(ctx context.Context, index string) (domain.User, error) {
	row, err := r.q.GetUserByEmailIndex(ctx, index)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:              u.ID,
		Username:        u.Username,
		Name:            u.Name,
		PasswordHash:    u.PasswordHash,
		EmailCiphertext: u.EmailCiphertext,
		EmailIndex:      u.EmailIndex,
		LastActive:      toMillis(u.LastActive),
		CreatedAt:       toMillis(u.CreatedAt),
		UpdatedAt:       toMillis(u.UpdatedAt),
	})
	return mapUniqueViolation(err)
}

func (r *usersRepo) TouchLastActive(ctx context.Context, userID string, at time.Time) error {
	ms := toMillis(at)
	return r.q.TouchUserLastActive(ctx, gen.TouchUserLastActiveParams{
		LastActive:   ms,
		ID:           userID,
		LastActive_2: ms,
	})
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.q.DeleteUser(ctx, userID)
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	return r.q.CountUsers(ctx)
}

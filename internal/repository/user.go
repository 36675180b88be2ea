package repository

import (
	"context"
	"fmt"

	"cinelist/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListExcept(ctx context.Context, id int64) ([]models.UserPublic, error)
}

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

var userColumns = []string{"id", "username", "email", "password_hash", "created_at"}

// Create inserts user and fills in its ID and CreatedAt.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query, args, err := psql.
		Insert("users").
		Columns("username", "email", "password_hash").
		Values(user.Username, user.Email, user.PasswordHash).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *userRepository) getOne(ctx context.Context, column string, value any) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(column+" = ?", value).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select user query: %w", err)
	}

	var u models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", translate(err))
	}
	return &u, nil
}

// ListExcept returns every user other than id, ordered by username.
func (r *userRepository) ListExcept(ctx context.Context, id int64) ([]models.UserPublic, error) {
	query, args, err := psql.Select("id", "username").From("users").Where("id <> ?", id).OrderBy("username").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.UserPublic{}
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

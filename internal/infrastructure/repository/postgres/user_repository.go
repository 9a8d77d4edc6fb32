package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quinielago/quiniela-api/internal/domain/user"
	qb "github.com/quinielago/quiniela-api/internal/platform/querybuilder"
)

const usersEmailConstraint = "users_email_key"

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	insertModel := userInsertModel{
		PublicID:     u.ID,
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		IsFirstTime:  u.IsFirstTime,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	query, args, err := qb.InsertModel("users", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create user query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, usersEmailConstraint) {
			return user.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(qb.Eq("public_id", userID)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by id query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by id: %w", err)
	}

	return userFromRow(row), true, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(qb.Eq("email", strings.ToLower(email))).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by email query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by email: %w", err)
	}

	return userFromRow(row), true, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("users").
		Where(qb.Expr("public_id = ANY(?)", pq.Array(userIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users by ids query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	query, args, err := qb.Update("users").
		Set("name", u.Name).
		Set("is_first_time", u.IsFirstTime).
		Set("updated_at", u.UpdatedAt).
		Where(qb.Eq("public_id", u.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update user query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update user: not found")
	}

	return nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:           row.PublicID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsFirstTime:  row.IsFirstTime,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

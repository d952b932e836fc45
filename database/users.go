package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biosecret/go-todo/models"
)

// UserRepository lưu trữ users.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, email, password, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u       models.User
		updated sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt, &updated); err != nil {
		return models.User{}, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = nullTime(updated)
	return u, nil
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where+" = $1", arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("select user by %s: %w", where, err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, "username", username)
}

// List trả về users theo thứ tự id, có phân trang.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Save thêm mới u khi u.ID bằng 0, ngược lại cập nhật và ghi updated_at = now.
func (r *UserRepository) Save(ctx context.Context, u *models.User, now time.Time) error {
	if u.ID == 0 {
		return r.insert(ctx, u, now)
	}
	return r.update(ctx, u, now)
}

func (r *UserRepository) insert(ctx context.Context, u *models.User, now time.Time) error {
	created := timestamp(now)
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (username, email, password, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		u.Username, u.Email, u.Password, created,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.CreatedAt = created
	u.UpdatedAt = nil
	return nil
}

func (r *UserRepository) update(ctx context.Context, u *models.User, now time.Time) error {
	updated := timestamp(now)
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET username = $1, email = $2, password = $3, updated_at = $4 WHERE id = $5",
		u.Username, u.Email, u.Password, updated, u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	if err := expectOne(res); err != nil {
		return err
	}
	u.UpdatedAt = &updated
	return nil
}

// Delete xóa user; todos của user bị xóa theo (ON DELETE CASCADE).
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"fmt"

	"depot-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, phone, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, role, totp_enabled, is_active, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash,
		&user.Role, &user.TOTPEnabled, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email (for login)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, role, totp_enabled, is_active, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash,
		&user.Role, &user.TOTPEnabled, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List retrieves all users ordered by creation time
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, email, phone, password_hash, role, totp_enabled, is_active, created_at, updated_at
		FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
			&u.Role, &u.TOTPEnabled, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update updates a user's profile fields; password is updated only when a
// new hash is provided.
func (r *UserRepository) Update(ctx context.Context, user *models.User, newPasswordHash string) error {
	if newPasswordHash != "" {
		_, err := r.DB.Exec(ctx, `
			UPDATE users SET name=$1, email=$2, phone=$3, role=$4, password_hash=$5, updated_at=NOW()
			WHERE id=$6
		`, user.Name, user.Email, user.Phone, user.Role, newPasswordHash, user.ID)
		return err
	}
	_, err := r.DB.Exec(ctx, `
		UPDATE users SET name=$1, email=$2, phone=$3, role=$4, updated_at=NOW()
		WHERE id=$5
	`, user.Name, user.Email, user.Phone, user.Role, user.ID)
	return err
}

// ToggleActive flips the suspended flag
func (r *UserRepository) ToggleActive(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `UPDATE users SET is_active = NOT is_active, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

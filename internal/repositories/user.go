package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"online-store-platform/internal/models"
)

// UserRepository handles account data operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, password_hash, first_name, last_name, age, role, created_at, updated_at"

// Create inserts a new user with an already-hashed password
func (r *UserRepository) Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error) {
	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Age:          req.Age,
		Role:         models.UserRoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, age, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Age,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email %s", models.ErrDuplicateEntry, user.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	return r.scanUser(r.db.QueryRow(query, id), id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"
	return r.scanUser(r.db.QueryRow(query, email), email)
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(id string, passwordHash string) error {
	result, err := r.db.Exec(
		"UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1",
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", models.ErrUserNotFound, id)
	}

	return nil
}

func (r *UserRepository) scanUser(row *sql.Row, ref string) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Age,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, ref)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

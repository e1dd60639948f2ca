package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"online-store-platform/internal/models"
)

// UserRepository interface for account data operations
type UserRepository interface {
	Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdatePassword(id string, passwordHash string) error
}

// EmailSender delivers account emails
type EmailSender interface {
	SendPasswordReset(to, name, resetLink string) error
}

// UserService handles registration, credential verification and password
// resets. Authorization policy lives with the callers; this service only
// establishes who the caller is.
type UserService struct {
	repo         UserRepository
	email        EmailSender
	jwtSecret    []byte
	tokenTTL     time.Duration
	resetBaseURL string
}

// NewUserService creates a new user service
func NewUserService(repo UserRepository, email EmailSender, jwtSecret string, tokenTTL time.Duration, resetBaseURL string) *UserService {
	return &UserService{
		repo:         repo,
		email:        email,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		resetBaseURL: resetBaseURL,
	}
}

// Register creates a new account with a bcrypt-hashed password
func (s *UserService) Register(req *models.UserCreateRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.Create(req, string(hash))
}

// Login verifies credentials and issues a signed session token
func (s *UserService) Login(email, password string) (*models.User, string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, "", models.ErrUnauthorized
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", models.ErrUnauthorized
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return user, signed, nil
}

// Current resolves a session token to a fresh user record
func (s *UserService) Current(token string) (*models.User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, models.ErrUnauthorized
	}

	return s.repo.GetByID(sub)
}

// RequestPasswordReset emails a reset link when the account exists. It
// reports success either way so callers cannot probe for registered emails.
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     user.ID,
		"purpose": "password_reset",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return fmt.Errorf("failed to sign reset token: %w", err)
	}

	return s.email.SendPasswordReset(user.Email, user.FirstName, s.resetBaseURL+"?token="+signed)
}

// ResetPassword consumes a reset token and stores a new password hash
func (s *UserService) ResetPassword(token, newPassword string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}

	if purpose, _ := claims["purpose"].(string); purpose != "password_reset" {
		return models.ErrUnauthorized
	}

	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", models.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	sub, _ := claims["sub"].(string)
	return s.repo.UpdatePassword(sub, string(hash))
}

func (s *UserService) parseToken(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, models.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"campus-queue-backend/internal/auth/models"
	"campus-queue-backend/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	DB *sql.DB
}

func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{DB: db}
}

type LoginResult struct {
	Token string       `json:"token"`
	Staff models.Staff `json:"staff"`
}

// Login verifies the staff credentials and issues a JWT valid for one
// shift.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	query := `
		SELECT id_staff, username, password_hash, full_name, role, office, created_at
		FROM Staff
		WHERE username = ?
	`
	var staff models.Staff
	err := s.DB.QueryRowContext(ctx, query, username).Scan(
		&staff.ID, &staff.Username, &staff.PasswordHash,
		&staff.FullName, &staff.Role, &staff.Office, &staff.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWTToken(staff.ID, staff.Username, staff.Role, staff.Office, time.Now().Add(12*time.Hour))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Staff: staff}, nil
}

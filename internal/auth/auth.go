package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Distinct user-visible authentication failures. Callers map each to its
// own localized inline message.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("account pending approval")
	ErrBlocked            = errors.New("account blocked")
	ErrExpired            = errors.New("account expired")
	ErrEmailTaken         = errors.New("email already registered")
)

// RootUserId is the fixed id of the break-glass developer account.
const RootUserId = "root"

// Service implements registration and login over a users snapshot. It holds
// no storage of its own; callers pass the current users collection.
type Service struct {
	rootEmail    string
	rootPassword string
	secret       []byte
	tokenTTL     time.Duration
}

func NewService(cfg models.AuthConfig) *Service {
	return &Service{
		rootEmail:    cfg.RootEmail,
		rootPassword: cfg.RootPassword,
		secret:       []byte(cfg.JWTSecret),
		tokenTTL:     cfg.TokenTTL,
	}
}

// RootUser returns the synthetic break-glass developer account.
func (s *Service) RootUser() models.User {
	return models.User{
		Id:     RootUserId,
		Email:  s.rootEmail,
		Role:   models.RoleDeveloper,
		Status: models.StatusApproved,
	}
}

// Authenticate matches email/password against the given users. The root
// developer credential pair always authenticates, regardless of the backing
// store. Non-root users are checked for approval, block, and expiry states
// before their credential is accepted.
func (s *Service) Authenticate(users []models.User, email, password string, now time.Time) (*models.User, error) {
	if emailsEqual(email, s.rootEmail) && password == s.rootPassword {
		root := s.RootUser()
		return &root, nil
	}

	var found *models.User
	for i := range users {
		if emailsEqual(users[i].Email, email) {
			found = &users[i]
			break
		}
	}
	if found == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	switch found.Status {
	case models.StatusPending:
		return nil, ErrPendingApproval
	case models.StatusBlocked:
		return nil, ErrBlocked
	}
	if found.ExpiresAt != nil && found.ExpiresAt.Before(now) {
		return nil, ErrExpired
	}

	u := *found
	return &u, nil
}

// Register creates a new pending account. Email uniqueness is enforced
// case-insensitively against the supplied snapshot, before the record ever
// reaches reconciliation.
func (s *Service) Register(users []models.User, email, password string, role models.Role, now time.Time) (models.User, error) {
	email = strings.TrimSpace(email)
	if emailsEqual(email, s.rootEmail) {
		return models.User{}, ErrEmailTaken
	}
	for _, u := range users {
		if emailsEqual(u.Email, email) {
			return models.User{}, ErrEmailTaken
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("unable to hash password: %w", err)
	}

	if role == "" {
		role = models.RoleUser
	}
	return models.User{
		Id:        uuid.New().String(),
		Email:     email,
		Password:  hash,
		Role:      role,
		Status:    models.StatusPending,
		CreatedAt: now.UTC(),
	}, nil
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func emailsEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

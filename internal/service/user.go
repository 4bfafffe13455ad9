package service

import (
	"CaseNotes/internal/model"
	"CaseNotes/internal/repo"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService — локальный коллаборатор аутентификации: регистрация, вход и
// upsert профиля при каждом входе.
type UserService struct {
	users repo.UserRepository
}

func NewUserService(users repo.UserRepository) *UserService {
	return &UserService{users: users}
}

// RegisterInput — данные регистрации соцработника.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register создаёт учётную запись с ролью caseworker и возвращает её.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	ve := &ValidationError{}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		ve.add("email", "email is required")
	}
	if len(in.Password) < 6 {
		ve.add("password", "password must be at least 6 characters")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        &email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         "caseworker",
	}
	return s.users.Upsert(ctx, u)
}

// Login проверяет пароль и обновляет профиль upsert-ом (updated_at).
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	// upsert при каждом входе — профиль всегда актуален
	return s.users.Upsert(ctx, u)
}

// Get возвращает пользователя по идентификатору сессии.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

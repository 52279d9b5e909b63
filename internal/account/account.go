// Package account — регистрация, вход по паролю и жизненный цикл учётных записей.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrDNITaken           = errors.New("dni already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactive           = errors.New("account is deactivated")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid registration data")
	// ErrDuplicate — гонка двух регистраций: уникальный индекс сработал уже на вставке.
	ErrDuplicate = errors.New("email or dni already registered")
)

// UserStore — то, что сервису нужно от репозитория пользователей.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByDNI(ctx context.Context, dni string) (*models.User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	Insert(ctx context.Context, u models.User) (int64, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SetTelegramChatID(ctx context.Context, id int64, chatID *int64) error
	Delete(ctx context.Context, id int64) error
}

type RegisterInput struct {
	Email     string      `validate:"required,email"`
	DNI       string      `validate:"required,alphanum,min=5,max=16"`
	Password  string      `validate:"required,min=6,max=72"`
	FirstName string      `validate:"required"`
	LastName  string      `validate:"required"`
	Phone     string      `validate:"omitempty,max=32"`
	Address   string      `validate:"omitempty,max=256"`
	BirthDate *time.Time  `validate:"omitempty"`
	Role      models.Role `validate:"required,oneof=STUDENT INSTRUCTOR EXAMINER ADMIN MEDICAL_DOCTOR"`
}

type Service struct {
	users    UserStore
	validate *validator.Validate
	log      *zap.Logger
	cost     int
}

func NewService(users UserStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, validate: validator.New(), log: log, cost: bcrypt.DefaultCost}
}

// HashPassword — bcrypt с солью, стоимость по умолчанию.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DNI = strings.ToUpper(strings.TrimSpace(in.DNI))
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	existing, err = s.users.GetByDNI(ctx, in.DNI)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDNITaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := models.User{
		Email:        in.Email,
		DNI:          in.DNI,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Address:      in.Address,
		BirthDate:    in.BirthDate,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := s.users.Insert(ctx, u)
	if db.IsConstraintViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	u.ID = id
	s.log.Info("user registered", zap.Int64("user_id", id), zap.String("role", string(u.Role)))
	return &u, nil
}

// Authenticate сверяет пароль с bcrypt-хешем. Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactive
	}
	return u, nil
}

// Deactivate — мягкое удаление, записи пользователя остаются.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}
	return s.users.SetActive(ctx, id, false)
}

func (s *Service) Reactivate(ctx context.Context, id int64) error {
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}
	return s.users.SetActive(ctx, id, true)
}

// Delete — жёсткое удаление вместе с записями и оценками пользователя.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Warn("user deleted", zap.Int64("user_id", id))
	return nil
}

// LinkTelegram проверяет пароль и привязывает чат к пользователю.
// Если чат был привязан к другому пользователю, старая привязка снимается.
func (s *Service) LinkTelegram(ctx context.Context, email, password string, chatID int64) (*models.User, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	prev, err := s.users.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.ID != u.ID {
		if err := s.users.SetTelegramChatID(ctx, prev.ID, nil); err != nil {
			return nil, err
		}
	}
	if err := s.users.SetTelegramChatID(ctx, u.ID, &chatID); err != nil {
		return nil, err
	}
	u.TelegramChatID = &chatID
	s.log.Info("telegram linked", zap.Int64("user_id", u.ID), zap.Int64("chat_id", chatID))
	return u, nil
}

func (s *Service) Unlink(ctx context.Context, chatID int64) error {
	u, err := s.users.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	return s.users.SetTelegramChatID(ctx, u.ID, nil)
}

func (s *Service) mustExist(ctx context.Context, id int64) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	return nil
}

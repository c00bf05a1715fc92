package user

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/repository"
)

type Service struct {
	users *repository.UserRepository
}

func NewService(users *repository.UserRepository) *Service {
	return &Service{users: users}
}

// UpsertFromIdentity creates a User for an identity-provider subject on
// first contact and is a no-op on repeat delivery, so the webhook can be
// redelivered safely.
func (s *Service) UpsertFromIdentity(ctx context.Context, clerkID, name, email, avatarURL string) (*domain.User, error) {
	existing, err := s.users.GetByClerkID(ctx, clerkID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Anonymous"
	}

	u := &domain.User{
		ClerkID:   clerkID,
		Role:      domain.RoleStudent,
		Name:      name,
		Email:     email,
		AvatarURL: avatarURL,
		Credits:   0,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// concurrent first-contact race
		if repository.IsUniqueViolation(err) {
			return s.users.GetByClerkID(ctx, clerkID)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	u, err := s.users.GetByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Wallet returns the current credit balance in the smallest currency unit.
func (s *Service) Wallet(ctx context.Context, userID int64) (int64, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Credits, nil
}

func (s *Service) AddCredits(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.users.AddCredits(ctx, userID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) DeductCredits(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	err := s.users.DeductCredits(ctx, userID, amount)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrInsufficientCredits):
		return ErrInsufficientCredits
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}

// ChangeRole flips a user between student and tutor. Admin is never
// assignable through this path.
func (s *Service) ChangeRole(ctx context.Context, userID int64, role domain.UserRole) error {
	if role != domain.RoleStudent && role != domain.RoleTutor {
		return ErrInvalidRole
	}
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.users.UpdateRole(ctx, userID, role)
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/thai-travel-share/internal/domain"
	"github.com/Rrens/thai-travel-share/internal/security"
)

// UserService manages profiles of registered users
type UserService struct {
	userRepo domain.UserRepository
	tx       Transactor
	hasher   *security.BcryptHasher
	now      Clock
}

// NewUserService creates a new user service
func NewUserService(userRepo domain.UserRepository, tx Transactor, hasher *security.BcryptHasher) *UserService {
	return &UserService{
		userRepo: userRepo,
		tx:       tx,
		hasher:   hasher,
		now:      utcNow,
	}
}

// Get returns the public view of a user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.UserView, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	view := user.View()
	return &view, nil
}

// UpdateProfile applies patch to the caller's own profile
func (s *UserService) UpdateProfile(ctx context.Context, callerID, userID uuid.UUID, patch domain.UserPatch) (*domain.ProfileUpdate, error) {
	if callerID != userID {
		return nil, domain.ErrForbidden
	}

	var result *domain.ProfileUpdate
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return domain.ErrUserNotFound
		}

		now := s.now()
		updated := patch.Apply(user)
		user.UpdatedAt = &now

		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}

		result = &domain.ProfileUpdate{
			User:          user.View(),
			Message:       "Profile updated successfully",
			UpdatedFields: updated,
			Timestamp:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ChangePassword replaces the caller's password after checking the old one
func (s *UserService) ChangePassword(ctx context.Context, callerID, userID uuid.UUID, input domain.PasswordChange) error {
	if callerID != userID {
		return domain.ErrForbidden
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return domain.ErrUserNotFound
		}

		if !s.hasher.Verify(input.OldPassword, user.PasswordHash) {
			return domain.ErrIncorrectPassword
		}

		digest, err := hashPassword(s.hasher, "new_password", input.NewPassword)
		if err != nil {
			return err
		}

		now := s.now()
		user.PasswordHash = digest
		user.UpdatedAt = &now

		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}

		log.Info().Str("user_id", user.ID.String()).Msg("password changed")
		return nil
	})
}

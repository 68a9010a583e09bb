package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/thai-travel-share/internal/domain"
	"github.com/Rrens/thai-travel-share/internal/security"
)

const tokenTypeBearer = "bearer"

var registrationNextSteps = []string{
	"Please verify your email address",
	"Complete your profile information",
	"Start planning your first trip",
}

// AuthService handles registration, login and bearer-token authentication
type AuthService struct {
	userRepo   domain.UserRepository
	tx         Transactor
	hasher     *security.BcryptHasher
	jwtManager *security.JWTManager
	encryptor  *security.Encryptor
	now        Clock

	dummyOnce   sync.Once
	dummyDigest string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	tx Transactor,
	hasher *security.BcryptHasher,
	jwtManager *security.JWTManager,
	encryptor *security.Encryptor,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tx:         tx,
		hasher:     hasher,
		jwtManager: jwtManager,
		encryptor:  encryptor,
		now:        utcNow,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input domain.UserCreate) (*domain.Registration, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	hashedPassword, err := hashPassword(s.hasher, "password", input.Password)
	if err != nil {
		return nil, err
	}

	nationalID, err := s.encryptor.SealField(input.NationalID)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt national id: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		DateOfBirth:  input.DateOfBirth,
		NationalID:   nationalID,
		IsActive:     true,
		CreatedAt:    s.now(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Email is checked first so a request clashing on both reports the email
		existing, err := s.userRepo.GetByEmail(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil {
			return domain.ErrEmailTaken
		}

		existing, err = s.userRepo.GetByUsername(ctx, user.Username)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil {
			return domain.ErrUsernameTaken
		}

		// The unique constraints still catch a concurrent registration
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return &domain.Registration{
		User:      user.View(),
		Message:   "User registered successfully",
		NextSteps: registrationNextSteps,
	}, nil
}

// Login authenticates a user and returns tokens. Unknown usernames and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		// Spend the same bcrypt work as a real comparison
		s.hasher.Verify(input.Password, s.dummyHash())
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}

	pair, err := s.issue(user.Username)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		TokenPair: *pair,
		User:      user.View(),
	}, nil
}

// Refresh exchanges a refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	username, err := s.jwtManager.Verify(refreshToken, security.RefreshToken)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	if _, err := s.activeUser(ctx, username); err != nil {
		return nil, err
	}

	return s.issue(username)
}

// Authenticate resolves an access token to the active user it was issued for
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.UserView, error) {
	username, err := s.jwtManager.Verify(accessToken, security.AccessToken)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.activeUser(ctx, username)
	if err != nil {
		return nil, err
	}

	view := user.View()
	return &view, nil
}

func (s *AuthService) activeUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}
	return user, nil
}

func (s *AuthService) issue(subject string) (*domain.TokenPair, error) {
	accessToken, refreshToken, expiresIn, err := s.jwtManager.GenerateTokenPair(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    expiresIn,
	}, nil
}

func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			log.Error().Err(err).Msg("failed to prepare dummy password hash")
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

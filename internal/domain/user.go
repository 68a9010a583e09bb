package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        *string    `json:"phone,omitempty"`
	DateOfBirth  *Date      `json:"date_of_birth,omitempty"`
	NationalID   []byte     `json:"-"` // AES-GCM ciphertext
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// UserView is the redacted representation of a user returned to callers
type UserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       *string   `json:"phone"`
	DateOfBirth *Date     `json:"date_of_birth"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// View returns the public representation of the user
func (u *User) View() UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		DateOfBirth: u.DateOfBirth,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

// UserCreate represents user registration data
type UserCreate struct {
	Email       string  `json:"email" validate:"required,email,max=255"`
	Username    string  `json:"username" validate:"required,min=3,max=50"`
	Password    string  `json:"password" validate:"required,min=8,maxbytes=72"`
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	DateOfBirth *Date   `json:"date_of_birth,omitempty"`
	NationalID  *string `json:"national_id,omitempty" validate:"omitempty,max=20"`
}

// UserLogin represents login credentials
type UserLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserPatch holds the profile fields a caller explicitly supplied.
// A nil field is left untouched.
type UserPatch struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	DateOfBirth *Date   `json:"date_of_birth,omitempty"`
}

// Apply merges the supplied fields into u and reports which fields changed
func (p UserPatch) Apply(u *User) []string {
	updated := []string{}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
		updated = append(updated, "first_name")
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
		updated = append(updated, "last_name")
	}
	if p.Phone != nil {
		phone := *p.Phone
		u.Phone = &phone
		updated = append(updated, "phone")
	}
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		u.DateOfBirth = &dob
		updated = append(updated, "date_of_birth")
	}
	return updated
}

// PasswordChange represents a password change request
type PasswordChange struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,maxbytes=72"`
}

// TokenPair represents JWT token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginResult is returned after a successful login
type LoginResult struct {
	TokenPair
	User UserView `json:"user"`
}

// Registration is returned after a successful registration
type Registration struct {
	User      UserView `json:"user"`
	Message   string   `json:"message"`
	NextSteps []string `json:"next_steps"`
}

// ProfileUpdate is returned after a profile change
type ProfileUpdate struct {
	User          UserView  `json:"user"`
	Message       string    `json:"message"`
	UpdatedFields []string  `json:"updated_fields"`
	Timestamp     time.Time `json:"timestamp"`
}

// UserRepository defines the persistence operations for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/thai-travel-share/internal/domain"
	"github.com/Rrens/thai-travel-share/internal/security"
)

// Transactor runs fn inside a unit of work carried by ctx
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProvinceCache stores the province catalog between requests
type ProvinceCache interface {
	Get(ctx context.Context) ([]domain.Province, error)
	Set(ctx context.Context, provinces []domain.Province) error
}

// Clock returns the current time
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// hashPassword hashes password, reporting bcrypt's byte limit as a
// validation error on field
func hashPassword(hasher *security.BcryptHasher, field, password string) (string, error) {
	digest, err := hasher.Hash(password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return "", domain.NewValidationError(field,
			fmt.Sprintf("Password must be at most %d bytes", security.MaxPasswordBytes))
	}
	return digest, err
}

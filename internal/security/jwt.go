package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes access tokens from refresh tokens
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// ErrInvalidToken is returned for every token that fails verification.
// Expired, forged, malformed and wrong-kind tokens are not distinguished.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims
type Claims struct {
	Type TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies signed, expiring bearer tokens
type JWTManager struct {
	secret          []byte
	method          jwt.SigningMethod
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

// NewJWTManager creates a new JWT manager. algorithm must name an HMAC method.
func NewJWTManager(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %q", algorithm)
	}
	if secret == "" {
		return nil, errors.New("signing secret is empty")
	}

	return &JWTManager{
		secret:          []byte(secret),
		method:          method,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		now:             time.Now,
	}, nil
}

// Issue signs a token of the given kind for subject. A zero ttl selects the
// configured default for the kind; a negative ttl yields an expired token.
func (m *JWTManager) Issue(subject string, kind TokenKind, ttl time.Duration) (string, error) {
	if ttl == 0 {
		switch kind {
		case AccessToken:
			ttl = m.accessTokenTTL
		case RefreshToken:
			ttl = m.refreshTokenTTL
		default:
			return "", fmt.Errorf("unknown token kind: %q", kind)
		}
	}

	now := m.now()
	claims := Claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(m.method, claims)
	return token.SignedString(m.secret)
}

// GenerateTokenPair generates both access and refresh tokens
func (m *JWTManager) GenerateTokenPair(subject string) (accessToken, refreshToken string, expiresIn int64, err error) {
	accessToken, err = m.Issue(subject, AccessToken, 0)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err = m.Issue(subject, RefreshToken, 0)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresIn = int64(m.accessTokenTTL.Seconds())

	return accessToken, refreshToken, expiresIn, nil
}

// Verify validates signature, expiry and kind and returns the token subject
func (m *JWTManager) Verify(tokenString string, expected TokenKind) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Type != expected || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

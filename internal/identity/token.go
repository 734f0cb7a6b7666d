package identity

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is fixed; there are no refresh tokens.
const TokenTTL = time.Hour

var (
	ErrTokenMissing = apperror.New(apperror.CodeTokenMissing, "Authentication token is missing", http.StatusUnauthorized)
	ErrInvalidToken = apperror.New(apperror.CodeInvalidToken, "Authentication token is invalid", http.StatusUnauthorized)
	ErrTokenExpired = apperror.New(apperror.CodeTokenExpired, "Authentication token has expired", http.StatusUnauthorized)
	ErrInvalidRole  = apperror.New(apperror.CodeInvalidRole, "Token does not carry a valid role", http.StatusForbidden)
)

type Claims struct {
	jwt.RegisteredClaims
	UserID       int64  `json:"user_id"`
	Role         Role   `json:"role"`
	AccountantID *int64 `json:"accountant_id,omitempty"`
	CompanyID    *int64 `json:"company_id,omitempty"`
}

type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// WithClock is used by tests to issue tokens at a fixed instant.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	return &TokenIssuer{secret: t.secret, now: now}
}

// Generate signs a token for p and returns it with its expiry.
func (t *TokenIssuer) Generate(p Principal) (string, time.Time, error) {
	if !p.Valid() {
		return "", time.Time{}, ErrInvalidRole
	}

	issuedAt := t.now()
	expiresAt := issuedAt.Add(TokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: p.UserID(),
		Role:   p.Role(),
	}
	if id, ok := p.AccountantID(); ok {
		claims.AccountantID = &id
	}
	if id, ok := p.CompanyID(); ok {
		claims.CompanyID = &id
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and decodes the claims into a Principal.
func (t *TokenIssuer) Verify(token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrTokenMissing
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperror.WithCause(ErrTokenExpired, err)
		}
		return Principal{}, apperror.WithCause(ErrInvalidToken, err)
	}

	if claims.UserID <= 0 {
		return Principal{}, ErrInvalidToken
	}

	return principalFromClaims(claims)
}

func principalFromClaims(c *Claims) (Principal, error) {
	switch c.Role {
	case RoleAccountant:
		if c.AccountantID == nil || *c.AccountantID <= 0 || c.CompanyID != nil {
			return Principal{}, ErrInvalidRole
		}
		return NewAccountant(c.UserID, *c.AccountantID), nil
	case RoleClient:
		if c.CompanyID == nil || *c.CompanyID <= 0 || c.AccountantID != nil {
			return Principal{}, ErrInvalidRole
		}
		return NewClient(c.UserID, *c.CompanyID), nil
	default:
		return Principal{}, ErrInvalidRole
	}
}

// Package token signs and verifies the access and refresh JWTs.
//
// Access and refresh tokens use distinct HMAC secrets so that one class can
// never be accepted in place of the other. The codec is immutable once built
// and safe for concurrent use.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/usermgmt/backend/internal/model"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrMisconfigured = errors.New("token codec misconfigured")
)

type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Payload is what gets signed into a token.
// TokenID is only used by refresh tokens and references the ledger row.
type Payload struct {
	UserID   int64
	Role     model.Role
	TenantID *int64
	TokenID  int64
}

type Claims struct {
	Role    model.Role `json:"role"`
	Tenant  string     `json:"tenant,omitempty"`
	TokenID string     `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// RecordID parses the ledger row id embedded in a refresh token.
func (c *Claims) RecordID() (int64, error) {
	id, err := strconv.ParseInt(c.TokenID, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// TenantID parses the optional tenant claim.
func (c *Claims) TenantID() *int64 {
	if c.Tenant == "" {
		return nil
	}
	id, err := strconv.ParseInt(c.Tenant, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewCodec(cfg Config) (*Codec, error) {
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("%w: ACCESS_TOKEN_SECRET is required", ErrMisconfigured)
	}
	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("%w: REFRESH_TOKEN_SECRET is required", ErrMisconfigured)
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrMisconfigured)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("%w: token TTLs must be positive", ErrMisconfigured)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           now,
	}, nil
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *Codec) SignAccess(p Payload) (string, error) {
	return c.sign(p, "", c.accessSecret, c.accessTTL)
}

func (c *Codec) SignRefresh(p Payload) (string, error) {
	if p.TokenID <= 0 {
		return "", fmt.Errorf("%w: refresh token requires a record id", ErrInvalidToken)
	}
	return c.sign(p, strconv.FormatInt(p.TokenID, 10), c.refreshSecret, c.refreshTTL)
}

func (c *Codec) VerifyAccess(tokenStr string) (*Claims, error) {
	return c.verify(tokenStr, c.accessSecret)
}

func (c *Codec) VerifyRefresh(tokenStr string) (*Claims, error) {
	claims, err := c.verify(tokenStr, c.refreshSecret)
	if err != nil {
		return nil, err
	}
	if _, err := claims.RecordID(); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *Codec) sign(p Payload, tokenID string, secret []byte, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		Role:    p.Role,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if p.TenantID != nil {
		claims.Tenant = strconv.FormatInt(*p.TenantID, 10)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (c *Codec) verify(tokenStr string, secret []byte) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

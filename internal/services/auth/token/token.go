// Package token issues and verifies the bearer tokens that protect the API
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	perr "piiquante/internal/platform/errors"
)

// Config defines how tokens are signed and verified
type Config struct {
	// Secret is the HS256 signing key, required
	Secret []byte

	// Issuer is stamped on issued tokens and checked on verify when set
	Issuer string

	// TTL bounds the lifetime of issued tokens, default 24h
	TTL time.Duration

	// Now is the clock seam for tests, default time.Now
	Now func() time.Time
}

// Identity is the verified subject of a token
type Identity struct {
	UserID string
}

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Verifier checks raw bearer tokens and yields the identity behind them
type Verifier struct {
	cfg Config
}

// New builds a Verifier, panicking on a missing secret since that is
// a deployment error nothing downstream can recover from
func New(cfg Config) *Verifier {
	if len(cfg.Secret) == 0 {
		panic("token: empty signing secret")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Verifier{cfg: cfg}
}

// Issue signs a token for userID using the configured TTL
func (v *Verifier) Issue(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", perr.InvalidArgf("empty user id")
	}
	now := v.cfg.Now().UTC()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.cfg.TTL)),
		},
		UserID: userID,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(v.cfg.Secret)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "sign token")
	}
	return signed, nil
}

// Verify parses and validates raw, returning the identity it carries
// every failure maps to unauthorized so callers can pass it straight to transport
func (v *Verifier) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, perr.Unauthorizedf("missing bearer token")
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(t *jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(v.cfg.Now),
	)
	if err != nil {
		return Identity{}, mapJWTError(err)
	}

	if v.cfg.Issuer != "" && parsed.Issuer != v.cfg.Issuer {
		return Identity{}, perr.Unauthorizedf("token issuer mismatch")
	}
	if parsed.ExpiresAt == nil {
		return Identity{}, perr.Unauthorizedf("token missing expiry")
	}
	if strings.TrimSpace(parsed.UserID) == "" {
		return Identity{}, perr.Unauthorizedf("token missing subject")
	}
	return Identity{UserID: parsed.UserID}, nil
}

// mapJWTError flattens jwt library errors to unauthorized with a stable reason
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return perr.Unauthorizedf("token expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return perr.Unauthorizedf("token signature invalid")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return perr.Unauthorizedf("token malformed")
	default:
		return perr.Unauthorizedf("token invalid")
	}
}

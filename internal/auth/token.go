// Package auth implements the stateless token service: minting and
// verifying signed bearer tokens that prove identity and role without any
// server-side session state.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitstack/coachd/internal/domain/user"
)

// Token verification failure kinds. Expiry is the only lifecycle bound;
// there is no revocation list and no refresh mechanism.
var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrMalformedToken   = errors.New("token is malformed")
	ErrExpired          = errors.New("token has expired")
)

// DefaultTTL matches the fixed token lifetime of the service.
const DefaultTTL = 30 * time.Minute

// Identity is the verified caller extracted from a token.
type Identity struct {
	UserID   string
	Username string
	Role     user.Role
}

// IsTrainer reports whether the identity may perform trainer-only writes.
func (id Identity) IsTrainer() bool {
	return id.Role.IsTrainer()
}

// Claims is the token payload. The is_admin flag is the wire name for the
// trainer role; the subject carries the username.
type Claims struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HS256 tokens with a fixed TTL. The secret is
// injected at construction and read-only afterwards.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for the user with expiry now+TTL. The signature
// covers the full payload, so no claim can change without invalidating it.
func (i *Issuer) Issue(u user.User, now time.Time) (string, error) {
	claims := &Claims{
		UserID:  u.ID,
		IsAdmin: u.Role.IsTrainer(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks the signature and expiry against the given clock and
// returns the embedded identity. Failures are one of ErrInvalidSignature,
// ErrMalformedToken, or ErrExpired.
func (i *Issuer) Verify(tokenString string, now time.Time) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSignature):
			return Identity{}, ErrInvalidSignature
		default:
			return Identity{}, ErrMalformedToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrMalformedToken
	}
	if claims.Subject == "" || claims.UserID == "" {
		return Identity{}, ErrMalformedToken
	}

	role := user.RoleClient
	if claims.IsAdmin {
		role = user.RoleTrainer
	}
	return Identity{UserID: claims.UserID, Username: claims.Subject, Role: role}, nil
}

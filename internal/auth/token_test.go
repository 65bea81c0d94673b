package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitstack/coachd/internal/domain/user"
)

func testUser(role user.Role) user.User {
	return user.User{ID: "user-1", Username: "alice", Role: role}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", 30*time.Minute)
	now := time.Now()

	token, err := issuer.Issue(testUser(user.RoleTrainer), now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ident, err := issuer.Verify(token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.UserID != "user-1" {
		t.Fatalf("user id = %q, want user-1", ident.UserID)
	}
	if ident.Username != "alice" {
		t.Fatalf("username = %q, want alice", ident.Username)
	}
	if ident.Role != user.RoleTrainer {
		t.Fatalf("role = %q, want trainer", ident.Role)
	}
}

func TestVerifyClientRole(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	now := time.Now()

	token, err := issuer.Issue(testUser(user.RoleClient), now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ident, err := issuer.Verify(token, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.Role != user.RoleClient {
		t.Fatalf("role = %q, want client", ident.Role)
	}
	if ident.IsTrainer() {
		t.Fatal("client identity must not pass the trainer check")
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewIssuer("secret", 30*time.Minute)
	now := time.Now()

	token, err := issuer.Issue(testUser(user.RoleClient), now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = issuer.Verify(token, now.Add(31*time.Minute))
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("error = %v, want ErrExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	now := time.Now()
	token, err := NewIssuer("secret-a", time.Hour).Issue(testUser(user.RoleClient), now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = NewIssuer("secret-b", time.Hour).Verify(token, now)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("error = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(token, time.Now()); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("token %q: error = %v, want ErrMalformedToken", token, err)
		}
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := NewIssuer("secret", time.Hour).Verify(unsigned, time.Now()); err == nil {
		t.Fatal("expected unsigned token to be rejected")
	}
}

func TestVerifyMissingRequiredClaims(t *testing.T) {
	secret := []byte("secret")

	// Signed but without a subject.
	noSubject := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noSubject).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).Verify(token, time.Now()); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("no subject: error = %v, want ErrMalformedToken", err)
	}

	// Signed but without an expiry.
	noExpiry := &Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, noExpiry).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).Verify(token, time.Now()); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("no expiry: error = %v, want ErrMalformedToken", err)
	}
}

func TestDefaultTTL(t *testing.T) {
	if got := NewIssuer("secret", 0).TTL(); got != DefaultTTL {
		t.Fatalf("ttl = %v, want %v", got, DefaultTTL)
	}
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Input validation runs before any repository access, so a zero-value
// service is enough for these paths.

func TestRegister_InvalidEmail(t *testing.T) {
	svc := &service{}
	for _, email := range []string{"", "plainaddress", "no@tld", "spaces in@mail.com", "@missing.local"} {
		_, _, err := svc.Register(context.Background(), email, "secret1", "Alice", "both")
		if err != ErrInvalidEmail {
			t.Errorf("email %q: expected ErrInvalidEmail, got: %v", email, err)
		}
	}
}

func TestRegister_PasswordTooShort(t *testing.T) {
	svc := &service{}
	_, _, err := svc.Register(context.Background(), "alice@example.com", "12345", "Alice", "both")
	if err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got: %v", err)
	}
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := &service{}
	_, _, err := svc.Register(context.Background(), "alice@example.com", "secret1", "Alice", "wizard")
	if err != ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got: %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := &service{secret: []byte("test-secret")}
	userID := uuid.New()

	token, err := svc.issueToken(userID, "alice@example.com")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	got, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if got != userID {
		t.Errorf("subject: got %s, want %s", got, userID)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := &service{secret: []byte("secret-a")}
	verifier := &service{secret: []byte("secret-b")}

	token, err := issuer.issueToken(uuid.New(), "alice@example.com")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, err := verifier.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	svc := &service{secret: secret}

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
		Email: "alice@example.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := &service{secret: []byte("test-secret")}
	if _, err := svc.ValidateToken(context.Background(), "not.a.token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}

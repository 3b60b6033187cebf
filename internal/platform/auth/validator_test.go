package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSigningKey = []byte("test-secret-key-for-unit-tests-only")

const (
	testIssuer   = "https://auth.example.com/realms/homehospital"
	testAudience = "hha-backend"
)

func testClaims() tokenClaims {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		PreferredUsername: "dr.mueller",
		Email:             "mueller@example.com",
		Name:              "Dr. Mueller",
	}
	claims.RealmAccess.Roles = []string{"arzt"}
	return claims
}

func signTestToken(t *testing.T, claims tokenClaims, key []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return tokenStr
}

func testValidator() *Validator {
	return NewValidator(ValidatorConfig{
		Issuer:     testIssuer,
		Audience:   testAudience,
		SigningKey: testSigningKey,
	})
}

func TestValidate_ValidToken(t *testing.T) {
	v := testValidator()
	tokenStr := signTestToken(t, testClaims(), testSigningKey)

	identity, err := v.Validate(tokenStr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Subject != "user-123" {
		t.Errorf("expected subject user-123, got %s", identity.Subject)
	}
	if identity.Username != "dr.mueller" {
		t.Errorf("expected username dr.mueller, got %s", identity.Username)
	}
	if len(identity.Roles) != 1 || identity.Roles[0] != "arzt" {
		t.Errorf("expected roles [arzt], got %v", identity.Roles)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	v := testValidator()
	claims := testClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-1 * time.Hour))
	tokenStr := signTestToken(t, claims, testSigningKey)

	_, err := v.Validate(tokenStr)
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthenticationError, got %T", err)
	}
}

func TestValidate_MissingExpiry(t *testing.T) {
	v := testValidator()
	claims := testClaims()
	claims.ExpiresAt = nil
	tokenStr := signTestToken(t, claims, testSigningKey)

	if _, err := v.Validate(tokenStr); err == nil {
		t.Fatal("expected error for token without expiry")
	}
}

func TestValidate_WrongIssuer(t *testing.T) {
	v := testValidator()
	claims := testClaims()
	claims.Issuer = "https://evil.example.com/realms/other"
	tokenStr := signTestToken(t, claims, testSigningKey)

	if _, err := v.Validate(tokenStr); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestValidate_WrongAudience(t *testing.T) {
	v := testValidator()
	claims := testClaims()
	claims.Audience = jwt.ClaimStrings{"some-other-client"}
	tokenStr := signTestToken(t, claims, testSigningKey)

	if _, err := v.Validate(tokenStr); err == nil {
		t.Fatal("expected error for wrong audience")
	}
}

func TestValidate_BadSignature(t *testing.T) {
	v := testValidator()
	tokenStr := signTestToken(t, testClaims(), []byte("a-different-key-entirely"))

	_, err := v.Validate(tokenStr)
	if err == nil {
		t.Fatal("expected error for bad signature")
	}
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthenticationError, got %T", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	v := testValidator()
	for _, tokenStr := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := v.Validate(tokenStr); err == nil {
			t.Errorf("expected error for token %q", tokenStr)
		}
	}
}

func TestHasAnyRole(t *testing.T) {
	tests := []struct {
		name     string
		held     []string
		required []string
		want     bool
	}{
		{"exact match", []string{"arzt"}, []string{"arzt"}, true},
		{"one of several", []string{"pflege"}, []string{"admin", "arzt", "pflege"}, true},
		{"no overlap", []string{"pflege"}, []string{"admin"}, false},
		{"admin has no implicit access", []string{"admin"}, []string{"arzt"}, false},
		{"empty roles", nil, []string{"admin"}, false},
		{"empty required", []string{"admin"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := &Identity{Roles: tt.held}
			if got := id.HasAnyRole(tt.required...); got != tt.want {
				t.Errorf("HasAnyRole(%v) with %v = %v, want %v", tt.required, tt.held, got, tt.want)
			}
		})
	}
}

func TestPrimaryRole(t *testing.T) {
	id := &Identity{Roles: []string{"arzt", "pflege"}}
	if got := id.PrimaryRole(); got != "arzt" {
		t.Errorf("expected arzt, got %s", got)
	}
	empty := &Identity{}
	if got := empty.PrimaryRole(); got != RoleAnonymous {
		t.Errorf("expected %s, got %s", RoleAnonymous, got)
	}
}

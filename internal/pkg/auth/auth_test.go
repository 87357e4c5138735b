package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func testService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "campus-connect",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testService(time.Hour)
	user := &models.User{ID: uuid.New(), Email: "ana@campus.edu", Role: models.RoleAdmin}

	token, expiresIn, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if expiresIn != 3600 {
		t.Fatalf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	id, err := claims.ParsedUserID()
	if err != nil || id != user.ID {
		t.Fatalf("user id = %v (%v), want %v", id, err, user.ID)
	}
	if !claims.IsAdmin() {
		t.Fatal("expected admin claims")
	}
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@campus.edu", Role: models.RoleStudent}
	token, _, err := testService(time.Hour).GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "campus-connect"})
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := testService(-time.Minute)
	user := &models.User{ID: uuid.New(), Email: "ana@campus.edu", Role: models.RoleStudent}
	token, _, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if tok, err := ExtractBearerToken("Bearer abc"); err != nil || tok != "abc" {
		t.Fatalf("got %q, %v", tok, err)
	}
	if tok, err := ExtractBearerToken("abc"); err != nil || tok != "abc" {
		t.Fatalf("got %q, %v", tok, err)
	}
	if _, err := ExtractBearerToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err = %v", err)
	}
	if _, err := ExtractBearerToken("Bearer   "); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err = %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPasswordWithCost("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword(hash, "secret1") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "secret2") {
		t.Fatal("wrong password accepted")
	}
}

func TestDummyHash(t *testing.T) {
	hash := DummyHash()
	if hash != DummyHash() {
		t.Fatal("dummy hash must be stable")
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != BcryptCost {
		t.Fatalf("cost = %d (%v), want %d", cost, err, BcryptCost)
	}
	if CheckPassword(hash, "secret1") {
		t.Fatal("dummy hash matched a user password")
	}
}

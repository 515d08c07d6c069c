package auth

import (
	"testing"

	"foodrescue-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	const secret = "test-secret-test-secret-test-secret"
	user := &models.User{
		ID:    42,
		Email: "vic@example.com",
		Role:  models.RoleVolunteer,
	}

	signed, err := GenerateToken(secret, user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("could not parse token: %v", err)
	}
	if !token.Valid {
		t.Fatal("token not valid")
	}

	if claims.UserID != 42 {
		t.Errorf("userID = %d, want 42", claims.UserID)
	}
	if claims.Email != "vic@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != models.RoleVolunteer {
		t.Errorf("role = %q, want %q", claims.Role, models.RoleVolunteer)
	}
	if claims.ExpiresAt == nil {
		t.Error("missing expiry")
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Email: "vic@example.com", Role: models.RoleVolunteer}

	signed, err := GenerateToken("secret-one-secret-one-secret-one", user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = jwt.ParseWithClaims(signed, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret-two-secret-two-secret-two"), nil
	})
	if err == nil {
		t.Fatal("token signed with a different secret must not verify")
	}
}

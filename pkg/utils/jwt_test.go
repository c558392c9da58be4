package utils

import (
	"testing"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	user := &models.User{
		ID:         primitive.NewObjectID(),
		Email:      "dana@example.com",
		Role:       models.RoleManager,
		Department: "Finance",
	}

	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Errorf("UserID = %q, want %q", claims.UserID, user.ID.Hex())
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Role != models.RoleManager {
		t.Errorf("Role = %q, want manager", claims.Role)
	}
	if claims.Department != "Finance" {
		t.Errorf("Department = %q, want Finance", claims.Department)
	}

	id, err := claims.ObjectID()
	if err != nil {
		t.Fatalf("ObjectID: %v", err)
	}
	if id != user.ID {
		t.Errorf("ObjectID = %v, want %v", id, user.ID)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	SetSecret("first-secret")
	token, err := GenerateToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	SetSecret("second-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("token validated with the wrong secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	SetSecret("test-secret")
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
}

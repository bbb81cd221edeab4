package utils

import "testing"

func TestSignAndParseJWT(t *testing.T) {
	secret := "test-secret"

	t.Run("round trip", func(t *testing.T) {
		token, err := SignJWT(secret, "user-123", "client", 60)
		if err != nil {
			t.Fatalf("sign failed: %v", err)
		}

		claims, err := ParseJWT(secret, token)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if claims.UserID != "user-123" {
			t.Fatalf("expected uid %q, got %q", "user-123", claims.UserID)
		}
		if claims.Role != "client" {
			t.Fatalf("expected role %q, got %q", "client", claims.Role)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignJWT(secret, "user-123", "client", 60)
		if err != nil {
			t.Fatalf("sign failed: %v", err)
		}
		if _, err := ParseJWT("other-secret", token); err == nil {
			t.Fatal("expected parse to fail with wrong secret")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := SignJWT(secret, "user-123", "client", -1)
		if err != nil {
			t.Fatalf("sign failed: %v", err)
		}
		if _, err := ParseJWT(secret, token); err == nil {
			t.Fatal("expected parse to fail for expired token")
		}
	})
}

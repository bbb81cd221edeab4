package utils

import "testing"

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hashed == "hunter22" {
		t.Fatal("hash must not equal the plain password")
	}

	if !CheckPassword(hashed, "hunter22") {
		t.Fatal("expected correct password to verify")
	}
	if CheckPassword(hashed, "hunter23") {
		t.Fatal("expected wrong password to fail")
	}
}

package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	hash, err := svc.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}

	if !svc.Verify(hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}
	if svc.Verify(hash, "wrong password") {
		t.Error("expected mismatching password to fail")
	}
}

func TestPasswordService_HashesAreSalted(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	h1, err := svc.Hash("same password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	h2, err := svc.Hash("same password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ")
	}
}

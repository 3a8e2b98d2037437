package utils

import (
	"testing"
	"time"
)

func TestGenerateAndExtractToken(t *testing.T) {
	token, err := GenerateToken("user-1", RolePatient, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	subject, role, err := ExtractSubjectFromToken(token)
	if err != nil {
		t.Fatalf("ExtractSubjectFromToken: %v", err)
	}
	if subject != "user-1" || role != RolePatient {
		t.Errorf("got (%q, %q), want (%q, %q)", subject, role, "user-1", RolePatient)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("user-1", RolePatient, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, _, err := ExtractSubjectFromToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken("user-1", RolePatient, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, _, err := ExtractSubjectFromToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestAdminTokenClaims(t *testing.T) {
	token, err := GenerateToken(AdminSubject, RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	subject, role, err := ExtractSubjectFromToken(token)
	if err != nil {
		t.Fatalf("ExtractSubjectFromToken: %v", err)
	}
	if subject != AdminSubject || role != RoleAdmin {
		t.Errorf("got (%q, %q), want (%q, %q)", subject, role, AdminSubject, RoleAdmin)
	}
}

func TestHashTokenStable(t *testing.T) {
	a := HashToken("some-token")
	b := HashToken("some-token")
	if a != b {
		t.Error("hash not deterministic")
	}
	if a == HashToken("other-token") {
		t.Error("distinct tokens share a hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

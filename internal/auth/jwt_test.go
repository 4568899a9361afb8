package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndValidateAdminToken(t *testing.T) {
	m := NewJWTManager("signing-key", "open-sesame", time.Hour)

	if _, _, err := m.IssueAdminToken("wrong"); !errors.Is(err, ErrInvalidSecret) {
		t.Fatalf("wrong secret err = %v", err)
	}

	token, expires, err := m.IssueAdminToken("open-sesame")
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(expires) <= 59*time.Minute {
		t.Errorf("expires = %s", expires)
	}
	claims, err := m.ValidateAdmin(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != RoleAdmin || claims.Subject != "admin" || claims.ID == "" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	m := NewJWTManager("signing-key", "s", time.Hour)

	other := NewJWTManager("other-key", "s", time.Hour)
	foreign, _, _ := other.GenerateToken("admin", RoleAdmin)
	if _, err := m.ValidateToken(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token err = %v", err)
	}

	if _, err := m.ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage err = %v", err)
	}

	reader, _, _ := m.GenerateToken("someone", "reader")
	if _, err := m.ValidateAdmin(reader); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("non-admin err = %v", err)
	}

	past := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return past }
	old, _, _ := m.GenerateToken("admin", RoleAdmin)
	m.now = time.Now
	if _, err := m.ValidateToken(old); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired err = %v", err)
	}
}

func TestIssuingDisabledWithoutSecret(t *testing.T) {
	m := NewJWTManager("", "", 0)
	if _, _, err := m.IssueAdminToken(""); !errors.Is(err, ErrIssuingDisabled) {
		t.Fatalf("err = %v", err)
	}
	// a random signing key still allows locally minted tokens
	token, _, err := m.GenerateToken("cli", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateAdmin(token); err != nil {
		t.Fatal(err)
	}
}

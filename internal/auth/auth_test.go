package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestConfigOwner(t *testing.T) {
	valid, err := IssueToken(testSecret, "owner-42", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	otherSecret, err := IssueToken("other-secret", "owner-42", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	expired, err := IssueToken(testSecret, "owner-42", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	cfg := Config{Secret: testSecret}
	tests := []struct {
		name   string
		cfg    Config
		header string
		want   string
		err    error
	}{
		{name: "valid", cfg: cfg, header: "Bearer " + valid, want: "owner-42"},
		{name: "missing", cfg: cfg, header: "", err: ErrMissingToken},
		{name: "wrong scheme", cfg: cfg, header: "Basic " + valid, err: ErrMissingToken},
		{name: "wrong secret", cfg: cfg, header: "Bearer " + otherSecret, err: ErrInvalidToken},
		{name: "expired", cfg: cfg, header: "Bearer " + expired, err: ErrInvalidToken},
		{name: "no subject", cfg: cfg, header: "Bearer " + noSubject, err: ErrInvalidToken},
		{name: "disabled", cfg: Config{Disabled: true, DefaultOwner: "local"}, header: "", want: "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Owner(tt.header)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Owner error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("owner = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "owner-42"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}
	if _, err := ValidateToken(token, testSecret); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOwnerContext(t *testing.T) {
	if _, ok := OwnerFrom(context.Background()); ok {
		t.Fatalf("empty context has an owner")
	}
	if _, ok := OwnerFrom(WithOwner(context.Background(), "")); ok {
		t.Fatalf("blank owner accepted")
	}
	got, ok := OwnerFrom(WithOwner(context.Background(), "u1"))
	if !ok || got != "u1" {
		t.Fatalf("owner = %q, %v, want u1", got, ok)
	}
}

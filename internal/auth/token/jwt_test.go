package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

func newTestManager() *Manager {
	return New("test-secret", "plab-test", 10*time.Minute, 720*time.Hour)
}

func TestIssueParseRoundTrip(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	raw, issued, err := m.Issue(ctx, 42, domain.TokenAccess, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.JTI == "" {
		t.Fatal("issued claims have empty jti")
	}

	parsed, err := m.Parse(ctx, raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.JTI != issued.JTI {
		t.Errorf("jti mismatch: issued %q parsed %q", issued.JTI, parsed.JTI)
	}
	if parsed.UserID != 42 {
		t.Errorf("user id mismatch: got %d", parsed.UserID)
	}
	if parsed.Kind != domain.TokenAccess {
		t.Errorf("kind mismatch: got %q", parsed.Kind)
	}
	if parsed.Role != domain.RoleAdmin {
		t.Errorf("role mismatch: got %q", parsed.Role)
	}
}

func TestIssueDistinctJTI(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	_, a, err := m.Issue(ctx, 1, domain.TokenAccess, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, b, err := m.Issue(ctx, 1, domain.TokenAccess, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a.JTI == b.JTI {
		t.Fatalf("two issued tokens share jti %q", a.JTI)
	}
}

func TestTTLPerKind(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	_, access, err := m.Issue(ctx, 1, domain.TokenAccess, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	_, refresh, err := m.Issue(ctx, 1, domain.TokenRefresh, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	accessLife := access.ExpiresAt.Sub(access.IssuedAt)
	refreshLife := refresh.ExpiresAt.Sub(refresh.IssuedAt)
	if accessLife != 10*time.Minute {
		t.Errorf("access ttl: got %v", accessLife)
	}
	if refreshLife != 720*time.Hour {
		t.Errorf("refresh ttl: got %v", refreshLife)
	}
}

func TestParseWrongSecret(t *testing.T) {
	ctx := context.Background()
	raw, _, err := newTestManager().Issue(ctx, 1, domain.TokenAccess, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := New("another-secret", "plab-test", 10*time.Minute, 720*time.Hour)
	if _, err := other.Parse(ctx, raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestParseExpired(t *testing.T) {
	ctx := context.Background()
	m := New("test-secret", "plab-test", -time.Minute, 720*time.Hour)

	raw, _, err := m.Issue(ctx, 1, domain.TokenAccess, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(ctx, raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.Parse(context.Background(), "not.a.jwt"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestDecodeSkipsVerification(t *testing.T) {
	ctx := context.Background()
	// просроченный токен: Parse откажет, Decode обязан вернуть клеймы
	m := New("test-secret", "plab-test", -time.Minute, 720*time.Hour)
	raw, issued, err := m.Issue(ctx, 7, domain.TokenAccess, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := m.Decode(ctx, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.JTI != issued.JTI || got.UserID != 7 {
		t.Errorf("decoded claims mismatch: %+v", got)
	}
}

package shop

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusUnauthorized, StatusAuthorized) {
		t.Fatalf("unauthorized -> authorized should be allowed")
	}
	if !CanTransition(StatusAuthorized, StatusExpired) {
		t.Fatalf("authorized -> expired should be allowed")
	}
	if !CanTransition(StatusExpired, StatusAuthorized) {
		t.Fatalf("expired -> authorized should be allowed")
	}
	if !CanTransition(StatusExpired, StatusRevoked) {
		t.Fatalf("expired -> revoked should be allowed")
	}
	if !CanTransition(StatusRevoked, StatusAuthorized) {
		t.Fatalf("revoked -> authorized (re-install) should be allowed")
	}

	if CanTransition(StatusUnauthorized, StatusExpired) {
		t.Fatalf("unauthorized -> expired should be rejected")
	}
	if CanTransition(StatusRevoked, StatusExpired) {
		t.Fatalf("revoked -> expired should be rejected")
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("authorized")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s != StatusAuthorized {
		t.Fatalf("got %s", s)
	}
	if _, err := ParseStatus("active"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Unix(1700000000, 0)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	s := Shop{Status: StatusAuthorized, AccessExpiresAt: &past}
	if got := s.EffectiveStatus(now); got != StatusExpired {
		t.Fatalf("expected expired, got %s", got)
	}

	s = Shop{Status: StatusAuthorized, AccessExpiresAt: &future}
	if got := s.EffectiveStatus(now); got != StatusAuthorized {
		t.Fatalf("expected authorized, got %s", got)
	}

	s = Shop{Status: StatusAuthorized}
	if got := s.EffectiveStatus(now); got != StatusAuthorized {
		t.Fatalf("expected authorized without token record, got %s", got)
	}

	s = Shop{Status: StatusRevoked, AccessExpiresAt: &past}
	if got := s.EffectiveStatus(now); got != StatusRevoked {
		t.Fatalf("expected revoked, got %s", got)
	}
}

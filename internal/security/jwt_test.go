package security

import (
	"strings"
	"testing"
	"time"
)

func TestJWTSignAndParse(t *testing.T) {
	mgr := NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456")
	raw, err := mgr.SignAccessToken(42, "user@example.com", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := mgr.ParseAccessToken(raw)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "42" || claims.Email != "user@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Fatalf("unexpected user id %d err=%v", id, err)
	}
}

func TestJWTParseRejectsExpired(t *testing.T) {
	mgr := NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456")
	raw, err := mgr.SignAccessToken(7, "a@x.com", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.ParseAccessToken(raw); err == nil {
		t.Fatal("expected expired token to fail parse")
	}
}

func TestJWTParseRejectsForeignSecret(t *testing.T) {
	mgr := NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456")
	other := NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz654321")
	raw, err := other.SignAccessToken(7, "a@x.com", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.ParseAccessToken(raw); err == nil {
		t.Fatal("expected token signed with a rotated secret to fail parse")
	}
}

func TestJWTParseRejectsWrongAudience(t *testing.T) {
	mgr := NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456")
	other := NewJWTManager("iss", "other-aud", "abcdefghijklmnopqrstuvwxyz123456")
	raw, err := other.SignAccessToken(7, "a@x.com", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.ParseAccessToken(raw); err == nil {
		t.Fatal("expected token with wrong audience to fail parse")
	}
}

func FuzzParseAccessTokenRobustness(f *testing.F) {
	mgr := NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456")
	valid, _ := mgr.SignAccessToken(42, "user@example.com", time.Minute)

	f.Add(valid)
	f.Add("")
	f.Add("not-a-jwt")
	f.Add("header.payload.signature")
	f.Add(strings.Repeat("a", 8192))

	f.Fuzz(func(t *testing.T, raw string) {
		if len(raw) > 16384 {
			raw = raw[:16384]
		}
		claims, err := mgr.ParseAccessToken(raw)
		if err != nil {
			return
		}
		if claims == nil {
			t.Fatal("expected non-nil claims on successful parse")
		}
		if claims.Subject == "" {
			t.Fatal("expected non-empty subject on successful parse")
		}
	})
}

package orgcontext

import (
	"testing"
	"time"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec, err := NewTokenCodec([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	token, err := codec.Mint("user-1", "org-a")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	org, err := codec.Verify(token, "user-1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if org != "org-a" {
		t.Errorf("org = %q, want org-a", org)
	}
}

func TestTokenCodec_RejectsWrongUser(t *testing.T) {
	codec, _ := NewTokenCodec([]byte("secret"), time.Hour)
	token, err := codec.Mint("user-1", "org-a")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := codec.Verify(token, "user-2"); err == nil {
		t.Error("expected verification failure for another user's token")
	}
}

func TestTokenCodec_RejectsWrongKey(t *testing.T) {
	a, _ := NewTokenCodec([]byte("key-a"), time.Hour)
	b, _ := NewTokenCodec([]byte("key-b"), time.Hour)
	token, err := a.Mint("user-1", "org-a")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := b.Verify(token, "user-1"); err == nil {
		t.Error("expected verification failure for a token signed with a different key")
	}
}

func TestTokenCodec_RejectsExpired(t *testing.T) {
	codec, _ := NewTokenCodec([]byte("secret"), time.Nanosecond)
	token, err := codec.Mint("user-1", "org-a")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := codec.Verify(token, "user-1"); err == nil {
		t.Error("expected verification failure for an expired token")
	}
}

func TestTokenCodec_RejectsGarbage(t *testing.T) {
	codec, _ := NewTokenCodec([]byte("secret"), time.Hour)
	if _, err := codec.Verify("not-a-token", "user-1"); err == nil {
		t.Error("expected verification failure for malformed token")
	}
}

func TestNewTokenCodec_Validation(t *testing.T) {
	if _, err := NewTokenCodec(nil, time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewTokenCodec([]byte("secret"), 0); err == nil {
		t.Error("expected error for non-positive ttl")
	}
}

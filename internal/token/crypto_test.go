package token

import (
	"encoding/base64"
	"strings"
	"testing"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestCodec_Roundtrip(t *testing.T) {
	c, err := NewCodec(testKey())
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	enc, err := c.Encrypt("at-secret-value")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if enc == "at-secret-value" || strings.Contains(enc, "secret") {
		t.Fatalf("ciphertext leaks plaintext: %s", enc)
	}

	got, err := c.Decrypt(enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if got != "at-secret-value" {
		t.Fatalf("roundtrip mismatch: %q", got)
	}

	// Fresh nonce per encryption: same plaintext, different ciphertext.
	enc2, err := c.Encrypt("at-secret-value")
	if err != nil {
		t.Fatalf("encrypt again: %v", err)
	}
	if enc2 == enc {
		t.Fatalf("nonce reuse: %s", enc)
	}
}

func TestCodec_WrongKeyFails(t *testing.T) {
	a, err := NewCodec(testKey())
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	b, err := NewCodec(base64.StdEncoding.EncodeToString([]byte("fedcba9876543210fedcba9876543210")))
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	enc, err := a.Encrypt("rt-value")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := b.Decrypt(enc); err == nil {
		t.Fatalf("expected decrypt failure under wrong key")
	}
}

func TestCodec_TamperDetected(t *testing.T) {
	c, err := NewCodec(testKey())
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	enc, err := c.Encrypt("rt-value")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw[len(raw)-1] ^= 0x01
	if _, err := c.Decrypt(base64.RawURLEncoding.EncodeToString(raw)); err == nil {
		t.Fatalf("expected tamper detection")
	}
}

func TestNewCodec_RejectsBadKey(t *testing.T) {
	if _, err := NewCodec("not-base64!!"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
	short := base64.StdEncoding.EncodeToString([]byte("too-short"))
	if _, err := NewCodec(short); err == nil {
		t.Fatalf("expected error for short key")
	}
}

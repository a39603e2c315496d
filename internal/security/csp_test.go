package security

import (
	"encoding/base64"
	"net/http"
	"strings"
	"testing"
)

func TestGenerateNonce_Length(t *testing.T) {
	nonce, err := GenerateNonce()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 16 bytes base64-encoded = 24 characters.
	decoded, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil {
		t.Fatalf("nonce is not valid base64: %v", err)
	}
	if len(decoded) != 16 {
		t.Errorf("expected 16 decoded bytes, got %d", len(decoded))
	}
}

func TestGenerateNonce_Unique(t *testing.T) {
	n1, err := GenerateNonce()
	if err != nil {
		t.Fatal(err)
	}
	n2, err := GenerateNonce()
	if err != nil {
		t.Fatal(err)
	}
	if n1 == n2 {
		t.Error("two consecutive nonces should not be equal")
	}
}

func TestCSPPolicy_String(t *testing.T) {
	p := &CSPPolicy{
		DefaultSrc: []string{"'none'"},
		ScriptSrc:  []string{"'self'"},
		ImgSrc:     []string{"'self'", "data:"},
	}
	s := p.String()
	if s != "default-src 'none'; script-src 'self'; img-src 'self' data:" {
		t.Errorf("unexpected policy: %q", s)
	}
}

func TestCSPPolicy_String_Empty(t *testing.T) {
	p := &CSPPolicy{}
	if p.String() != "" {
		t.Errorf("expected empty string for empty policy, got %q", p.String())
	}
}

func TestPreviewPolicy(t *testing.T) {
	s := PreviewPolicy("testNonce123", "localhost", 3000).String()

	for _, want := range []string{
		"'nonce-testNonce123'",
		"ws://localhost:3000",
		"default-src 'none'",
		"frame-ancestors 'none'",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in preview policy %q", want, s)
		}
	}
}

func TestSetHeaders(t *testing.T) {
	h := http.Header{}
	SetHeaders(h, PreviewPolicy("abc", "0.0.0.0", 8080))

	if !strings.Contains(h.Get("Content-Security-Policy"), "ws://0.0.0.0:8080") {
		t.Errorf("unexpected CSP header %q", h.Get("Content-Security-Policy"))
	}
	if h.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected X-Content-Type-Options: nosniff")
	}
	if h.Get("X-Frame-Options") != "DENY" {
		t.Error("expected X-Frame-Options: DENY")
	}
	if h.Get("Referrer-Policy") != "strict-origin-when-cross-origin" {
		t.Error("expected Referrer-Policy header")
	}
}

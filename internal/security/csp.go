// Package security provides Content Security Policy (CSP) generation and
// nonce-based script authorization for the preview server.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// GenerateNonce produces a 16-byte cryptographically random nonce,
// returned as a base64-encoded string.
func GenerateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// CSPPolicy holds the directives for a Content-Security-Policy header.
type CSPPolicy struct {
	DefaultSrc []string
	ScriptSrc  []string
	StyleSrc   []string
	ImgSrc     []string
	ConnectSrc []string
	BaseURI    []string
	FormAction []string
	FrameAnc   []string
}

// String serializes the policy to a CSP header value. Empty directives are
// left out.
func (p *CSPPolicy) String() string {
	var directives []string
	add := func(name string, values []string) {
		if len(values) > 0 {
			directives = append(directives, name+" "+strings.Join(values, " "))
		}
	}
	add("default-src", p.DefaultSrc)
	add("script-src", p.ScriptSrc)
	add("style-src", p.StyleSrc)
	add("img-src", p.ImgSrc)
	add("connect-src", p.ConnectSrc)
	add("base-uri", p.BaseURI)
	add("form-action", p.FormAction)
	add("frame-ancestors", p.FrameAnc)
	return strings.Join(directives, "; ")
}

// PreviewPolicy returns the CSP for rendered preview pages. Inline scripts
// need the nonce; the live reload socket may connect to host:port.
func PreviewPolicy(nonce, host string, port int) *CSPPolicy {
	return &CSPPolicy{
		DefaultSrc: []string{"'none'"},
		ScriptSrc:  []string{"'self'", fmt.Sprintf("'nonce-%s'", nonce)},
		StyleSrc:   []string{"'self'", "'unsafe-inline'"},
		ImgSrc:     []string{"'self'", "data:"},
		ConnectSrc: []string{"'self'", fmt.Sprintf("ws://%s:%d", host, port)},
		BaseURI:    []string{"'self'"},
		FormAction: []string{"'self'"},
		FrameAnc:   []string{"'none'"},
	}
}

// SetHeaders writes the CSP and the fixed hardening headers for an HTML
// response.
func SetHeaders(h http.Header, policy *CSPPolicy) {
	h.Set("Content-Security-Policy", policy.String())
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
}

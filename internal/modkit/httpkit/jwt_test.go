package httpkit

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHS256_RoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	raw, err := SignHS256(secret, "editor-7", "editor", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	sub, role, err := HS256(secret)(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "editor-7" || role != "editor" {
		t.Fatalf("got %q/%q", sub, role)
	}
}

func TestHS256_Rejects(t *testing.T) {
	secret := []byte("s3cret")
	expired, _ := SignHS256(secret, "editor-7", "editor", -time.Minute)
	wrongKey, _ := SignHS256([]byte("other"), "editor-7", "editor", time.Minute)
	noRole, _ := SignHS256(secret, "editor-7", "", time.Minute)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x", "role": "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, raw := range map[string]string{
		"expired":   expired,
		"wrong key": wrongKey,
		"no role":   noRole,
		"alg none":  none,
		"garbage":   "not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			if _, _, err := HS256(secret)(raw); err == nil {
				t.Fatalf("expected %s token to be rejected", name)
			}
		})
	}
}

func TestPort_WithHS256(t *testing.T) {
	secret := []byte("s3cret")
	raw, _ := SignHS256(secret, "root", "admin", time.Minute)

	req, _ := http.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)

	sub, role, err := NewPortFunc(HS256(secret)).Parse(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub != "root" || role != "admin" {
		t.Fatalf("got %q/%q", sub, role)
	}
}

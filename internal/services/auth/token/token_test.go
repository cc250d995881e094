package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	perr "piiquante/internal/platform/errors"
	"piiquante/internal/platform/testkit"
)

var testSecret = []byte("test-secret")

func newVerifier(t *testing.T, now time.Time) *Verifier {
	t.Helper()
	return New(Config{
		Secret: testSecret,
		Issuer: "piiquante",
		TTL:    time.Hour,
		Now:    func() time.Time { return now },
	})
}

func TestNewPanicsOnEmptySecret(t *testing.T) {
	testkit.MustPanic(t, func() { New(Config{}) })
}

func TestIssueThenVerifyRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newVerifier(t, now)

	raw, err := v.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, err := v.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "user-123" {
		t.Fatalf("UserID = %q, want %q", id.UserID, "user-123")
	}
}

func TestIssueRejectsEmptyUser(t *testing.T) {
	v := newVerifier(t, time.Now())
	if _, err := v.Issue("  "); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("Issue(empty) err = %v, want invalid argument", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newVerifier(t, issued)

	raw, err := v.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// move the clock past the TTL
	later := New(Config{
		Secret: testSecret,
		Issuer: "piiquante",
		Now:    func() time.Time { return issued.Add(2 * time.Hour) },
	})
	_, err = later.Verify(raw)
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("Verify(expired) err = %v, want unauthorized", err)
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("Verify(expired) err = %v, want expiry reason", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	now := time.Now()
	v := newVerifier(t, now)
	other := New(Config{Secret: []byte("other-secret"), Now: func() time.Time { return now }})

	raw, err := other.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := v.Verify(raw); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("Verify(wrong key) err = %v, want unauthorized", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := newVerifier(t, time.Now())
	for _, raw := range []string{"", "   ", "not.a.jwt", "abc"} {
		if _, err := v.Verify(raw); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
			t.Fatalf("Verify(%q) err = %v, want unauthorized", raw, err)
		}
	}
}

func TestVerifyRejectsWrongAlg(t *testing.T) {
	now := time.Now()
	v := newVerifier(t, now)

	// alg=none style token signed with a different method must be refused
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     now.Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := v.Verify(raw); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("Verify(alg none) err = %v, want unauthorized", err)
	}
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	now := time.Now()
	other := New(Config{Secret: testSecret, Issuer: "someone-else", Now: func() time.Time { return now }})
	v := newVerifier(t, now)

	raw, err := other.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := v.Verify(raw); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("Verify(issuer mismatch) err = %v, want unauthorized", err)
	}
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	now := time.Now()
	v := newVerifier(t, now)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "piiquante",
		"exp": now.Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(raw); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("Verify(no subject) err = %v, want unauthorized", err)
	}
}

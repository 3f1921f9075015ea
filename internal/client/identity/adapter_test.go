package identityclient

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sony/gobreaker"
	"google.golang.org/api/googleapi"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
)

func TestClassify_CredentialErrors(t *testing.T) {
	cases := map[string]string{
		"INVALID_PASSWORD":                 "invalid_credentials",
		"EMAIL_NOT_FOUND":                  "invalid_credentials",
		"INVALID_LOGIN_CREDENTIALS":        "invalid_credentials",
		"EMAIL_EXISTS":                     "email_in_use",
		"WEAK_PASSWORD : Password too weak": "weak_password",
		"INVALID_EMAIL":                    "invalid_email",
	}
	for msg, code := range cases {
		err := classify(&googleapi.Error{Code: http.StatusBadRequest, Message: msg})
		var authErr *errs.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("%s: expected auth error, got %v", msg, err)
		}
		if authErr.Code != code {
			t.Errorf("%s: expected code %s, got %s", msg, code, authErr.Code)
		}
	}
}

func TestClassify_ServiceErrors(t *testing.T) {
	err := classify(&googleapi.Error{Code: http.StatusServiceUnavailable, Message: "backend error"})
	var ext *errs.ExternalServiceError
	if !errors.As(err, &ext) || !ext.Transient {
		t.Fatalf("expected transient external error, got %v", err)
	}

	err = classify(&googleapi.Error{Code: http.StatusBadRequest, Message: "OPERATION_NOT_ALLOWED"})
	if !errors.As(err, &ext) || ext.Transient {
		t.Fatalf("expected permanent external error, got %v", err)
	}
}

func TestBreaker_IgnoresCredentialFailures(t *testing.T) {
	cb := newBreaker()
	for i := 0; i < 10; i++ {
		_, _ = cb.Execute(func() (any, error) {
			return nil, errs.NewAuthError("invalid_credentials", "nope")
		})
	}
	if cb.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker, got %s", cb.State())
	}

	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (any, error) {
			return nil, errs.NewExternalServiceError(serviceName, "down", true, nil)
		})
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", cb.State())
	}

	_, err := cb.Execute(func() (any, error) { return nil, nil })
	var ext *errs.ExternalServiceError
	if !errors.As(breakerError(err), &ext) || !ext.Transient {
		t.Fatalf("expected transient error while open, got %v", err)
	}
}

package identityclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
)

const serviceName = "identity-toolkit"

// Account is what a successful sign-in or sign-up returns.
type Account struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresIn    int64
}

type Adapter struct {
	svc *identitytoolkit.Service
	cb  *gobreaker.CircuitBreaker
}

func NewAdapter(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Adapter, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Adapter{svc: svc, cb: newBreaker()}, nil
}

func newBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		// rejected credentials are answers, not outages
		IsSuccessful: func(err error) bool {
			var authErr *errs.AuthError
			return err == nil || errors.As(err, &authErr)
		},
	})
}

func (a *Adapter) SignIn(ctx context.Context, email, password string) (Account, error) {
	res, err := a.cb.Execute(func() (any, error) {
		resp, err := a.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
			Email:             email,
			Password:          password,
			ReturnSecureToken: true,
		}).Context(ctx).Do()
		if err != nil {
			return nil, classify(err)
		}
		return Account{
			UID:          resp.LocalId,
			Email:        resp.Email,
			IDToken:      resp.IdToken,
			RefreshToken: resp.RefreshToken,
			ExpiresIn:    resp.ExpiresIn,
		}, nil
	})
	if err != nil {
		return Account{}, breakerError(err)
	}
	return res.(Account), nil
}

func (a *Adapter) Register(ctx context.Context, email, password string) (Account, error) {
	res, err := a.cb.Execute(func() (any, error) {
		resp, err := a.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
			Email:    email,
			Password: password,
		}).Context(ctx).Do()
		if err != nil {
			return nil, classify(err)
		}
		return Account{
			UID:          resp.LocalId,
			Email:        resp.Email,
			IDToken:      resp.IdToken,
			RefreshToken: resp.RefreshToken,
			ExpiresIn:    resp.ExpiresIn,
		}, nil
	})
	if err != nil {
		return Account{}, breakerError(err)
	}
	return res.(Account), nil
}

func (a *Adapter) SendVerificationEmail(ctx context.Context, idToken string) error {
	return a.sendOob(ctx, &identitytoolkit.Relyingparty{RequestType: "VERIFY_EMAIL", IdToken: idToken})
}

func (a *Adapter) SendPasswordReset(ctx context.Context, email string) error {
	return a.sendOob(ctx, &identitytoolkit.Relyingparty{RequestType: "PASSWORD_RESET", Email: email})
}

func (a *Adapter) sendOob(ctx context.Context, req *identitytoolkit.Relyingparty) error {
	_, err := a.cb.Execute(func() (any, error) {
		if _, err := a.svc.Relyingparty.GetOobConfirmationCode(req).Context(ctx).Do(); err != nil {
			return nil, classify(err)
		}
		return nil, nil
	})
	if err != nil {
		return breakerError(err)
	}
	return nil
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errs.NewExternalServiceError(serviceName, "circuit open", true, err)
	}
	return err
}

// classify maps Identity Toolkit error codes onto short messages a user can act on.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return errs.NewExternalServiceError(serviceName, "request failed", true, err)
	}

	reason := apiErr.Message
	if i := strings.IndexAny(reason, " :"); i > 0 {
		reason = reason[:i]
	}
	switch reason {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return errs.NewAuthError("invalid_credentials", "Invalid email or password.")
	case "EMAIL_EXISTS":
		return errs.NewAuthError("email_in_use", "This email is already registered.")
	case "WEAK_PASSWORD":
		return errs.NewAuthError("weak_password", "Password must have at least 6 characters.")
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return errs.NewAuthError("invalid_email", "Invalid email address.")
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return errs.NewAuthError("too_many_attempts", "Too many attempts. Try again later.")
	}
	transient := apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusTooManyRequests
	return errs.NewExternalServiceError(serviceName, apiErr.Message, transient, err)
}

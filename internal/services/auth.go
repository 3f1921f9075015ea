package services

import (
	"context"
	"strings"

	identityclient "github.com/GregMSThompson/ascend-backend/internal/client/identity"
	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

const minPasswordLength = 6

type identityProvider interface {
	SignIn(ctx context.Context, email, password string) (identityclient.Account, error)
	Register(ctx context.Context, email, password string) (identityclient.Account, error)
	SendVerificationEmail(ctx context.Context, idToken string) error
	SendPasswordReset(ctx context.Context, email string) error
}

type tokenRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

type memberReader interface {
	Get(ctx context.Context, path string) (store.Document, bool, error)
}

type authService struct {
	Identity identityProvider
	Tokens   tokenRevoker
	Docs     memberReader
	Layout   store.Layout
}

func NewAuthService(identity identityProvider, tokens tokenRevoker, docs memberReader, layout store.Layout) *authService {
	return &authService{Identity: identity, Tokens: tokens, Docs: docs, Layout: layout}
}

func (s *authService) Login(ctx context.Context, c dto.Credentials) (dto.AuthResult, error) {
	email := strings.TrimSpace(c.Email)
	if email == "" || c.Password == "" {
		return dto.AuthResult{}, errs.NewValidationError("email and password are required")
	}
	acct, err := s.Identity.SignIn(ctx, email, c.Password)
	if err != nil {
		return dto.AuthResult{}, err
	}
	logger.FromContext(ctx).Info("signed in", "uid", acct.UID)
	return authResult(acct), nil
}

// Register creates the account and asks for email verification. A failed
// verification email does not undo the registration.
func (s *authService) Register(ctx context.Context, c dto.Credentials) (dto.AuthResult, error) {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return dto.AuthResult{}, errs.NewValidationError("email is required")
	}
	if len(c.Password) < minPasswordLength {
		return dto.AuthResult{}, errs.NewAuthError("weak_password", "A senha deve ter pelo menos 6 caracteres.")
	}
	acct, err := s.Identity.Register(ctx, email, c.Password)
	if err != nil {
		return dto.AuthResult{}, err
	}
	log := logger.FromContext(ctx)
	if err := s.Identity.SendVerificationEmail(ctx, acct.IDToken); err != nil {
		log.Warn("verification email not sent", "uid", acct.UID, "error", err)
	}
	log.Info("account registered", "uid", acct.UID)
	return authResult(acct), nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return errs.NewValidationError("email is required")
	}
	if !req.Confirm {
		return errs.NewConfirmationError("confirm to send the password reset email")
	}
	return s.Identity.SendPasswordReset(ctx, email)
}

// ResetMemberPassword sends a reset email to a team member on an admin's behalf.
func (s *authService) ResetMemberPassword(ctx context.Context, actor Actor, memberID string, confirm bool) error {
	if !actor.Grant.CanManageTeam() {
		return errs.NewPermissionError("only admins can reset passwords")
	}
	if !confirm {
		return errs.NewConfirmationError("confirm to send the password reset email")
	}
	doc, found, err := s.Docs.Get(ctx, s.Layout.Doc(models.KindTeamMembers, memberID))
	if err != nil {
		return errs.NewDatabaseError("reset password", "could not read member", err)
	}
	if !found {
		return errs.NewNotFoundError("team member not found")
	}
	member, err := store.DecodeMember(doc)
	if err != nil {
		return errs.NewDatabaseError("reset password", "stored member is unreadable", err)
	}
	if member.Role == models.RoleDev && !actor.Grant.IsDev() {
		return errs.NewPermissionError("only a dev can reset a dev account")
	}
	if member.Email == "" {
		return errs.NewValidationError("member has no email")
	}
	if err := s.Identity.SendPasswordReset(ctx, member.Email); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("password reset sent", "member", memberID, "by", actor.Email)
	return nil
}

// Logout revokes the member's refresh tokens so other devices sign out too.
func (s *authService) Logout(ctx context.Context, uid string) error {
	if s.Tokens == nil {
		return nil
	}
	if err := s.Tokens.RevokeRefreshTokens(ctx, uid); err != nil {
		return errs.NewExternalServiceError("auth", "could not sign out", true, err)
	}
	return nil
}

func authResult(a identityclient.Account) dto.AuthResult {
	return dto.AuthResult{
		UID:          a.UID,
		Email:        a.Email,
		IDToken:      a.IDToken,
		RefreshToken: a.RefreshToken,
		ExpiresIn:    a.ExpiresIn,
	}
}

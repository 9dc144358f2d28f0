package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xplorhq/asset-service/internal/domain"
	"github.com/xplorhq/asset-service/internal/log"
	"github.com/xplorhq/asset-service/internal/mail"
	"github.com/xplorhq/asset-service/internal/oauth"
	"github.com/xplorhq/asset-service/internal/security"
)

const otpLength = 6

// Auth is the account lifecycle controller: registration, verification,
// credential login, password reset, OAuth federation and token resolution.
// All collaborators are injected; nothing reaches into package globals.
type Auth struct {
	users     UserStore
	mailer    mail.Sender
	jwtSecret string
	accessTTL time.Duration
	otpTTL    time.Duration
}

func NewAuth(users UserStore, mailer mail.Sender, jwtSecret string, accessTTL, otpTTL time.Duration) *Auth {
	return &Auth{
		users:     users,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		accessTTL: accessTTL,
		otpTTL:    otpTTL,
	}
}

// wrapDep marks store failures so the boundary answers 503 rather than a
// generic internal error.
func wrapDep(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
}

// Register creates a pending account and mails its verification code. The
// account stays created even if the mail delivery fails; there is no
// compensating rollback.
func (a *Auth) Register(ctx context.Context, email, password, fullName string) error {
	existing, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		return wrapDep(err)
	}
	if existing != nil {
		return domain.ErrDuplicateAccount
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	otp, err := security.GenerateOTP(otpLength)
	if err != nil {
		return err
	}

	expires := time.Now().UTC().Add(a.otpTTL)
	u := &domain.User{
		Email:               email,
		FullName:            fullName,
		HashedPassword:      hash,
		Provider:            domain.ProviderEmail,
		IsActive:            true,
		IsVerified:          false,
		VerificationOTP:     otp,
		VerificationExpires: &expires,
	}
	if err := a.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return err
		}
		return wrapDep(err)
	}

	if err := a.mailer.Send(email, "Your Verification OTP for Xplor",
		"Your verification code is: "+otp); err != nil {
		log.L.Warn("verification mail not delivered", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// VerifyEmail confirms a pending registration. Verifying an already-verified
// account is a success no-op.
func (a *Auth) VerifyEmail(ctx context.Context, email, otp string) error {
	u, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		return wrapDep(err)
	}
	if u == nil {
		return domain.ErrAccountNotFound
	}
	if u.IsVerified {
		return nil
	}
	if !otpMatches(u.VerificationOTP, u.VerificationExpires, otp) {
		return domain.ErrInvalidOTP
	}
	if err := a.users.MarkVerified(ctx, email); err != nil {
		return wrapDep(err)
	}
	return nil
}

// Login checks credentials and issues a session token. An unknown email and
// a wrong password produce the same failure so callers cannot probe which
// accounts exist.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	u, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		return "", wrapDep(err)
	}
	if u == nil {
		return "", domain.ErrInvalidCredentials
	}
	if u.Provider != domain.ProviderEmail {
		return "", domain.ErrWrongProvider
	}
	if !security.CheckPassword(u.HashedPassword, password) {
		return "", domain.ErrInvalidCredentials
	}
	if !u.IsVerified {
		return "", domain.ErrNotVerified
	}
	return security.MakeAccess(a.jwtSecret, u.Email, a.accessTTL)
}

// ForgotPassword stores a reset code and mails it. A newer request
// overwrites any outstanding code.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	u, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		return wrapDep(err)
	}
	if u == nil {
		return domain.ErrAccountNotFound
	}
	if u.Provider != domain.ProviderEmail {
		return domain.ErrWrongProvider
	}

	otp, err := security.GenerateOTP(otpLength)
	if err != nil {
		return err
	}
	if err := a.users.SetResetOTP(ctx, email, otp, time.Now().UTC().Add(a.otpTTL)); err != nil {
		return wrapDep(err)
	}
	if err := a.mailer.Send(email, "Your Password Reset OTP for Xplor",
		"Your password reset code is: "+otp); err != nil {
		log.L.Warn("reset mail not delivered", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// ResetPassword consumes a reset code and replaces the password hash.
func (a *Auth) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	u, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		return wrapDep(err)
	}
	if u == nil {
		return domain.ErrAccountNotFound
	}
	if !otpMatches(u.ResetOTP, u.ResetExpires, otp) {
		return domain.ErrInvalidOTP
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := a.users.ReplacePassword(ctx, email, hash); err != nil {
		return wrapDep(err)
	}
	return nil
}

// OAuthLogin reuses or creates the account for verified provider claims and
// issues a session token either way. OAuth accounts are born verified with
// no password.
func (a *Auth) OAuthLogin(ctx context.Context, claims *oauth.Claims) (string, error) {
	u, err := a.users.FindUserByEmail(ctx, claims.Email)
	if err != nil {
		return "", wrapDep(err)
	}
	if u == nil {
		u = &domain.User{
			Email:      claims.Email,
			FullName:   claims.Name,
			Provider:   domain.ProviderGoogle,
			IsActive:   true,
			IsVerified: true,
		}
		err := a.users.CreateUser(ctx, u)
		switch {
		case errors.Is(err, domain.ErrDuplicateAccount):
			// lost a concurrent-callback race; the account exists now
		case err != nil:
			return "", wrapDep(err)
		}
	}
	return security.MakeAccess(a.jwtSecret, claims.Email, a.accessTTL)
}

// CurrentUser resolves a bearer token to its account.
func (a *Auth) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := security.ParseAccess(a.jwtSecret, token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	u, err := a.users.FindUserByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, wrapDep(err)
	}
	if u == nil {
		return nil, domain.ErrUnknownSubject
	}
	return u, nil
}

// otpMatches treats an expired code exactly like a mismatched one. The
// comparison is constant-time so response latency carries no information
// about how many digits matched.
func otpMatches(stored string, expires *time.Time, got string) bool {
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(got)) != 1 {
		return false
	}
	if expires != nil && time.Now().UTC().After(*expires) {
		return false
	}
	return true
}

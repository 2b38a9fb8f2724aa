package session

import (
	"context"
	"encoding/base64"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/client"
	"storefront/internal/logger"
	"storefront/internal/seller"
	"storefront/internal/utils"

	"go.uber.org/zap"
)

// Backend is the identity half of the REST client.
type Backend interface {
	Register(ctx context.Context, in seller.RegisterInput) (seller.AuthResult, error)
	Login(ctx context.Context, in seller.LoginInput) (seller.AuthResult, error)
	Verify(ctx context.Context, sellerID string) error
	AdminCheck(ctx context.Context) error
}

// Service runs the sign-in lifecycle against the backend and records the
// outcome in the holder.
type Service struct {
	holder  *Holder
	backend Backend
}

func NewService(holder *Holder, backend Backend) *Service {
	return &Service{holder: holder, backend: backend}
}

func (s *Service) Holder() *Holder { return s.holder }

func BasicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func (s *Service) RegisterSeller(ctx context.Context, in seller.RegisterInput) (Session, error) {
	if err := seller.ValidateRegistration(in); err != nil {
		return Session{}, err
	}

	res, err := s.backend.Register(ctx, in)
	if err != nil {
		logger.FromCtx(ctx).Info("session: registration refused", zap.Error(err))
		return Session{}, err
	}

	sess := fromAuth(res)
	if err := s.holder.Set(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) LoginSeller(ctx context.Context, email, password string) (Session, error) {
	in := seller.LoginInput{Email: strings.TrimSpace(email), Password: password}
	if err := seller.ValidateLogin(in); err != nil {
		return Session{}, err
	}

	res, err := s.backend.Login(ctx, in)
	if err != nil {
		return Session{}, err
	}

	sess := fromAuth(res)
	if err := s.holder.Set(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// LoginAdmin checks the credential with the backend before keeping it. Any
// refusal reads as invalid credentials.
func (s *Service) LoginAdmin(ctx context.Context, username, password string) (Session, error) {
	if username == "" || password == "" {
		return Session{}, apperr.Invalid("", "Username and password required")
	}

	token := BasicAuth(username, password)
	if err := s.backend.AdminCheck(client.WithAuthorization(ctx, token)); err != nil {
		if ctx.Err() != nil {
			return Session{}, ctx.Err()
		}
		logger.FromCtx(ctx).Info("session: admin check failed", zap.Error(err))
		return Session{}, &apperr.AuthError{Message: "Invalid credentials"}
	}

	sess := Session{Role: utils.RoleAdmin, BasicAuth: token}
	if err := s.holder.Set(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// VerifySession re-checks a restored session. A seller whose account is gone
// or an admin whose credential no longer passes is signed out; the error is
// returned so the caller can show the matching notice.
func (s *Service) VerifySession(ctx context.Context) error {
	cur := s.holder.Current()

	switch {
	case cur.IsSeller():
		err := s.backend.Verify(ctx, cur.SellerID)
		if client.IsAccountDeleted(err) {
			logger.FromCtx(ctx).Warn("session: seller account removed", zap.String("seller_id", cur.SellerID))
			_ = s.holder.Clear(ctx)
		}
		return err

	case cur.IsAdmin():
		if err := s.backend.AdminCheck(client.WithAuthorization(ctx, cur.BasicAuth)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_ = s.holder.Clear(ctx)
			return &apperr.AuthError{Message: "Invalid credentials"}
		}
	}
	return nil
}

// HandleError signs the seller out when err reports a removed account.
func (s *Service) HandleError(ctx context.Context, err error) {
	if client.IsAccountDeleted(err) {
		_ = s.holder.Clear(ctx)
	}
}

func (s *Service) Logout(ctx context.Context) error {
	return s.holder.Clear(ctx)
}

package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/logger"
	"storefront/internal/seller"
	"storefront/internal/utils"

	"go.uber.org/zap"
)

// TokenAuthenticator resolves a seller bearer token.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*seller.CustomClaims, error)
}

type Auth struct {
	sellers   TokenAuthenticator
	adminUser string
	adminPass string
}

func NewAuth(sellers TokenAuthenticator, adminUser, adminPass string) *Auth {
	return &Auth{sellers: sellers, adminUser: adminUser, adminPass: adminPass}
}

func (a *Auth) adminMatches(user, pass string) bool {
	if a.adminUser == "" || a.adminPass == "" {
		return false
	}
	u := subtle.ConstantTimeCompare([]byte(user), []byte(a.adminUser))
	p := subtle.ConstantTimeCompare([]byte(pass), []byte(a.adminPass))
	return u&p == 1
}

// Identify attaches the caller to the request context. Requests without an
// Authorization header pass through as guests; a header that does not
// verify is refused.
func (a *Auth) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(logger.WithActor(r.Context(), utils.RoleGuest)))
			return
		}

		ctx := r.Context()
		log := logger.FromCtx(ctx)

		if user, pass, ok := r.BasicAuth(); ok {
			if !a.adminMatches(user, pass) {
				log.Info("auth: admin credentials rejected")
				utils.WriteJSONError(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}
			ctx = utils.SetAdminContext(ctx)
			next.ServeHTTP(w, r.WithContext(logger.WithActor(ctx, utils.RoleAdmin)))
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := a.sellers.Authenticate(ctx, strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, apperr.ErrAccountDeleted) {
				log.Info("auth: token of deleted seller")
				utils.WriteJSONError(w, apperr.ErrAccountDeleted.Error(), http.StatusUnauthorized)
				return
			}
			var ae *apperr.AuthError
			if errors.As(err, &ae) {
				utils.WriteJSONError(w, ae.Message, http.StatusUnauthorized)
				return
			}
			log.Error("auth: failed to authenticate seller", zap.Error(err))
			utils.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		ctx = utils.SetSellerContext(ctx, claims.SellerID, claims.Email)
		next.ServeHTTP(w, r.WithContext(logger.WithActor(ctx, utils.RoleSeller)))
	})
}

// RequireAdmin refuses anything but a verified admin credential.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !utils.IsAdmin(r.Context()) {
			utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireActor refuses guests.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.GetActorRoleFromContext(r.Context()) == utils.RoleGuest {
			utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package seller

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, in LoginInput) (AuthResult, error)
	Verify(ctx context.Context, id string) (bool, error)
	Authenticate(ctx context.Context, token string) (*CustomClaims, error)
	List(ctx context.Context) ([]Seller, error)
	Update(ctx context.Context, id string, in UpdateInput) (Seller, error)
	Delete(ctx context.Context, id string) (catalog.CascadeResult, error)
}

type service struct {
	repo    Repository
	tokens  *TokenIssuer
	cache   catalog.ListingCache
	metrics *metrics.Registry
}

func NewService(repo Repository, tokens *TokenIssuer, cache catalog.ListingCache, m *metrics.Registry) Service {
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &service{repo: repo, tokens: tokens, cache: cache, metrics: m}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	if err := ValidateRegistration(in); err != nil {
		return AuthResult{}, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return AuthResult{}, err
	}

	created, err := s.repo.Create(ctx, Seller{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		log.Error("failed to create seller", zap.String("email", in.Email), zap.Error(err))
		return AuthResult{}, err
	}

	token, err := s.tokens.Generate(created)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("seller_id", created.ID), zap.Error(err))
		return AuthResult{}, err
	}

	log.Info("seller registered", zap.String("seller_id", created.ID))
	return AuthResult{Seller: created, Token: token}, nil
}

func (s *service) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	if err := ValidateLogin(in); err != nil {
		return AuthResult{}, err
	}

	found, err := s.repo.FindByEmail(ctx, in.Email)
	if errors.Is(err, ErrSellerNotFound) {
		log.Info("email not found")
		return AuthResult{}, &apperr.AuthError{Message: "Invalid email or password"}
	}
	if err != nil {
		log.Error("failed to look up seller", zap.Error(err))
		return AuthResult{}, err
	}

	if !CheckPasswordHash(in.Password, found.PasswordHash) {
		log.Info("password not match", zap.String("seller_id", found.ID))
		return AuthResult{}, &apperr.AuthError{Message: "Invalid email or password"}
	}

	token, err := s.tokens.Generate(found)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Seller: found, Token: token}, nil
}

func (s *service) Verify(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}

// Authenticate resolves a bearer token to its seller. Tokens of deleted
// sellers are refused with ErrAccountDeleted.
func (s *service) Authenticate(ctx context.Context, token string) (*CustomClaims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, &apperr.AuthError{Message: "Invalid or expired session"}
	}

	exists, err := s.repo.Exists(ctx, claims.SellerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.ErrAccountDeleted
	}
	return claims, nil
}

func (s *service) List(ctx context.Context) ([]Seller, error) {
	if !utils.IsAdmin(ctx) {
		return nil, &apperr.ForbiddenError{Action: "manage-seller", Reason: "admin only"}
	}
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, in UpdateInput) (Seller, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Update"),
		zap.String("seller_id", id),
	)

	if !utils.IsAdmin(ctx) {
		self, ok := utils.GetSellerIDFromContext(ctx)
		if !ok || self != id {
			return Seller{}, &apperr.ForbiddenError{Action: "manage-seller", Reason: "admin only"}
		}
	}

	if err := ValidateUpdate(in); err != nil {
		return Seller{}, err
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, ErrSellerNotFound) {
			return Seller{}, &apperr.NotFoundError{Resource: "seller", ID: id}
		}
		log.Error("failed to update seller", zap.Error(err))
		return Seller{}, err
	}

	if s.cache != nil && (in.FirstName != nil || in.LastName != nil) {
		s.cache.InvalidateListing(ctx, catalog.KindProduct)
		s.cache.InvalidateListing(ctx, catalog.KindService)
	}

	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) (catalog.CascadeResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Delete"),
		zap.String("seller_id", id),
	)

	if !utils.IsAdmin(ctx) {
		return catalog.CascadeResult{}, &apperr.ForbiddenError{Action: "manage-seller", Reason: "admin only"}
	}

	res, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSellerNotFound) {
			return catalog.CascadeResult{}, &apperr.NotFoundError{Resource: "seller", ID: id}
		}
		log.Error("cascade delete failed", zap.Error(err))
		return catalog.CascadeResult{}, err
	}

	s.metrics.SellersDeleted.Inc()
	s.metrics.CascadedItems.Add(uint64(res.DeletedServices + res.DeletedProducts))

	if s.cache != nil {
		s.cache.InvalidateListing(ctx, catalog.KindProduct)
		s.cache.InvalidateListing(ctx, catalog.KindService)
	}

	log.Info("seller removed",
		zap.Int("deleted_services", res.DeletedServices),
		zap.Int("deleted_products", res.DeletedProducts),
	)
	return res, nil
}

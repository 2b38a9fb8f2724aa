package catalog

import (
	"context"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingCache holds the guest listing of each kind.
type ListingCache interface {
	GetListing(ctx context.Context, kind Kind) ([]Item, bool)
	SetListing(ctx context.Context, kind Kind, items []Item)
	InvalidateListing(ctx context.Context, kind Kind)
}

type noopCache struct{}

func (noopCache) GetListing(context.Context, Kind) ([]Item, bool) { return nil, false }
func (noopCache) SetListing(context.Context, Kind, []Item)        {}
func (noopCache) InvalidateListing(context.Context, Kind)         {}

type Service interface {
	ListPublic(ctx context.Context, kind Kind) ([]Item, error)
	ListBySeller(ctx context.Context, kind Kind, sellerID string) ([]Item, error)
	ListAdmin(ctx context.Context, kind Kind, status *Status) ([]Item, error)
	AllItems(ctx context.Context, status *Status) (AllItems, error)
	Get(ctx context.Context, kind Kind, id string) (*Item, error)
	Create(ctx context.Context, kind Kind, in Input) (*Item, error)
	Update(ctx context.Context, kind Kind, id string, p Patch) (*Item, error)
	Delete(ctx context.Context, kind Kind, id string) error
	Approve(ctx context.Context, kind Kind, id string) (*Item, error)
	Reject(ctx context.Context, kind Kind, id string) (*Item, error)
	Names(ctx context.Context, kind Kind) ([]string, error)
}

type service struct {
	repo    Repository
	cache   ListingCache
	metrics *metrics.Registry
	now     func() time.Time
}

func NewService(repo Repository, cache ListingCache, m *metrics.Registry) Service {
	if cache == nil {
		cache = noopCache{}
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &service{repo: repo, cache: cache, metrics: m, now: time.Now}
}

func codePrefix(kind Kind) string {
	switch kind {
	case KindMedicine:
		return "MED"
	case KindService:
		return "SRV"
	default:
		return "PRD"
	}
}

func (s *service) ListPublic(ctx context.Context, kind Kind) ([]Item, error) {
	if items, ok := s.cache.GetListing(ctx, kind); ok {
		s.metrics.CacheHits.Inc()
		return items, nil
	}
	s.metrics.CacheMisses.Inc()

	opts := ListOptions{OnlyAvailable: true}
	if kind.SellerOwned() {
		approved := StatusApproved
		opts.Status = &approved
	}
	items, err := s.repo.List(ctx, kind, opts)
	if err != nil {
		return nil, err
	}

	s.cache.SetListing(ctx, kind, items)
	return items, nil
}

func (s *service) ListBySeller(ctx context.Context, kind Kind, sellerID string) ([]Item, error) {
	if !kind.SellerOwned() {
		return nil, ErrUnknownKind
	}
	if strings.TrimSpace(sellerID) == "" {
		return nil, apperr.Invalid("sellerId", "seller id is required")
	}
	return s.repo.List(ctx, kind, ListOptions{SellerID: sellerID})
}

func (s *service) ListAdmin(ctx context.Context, kind Kind, status *Status) ([]Item, error) {
	if !utils.IsAdmin(ctx) {
		return nil, &apperr.ForbiddenError{Action: "list-catalog", Reason: "admin only"}
	}
	return s.repo.List(ctx, kind, ListOptions{Status: status})
}

func (s *service) AllItems(ctx context.Context, status *Status) (AllItems, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AllItems"),
	)

	if !utils.IsAdmin(ctx) {
		return AllItems{}, &apperr.ForbiddenError{Action: "list-catalog", Reason: "admin only"}
	}

	timer := metrics.StartTimer()

	var all AllItems
	for _, kind := range Kinds {
		items, err := s.repo.List(ctx, kind, ListOptions{Status: status})
		if err != nil {
			log.Error("failed to list items", zap.String("kind", string(kind)), zap.Error(err))
			return AllItems{}, err
		}

		switch kind {
		case KindProduct:
			all.Products = items
		case KindService:
			all.Services = items
		default:
			all.Medicines = items
		}
	}

	log.Info("all items listed",
		zap.Int("products", len(all.Products)),
		zap.Int("services", len(all.Services)),
		zap.Int("medicines", len(all.Medicines)),
		zap.Duration("duration", timer.Duration()),
	)
	return all, nil
}

func (s *service) Get(ctx context.Context, kind Kind, id string) (*Item, error) {
	return s.repo.GetByID(ctx, kind, id)
}

func (s *service) Create(ctx context.Context, kind Kind, in Input) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.String("kind", string(kind)),
	)

	if kind.SellerOwned() {
		sellerID, ok := utils.GetSellerIDFromContext(ctx)
		if !ok {
			return nil, &apperr.ForbiddenError{Action: "create-item", Reason: "seller login required"}
		}
		in.SellerID = sellerID
		log = log.With(zap.String("seller_email", utils.GetSellerEmailFromContext(ctx)))
	} else if !utils.IsAdmin(ctx) {
		return nil, &apperr.ForbiddenError{Action: "create-item", Reason: "admin only"}
	}

	if err := ValidateInput(kind, in); err != nil {
		log.Warn("invalid input", zap.Error(err))
		return nil, err
	}

	now := s.now().UTC()
	it := Item{
		ID:             uuid.NewString(),
		Kind:           kind,
		Code:           utils.GenerateItemCode(codePrefix(kind)),
		SellerID:       in.SellerID,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Location:       strings.TrimSpace(in.Location),
		Pincode:        strings.TrimSpace(in.Pincode),
		ImageURL:       in.ImageURL,
		InitialPrice:   in.Price,
		Price:          in.Price,
		MRP:            in.MRP,
		GSTPercent:     in.GSTPercent,
		DeliveryCharge: in.DeliveryCharge,
		Expiry:         NormalizeExpiry(in.Expiry),
		Available:      in.Available == nil || *in.Available,
		Revision:       1,
		CreatedAt:      now,
	}

	// Featured goods are published by the admin directly.
	if !kind.SellerOwned() {
		it.Approved = true
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.metrics.ItemsCreated.Inc()
	if it.Approved {
		s.cache.InvalidateListing(ctx, kind)
	}

	log.Info("item created", zap.String("id", it.ID), zap.String("status", string(it.Status())))
	return &it, nil
}

// authorizeChange enforces who may edit or delete an existing listing.
func (s *service) authorizeChange(ctx context.Context, action string, kind Kind, id string) error {
	if utils.IsAdmin(ctx) {
		return nil
	}

	sellerID, ok := utils.GetSellerIDFromContext(ctx)
	if !ok || !kind.SellerOwned() {
		return &apperr.ForbiddenError{Action: action, Reason: "admin only"}
	}

	it, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return err
	}

	switch err := CanSellerModify(*it, sellerID); err {
	case nil:
		return nil
	case ErrNotOwner:
		return &apperr.ForbiddenError{Action: action, Reason: "not the owner"}
	default:
		return &apperr.ForbiddenError{Action: action, Reason: "listing is " + string(it.Status())}
	}
}

func (s *service) Update(ctx context.Context, kind Kind, id string, p Patch) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Update"),
		zap.String("kind", string(kind)),
		zap.String("id", id),
	)

	if err := ValidatePatch(kind, p); err != nil {
		return nil, err
	}

	if p.Available != nil && !utils.IsAdmin(ctx) {
		err := &apperr.ForbiddenError{Action: "toggle-availability", Reason: "admin only"}
		log.Warn("update refused", zap.Error(err))
		return nil, err
	}

	if err := s.authorizeChange(ctx, "edit-item", kind, id); err != nil {
		log.Warn("update refused", zap.Error(err))
		return nil, err
	}

	it, err := s.repo.Update(ctx, kind, id, p)
	if err != nil {
		log.Error("update failed", zap.Error(err))
		return nil, err
	}

	s.metrics.ItemsUpdated.Inc()
	s.cache.InvalidateListing(ctx, kind)
	return it, nil
}

func (s *service) Delete(ctx context.Context, kind Kind, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Delete"),
		zap.String("kind", string(kind)),
		zap.String("id", id),
	)

	if err := s.authorizeChange(ctx, "delete-item", kind, id); err != nil {
		log.Warn("delete refused", zap.Error(err))
		return err
	}

	if err := s.repo.Delete(ctx, kind, id); err != nil {
		log.Error("delete failed", zap.Error(err))
		return err
	}

	s.metrics.ItemsDeleted.Inc()
	s.cache.InvalidateListing(ctx, kind)
	log.Info("item deleted")
	return nil
}

func (s *service) Approve(ctx context.Context, kind Kind, id string) (*Item, error) {
	return s.transition(ctx, kind, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, kind Kind, id string) (*Item, error) {
	return s.transition(ctx, kind, id, StatusRejected)
}

func (s *service) transition(ctx context.Context, kind Kind, id string, target Status) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.String("target", string(target)),
	)

	action := "approve-item"
	if target == StatusRejected {
		action = "reject-item"
	}

	if !utils.IsAdmin(ctx) {
		return nil, &apperr.ForbiddenError{Action: action, Reason: "admin only"}
	}
	if !kind.SellerOwned() {
		return nil, &apperr.ForbiddenError{Action: action, Reason: kind.Plural() + " are not moderated"}
	}

	current, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	from := current.Status()
	next := *current
	if err := Transition(&next, target, s.now().UTC()); err != nil {
		return nil, err
	}

	it, err := s.repo.SetApproval(ctx, kind, id, next.Approved, next.RejectedAt)
	if err != nil {
		log.Error("failed to persist transition", zap.Error(err))
		return nil, err
	}

	if target == StatusApproved {
		s.metrics.Approvals.Inc()
	} else {
		s.metrics.Rejections.Inc()
	}
	s.cache.InvalidateListing(ctx, kind)

	log.Info("item moderated", zap.String("from", string(from)), zap.String("to", string(it.Status())))
	return it, nil
}

func (s *service) Names(ctx context.Context, kind Kind) ([]string, error) {
	return s.repo.Names(ctx, kind)
}

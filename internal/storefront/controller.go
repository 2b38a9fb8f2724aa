package storefront

import (
	"context"
	"io"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/order"
	"storefront/internal/seller"
	"storefront/internal/session"

	"go.uber.org/zap"
)

// Backend is the catalog and seller half of the REST client.
type Backend interface {
	List(ctx context.Context, kind catalog.Kind) ([]catalog.Item, error)
	ListBySeller(ctx context.Context, kind catalog.Kind, sellerID string) ([]catalog.Item, error)
	AllItems(ctx context.Context, status *catalog.Status) (catalog.AllItems, error)
	PendingItems(ctx context.Context) (catalog.AllItems, error)
	Names(ctx context.Context, kind catalog.Kind) ([]string, error)
	Create(ctx context.Context, kind catalog.Kind, in catalog.Input) (catalog.Item, error)
	Update(ctx context.Context, kind catalog.Kind, id string, p catalog.Patch) (catalog.Item, error)
	Delete(ctx context.Context, kind catalog.Kind, id string) error
	Approve(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, error)
	Reject(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, error)
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)

	Sellers(ctx context.Context) ([]seller.Seller, error)
	UpdateSeller(ctx context.Context, id string, in seller.UpdateInput) (seller.Seller, error)
	DeleteSeller(ctx context.Context, id string) (catalog.CascadeResult, error)
}

// Controller applies the signed-in actor's permissions to every catalog and
// seller operation. Guards run before any backend call.
type Controller struct {
	sessions *session.Service
	backend  Backend
	orders   order.Service
	origin   string
}

func NewController(sessions *session.Service, backend Backend, orders order.Service, origin string) *Controller {
	return &Controller{sessions: sessions, backend: backend, orders: orders, origin: origin}
}

func (c *Controller) Session() session.Session {
	return c.sessions.Holder().Current()
}

// begin binds the actor to ctx and checks the action.
func (c *Controller) begin(ctx context.Context, a Action, kind catalog.Kind, item *catalog.Item) (context.Context, session.Session, error) {
	s := c.Session()
	ctx = s.Bind(ctx)
	if err := Permit(s, a, kind, item); err != nil {
		logger.FromCtx(ctx).Info("action refused",
			zap.String("action", string(a)),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return ctx, s, err
	}
	return ctx, s, nil
}

// fail signs a removed seller out before the error is returned.
func (c *Controller) fail(ctx context.Context, err error) error {
	c.sessions.HandleError(ctx, err)
	return err
}

// fetch returns the listing the current actor is allowed to see, and the
// search scope that applies to it.
func (c *Controller) fetch(ctx context.Context, kind catalog.Kind, status *catalog.Status) ([]catalog.Item, catalog.Scope, error) {
	ctx, s, err := c.begin(ctx, ActionListCatalog, kind, nil)
	if err != nil {
		return nil, catalog.ScopeListing, err
	}

	switch {
	case s.IsAdmin():
		all, err := c.backend.AllItems(ctx, status)
		if err != nil {
			return nil, catalog.ScopeAdmin, err
		}
		return all.ByKind(kind), catalog.ScopeAdmin, nil

	case s.IsSeller():
		if !kind.SellerOwned() {
			return nil, catalog.ScopeListing, forbid(ActionListCatalog, kind.Plural()+" are managed by the admin")
		}
		items, err := c.backend.ListBySeller(ctx, kind, s.SellerID)
		if err != nil {
			return nil, catalog.ScopeListing, c.fail(ctx, err)
		}
		return items, catalog.ScopeListing, nil
	}

	return c.storefront(ctx, kind)
}

func (c *Controller) storefront(ctx context.Context, kind catalog.Kind) ([]catalog.Item, catalog.Scope, error) {
	items, err := c.backend.List(ctx, kind)
	if err != nil {
		return nil, catalog.ScopeListing, err
	}
	return catalog.Filter(items, "", catalog.ScopeListing, catalog.Storefront), catalog.ScopeListing, nil
}

// Catalog returns one page of the actor's listing: guests see approved and
// available items, sellers their own items, the admin everything.
func (c *Controller) Catalog(ctx context.Context, kind catalog.Kind, q Query) (catalog.Page, error) {
	items, scope, err := c.fetch(ctx, kind, q.Status)
	if err != nil {
		return catalog.Page{}, err
	}
	return catalog.Paginate(catalog.Filter(items, q.Term, scope, catalog.HasStatus(q.Status)), q.Page), nil
}

// Storefront is the public listing, whoever is signed in.
func (c *Controller) Storefront(ctx context.Context, kind catalog.Kind, q Query) (catalog.Page, error) {
	items, scope, err := c.storefront(c.Session().Bind(ctx), kind)
	if err != nil {
		return catalog.Page{}, err
	}
	return catalog.Paginate(catalog.Filter(items, q.Term, scope, nil), q.Page), nil
}

func (c *Controller) CreateItem(ctx context.Context, kind catalog.Kind, in catalog.Input) (catalog.Item, error) {
	ctx, s, err := c.begin(ctx, ActionCreateItem, kind, nil)
	if err != nil {
		return catalog.Item{}, err
	}

	if kind.SellerOwned() {
		in.SellerID = s.SellerID
		in.FirstName = s.FirstName
		in.LastName = s.LastName
	}

	if err := catalog.ValidateInput(kind, in); err != nil {
		return catalog.Item{}, err
	}

	it, err := c.backend.Create(ctx, kind, in)
	if err != nil {
		return catalog.Item{}, c.fail(ctx, err)
	}
	return it, nil
}

// EditItem sends p for item. The item's revision is attached so a
// concurrent change is reported as a conflict.
func (c *Controller) EditItem(ctx context.Context, kind catalog.Kind, item catalog.Item, p catalog.Patch) (catalog.Item, error) {
	ctx, _, err := c.begin(ctx, ActionEditItem, kind, &item)
	if err != nil {
		return catalog.Item{}, err
	}

	if err := catalog.ValidatePatch(kind, p); err != nil {
		return catalog.Item{}, err
	}
	if p.Revision == nil && item.Revision > 0 {
		rev := item.Revision
		p.Revision = &rev
	}

	updated, err := c.backend.Update(ctx, kind, item.ID, p)
	if err != nil {
		return catalog.Item{}, c.fail(ctx, err)
	}
	return updated, nil
}

func (c *Controller) DeleteItem(ctx context.Context, kind catalog.Kind, item catalog.Item) (string, error) {
	ctx, _, err := c.begin(ctx, ActionDeleteItem, kind, &item)
	if err != nil {
		return "", err
	}

	if err := c.backend.Delete(ctx, kind, item.ID); err != nil {
		return "", c.fail(ctx, err)
	}
	return ItemDeletedMessage(item), nil
}

func (c *Controller) ToggleAvailability(ctx context.Context, kind catalog.Kind, item catalog.Item) (catalog.Item, error) {
	ctx, _, err := c.begin(ctx, ActionToggleAvailability, kind, &item)
	if err != nil {
		return catalog.Item{}, err
	}

	next := !item.Available
	p := catalog.Patch{Available: &next}
	if item.Revision > 0 {
		rev := item.Revision
		p.Revision = &rev
	}
	return c.backend.Update(ctx, kind, item.ID, p)
}

// Approve and Reject never touch local state; the caller shows what the
// backend returns or reloads.
func (c *Controller) Approve(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, error) {
	ctx, _, err := c.begin(ctx, ActionApproveItem, kind, nil)
	if err != nil {
		return catalog.Item{}, err
	}
	return c.backend.Approve(ctx, kind, id)
}

func (c *Controller) Reject(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, error) {
	ctx, _, err := c.begin(ctx, ActionRejectItem, kind, nil)
	if err != nil {
		return catalog.Item{}, err
	}
	return c.backend.Reject(ctx, kind, id)
}

// UploadImage checks the file locally before sending it.
func (c *Controller) UploadImage(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	s := c.Session()
	ctx = s.Bind(ctx)
	if s.IsGuest() {
		return "", forbid(ActionCreateItem, "sign in required")
	}
	if err := catalog.ValidateImage(contentType, size); err != nil {
		return "", err
	}

	u, err := c.backend.Upload(ctx, filename, contentType, r)
	if err != nil {
		return "", c.fail(ctx, err)
	}
	return u, nil
}

func (c *Controller) Sellers(ctx context.Context) ([]seller.Seller, error) {
	ctx, _, err := c.begin(ctx, ActionManageSeller, "", nil)
	if err != nil {
		return nil, err
	}
	return c.backend.Sellers(ctx)
}

func (c *Controller) UpdateSeller(ctx context.Context, id string, in seller.UpdateInput) (seller.Seller, string, error) {
	ctx, _, err := c.begin(ctx, ActionManageSeller, "", nil)
	if err != nil {
		return seller.Seller{}, "", err
	}
	if err := seller.ValidateUpdate(in); err != nil {
		return seller.Seller{}, "", err
	}

	updated, err := c.backend.UpdateSeller(ctx, id, in)
	if err != nil {
		return seller.Seller{}, "", err
	}
	return updated, SellerUpdatedMessage(updated), nil
}

// DeleteSeller removes s with all their listings and reports the counts.
func (c *Controller) DeleteSeller(ctx context.Context, s seller.Seller) (catalog.CascadeResult, string, error) {
	ctx, _, err := c.begin(ctx, ActionManageSeller, "", nil)
	if err != nil {
		return catalog.CascadeResult{}, "", err
	}

	res, err := c.backend.DeleteSeller(ctx, s.ID)
	if err != nil {
		return catalog.CascadeResult{}, "", err
	}

	logger.FromCtx(ctx).Info("seller deleted",
		zap.String("seller_id", s.ID),
		zap.Int("deleted_services", res.DeletedServices),
		zap.Int("deleted_products", res.DeletedProducts),
	)
	return res, SellerDeletedMessage(s, res), nil
}

// ReviewQueue returns every listing still waiting for the admin.
func (c *Controller) ReviewQueue(ctx context.Context) (catalog.AllItems, error) {
	ctx, _, err := c.begin(ctx, ActionReviewQueue, catalog.KindProduct, nil)
	if err != nil {
		return catalog.AllItems{}, err
	}
	return c.backend.PendingItems(ctx)
}

// Names lists the distinct listing names of kind, for suggestions while
// typing a new listing.
func (c *Controller) Names(ctx context.Context, kind catalog.Kind) ([]string, error) {
	ctx, _, err := c.begin(ctx, ActionListCatalog, kind, nil)
	if err != nil {
		return nil, err
	}
	names, err := c.backend.Names(ctx, kind)
	if err != nil {
		return nil, c.fail(ctx, err)
	}
	return names, nil
}

// UpdateProfile lets a seller edit their own details and keeps the session
// in step.
func (c *Controller) UpdateProfile(ctx context.Context, in seller.UpdateInput) (seller.Seller, string, error) {
	s := c.Session()
	ctx = s.Bind(ctx)
	if !s.IsSeller() {
		return seller.Seller{}, "", forbid(ActionManageSeller, "sign in required")
	}
	if err := seller.ValidateUpdate(in); err != nil {
		return seller.Seller{}, "", err
	}

	updated, err := c.backend.UpdateSeller(ctx, s.SellerID, in)
	if err != nil {
		return seller.Seller{}, "", c.fail(ctx, err)
	}

	merged := s
	merged.FirstName = pick(updated.FirstName, in.FirstName, s.FirstName)
	merged.LastName = pick(updated.LastName, in.LastName, s.LastName)
	merged.SellerEmail = pick(updated.Email, in.Email, s.SellerEmail)
	merged.Phone = pick(updated.Phone, in.Phone, s.Phone)
	if err := c.sessions.Holder().Set(ctx, merged); err != nil {
		return seller.Seller{}, "", err
	}
	return merged.Seller(), ProfileUpdatedMessage, nil
}

func pick(fromBackend string, requested *string, current string) string {
	if fromBackend != "" {
		return fromBackend
	}
	if requested != nil {
		return strings.TrimSpace(*requested)
	}
	return current
}

// SubmitOrder validates the buyer's form and hands the mail off.
func (c *Controller) SubmitOrder(ctx context.Context, item catalog.Item, f order.Form) (order.Mail, error) {
	ctx, _, err := c.begin(ctx, ActionSubmitOrder, item.Kind, &item)
	if err != nil {
		return order.Mail{}, err
	}
	_, mail, err := c.orders.Submit(ctx, item, f)
	return mail, err
}

// Contact sends a "Get in touch" message. Anyone may write in.
func (c *Controller) Contact(ctx context.Context, f order.ContactForm) (order.Mail, error) {
	return c.orders.Contact(c.Session().Bind(ctx), f)
}

func (c *Controller) Subscribe(ctx context.Context, email string) (order.Mail, error) {
	return c.orders.Subscribe(c.Session().Bind(ctx), email)
}

func (c *Controller) ShareLink(kind catalog.Kind, id string) string {
	return catalog.BuildShareLink(c.origin, kind, id)
}

// ResolveShareLink waits for the storefront listing of the linked kind and
// returns the linked item, or a NotFoundError when it is gone.
func (c *Controller) ResolveShareLink(ctx context.Context, link string) (catalog.Item, error) {
	kind, id, err := catalog.ParseShareLink(link)
	if err != nil {
		return catalog.Item{}, apperr.Invalid("link", err.Error())
	}

	items, _, err := c.storefront(c.Session().Bind(ctx), kind)
	if err != nil {
		return catalog.Item{}, err
	}

	it, ok := catalog.FindByID(items, id)
	if !ok {
		return catalog.Item{}, &apperr.NotFoundError{Resource: string(kind), ID: id}
	}
	return it, nil
}

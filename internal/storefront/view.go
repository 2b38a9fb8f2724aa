package storefront

import (
	"context"

	"storefront/internal/catalog"
)

// Query is a one-shot catalog request.
type Query struct {
	Term   string
	Status *catalog.Status
	Page   int
}

// View is one paginated catalog table. Changing the search term, the status
// tab or reloading returns to the first page.
type View struct {
	c      *Controller
	kind   catalog.Kind
	status *catalog.Status
	term   string
	page   int
	items  []catalog.Item
	scope  catalog.Scope
	loaded bool
}

func (c *Controller) Open(kind catalog.Kind) *View {
	return &View{c: c, kind: kind, page: 1}
}

// Reload fetches the role-scoped listing. On failure the previous items are
// kept.
func (v *View) Reload(ctx context.Context) error {
	items, scope, err := v.c.fetch(ctx, v.kind, v.status)
	if err != nil {
		return err
	}
	v.items, v.scope, v.loaded = items, scope, true
	v.page = 1
	return nil
}

func (v *View) Search(term string) {
	v.term = term
	v.page = 1
}

// SetStatus switches the admin or seller status tab. It needs a Reload.
func (v *View) SetStatus(st *catalog.Status) {
	v.status = st
	v.page = 1
}

func (v *View) GoTo(page int) {
	v.page = catalog.ClampPage(page, len(v.filtered()))
}

func (v *View) Next() { v.GoTo(v.page + 1) }
func (v *View) Prev() { v.GoTo(v.page - 1) }

func (v *View) Loaded() bool { return v.loaded }
func (v *View) Term() string { return v.term }

func (v *View) filtered() []catalog.Item {
	return catalog.Filter(v.items, v.term, v.scope, catalog.HasStatus(v.status))
}

// Current renders the visible page.
func (v *View) Current() catalog.Page {
	return catalog.Paginate(v.filtered(), v.page)
}

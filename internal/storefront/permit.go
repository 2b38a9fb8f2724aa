package storefront

import (
	"errors"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/session"
)

type Action string

const (
	ActionListCatalog        Action = "list-catalog"
	ActionCreateItem         Action = "create-item"
	ActionEditItem           Action = "edit-item"
	ActionDeleteItem         Action = "delete-item"
	ActionToggleAvailability Action = "toggle-availability"
	ActionApproveItem        Action = "approve-item"
	ActionRejectItem         Action = "reject-item"
	ActionManageSeller       Action = "manage-seller"
	ActionReviewQueue        Action = "review-queue"
	ActionSubmitOrder        Action = "submit-order"
)

func forbid(a Action, reason string) error {
	return &apperr.ForbiddenError{Action: string(a), Reason: reason}
}

// Permit decides whether s may perform a on a listing of kind. item is the
// target listing for edits and deletes and may be nil otherwise. It never
// talks to the backend.
func Permit(s session.Session, a Action, kind catalog.Kind, item *catalog.Item) error {
	switch a {
	case ActionListCatalog, ActionSubmitOrder:
		return nil

	case ActionCreateItem:
		switch {
		case s.IsAdmin() && !kind.SellerOwned():
			return nil
		case s.IsSeller() && kind.SellerOwned():
			return nil
		case s.IsGuest():
			return forbid(a, "sign in required")
		case s.IsAdmin():
			return forbid(a, kind.Plural()+" are listed by sellers")
		}
		return forbid(a, kind.Plural()+" are managed by the admin")

	case ActionEditItem, ActionDeleteItem:
		if s.IsAdmin() {
			return nil
		}
		if !s.IsSeller() {
			return forbid(a, "sign in required")
		}
		if !kind.SellerOwned() {
			return forbid(a, kind.Plural()+" are managed by the admin")
		}
		if item == nil {
			return forbid(a, "unknown listing")
		}
		switch err := catalog.CanSellerModify(*item, s.SellerID); {
		case err == nil:
			return nil
		case errors.Is(err, catalog.ErrNotOwner):
			return forbid(a, "not the owner")
		default:
			return forbid(a, "listing is "+string(item.Status()))
		}

	case ActionToggleAvailability, ActionManageSeller, ActionReviewQueue:
		if !s.IsAdmin() {
			return forbid(a, "admin only")
		}
		return nil

	case ActionApproveItem, ActionRejectItem:
		if !s.IsAdmin() {
			return forbid(a, "admin only")
		}
		if !kind.SellerOwned() {
			return forbid(a, kind.Plural()+" are not moderated")
		}
		return nil
	}

	return forbid(a, "unknown action")
}

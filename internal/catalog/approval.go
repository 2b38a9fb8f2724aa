package catalog

import "time"

// Status derives the moderation state from the approved flag and the
// rejection timestamp. A rejection timestamp always wins, so rows written by
// an older backend that left approved=true behind still read as rejected.
func (it Item) Status() Status {
	switch {
	case it.RejectedAt != nil:
		return StatusRejected
	case it.Approved:
		return StatusApproved
	default:
		return StatusPending
	}
}

func (it Item) IsPending() bool  { return it.Status() == StatusPending }
func (it Item) IsApproved() bool { return it.Status() == StatusApproved }
func (it Item) IsRejected() bool { return it.Status() == StatusRejected }

// Approve moves it to Approved from any state. Approving an approved item
// leaves it approved.
func Approve(it *Item, now time.Time) {
	it.Approved = true
	it.RejectedAt = nil
	it.UpdatedAt = &now
}

// Reject moves it to Rejected from any state.
func Reject(it *Item, now time.Time) {
	at := now
	it.Approved = false
	it.RejectedAt = &at
	it.UpdatedAt = &now
}

// Transition applies the admin decision named by target.
func Transition(it *Item, target Status, now time.Time) error {
	switch target {
	case StatusApproved:
		Approve(it, now)
	case StatusRejected:
		Reject(it, now)
	default:
		return ErrUnknownStatus
	}
	return nil
}

// CanSellerModify is the edit/delete lock consulted before a seller's change
// reaches the collaborator: only the owner may touch a listing, and only
// while it is still pending review.
func CanSellerModify(it Item, sellerID string) error {
	if sellerID == "" || it.SellerID != sellerID {
		return ErrNotOwner
	}
	if !it.IsPending() {
		return ErrLocked
	}
	return nil
}

// HasStatus returns a predicate matching items in st. A nil status matches
// everything.
func HasStatus(st *Status) func(Item) bool {
	if st == nil {
		return func(Item) bool { return true }
	}
	want := *st
	return func(it Item) bool { return it.Status() == want }
}

// Storefront reports whether a guest may see it. Medicines are published by
// the admin and never moderated, so only availability hides them.
func Storefront(it Item) bool {
	if it.Kind.Valid() && !it.Kind.SellerOwned() {
		return it.Available
	}
	return it.IsApproved() && it.Available
}

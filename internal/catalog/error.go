package catalog

import "errors"

var (
	// -- Input --
	ErrUnknownKind   = errors.New("unknown catalog kind")
	ErrUnknownStatus = errors.New("unknown approval status")
	ErrNoFields      = errors.New("no fields to update")

	// -- Resource state --
	ErrItemNotFound = errors.New("item not found")
	ErrNotOwner     = errors.New("item belongs to another seller")
	ErrLocked       = errors.New("item is no longer pending and cannot be changed by its seller")

	// -- Share links --
	ErrMalformedLink = errors.New("malformed share link")

	// -- Database --
	ErrFailedListItems  = errors.New("failed to list items")
	ErrFailedCreateItem = errors.New("failed to create item")
	ErrFailedUpdateItem = errors.New("failed to update item")
	ErrFailedDeleteItem = errors.New("failed to delete item")
)

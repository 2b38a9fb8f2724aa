package storefront

import (
	"fmt"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/seller"
)

func plural(n int, noun string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// SellerDeletedMessage reports a cascade delete. Only kinds that lost
// listings are named.
func SellerDeletedMessage(s seller.Seller, res catalog.CascadeResult) string {
	msg := fmt.Sprintf("Seller %s %s deleted successfully.", s.FirstName, s.LastName)

	var parts []string
	if res.DeletedServices > 0 {
		parts = append(parts, plural(res.DeletedServices, "service"))
	}
	if res.DeletedProducts > 0 {
		parts = append(parts, plural(res.DeletedProducts, "product"))
	}
	if len(parts) > 0 {
		msg += " Also removed " + strings.Join(parts, " and ") + "."
	}
	return msg
}

func SellerUpdatedMessage(s seller.Seller) string {
	return fmt.Sprintf("Seller %s %s updated successfully.", s.FirstName, s.LastName)
}

func ItemDeletedMessage(it catalog.Item) string {
	return it.Name + " deleted."
}

const (
	ProfileUpdatedMessage = "Profile updated successfully!"
	AccountDeletedNotice  = "Your account has been deleted by the administrator. All your services and products have been removed."
)

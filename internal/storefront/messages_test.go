package storefront

import (
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/seller"

	"github.com/stretchr/testify/assert"
)

func TestSellerDeletedMessage(t *testing.T) {
	s := seller.Seller{FirstName: "Asha", LastName: "Rao"}

	tests := []struct {
		name string
		res  catalog.CascadeResult
		want string
	}{
		{"Nothing", catalog.CascadeResult{}, "Seller Asha Rao deleted successfully."},
		{"OneService", catalog.CascadeResult{DeletedServices: 1}, "Seller Asha Rao deleted successfully. Also removed 1 service."},
		{"ProductsOnly", catalog.CascadeResult{DeletedProducts: 4}, "Seller Asha Rao deleted successfully. Also removed 4 products."},
		{"Both", catalog.CascadeResult{DeletedServices: 2, DeletedProducts: 1}, "Seller Asha Rao deleted successfully. Also removed 2 services and 1 product."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SellerDeletedMessage(s, tt.res))
		})
	}
}

func TestItemMessages(t *testing.T) {
	assert.Equal(t, "Seller Asha Rao updated successfully.", SellerUpdatedMessage(seller.Seller{FirstName: "Asha", LastName: "Rao"}))
	assert.Equal(t, "Paracetamol deleted.", ItemDeletedMessage(catalog.Item{Name: "Paracetamol"}))
}

package catalog

import (
	"fmt"
	"strings"
	"time"

	"storefront/internal/pricing"
)

type Kind string

const (
	KindMedicine Kind = "medicine"
	KindProduct  Kind = "product"
	KindService  Kind = "service"
)

var Kinds = []Kind{KindMedicine, KindProduct, KindService}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	switch k {
	case KindMedicine, KindProduct, KindService:
		return true
	}
	return false
}

// Plural is the collection segment used in collaborator paths.
func (k Kind) Plural() string { return string(k) + "s" }

// SellerOwned reports whether listings of this kind belong to a seller.
// Medicines are the storefront's own featured goods.
func (k Kind) SellerOwned() bool { return k == KindProduct || k == KindService }

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Item is the shape shared by medicines, seller products and seller services.
type Item struct {
	ID        string
	Kind      Kind
	Code      string
	SellerID  string
	FirstName string
	LastName  string

	Name        string
	Description string
	Location    string
	Pincode     string
	ImageURL    string

	InitialPrice   float64
	Price          float64
	MRP            float64
	GSTPercent     float64
	DeliveryCharge float64
	Expiry         string

	Available  bool
	Approved   bool
	RejectedAt *time.Time

	Revision  int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (it Item) Breakdown() pricing.Breakdown {
	return pricing.Compute(pricing.Input{
		Price:          it.Price,
		MRP:            it.MRP,
		GSTPercent:     it.GSTPercent,
		DeliveryCharge: it.DeliveryCharge,
	})
}

func (it Item) OwnerName() string {
	return strings.TrimSpace(it.FirstName + " " + it.LastName)
}

// Input carries the fields of a new listing.
type Input struct {
	SellerID  string
	FirstName string
	LastName  string

	Name        string
	Description string
	Location    string
	Pincode     string
	ImageURL    string

	Price          float64
	MRP            float64
	GSTPercent     float64
	DeliveryCharge float64
	Expiry         string
	Available      *bool
}

// Patch is a partial update. Revision, when set, must match the stored
// revision or the write is refused as a conflict.
type Patch struct {
	Name        *string
	Description *string
	Location    *string
	Pincode     *string
	ImageURL    *string

	Price          *float64
	MRP            *float64
	GSTPercent     *float64
	DeliveryCharge *float64
	Expiry         *string
	Available      *bool

	Revision *int64
}

func (p Patch) Empty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Location == nil &&
		p.Pincode == nil &&
		p.ImageURL == nil &&
		p.Price == nil &&
		p.MRP == nil &&
		p.GSTPercent == nil &&
		p.DeliveryCharge == nil &&
		p.Expiry == nil &&
		p.Available == nil
}

// Apply copies the patched fields onto it. InitialPrice is never touched.
func (p Patch) Apply(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Location != nil {
		it.Location = *p.Location
	}
	if p.Pincode != nil {
		it.Pincode = *p.Pincode
	}
	if p.ImageURL != nil {
		it.ImageURL = *p.ImageURL
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.MRP != nil {
		it.MRP = *p.MRP
	}
	if p.GSTPercent != nil {
		it.GSTPercent = *p.GSTPercent
	}
	if p.DeliveryCharge != nil {
		it.DeliveryCharge = *p.DeliveryCharge
	}
	if p.Expiry != nil {
		it.Expiry = *p.Expiry
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
}

// AllItems is the admin view across every kind and status.
type AllItems struct {
	Products  []Item
	Services  []Item
	Medicines []Item
}

func (a AllItems) ByKind(k Kind) []Item {
	switch k {
	case KindProduct:
		return a.Products
	case KindService:
		return a.Services
	default:
		return a.Medicines
	}
}

// ListOptions narrows a collaborator listing. Empty fields mean no filter.
type ListOptions struct {
	Status        *Status
	SellerID      string
	OnlyAvailable bool
}

// CascadeResult reports what a seller deletion removed.
type CascadeResult struct {
	DeletedServices int `json:"deletedServices"`
	DeletedProducts int `json:"deletedProducts"`
}

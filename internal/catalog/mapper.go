package catalog

import (
	"bytes"
	"encoding/json"
	"time"

	"storefront/internal/pricing"
)

// Number decodes any JSON value into a float, treating malformed or missing
// values as zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		*n = 0
		return nil
	}
	*n = Number(pricing.Coerce(raw))
	return nil
}

func numPtr(f *float64) *Number {
	if f == nil {
		return nil
	}
	n := Number(*f)
	return &n
}

func floatPtr(n *Number) *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

// Wire is the JSON document exchanged with the collaborator. The name and
// description keys differ per kind.
type Wire struct {
	ID        string `json:"_id,omitempty"`
	Code      string `json:"code,omitempty"`
	SellerID  string `json:"sellerId,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`

	Name        string `json:"name,omitempty"`
	Benefits    string `json:"benefits,omitempty"`
	ProductName string `json:"productName,omitempty"`
	Details     string `json:"details,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
	Description string `json:"description,omitempty"`

	Location string `json:"location,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`

	InitialPrice   Number `json:"initialPrice,omitempty"`
	Price          Number `json:"price"`
	MRP            Number `json:"mrp,omitempty"`
	GST            Number `json:"gst,omitempty"`
	DeliveryCharge Number `json:"deliveryCharge,omitempty"`
	Expiry         string `json:"expiry,omitempty"`

	Available  *bool      `json:"available,omitempty"`
	Approved   bool       `json:"approved"`
	RejectedAt *time.Time `json:"rejectedAt,omitempty"`
	Revision   int64      `json:"revision,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// WirePatch is the body of a partial update.
type WirePatch struct {
	Name        *string `json:"name,omitempty"`
	Benefits    *string `json:"benefits,omitempty"`
	ProductName *string `json:"productName,omitempty"`
	Details     *string `json:"details,omitempty"`
	ServiceName *string `json:"serviceName,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Pincode     *string `json:"pincode,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Expiry      *string `json:"expiry,omitempty"`

	Price          *Number `json:"price,omitempty"`
	MRP            *Number `json:"mrp,omitempty"`
	GST            *Number `json:"gst,omitempty"`
	DeliveryCharge *Number `json:"deliveryCharge,omitempty"`
	Available      *bool   `json:"available,omitempty"`
	Revision       *int64  `json:"revision,omitempty"`
}

// WireAll is the admin all-items document.
type WireAll struct {
	Products  []Wire `json:"products"`
	Services  []Wire `json:"services"`
	Medicines []Wire `json:"medicines"`
}

func ToWire(it Item) Wire {
	w := Wire{
		ID:             it.ID,
		Code:           it.Code,
		SellerID:       it.SellerID,
		FirstName:      it.FirstName,
		LastName:       it.LastName,
		Location:       it.Location,
		Pincode:        it.Pincode,
		ImageURL:       it.ImageURL,
		InitialPrice:   Number(it.InitialPrice),
		Price:          Number(it.Price),
		Approved:       it.Approved,
		RejectedAt:     it.RejectedAt,
		Revision:       it.Revision,
		UpdatedAt:      it.UpdatedAt,
		MRP:            Number(it.MRP),
		GST:            Number(it.GSTPercent),
		DeliveryCharge: Number(it.DeliveryCharge),
	}

	available := it.Available
	w.Available = &available

	if !it.CreatedAt.IsZero() {
		created := it.CreatedAt
		w.CreatedAt = &created
	}

	switch it.Kind {
	case KindProduct:
		w.ProductName = it.Name
		w.Details = it.Description
	case KindService:
		w.ServiceName = it.Name
		w.Description = it.Description
	default:
		w.Name = it.Name
		w.Benefits = it.Description
		w.Expiry = it.Expiry
	}
	return w
}

func FromWire(kind Kind, w Wire) Item {
	it := Item{
		ID:             w.ID,
		Kind:           kind,
		Code:           w.Code,
		SellerID:       w.SellerID,
		FirstName:      w.FirstName,
		LastName:       w.LastName,
		Location:       w.Location,
		Pincode:        w.Pincode,
		ImageURL:       w.ImageURL,
		InitialPrice:   float64(w.InitialPrice),
		Price:          float64(w.Price),
		MRP:            float64(w.MRP),
		GSTPercent:     float64(w.GST),
		DeliveryCharge: float64(w.DeliveryCharge),
		Expiry:         w.Expiry,
		Available:      w.Available == nil || *w.Available,
		Approved:       w.Approved,
		RejectedAt:     w.RejectedAt,
		Revision:       w.Revision,
		UpdatedAt:      w.UpdatedAt,
	}
	if w.CreatedAt != nil {
		it.CreatedAt = *w.CreatedAt
	}

	switch kind {
	case KindProduct:
		it.Name = firstNonEmpty(w.ProductName, w.Name)
		it.Description = firstNonEmpty(w.Details, w.Description)
	case KindService:
		it.Name = firstNonEmpty(w.ServiceName, w.Name)
		it.Description = w.Description
	default:
		it.Name = w.Name
		it.Description = firstNonEmpty(w.Benefits, w.Description)
	}
	return it
}

func FromWireList(kind Kind, ws []Wire) []Item {
	items := make([]Item, 0, len(ws))
	for _, w := range ws {
		items = append(items, FromWire(kind, w))
	}
	return items
}

func ToWireList(items []Item) []Wire {
	ws := make([]Wire, 0, len(items))
	for _, it := range items {
		ws = append(ws, ToWire(it))
	}
	return ws
}

func AllFromWire(w WireAll) AllItems {
	return AllItems{
		Products:  FromWireList(KindProduct, w.Products),
		Services:  FromWireList(KindService, w.Services),
		Medicines: FromWireList(KindMedicine, w.Medicines),
	}
}

func AllToWire(a AllItems) WireAll {
	return WireAll{
		Products:  ToWireList(a.Products),
		Services:  ToWireList(a.Services),
		Medicines: ToWireList(a.Medicines),
	}
}

// InputToWire renders a create request.
func InputToWire(kind Kind, in Input) Wire {
	it := Item{
		Kind:           kind,
		SellerID:       in.SellerID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Name:           in.Name,
		Description:    in.Description,
		Location:       in.Location,
		Pincode:        in.Pincode,
		ImageURL:       in.ImageURL,
		Price:          in.Price,
		MRP:            in.MRP,
		GSTPercent:     in.GSTPercent,
		DeliveryCharge: in.DeliveryCharge,
		Expiry:         in.Expiry,
		Available:      in.Available == nil || *in.Available,
	}
	w := ToWire(it)
	w.Approved = false
	return w
}

func InputFromWire(kind Kind, w Wire) Input {
	it := FromWire(kind, w)
	available := it.Available
	return Input{
		SellerID:       it.SellerID,
		FirstName:      it.FirstName,
		LastName:       it.LastName,
		Name:           it.Name,
		Description:    it.Description,
		Location:       it.Location,
		Pincode:        it.Pincode,
		ImageURL:       it.ImageURL,
		Price:          it.Price,
		MRP:            it.MRP,
		GSTPercent:     it.GSTPercent,
		DeliveryCharge: it.DeliveryCharge,
		Expiry:         it.Expiry,
		Available:      &available,
	}
}

func PatchToWire(kind Kind, p Patch) WirePatch {
	wp := WirePatch{
		Location:       p.Location,
		Pincode:        p.Pincode,
		ImageURL:       p.ImageURL,
		Price:          numPtr(p.Price),
		MRP:            numPtr(p.MRP),
		GST:            numPtr(p.GSTPercent),
		DeliveryCharge: numPtr(p.DeliveryCharge),
		Available:      p.Available,
		Revision:       p.Revision,
	}

	switch kind {
	case KindProduct:
		wp.ProductName = p.Name
		wp.Details = p.Description
	case KindService:
		wp.ServiceName = p.Name
		wp.Description = p.Description
	default:
		wp.Name = p.Name
		wp.Benefits = p.Description
		wp.Expiry = p.Expiry
	}
	return wp
}

func PatchFromWire(kind Kind, wp WirePatch) Patch {
	p := Patch{
		Location:       wp.Location,
		Pincode:        wp.Pincode,
		ImageURL:       wp.ImageURL,
		Price:          floatPtr(wp.Price),
		MRP:            floatPtr(wp.MRP),
		GSTPercent:     floatPtr(wp.GST),
		DeliveryCharge: floatPtr(wp.DeliveryCharge),
		Available:      wp.Available,
		Revision:       wp.Revision,
	}

	switch kind {
	case KindProduct:
		p.Name = firstNonNil(wp.ProductName, wp.Name)
		p.Description = firstNonNil(wp.Details, wp.Description)
	case KindService:
		p.Name = firstNonNil(wp.ServiceName, wp.Name)
		p.Description = wp.Description
	default:
		p.Name = wp.Name
		p.Description = firstNonNil(wp.Benefits, wp.Description)
		p.Expiry = wp.Expiry
	}
	return p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

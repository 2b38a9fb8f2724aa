package order

import (
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/pricing"
)

// Compose renders the mail for in, addressed to the storefront's order inbox.
func Compose(in Intent, to string) Mail {
	var subject string
	var b strings.Builder

	switch in.Kind {
	case catalog.KindMedicine:
		subject = "Product Order - " + in.Item.Name
		b.WriteString("New Product Order Request:\n\n")
		writeCustomer(&b, in.Form)
		if in.Form.Quantity > 0 {
			fmt.Fprintf(&b, "Quantity: %d", in.Form.Quantity)
		}
		b.WriteString("\n\n--- PRODUCT DETAILS ---\n")
		fmt.Fprintf(&b, "Product Name: %s\n", in.Item.Name)
		fmt.Fprintf(&b, "Description: %s\n", in.Item.Description)
		fmt.Fprintf(&b, "Expiry: %s\n", orDefault(in.Item.Expiry, "NA"))
		bd := in.Breakdown
		fmt.Fprintf(&b, "MRP: ₹%s\n", pricing.Format(bd.MRP))
		fmt.Fprintf(&b, "Price: ₹%s\n", pricing.Format(bd.Price))
		fmt.Fprintf(&b, "GST (%s%%): ₹%s\n", plain(bd.GSTPercent), pricing.Format(bd.GSTAmount))
		fmt.Fprintf(&b, "Delivery Charge: ₹%s\n", pricing.Format(bd.DeliveryCharge))
		fmt.Fprintf(&b, "Total Price: ₹%s\n\n", pricing.Format(bd.Total))
		b.WriteString("Please confirm availability and reply to the customer.")

	case catalog.KindService:
		subject = "Service Request - " + in.Item.Name
		b.WriteString("Service Request:\n\n")
		writeCustomer(&b, in.Form)
		b.WriteString("\n--- SERVICE DETAILS ---\n")
		fmt.Fprintf(&b, "Service Name: %s\n", in.Item.Name)
		fmt.Fprintf(&b, "Description: %s\n", orDefault(in.Item.Description, "N/A"))
		fmt.Fprintf(&b, "Code: %s\n", orDefault(in.Item.Code, "N/A"))
		fmt.Fprintf(&b, "Provider: %s %s\n", in.Item.FirstName, in.Item.LastName)
		fmt.Fprintf(&b, "Price: %s\n\n", plain(in.Item.Price))
		b.WriteString("Please connect the customer with the service provider.")

	default:
		subject = "Product Inquiry - " + in.Item.Name
		b.WriteString("Product Inquiry Request:\n\n")
		writeCustomer(&b, in.Form)
		b.WriteString("\n--- PRODUCT DETAILS ---\n")
		fmt.Fprintf(&b, "Product Name: %s\n", in.Item.Name)
		fmt.Fprintf(&b, "Details: %s\n", orDefault(in.Item.Description, "N/A"))
		fmt.Fprintf(&b, "Code: %s\n", orDefault(in.Item.Code, "N/A"))
		fmt.Fprintf(&b, "Seller: %s %s\n\n", in.Item.FirstName, in.Item.LastName)
		b.WriteString("Please connect the customer with the seller.")
	}

	return Mail{To: to, Subject: subject, Body: b.String()}
}

func writeCustomer(b *strings.Builder, f Form) {
	b.WriteString("--- CUSTOMER DETAILS ---\n")
	fmt.Fprintf(b, "Name: %s\n", f.Name)
	fmt.Fprintf(b, "Phone: %s\n", f.Phone)
	fmt.Fprintf(b, "Address: %s\n", f.Address)
	fmt.Fprintf(b, "Pincode: %s\n", f.Pincode)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// plain prints a number the shortest way, 5 not 5.00.
func plain(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MailtoURL is the mailto: link that opens the buyer's mail client.
func (m Mail) MailtoURL() string {
	return "mailto:" + m.To + "?subject=" + EncodeURIComponent(m.Subject) + "&body=" + EncodeURIComponent(m.Body)
}

const unreserved = "-_.!~*'()"

// EncodeURIComponent percent-encodes s the way browsers encode a URI
// component: spaces become %20 and only letters, digits and -_.!~*'() pass
// through.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
			strings.IndexByte(unreserved, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

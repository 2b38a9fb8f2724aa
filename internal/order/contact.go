package order

import (
	"fmt"
	"regexp"
	"strings"

	"storefront/internal/apperr"
)

var (
	gmailPattern = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@gmail\.com$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ContactForm is the "Get in touch" message a visitor sends the storefront.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

const (
	ContactSentMessage   = "Your message has been prepared for sending. Please check your email client."
	SubscribedMessage    = "Thanks for subscribing. Please send the email to confirm."
	NewsletterSubject    = "New Newsletter Subscription"
	contactSubjectPrefix = "Contact Form Message from "
)

func (f ContactForm) trimmed() ContactForm {
	return ContactForm{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Message: strings.TrimSpace(f.Message),
	}
}

// ValidateContact checks every field is filled, the address is a Gmail one
// and the phone has ten digits.
func ValidateContact(f ContactForm) error {
	f = f.trimmed()
	if f.Name == "" || f.Email == "" || f.Phone == "" || f.Message == "" {
		return apperr.Invalid("", "All fields are required")
	}
	if !gmailPattern.MatchString(f.Email) {
		return apperr.Invalid("email", "Please enter a valid Gmail address (e.g., yourname@gmail.com)")
	}
	if !phonePattern.MatchString(f.Phone) {
		return apperr.Invalid("phone", "Phone number must be 10 digits")
	}
	return nil
}

func ValidateSubscriber(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.Invalid("email", "Please enter your email address")
	}
	if !emailPattern.MatchString(email) {
		return apperr.Invalid("email", "Please enter a valid email address")
	}
	return nil
}

// ComposeContact renders a validated contact form as mail to the storefront
// inbox. Fields are trimmed.
func ComposeContact(f ContactForm, to string) Mail {
	f = f.trimmed()

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("You have received a new message from the Get in Touch form:\n\n")
	b.WriteString("--- CONTACT INFORMATION ---\n")
	fmt.Fprintf(&b, "Name: %s\n", f.Name)
	fmt.Fprintf(&b, "Email: %s\n", f.Email)
	fmt.Fprintf(&b, "Phone: %s\n\n", f.Phone)
	b.WriteString("--- MESSAGE ---\n")
	b.WriteString(f.Message)
	b.WriteString("\n\n---\nSent from the storefront contact form")

	return Mail{To: to, Subject: contactSubjectPrefix + f.Name, Body: b.String()}
}

// ComposeSubscription renders a newsletter sign-up as mail to the storefront
// inbox.
func ComposeSubscription(email, to string) Mail {
	body := "Hello,\n\n" +
		"You have a new newsletter subscription:\n\n" +
		"--- SUBSCRIBER INFORMATION ---\n" +
		"Email: " + strings.TrimSpace(email) + "\n\n" +
		"---\nSent from the storefront newsletter subscription"
	return Mail{To: to, Subject: NewsletterSubject, Body: body}
}

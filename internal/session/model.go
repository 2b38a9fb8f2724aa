package session

import (
	"context"

	"storefront/internal/logger"
	"storefront/internal/seller"
	"storefront/internal/utils"
)

// Session is the signed-in identity of this process. The zero value is a
// guest.
type Session struct {
	Role        string `json:"role"`
	SellerID    string `json:"sellerId,omitempty"`
	SellerEmail string `json:"sellerEmail,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Token       string `json:"token,omitempty"`
	BasicAuth   string `json:"basicAuth,omitempty"`
}

func Guest() Session { return Session{Role: utils.RoleGuest} }

func (s Session) IsGuest() bool  { return !s.IsSeller() && !s.IsAdmin() }
func (s Session) IsSeller() bool { return s.Role == utils.RoleSeller && s.SellerID != "" }
func (s Session) IsAdmin() bool  { return s.Role == utils.RoleAdmin && s.BasicAuth != "" }

// RoleName never returns an empty role.
func (s Session) RoleName() string {
	switch {
	case s.IsAdmin():
		return utils.RoleAdmin
	case s.IsSeller():
		return utils.RoleSeller
	}
	return utils.RoleGuest
}

// Authorization is the header value the backend expects for this actor.
func (s Session) Authorization() string {
	switch {
	case s.IsAdmin():
		return s.BasicAuth
	case s.IsSeller() && s.Token != "":
		return "Bearer " + s.Token
	}
	return ""
}

// Bind carries the actor into ctx for permission checks and logging.
func (s Session) Bind(ctx context.Context) context.Context {
	switch {
	case s.IsAdmin():
		ctx = utils.SetAdminContext(ctx)
	case s.IsSeller():
		ctx = utils.SetSellerContext(ctx, s.SellerID, s.SellerEmail)
	}
	return logger.WithActor(ctx, s.RoleName())
}

func (s Session) Seller() seller.Seller {
	return seller.Seller{
		ID:        s.SellerID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.SellerEmail,
		Phone:     s.Phone,
	}
}

func fromAuth(res seller.AuthResult) Session {
	return Session{
		Role:        utils.RoleSeller,
		SellerID:    res.Seller.ID,
		SellerEmail: res.Seller.Email,
		FirstName:   res.Seller.FirstName,
		LastName:    res.Seller.LastName,
		Phone:       res.Seller.Phone,
		Token:       res.Token,
	}
}

package client

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/seller"
)

func (c *Client) Register(ctx context.Context, in seller.RegisterInput) (seller.AuthResult, error) {
	var res seller.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/seller/register", in, "Registration failed", &res); err != nil {
		return seller.AuthResult{}, err
	}
	return seller.AuthResult{Seller: seller.FromWire(res.Seller), Token: res.Token}, nil
}

func (c *Client) Login(ctx context.Context, in seller.LoginInput) (seller.AuthResult, error) {
	var res seller.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/seller/login", in, "Login failed", &res); err != nil {
		return seller.AuthResult{}, err
	}
	return seller.AuthResult{Seller: seller.FromWire(res.Seller), Token: res.Token}, nil
}

// Verify checks that the seller account still exists. A removed account
// yields apperr.ErrAccountDeleted.
func (c *Client) Verify(ctx context.Context, sellerID string) error {
	var res seller.VerifyResponse
	path := "/seller/verify/" + url.PathEscape(sellerID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, apperr.ErrAccountDeleted.Error(), &res); err != nil {
		return err
	}
	if !res.Exists {
		return apperr.ErrAccountDeleted
	}
	return nil
}

// AdminCheck validates the admin credential carried by ctx or the session.
func (c *Client) AdminCheck(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/admin-check", nil, "Unauthorized", nil)
}

func (c *Client) Sellers(ctx context.Context) ([]seller.Seller, error) {
	var ws []seller.Wire
	if err := c.doJSON(ctx, http.MethodGet, "/sellers", nil, "Failed to fetch sellers", &ws); err != nil {
		return nil, err
	}
	return seller.FromWireList(ws), nil
}

func (c *Client) UpdateSeller(ctx context.Context, id string, in seller.UpdateInput) (seller.Seller, error) {
	var res seller.AuthResponse
	if err := c.doJSON(ctx, http.MethodPut, "/sellers/"+url.PathEscape(id), in, "Failed to update seller", &res); err != nil {
		return seller.Seller{}, err
	}
	return seller.FromWire(res.Seller), nil
}

func (c *Client) DeleteSeller(ctx context.Context, id string) (catalog.CascadeResult, error) {
	var res seller.DeleteResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/sellers/"+url.PathEscape(id), nil, "Failed to delete seller", &res); err != nil {
		return catalog.CascadeResult{}, err
	}
	return catalog.CascadeResult{DeletedServices: res.DeletedServices, DeletedProducts: res.DeletedProducts}, nil
}

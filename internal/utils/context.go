package utils

import "context"

type contextKey string

// SetSellerContext stores the authenticated seller (called by middleware)
func SetSellerContext(ctx context.Context, sellerID, email string) context.Context {
	ctx = context.WithValue(ctx, SellerIDKey, sellerID)
	ctx = context.WithValue(ctx, SellerEmailKey, email)
	ctx = context.WithValue(ctx, ActorRoleKey, RoleSeller)
	return ctx
}

// SetAdminContext marks the request as coming from the admin.
func SetAdminContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ActorRoleKey, RoleAdmin)
}

// GetSellerIDFromContext retrieves sellerID safely
func GetSellerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SellerIDKey).(string)
	return id, ok && id != ""
}

func GetSellerEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(SellerEmailKey).(string)
	return email
}

// GetActorRoleFromContext defaults to guest when no middleware ran.
func GetActorRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(ActorRoleKey).(string)
	if role == "" {
		return RoleGuest
	}
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetActorRoleFromContext(ctx) == RoleAdmin
}

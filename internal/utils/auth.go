package utils

const (
	SellerIDKey    contextKey = "seller_id"
	SellerEmailKey contextKey = "email"
	ActorRoleKey   contextKey = "role"
)

const (
	RoleGuest  = "guest"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

package seller

import "time"

// Wire is the seller document. Older responses carry "id", admin listings
// "_id"; both are emitted and either is accepted.
type Wire struct {
	ID        string     `json:"_id,omitempty"`
	AltID     string     `json:"id,omitempty"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// AuthResponse is the body of a successful register or login.
type AuthResponse struct {
	Success bool   `json:"success"`
	Seller  Wire   `json:"seller"`
	Token   string `json:"token,omitempty"`
}

// VerifyResponse is the body of GET /seller/verify/:id.
type VerifyResponse struct {
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

func ToWire(s Seller) Wire {
	w := Wire{
		ID:        s.ID,
		AltID:     s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Phone:     s.Phone,
	}
	if !s.CreatedAt.IsZero() {
		created := s.CreatedAt
		w.CreatedAt = &created
	}
	return w
}

func FromWire(w Wire) Seller {
	s := Seller{
		ID:        w.ID,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Email:     w.Email,
		Phone:     w.Phone,
	}
	if s.ID == "" {
		s.ID = w.AltID
	}
	if w.CreatedAt != nil {
		s.CreatedAt = *w.CreatedAt
	}
	return s
}

func ToWireList(sellers []Seller) []Wire {
	out := make([]Wire, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, ToWire(s))
	}
	return out
}

func FromWireList(ws []Wire) []Seller {
	out := make([]Seller, 0, len(ws))
	for _, w := range ws {
		out = append(out, FromWire(w))
	}
	return out
}

func ToAuthResponse(res AuthResult) AuthResponse {
	return AuthResponse{Success: true, Seller: ToWire(res.Seller), Token: res.Token}
}

// DeleteResponse is the body of DELETE /sellers/:id.
type DeleteResponse struct {
	Message         string `json:"message"`
	DeletedServices int    `json:"deletedServices"`
	DeletedProducts int    `json:"deletedProducts"`
}

package domain

// Identity is the authenticated caller as reported by the auth service.
type Identity struct {
	UserID  int64
	Email   string
	IsAdmin bool
}

// CanAccess reports whether the caller may act on a resource owned by ownerID.
func (i Identity) CanAccess(ownerID int64) bool {
	return i.IsAdmin || i.UserID == ownerID
}

// TokenPayload is the decoded content of a locally issued bearer token.
type TokenPayload struct {
	UserID int64
}

// BikeInfo is the typed result of a remote bike lookup, decoded once at the
// client boundary.
type BikeInfo struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	PricePerHour float64 `json:"price_per_hour"`
	IsAvailable  bool    `json:"is_available"`
}

package domain

// Identity is the authenticated buyer, or absent when browsing anonymously.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// IsAdmin is a presentation convenience only; the collaborators enforce real
// authorization server-side.
func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}

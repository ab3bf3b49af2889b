package domain

import (
	"regexp"
	"strings"
	"time"
)

// Role is the coarse grouping an identity belongs to. Permissions are granted
// per role by the authorization policy.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Identity is an authenticated principal in the account directory.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasRole reports whether the identity holds exactly role r.
func (i *Identity) HasRole(r Role) bool {
	return i != nil && i.Role == r
}

// HasAnyRole reports whether the identity holds one of roles.
func (i *Identity) HasAnyRole(roles ...Role) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// Session is the live identity and token pair held for a client.
type Session struct {
	Identity Identity `json:"user"`
	Token    string   `json:"token"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Identity.ID != "" && s.Token != ""
}

// CurrentIdentity returns the session identity, or nil without a session.
func (s *Session) CurrentIdentity() *Identity {
	if !s.IsAuthenticated() {
		return nil
	}
	id := s.Identity
	return &id
}

func (s *Session) HasRole(r Role) bool {
	return s.CurrentIdentity().HasRole(r)
}

func (s *Session) HasAnyRole(roles ...Role) bool {
	return s.CurrentIdentity().HasAnyRole(roles...)
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[1-9][\d]{0,15}$`)
	phoneNoise   = strings.NewReplacer(" ", "", "-", "", "\t", "")
)

// ValidEmail applies the loose address shape used across the portal.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone accepts E.164-like numbers once spaces and dashes are removed.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneNoise.Replace(phone))
}

// NormalizeEmail lower-cases and trims an address for comparisons and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registration is the self-service sign-up payload.
type Registration struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Validate checks the sign-up rules and reports every problem found.
func (r Registration) Validate() error {
	v := &ValidationError{}

	switch username := strings.TrimSpace(r.Username); {
	case username == "":
		v.Add("Username is required")
	case len(username) < 3:
		v.Add("Username must be at least 3 characters")
	}

	switch email := strings.TrimSpace(r.Email); {
	case email == "":
		v.Add("Email is required")
	case !ValidEmail(email):
		v.Add("Please enter a valid email address")
	}

	if strings.TrimSpace(r.FirstName) == "" {
		v.Add("First name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		v.Add("Last name is required")
	}

	switch {
	case r.Password == "":
		v.Add("Password is required")
	case len(r.Password) < 6:
		v.Add("Password must be at least 6 characters")
	}
	if r.Password != r.ConfirmPassword {
		v.Add("Passwords do not match")
	}

	if r.Phone != "" && !ValidPhone(r.Phone) {
		v.Add("Please enter a valid phone number")
	}

	return v.OrNil()
}

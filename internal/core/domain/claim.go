package domain

import (
	"slices"
	"strings"
)

// Claim constraints. Every bound is well below what the wire codec can carry.
const (
	// ClaimIDPrefix is the prefix for claim IDs.
	ClaimIDPrefix = "aaacl-"

	MaxClientIDLength = 128
	MaxUserLength     = 256
	MaxRoles          = 256
	MaxRoleLength     = 128
)

// Claim is an authorization grant issued to a client on behalf of a user.
type Claim struct {
	// ID is the unique identifier for the claim.
	ID string `json:"id"`

	// ClientID is the client application the claim was issued to.
	ClientID *string `json:"client_id,omitempty"`

	// UserID identifies the user the claim speaks for.
	UserID *string `json:"user_id,omitempty"`

	// User is the display name or login of the user.
	User *string `json:"user,omitempty"`

	// Domain is the authentication domain of the user.
	Domain *string `json:"domain,omitempty"`

	// Roles granted by the claim. nil means not set.
	Roles []string `json:"roles,omitempty"`
}

// NewClaim creates a claim with a generated ID.
func NewClaim(clientID, userID string, roles ...string) (*Claim, error) {
	id, err := GenerateClaimID()
	if err != nil {
		return nil, err
	}
	c := &Claim{ID: id, ClientID: &clientID, UserID: &userID}
	if roles != nil {
		c.Roles = slices.Clone(roles)
	}
	return c, nil
}

// GenerateClaimID generates a new claim ID.
func GenerateClaimID() (string, error) {
	return generateID(ClaimIDPrefix)
}

// IsValidClaimID checks if a string is a valid claim ID.
func IsValidClaimID(id string) bool {
	return isValidID(id, ClaimIDPrefix)
}

// HasRole reports whether the claim grants role.
func (c *Claim) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Merge copies every non-nil field of patch into c. ID is never changed.
func (c *Claim) Merge(patch *Claim) {
	if patch.ClientID != nil {
		c.ClientID = cloneValue(patch.ClientID)
	}
	if patch.UserID != nil {
		c.UserID = cloneValue(patch.UserID)
	}
	if patch.User != nil {
		c.User = cloneValue(patch.User)
	}
	if patch.Domain != nil {
		c.Domain = cloneValue(patch.Domain)
	}
	if patch.Roles != nil {
		c.Roles = slices.Clone(patch.Roles)
	}
}

// Clone creates a deep copy of the claim.
func (c *Claim) Clone() *Claim {
	return &Claim{
		ID:       c.ID,
		ClientID: cloneValue(c.ClientID),
		UserID:   cloneValue(c.UserID),
		User:     cloneValue(c.User),
		Domain:   cloneValue(c.Domain),
		Roles:    slices.Clone(c.Roles),
	}
}

// Validate validates the claim fields.
func (c *Claim) Validate() error {
	var violations []string

	if !IsValidClaimID(c.ID) {
		violations = append(violations, "id is not a valid claim id")
	}
	if c.ClientID != nil && len(*c.ClientID) > MaxClientIDLength {
		violations = append(violations, "client_id exceeds 128 characters")
	}
	if c.UserID != nil && len(*c.UserID) > MaxUserIDLength {
		violations = append(violations, "user_id exceeds 128 characters")
	}
	if c.User != nil && len(*c.User) > MaxUserLength {
		violations = append(violations, "user exceeds 256 characters")
	}
	if c.Domain != nil && len(*c.Domain) > MaxDomainLength {
		violations = append(violations, "domain exceeds 253 characters")
	}
	if len(c.Roles) > MaxRoles {
		violations = append(violations, "more than 256 roles")
	}
	if slices.Contains(c.Roles, "") {
		violations = append(violations, "roles must not contain empty names")
	}
	if slices.ContainsFunc(c.Roles, func(r string) bool { return len(r) > MaxRoleLength }) {
		violations = append(violations, "role name exceeds 128 characters")
	}

	if len(violations) > 0 {
		return ErrClaimValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

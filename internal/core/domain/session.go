package domain

import (
	"crypto/rand"
	"net"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session constraints.
const (
	MaxUserIDLength = 128
	MaxDomainLength = 253

	// SessionIDPrefix is the prefix for session IDs.
	SessionIDPrefix = "aaass-"
)

// Session is an authenticated user session shared across the cluster.
type Session struct {
	// ID is the unique identifier for the session.
	// Format: aaass-{ulid_lowercase}, 32 characters total.
	ID string `json:"id"`

	// UserID identifies the user who owns this session.
	UserID *string `json:"user_id,omitempty"`

	// Domain is the authentication domain (realm) of the session.
	Domain *string `json:"domain,omitempty"`

	// ClientIP is the address the session was established from.
	ClientIP *string `json:"client_ip,omitempty"`

	// ExpiresAt is the absolute expiration timestamp (Unix milliseconds).
	ExpiresAt *int64 `json:"expires_at,omitempty"`

	// Active is false once the session has been logged out.
	Active *bool `json:"active,omitempty"`
}

// NewSession creates an active session with a generated ID.
func NewSession(userID, domain string, ttl time.Duration) (*Session, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}

	active := true
	s := &Session{
		ID:     id,
		UserID: &userID,
		Domain: &domain,
		Active: &active,
	}
	if ttl > 0 {
		s.SetExpiration(ttl)
	}
	return s, nil
}

// GenerateSessionID generates a new session ID.
func GenerateSessionID() (string, error) {
	return generateID(SessionIDPrefix)
}

func generateID(prefix string) (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return prefix + strings.ToLower(id.String()), nil
}

// IsExpired reports whether the session expired before now.
// A session without ExpiresAt never expires.
func (s *Session) IsExpired(now time.Time) bool {
	if s.ExpiresAt == nil {
		return false
	}
	return now.UnixMilli() > *s.ExpiresAt
}

// IsActive reports whether the session is active and not expired.
func (s *Session) IsActive(now time.Time) bool {
	return s.Active != nil && *s.Active && !s.IsExpired(now)
}

// Check reports why the session cannot be used at now, or nil if it can.
// A session whose Active flag was never replicated counts as inactive.
func (s *Session) Check(now time.Time) error {
	if s.IsExpired(now) {
		return ErrSessionExpired.WithDetails(s.ID)
	}
	if s.Active == nil || !*s.Active {
		return ErrSessionInactive.WithDetails(s.ID)
	}
	return nil
}

// SetExpiration sets ExpiresAt to now+ttl.
func (s *Session) SetExpiration(ttl time.Duration) {
	at := time.Now().Add(ttl).UnixMilli()
	s.ExpiresAt = &at
}

// ExpiresAtTime returns ExpiresAt as time.Time, or the zero time if unset.
func (s *Session) ExpiresAtTime() time.Time {
	if s.ExpiresAt == nil {
		return time.Time{}
	}
	return time.UnixMilli(*s.ExpiresAt)
}

// Merge copies every non-nil field of patch into s. ID is never changed.
func (s *Session) Merge(patch *Session) {
	if patch.UserID != nil {
		s.UserID = cloneValue(patch.UserID)
	}
	if patch.Domain != nil {
		s.Domain = cloneValue(patch.Domain)
	}
	if patch.ClientIP != nil {
		s.ClientIP = cloneValue(patch.ClientIP)
	}
	if patch.ExpiresAt != nil {
		s.ExpiresAt = cloneValue(patch.ExpiresAt)
	}
	if patch.Active != nil {
		s.Active = cloneValue(patch.Active)
	}
}

// Clone creates a deep copy of the session.
func (s *Session) Clone() *Session {
	return &Session{
		ID:        s.ID,
		UserID:    cloneValue(s.UserID),
		Domain:    cloneValue(s.Domain),
		ClientIP:  cloneValue(s.ClientIP),
		ExpiresAt: cloneValue(s.ExpiresAt),
		Active:    cloneValue(s.Active),
	}
}

// Validate validates the session fields against constraints.
// Returns a DomainError with code AAA-SESS-4001 if validation fails.
func (s *Session) Validate() error {
	var violations []string

	if !IsValidSessionID(s.ID) {
		violations = append(violations, "id is not a valid session id")
	}
	if s.UserID != nil && len(*s.UserID) > MaxUserIDLength {
		violations = append(violations, "user_id exceeds 128 characters")
	}
	if s.Domain != nil && len(*s.Domain) > MaxDomainLength {
		violations = append(violations, "domain exceeds 253 characters")
	}
	if s.ClientIP != nil && net.ParseIP(*s.ClientIP) == nil {
		violations = append(violations, "client_ip is not an IP address")
	}

	if len(violations) > 0 {
		return ErrSessionValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// IsValidSessionID checks if a string is a valid session ID.
func IsValidSessionID(id string) bool {
	return isValidID(id, SessionIDPrefix)
}

// isValidID accepts only the lowercase form produced by generateID, so an
// ID has exactly one spelling and therefore one mirror key.
func isValidID(id, prefix string) bool {
	if !strings.HasPrefix(id, prefix) || len(id) != len(prefix)+ulid.EncodedSize {
		return false
	}
	if id != strings.ToLower(id) {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(prefix):]))
	return err == nil
}

func cloneValue[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors the external identity provider's user record. The ID is the
// provider's user id, not generated here.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FullName  *string
	Anonymous bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is the name shown privately (seller views, notifications):
// full name when present, email otherwise.
func (p *Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.Email
}

// PublicLabel is the name shown in public bid history, honouring the
// anonymity flag.
func (p *Profile) PublicLabel() string {
	if p.Anonymous {
		return "anonymous"
	}
	return p.DisplayName()
}

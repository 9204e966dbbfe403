package model

import "time"

// Registration lifecycle states. A row is created PENDING when the
// organization and domain exist upstream, and flips to ACTIVE once the
// mailbox user has been provisioned and registered.
const (
	RegistrationPending = "PENDING"
	RegistrationActive  = "ACTIVE"
)

// OrganizationRegistration is the durable record tracking which owner
// provisioned which organization and domain. At most one row exists per
// (owner_id, vanity_name) pair; the schema enforces this.
type OrganizationRegistration struct {
	ID             string    `json:"id" db:"id"`
	OwnerID        int64     `json:"owner_id" db:"owner_id"`
	EmailUsername  string    `json:"email_username" db:"email_username"`
	VanityName     string    `json:"vanity_name" db:"vanity_name"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	State          string    `json:"state" db:"state"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

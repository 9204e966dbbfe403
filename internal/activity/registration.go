package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.temporal.io/sdk/temporal"

	"github.com/edvin/mailorg/internal/metrics"
	"github.com/edvin/mailorg/internal/model"
	"github.com/edvin/mailorg/internal/platform"
)

// Registration contains activities that read from and update the
// registration database.
type Registration struct {
	db DB
}

// NewRegistration creates a new Registration activity struct.
func NewRegistration(db DB) *Registration {
	return &Registration{db: db}
}

// ClientInfo is the contact name pair used for the mailbox display name.
type ClientInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// GetClientInfo looks up the owning contact's name. An unknown contact
// is a permanent failure; retrying cannot make the row appear.
func (a *Registration) GetClientInfo(ctx context.Context, contactID int64) (*ClientInfo, error) {
	var info ClientInfo
	err := a.db.QueryRow(ctx,
		`SELECT first_name, last_name FROM owners WHERE owner_id = $1 LIMIT 1`, contactID,
	).Scan(&info.FirstName, &info.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("contact %d not found", contactID), "ContactNotFound", err)
		}
		return nil, fmt.Errorf("get client info: %w", err)
	}
	return &info, nil
}

// InsertRegistrationParams holds the parameters for InsertRegistration.
type InsertRegistrationParams struct {
	OwnerID        int64  `json:"owner_id"`
	EmailUsername  string `json:"email_username"`
	VanityName     string `json:"vanity_name"`
	OrganizationID string `json:"organization_id"`
}

// InsertRegistration records the organization in PENDING state. The row
// is the durability checkpoint: once it exists, a later failure leaves
// an auditable trace of the half-provisioned organization.
func (a *Registration) InsertRegistration(ctx context.Context, params InsertRegistrationParams) (string, error) {
	id := platform.NewID()
	_, err := a.db.Exec(ctx,
		`INSERT INTO organization_registrations (id, owner_id, email_username, vanity_name, organization_id, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
		id, params.OwnerID, params.EmailUsername, params.VanityName, params.OrganizationID, model.RegistrationPending,
	)
	if err != nil {
		return "", fmt.Errorf("insert registration: %w", err)
	}
	return id, nil
}

// MarkRegistrationActiveParams holds the parameters for MarkRegistrationActive.
type MarkRegistrationActiveParams struct {
	OwnerID        int64  `json:"owner_id"`
	OrganizationID string `json:"organization_id"`
}

// MarkRegistrationActive flips the registration to ACTIVE. Runs last in
// the create saga, after every provider-side step has succeeded.
func (a *Registration) MarkRegistrationActive(ctx context.Context, params MarkRegistrationActiveParams) error {
	tag, err := a.db.Exec(ctx,
		`UPDATE organization_registrations SET state = $1, updated_at = now()
		 WHERE owner_id = $2 AND organization_id = $3`,
		model.RegistrationActive, params.OwnerID, params.OrganizationID,
	)
	if err != nil {
		return fmt.Errorf("mark registration active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no registration for owner %d organization %s", params.OwnerID, params.OrganizationID)
	}
	metrics.OrganizationsProvisioned.Inc()
	return nil
}

// LookupOrganizationParams holds the parameters for LookupOrganization.
type LookupOrganizationParams struct {
	OwnerID    int64  `json:"owner_id"`
	VanityName string `json:"vanity_name"`
}

// LookupOrganization resolves the organization ID registered for the
// owner and domain. Absence is a permanent failure; the delete saga has
// nothing to act on.
func (a *Registration) LookupOrganization(ctx context.Context, params LookupOrganizationParams) (string, error) {
	var organizationID string
	err := a.db.QueryRow(ctx,
		`SELECT organization_id FROM organization_registrations
		 WHERE owner_id = $1 AND vanity_name = $2 LIMIT 1`,
		params.OwnerID, params.VanityName,
	).Scan(&organizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("no organization registered for owner %d domain %s", params.OwnerID, params.VanityName),
				"RegistrationNotFound", err)
		}
		return "", fmt.Errorf("lookup organization: %w", err)
	}
	return organizationID, nil
}

// DeleteRegistration removes the registration row. Deleting a row that
// is already gone is not an error.
func (a *Registration) DeleteRegistration(ctx context.Context, params LookupOrganizationParams) error {
	_, err := a.db.Exec(ctx,
		`DELETE FROM organization_registrations WHERE owner_id = $1 AND vanity_name = $2`,
		params.OwnerID, params.VanityName,
	)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// GetRegistration retrieves the registration row for an owner and domain.
func (a *Registration) GetRegistration(ctx context.Context, params LookupOrganizationParams) (*model.OrganizationRegistration, error) {
	var r model.OrganizationRegistration
	err := a.db.QueryRow(ctx,
		`SELECT id, owner_id, email_username, vanity_name, organization_id, state, created_at, updated_at
		 FROM organization_registrations WHERE owner_id = $1 AND vanity_name = $2 LIMIT 1`,
		params.OwnerID, params.VanityName,
	).Scan(&r.ID, &r.OwnerID, &r.EmailUsername, &r.VanityName, &r.OrganizationID, &r.State, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &r, nil
}

package request

// CreateOrganization is the trigger payload for provisioning a mailbox
// organization. Domain may arrive in any user-entered form; the handler
// normalizes it before the workflow starts.
type CreateOrganization struct {
	ContactID     int64  `json:"contact_id" validate:"required,gt=0"`
	Domain        string `json:"domain" validate:"required"`
	EmailUsername string `json:"email_username" validate:"required,localpart"`
}

// DeleteOrganization is the trigger payload for tearing down a mailbox
// organization.
type DeleteOrganization struct {
	ContactID int64  `json:"contact_id" validate:"required,gt=0"`
	Domain    string `json:"domain" validate:"required"`
}

// CreateSMTPCredential is the trigger payload for provisioning an SMTP
// sending credential.
type CreateSMTPCredential struct {
	ContactID int64  `json:"contact_id" validate:"required,gt=0"`
	Domain    string `json:"domain" validate:"required"`
}

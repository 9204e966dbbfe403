package model

// CleanupPolicy names how a teardown step treats its own failure.
// CleanupStrict failures abort the workflow; CleanupBestEffort failures
// are logged and the workflow continues. The delete path's registration
// row cleanup is the only best-effort step.
type CleanupPolicy string

const (
	CleanupStrict     CleanupPolicy = "strict"
	CleanupBestEffort CleanupPolicy = "best-effort"
)

// CreateOrganizationParams is the input to CreateOrganizationWorkflow.
// VanityName is the fully-qualified domain and OrganizationName its
// derived second-level label; both come normalized from the trigger.
type CreateOrganizationParams struct {
	ContactID        int64  `json:"contact_id"`
	OrganizationName string `json:"organization_name"`
	VanityName       string `json:"vanity_name"`
	EmailUsername    string `json:"email_username"`
	EmailAddress     string `json:"email_address"`
}

// CreateOrganizationResult reports what the create saga provisioned.
type CreateOrganizationResult struct {
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	EmailAddress   string `json:"email_address"`
	HostedZoneID   string `json:"hosted_zone_id,omitempty"`
}

// DeleteOrganizationParams is the input to DeleteOrganizationWorkflow.
type DeleteOrganizationParams struct {
	ContactID  int64  `json:"contact_id"`
	VanityName string `json:"vanity_name"`
}

// DeleteOrganizationResult carries the mail service's view of the
// deleted organization. It is reported even when local row cleanup
// failed, since the upstream deletion already happened.
type DeleteOrganizationResult struct {
	OrganizationID string `json:"organization_id"`
	State          string `json:"state"`
}

// CreateSMTPCredentialParams is the input to CreateSMTPCredentialWorkflow.
type CreateSMTPCredentialParams struct {
	ContactID  int64  `json:"contact_id"`
	VanityName string `json:"vanity_name"`
}

// SMTPCredential is an IAM sending credential scoped to one domain
// identity. The secret key is delivered to the CRM and never logged.
type SMTPCredential struct {
	UserName        string `json:"user_name"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

package activity

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/edvin/mailorg/internal/metrics"
	"github.com/edvin/mailorg/internal/model"
	"github.com/edvin/mailorg/internal/platform"
	"github.com/edvin/mailorg/internal/workmail"
)

const mailboxPasswordLength = 12

// WorkMail contains activities that call the hosted mail service.
type WorkMail struct {
	client *workmail.Client
	routes workmail.NotificationRoutes
}

// NewWorkMail creates a new WorkMail activity struct.
func NewWorkMail(client *workmail.Client, routes workmail.NotificationRoutes) *WorkMail {
	return &WorkMail{client: client, routes: routes}
}

// CreateOrganizationParams holds the parameters for CreateOrganization.
type CreateOrganizationParams struct {
	Alias            string `json:"alias"`
	IdempotencyToken string `json:"idempotency_token"`
}

// CreateOrganization starts provisioning an organization and returns
// its ID. The organization is not usable until it reaches ACTIVE.
func (a *WorkMail) CreateOrganization(ctx context.Context, params CreateOrganizationParams) (string, error) {
	return a.client.CreateOrganization(ctx, params.Alias, params.IdempotencyToken)
}

// DescribeOrganization reports the organization's lifecycle state.
func (a *WorkMail) DescribeOrganization(ctx context.Context, organizationID string) (workmail.OrganizationStatus, error) {
	return a.client.DescribeOrganization(ctx, organizationID)
}

// RegisterMailDomainParams holds the parameters for RegisterMailDomain.
type RegisterMailDomainParams struct {
	OrganizationID   string `json:"organization_id"`
	Domain           string `json:"domain"`
	IdempotencyToken string `json:"idempotency_token"`
}

// RegisterMailDomain attaches the vanity domain to the organization.
func (a *WorkMail) RegisterMailDomain(ctx context.Context, params RegisterMailDomainParams) error {
	return a.client.RegisterMailDomain(ctx, params.OrganizationID, params.Domain, params.IdempotencyToken)
}

// CreateMailboxUserParams holds the parameters for CreateMailboxUser.
type CreateMailboxUserParams struct {
	OrganizationID string `json:"organization_id"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	EmailAddress   string `json:"email_address"`
}

// CreateMailboxUserResult carries the new user's ID and its generated
// password. The password travels to the CRM custom-field step and is
// never logged.
type CreateMailboxUserResult struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// CreateMailboxUser creates the mailbox user with a generated password
// and enables mail for it. User creation carries no idempotency token
// upstream, so the workflow runs this activity with a single attempt; a
// duplicate-entity failure after a partial earlier run is permanent.
func (a *WorkMail) CreateMailboxUser(ctx context.Context, params CreateMailboxUserParams) (*CreateMailboxUserResult, error) {
	password, err := platform.NewPassword(mailboxPasswordLength)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError("generate mailbox password", "PasswordGeneration", err)
	}

	userID, err := a.client.CreateUser(ctx, params.OrganizationID, params.Username, params.DisplayName, password)
	if err != nil {
		return nil, err
	}

	if err := a.client.RegisterToMailbox(ctx, params.OrganizationID, userID, params.EmailAddress); err != nil {
		return nil, fmt.Errorf("register mailbox for user %s: %w", userID, err)
	}

	return &CreateMailboxUserResult{UserID: userID, Password: password}, nil
}

// MailDomainParams identifies a domain within an organization.
type MailDomainParams struct {
	OrganizationID string `json:"organization_id"`
	Domain         string `json:"domain"`
}

// GetMailDomainRecords returns the DNS records the mail service expects
// for the domain.
func (a *WorkMail) GetMailDomainRecords(ctx context.Context, params MailDomainParams) ([]model.DNSRecord, error) {
	return a.client.GetMailDomainRecords(ctx, params.OrganizationID, params.Domain)
}

// CheckDomainVerification reports the domain's verification states.
func (a *WorkMail) CheckDomainVerification(ctx context.Context, params MailDomainParams) (model.DomainVerification, error) {
	return a.client.CheckDomainVerification(ctx, params.OrganizationID, params.Domain)
}

// SetNotificationRoutes points the domain's bounce, complaint, and
// delivery notifications at the configured topics.
func (a *WorkMail) SetNotificationRoutes(ctx context.Context, domain string) error {
	return a.client.SetNotificationRoutes(ctx, domain, a.routes)
}

// DeleteOrganizationParams holds the parameters for DeleteOrganization.
type DeleteOrganizationParams struct {
	OrganizationID   string `json:"organization_id"`
	IdempotencyToken string `json:"idempotency_token"`
}

// DeleteOrganization force-deletes the organization and its directory.
func (a *WorkMail) DeleteOrganization(ctx context.Context, params DeleteOrganizationParams) (*model.DeleteOrganizationResult, error) {
	result, err := a.client.DeleteOrganization(ctx, params.OrganizationID, params.IdempotencyToken)
	if err != nil {
		return nil, err
	}
	metrics.OrganizationsDeleted.Inc()
	return &result, nil
}

// Package workmail adapts the AWS WorkMail and SES APIs to the
// provisioner's domain types. All provider errors are classified into
// the static taxonomy here, at the boundary.
package workmail

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	awsworkmail "github.com/aws/aws-sdk-go-v2/service/workmail"
	"github.com/aws/aws-sdk-go-v2/service/workmail/types"

	"github.com/edvin/mailorg/internal/apperr"
	"github.com/edvin/mailorg/internal/model"
)

// API is the subset of the WorkMail client the adapter uses.
type API interface {
	CreateOrganization(ctx context.Context, params *awsworkmail.CreateOrganizationInput, optFns ...func(*awsworkmail.Options)) (*awsworkmail.CreateOrganizationOutput, error)
	DescribeOrganization(ctx context.Context, params *awsworkmail.DescribeOrganizationInput, optFns ...func(*awsworkmail.Options)) (*awsworkmail.DescribeOrganizationOutput, error)
	RegisterMailDomain(ctx context.Context, params *awsworkmail.RegisterMailDomainInput, optFns ...func(*awsworkmail.Options)) (*awsworkmail.RegisterMailDomainOutput, error)
	GetMailDomain(ctx context.Context, params *awsworkmail.GetMailDomainInput, optFns ...func(*awsworkmail.Options)) (*awsworkmail.GetMailDomainOutput, error)
	CreateUser(ctx context.Context, params *awsworkmail.CreateUserInput, optFns ...func(*awsworkmail.Options)) (*awsworkmail.CreateUserOutput, error)
	RegisterToWorkMail(ctx context.Context, params *awsworkmail.RegisterToWorkMailInput, optFns ...func(*awsworkmail.Options)) (*awsworkmail.RegisterToWorkMailOutput, error)
	DeleteOrganization(ctx context.Context, params *awsworkmail.DeleteOrganizationInput, optFns ...func(*awsworkmail.Options)) (*awsworkmail.DeleteOrganizationOutput, error)
}

// SESAPI is the subset of the SES client used for notification routing.
type SESAPI interface {
	SetIdentityNotificationTopic(ctx context.Context, params *ses.SetIdentityNotificationTopicInput, optFns ...func(*ses.Options)) (*ses.SetIdentityNotificationTopicOutput, error)
}

// OrganizationStatus is one observation of the provisioning state
// machine. State is uppercased so comparisons are uniform regardless of
// provider casing.
type OrganizationStatus struct {
	State        string
	ErrorMessage string
}

type Client struct {
	api API
	ses SESAPI
}

func NewClient(api API, sesAPI SESAPI) *Client {
	return &Client{api: api, ses: sesAPI}
}

// CreateOrganization starts provisioning a new organization under the
// given alias and returns its ID. The idempotency token makes retries
// after ambiguous failures converge on one organization.
func (c *Client) CreateOrganization(ctx context.Context, alias, idempotencyToken string) (string, error) {
	const op = "workmail.CreateOrganization"

	out, err := c.api.CreateOrganization(ctx, &awsworkmail.CreateOrganizationInput{
		Alias:       aws.String(alias),
		ClientToken: aws.String(idempotencyToken),
	})
	if err != nil {
		return "", apperr.FromAWS(op, err)
	}
	if out.OrganizationId == nil {
		return "", apperr.New(apperr.KindUpstream, op, "provider returned no organization id")
	}
	return *out.OrganizationId, nil
}

// DescribeOrganization reports the organization's current lifecycle
// state and, for failed organizations, the provider's error message.
func (c *Client) DescribeOrganization(ctx context.Context, organizationID string) (OrganizationStatus, error) {
	const op = "workmail.DescribeOrganization"

	out, err := c.api.DescribeOrganization(ctx, &awsworkmail.DescribeOrganizationInput{
		OrganizationId: aws.String(organizationID),
	})
	if err != nil {
		return OrganizationStatus{}, apperr.FromAWS(op, err)
	}

	return OrganizationStatus{
		State:        strings.ToUpper(aws.ToString(out.State)),
		ErrorMessage: aws.ToString(out.ErrorMessage),
	}, nil
}

// RegisterMailDomain attaches the vanity domain to the organization.
func (c *Client) RegisterMailDomain(ctx context.Context, organizationID, domain, idempotencyToken string) error {
	const op = "workmail.RegisterMailDomain"

	_, err := c.api.RegisterMailDomain(ctx, &awsworkmail.RegisterMailDomainInput{
		OrganizationId: aws.String(organizationID),
		DomainName:     aws.String(domain),
		ClientToken:    aws.String(idempotencyToken),
	})
	if err != nil {
		return apperr.FromAWS(op, err)
	}
	return nil
}

// GetMailDomainRecords returns the DNS records the mail service expects
// to exist for the domain.
func (c *Client) GetMailDomainRecords(ctx context.Context, organizationID, domain string) ([]model.DNSRecord, error) {
	const op = "workmail.GetMailDomain"

	out, err := c.api.GetMailDomain(ctx, &awsworkmail.GetMailDomainInput{
		OrganizationId: aws.String(organizationID),
		DomainName:     aws.String(domain),
	})
	if err != nil {
		return nil, apperr.FromAWS(op, err)
	}

	records := make([]model.DNSRecord, 0, len(out.Records))
	for _, r := range out.Records {
		records = append(records, model.DNSRecord{
			Type:     aws.ToString(r.Type),
			Hostname: aws.ToString(r.Hostname),
			Value:    aws.ToString(r.Value),
		})
	}
	return records, nil
}

// CheckDomainVerification reports the domain's ownership and DKIM
// verification states. A response missing either status is treated as a
// malformed provider response, not as unverified.
func (c *Client) CheckDomainVerification(ctx context.Context, organizationID, domain string) (model.DomainVerification, error) {
	const op = "workmail.GetMailDomain"

	out, err := c.api.GetMailDomain(ctx, &awsworkmail.GetMailDomainInput{
		OrganizationId: aws.String(organizationID),
		DomainName:     aws.String(domain),
	})
	if err != nil {
		return model.DomainVerification{}, apperr.FromAWS(op, err)
	}

	ownership := string(out.OwnershipVerificationStatus)
	dkim := string(out.DkimVerificationStatus)
	if ownership == "" || dkim == "" {
		return model.DomainVerification{}, apperr.New(apperr.KindUpstream, op, "provider response missing verification status")
	}

	return model.DomainVerification{
		Ownership: ownership,
		DKIM:      dkim,
		Verified:  ownership == model.VerificationVerified && dkim == model.VerificationVerified,
	}, nil
}

// CreateUser creates a directory user with the given display name and
// password. The user is not mail-enabled until RegisterToMailbox runs.
func (c *Client) CreateUser(ctx context.Context, organizationID, username, displayName, password string) (string, error) {
	const op = "workmail.CreateUser"

	out, err := c.api.CreateUser(ctx, &awsworkmail.CreateUserInput{
		OrganizationId: aws.String(organizationID),
		Name:           aws.String(username),
		DisplayName:    aws.String(displayName),
		Password:       aws.String(password),
		Role:           types.UserRoleUser,
	})
	if err != nil {
		return "", apperr.FromAWS(op, err)
	}
	if out.UserId == nil {
		return "", apperr.New(apperr.KindUpstream, op, "provider returned no user id")
	}
	return *out.UserId, nil
}

// RegisterToMailbox enables mail for the user at the given address.
func (c *Client) RegisterToMailbox(ctx context.Context, organizationID, userID, email string) error {
	const op = "workmail.RegisterToWorkMail"

	_, err := c.api.RegisterToWorkMail(ctx, &awsworkmail.RegisterToWorkMailInput{
		OrganizationId: aws.String(organizationID),
		EntityId:       aws.String(userID),
		Email:          aws.String(email),
	})
	if err != nil {
		return apperr.FromAWS(op, err)
	}
	return nil
}

// DeleteOrganization force-deletes the organization and its directory,
// and returns the provider's view of the deletion.
func (c *Client) DeleteOrganization(ctx context.Context, organizationID, idempotencyToken string) (model.DeleteOrganizationResult, error) {
	const op = "workmail.DeleteOrganization"

	out, err := c.api.DeleteOrganization(ctx, &awsworkmail.DeleteOrganizationInput{
		OrganizationId:  aws.String(organizationID),
		ClientToken:     aws.String(idempotencyToken),
		DeleteDirectory: true,
		ForceDelete:     true,
	})
	if err != nil {
		return model.DeleteOrganizationResult{}, apperr.FromAWS(op, err)
	}

	return model.DeleteOrganizationResult{
		OrganizationID: aws.ToString(out.OrganizationId),
		State:          strings.ToUpper(aws.ToString(out.State)),
	}, nil
}

// NotificationRoutes holds the SNS topic for each SES notification type.
// Empty targets are skipped.
type NotificationRoutes struct {
	BounceARN    string
	ComplaintARN string
	DeliveryARN  string
}

// SetNotificationRoutes points the domain identity's bounce, complaint,
// and delivery notifications at the configured SNS topics.
func (c *Client) SetNotificationRoutes(ctx context.Context, domain string, routes NotificationRoutes) error {
	const op = "ses.SetIdentityNotificationTopic"

	targets := []struct {
		kind sestypes.NotificationType
		arn  string
	}{
		{sestypes.NotificationTypeBounce, routes.BounceARN},
		{sestypes.NotificationTypeComplaint, routes.ComplaintARN},
		{sestypes.NotificationTypeDelivery, routes.DeliveryARN},
	}

	for _, t := range targets {
		if t.arn == "" {
			continue
		}
		_, err := c.ses.SetIdentityNotificationTopic(ctx, &ses.SetIdentityNotificationTopicInput{
			Identity:         aws.String(domain),
			NotificationType: t.kind,
			SnsTopic:         aws.String(t.arn),
		})
		if err != nil {
			return apperr.FromAWS(op, err)
		}
	}
	return nil
}

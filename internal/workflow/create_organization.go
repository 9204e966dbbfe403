package workflow

import (
	"encoding/json"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/edvin/mailorg/internal/activity"
	"github.com/edvin/mailorg/internal/crm"
	"github.com/edvin/mailorg/internal/model"
	"github.com/edvin/mailorg/internal/platform"
)

// TaskQueue is the Temporal task queue shared by the API and the worker.
const TaskQueue = "mailorg-tasks"

const (
	activationPollInterval = 2 * time.Second
	activationPollBudget   = 11
)

// CreateOrganizationWorkflow provisions a hosted mailbox organization:
// mail-service organization and domain, registration row, mailbox user,
// notification routing, hosted zone, and CRM updates. There is no
// compensation; a failure after the registration row exists leaves it
// PENDING as the audit trace of the half-provisioned organization.
func CreateOrganizationWorkflow(ctx workflow.Context, params model.CreateOrganizationParams) (*model.CreateOrganizationResult, error) {
	logger := workflow.GetLogger(ctx)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    1 * time.Second,
			MaximumInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var client activity.ClientInfo
	err := workflow.ExecuteActivity(ctx, "GetClientInfo", params.ContactID).Get(ctx, &client)
	if err != nil {
		return nil, err
	}

	// One token for organization and domain creation, so retries after
	// ambiguous failures converge on the same upstream resources.
	token, err := newIdempotencyToken(ctx)
	if err != nil {
		return nil, err
	}

	var organizationID string
	err = workflow.ExecuteActivity(ctx, "CreateOrganization", activity.CreateOrganizationParams{
		Alias:            params.OrganizationName,
		IdempotencyToken: token,
	}).Get(ctx, &organizationID)
	if err != nil {
		return nil, err
	}

	if err := waitForOrganizationActive(ctx, organizationID); err != nil {
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, "RegisterMailDomain", activity.RegisterMailDomainParams{
		OrganizationID:   organizationID,
		Domain:           params.VanityName,
		IdempotencyToken: token,
	}).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	var registrationID string
	err = workflow.ExecuteActivity(ctx, "InsertRegistration", activity.InsertRegistrationParams{
		OwnerID:        params.ContactID,
		EmailUsername:  params.EmailUsername,
		VanityName:     params.VanityName,
		OrganizationID: organizationID,
	}).Get(ctx, &registrationID)
	if err != nil {
		return nil, err
	}
	logger.Info("registration recorded", "registration_id", registrationID, "organization_id", organizationID)

	err = workflow.ExecuteActivity(ctx, "CRMApplyTag", activity.ApplyTagParams{
		ContactID: params.ContactID,
		Tag:       activity.TagPending,
	}).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	// User creation has no idempotency token upstream; a retry after an
	// ambiguous failure could collide with a half-created user, so the
	// activity runs once.
	userCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
	var user activity.CreateMailboxUserResult
	err = workflow.ExecuteActivity(userCtx, "CreateMailboxUser", activity.CreateMailboxUserParams{
		OrganizationID: organizationID,
		Username:       params.EmailUsername,
		DisplayName:    strings.TrimSpace(client.FirstName + " " + client.LastName),
		EmailAddress:   params.EmailAddress,
	}).Get(ctx, &user)
	if err != nil {
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, "SetNotificationRoutes", params.VanityName).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	var records []model.DNSRecord
	err = workflow.ExecuteActivity(ctx, "GetMailDomainRecords", activity.MailDomainParams{
		OrganizationID: organizationID,
		Domain:         params.VanityName,
	}).Get(ctx, &records)
	if err != nil {
		return nil, err
	}

	var hostedZoneID string
	err = workflow.ExecuteActivity(ctx, "CreateHostedZone", activity.CreateHostedZoneParams{
		Domain:           params.VanityName,
		IdempotencyToken: token,
	}).Get(ctx, &hostedZoneID)
	if err != nil {
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, "UpsertDNSRecords", activity.UpsertDNSRecordsParams{
		ZoneID:  hostedZoneID,
		Records: records,
	}).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	noteText, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	err = workflow.ExecuteActivity(ctx, "CRMCreateNote", activity.CreateNoteParams{
		ContactID: params.ContactID,
		Title:     "Mailbox DNS records for " + params.VanityName,
		Text:      string(noteText),
	}).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, "CRMUpdateCustomFields", activity.UpdateCustomFieldsParams{
		ContactID: params.ContactID,
		Fields:    mailboxFieldUpdates(records, params.EmailAddress, user.Password, params.OrganizationName),
	}).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, "CRMApplyTag", activity.ApplyTagParams{
		ContactID: params.ContactID,
		Tag:       activity.TagComplete,
	}).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, "MarkRegistrationActive", activity.MarkRegistrationActiveParams{
		OwnerID:        params.ContactID,
		OrganizationID: organizationID,
	}).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &model.CreateOrganizationResult{
		OrganizationID: organizationID,
		UserID:         user.UserID,
		EmailAddress:   params.EmailAddress,
		HostedZoneID:   hostedZoneID,
	}, nil
}

// waitForOrganizationActive polls the organization state every two
// seconds. FAILED surfaces the provider's message; an organization
// still not terminal after the last allowed poll fails permanently.
func waitForOrganizationActive(ctx workflow.Context, organizationID string) error {
	for attempt := 1; ; attempt++ {
		if err := workflow.Sleep(ctx, activationPollInterval); err != nil {
			return err
		}

		var status struct {
			State        string
			ErrorMessage string
		}
		err := workflow.ExecuteActivity(ctx, "DescribeOrganization", organizationID).Get(ctx, &status)
		if err != nil {
			return err
		}

		switch status.State {
		case "ACTIVE":
			return nil
		case "FAILED":
			return temporal.NewNonRetryableApplicationError(
				"organization "+organizationID+" failed to provision: "+status.ErrorMessage,
				"OrganizationProvisioningFailed", nil)
		}

		if attempt >= activationPollBudget {
			return temporal.NewNonRetryableApplicationError(
				"organization "+organizationID+" took too long to become active",
				"ActivationTimeout", nil)
		}
	}
}

// newIdempotencyToken draws a token once and pins it into history, so a
// replayed workflow reuses the same value.
func newIdempotencyToken(ctx workflow.Context) (string, error) {
	var token string
	err := workflow.SideEffect(ctx, func(ctx workflow.Context) any {
		return platform.NewID()
	}).Get(&token)
	if err != nil {
		return "", err
	}
	return token, nil
}

// mailboxFieldUpdates maps the provisioned mailbox onto the contact's
// custom fields: the expected DNS records (API1 through API5), the new
// address and its credential (API6, API7), and the webmail URL (API8).
func mailboxFieldUpdates(records []model.DNSRecord, email, password, orgName string) []crm.CustomField {
	fields := []crm.CustomField{}

	dkimField := 3
	for _, r := range records {
		switch {
		case r.Type == "MX":
			fields = append(fields, crm.CustomField{ID: "API1", Content: r.Value})
		case r.Type == "TXT" && strings.Contains(r.Hostname, "_amazonses"):
			fields = append(fields, crm.CustomField{ID: "API2", Content: r.Value})
		case strings.Contains(r.Hostname, "_domainkey") && dkimField <= 5:
			fields = append(fields, crm.CustomField{
				ID:      "API" + string(rune('0'+dkimField)),
				Content: r.Hostname + " " + r.Value,
			})
			dkimField++
		}
	}

	fields = append(fields,
		crm.CustomField{ID: "API6", Content: email},
		crm.CustomField{ID: "API7", Content: password},
		crm.CustomField{ID: "API8", Content: "https://" + orgName + ".awsapps.com/mail"},
	)
	return fields
}

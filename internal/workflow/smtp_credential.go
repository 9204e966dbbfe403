package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/edvin/mailorg/internal/activity"
	"github.com/edvin/mailorg/internal/crm"
	"github.com/edvin/mailorg/internal/model"
)

// CreateSMTPCredentialWorkflow provisions an IAM sending credential for
// an organization's domain and delivers it to the contact record. The
// domain must already be registered to the contact.
func CreateSMTPCredentialWorkflow(ctx workflow.Context, params model.CreateSMTPCredentialParams) (*model.SMTPCredential, error) {
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

	var organizationID string
	err := workflow.ExecuteActivity(ctx, "LookupOrganization", activity.LookupOrganizationParams{
		OwnerID:    params.ContactID,
		VanityName: params.VanityName,
	}).Get(ctx, &organizationID)
	if err != nil {
		return nil, err
	}

	// Access key creation is not idempotent; run once so a retry cannot
	// mint keys that nothing records.
	credCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
	var credential model.SMTPCredential
	err = workflow.ExecuteActivity(credCtx, "CreateSMTPUser", params.VanityName).Get(ctx, &credential)
	if err != nil {
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, "CRMUpdateCustomFields", activity.UpdateCustomFieldsParams{
		ContactID: params.ContactID,
		Fields: []crm.CustomField{
			{ID: "SMTP1", Content: credential.UserName},
			{ID: "SMTP2", Content: credential.AccessKeyID},
			{ID: "SMTP3", Content: credential.SecretAccessKey},
		},
	}).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &credential, nil
}

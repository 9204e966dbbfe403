package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/edvin/mailorg/internal/activity"
	"github.com/edvin/mailorg/internal/model"
)

// DeleteOrganizationWorkflow tears down a mailbox organization: the
// mail-service organization is force-deleted, the registration row is
// removed, and the contact is tagged cancelled. The upstream deletion
// is the step that matters; local row cleanup is best effort.
func DeleteOrganizationWorkflow(ctx workflow.Context, params model.DeleteOrganizationParams) (*model.DeleteOrganizationResult, error) {
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

	// Fresh token: deleting must never converge with an earlier create.
	token, err := newIdempotencyToken(ctx)
	if err != nil {
		return nil, err
	}

	var result model.DeleteOrganizationResult
	err = workflow.ExecuteActivity(ctx, "DeleteOrganization", activity.DeleteOrganizationParams{
		OrganizationID:   organizationID,
		IdempotencyToken: token,
	}).Get(ctx, &result)
	if err != nil {
		return nil, err
	}

	if err := removeRegistration(ctx, model.CleanupBestEffort, activity.LookupOrganizationParams{
		OwnerID:    params.ContactID,
		VanityName: params.VanityName,
	}); err != nil {
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, "CRMApplyTag", activity.ApplyTagParams{
		ContactID: params.ContactID,
		Tag:       activity.TagCancelled,
	}).Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// removeRegistration deletes the registration row under the given
// cleanup policy. Best-effort failures are logged and swallowed; the
// orphaned row is visible in the database either way.
func removeRegistration(ctx workflow.Context, policy model.CleanupPolicy, params activity.LookupOrganizationParams) error {
	err := workflow.ExecuteActivity(ctx, "DeleteRegistration", params).Get(ctx, nil)
	if err != nil && policy == model.CleanupBestEffort {
		workflow.GetLogger(ctx).Warn("registration row cleanup failed",
			"owner_id", params.OwnerID, "vanity_name", params.VanityName, "error", err)
		return nil
	}
	return err
}

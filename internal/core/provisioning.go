package core

import (
	"context"
	"fmt"

	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/mailorg/internal/model"
	"github.com/edvin/mailorg/internal/workflow"
)

// ProvisioningService starts provisioning workflows and reads back
// registration state. Workflow IDs are deterministic per contact and
// domain, so a duplicate trigger attaches to the run already in flight
// instead of provisioning twice.
type ProvisioningService struct {
	db DB
	tc temporalclient.Client
}

func NewProvisioningService(db DB, tc temporalclient.Client) *ProvisioningService {
	return &ProvisioningService{db: db, tc: tc}
}

func (s *ProvisioningService) StartCreate(ctx context.Context, params model.CreateOrganizationParams) (string, error) {
	run, err := s.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        fmt.Sprintf("mailorg-create-%d-%s", params.ContactID, params.VanityName),
		TaskQueue: workflow.TaskQueue,
	}, "CreateOrganizationWorkflow", params)
	if err != nil {
		return "", fmt.Errorf("start CreateOrganizationWorkflow: %w", err)
	}
	return run.GetID(), nil
}

func (s *ProvisioningService) StartDelete(ctx context.Context, params model.DeleteOrganizationParams) (string, error) {
	run, err := s.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        fmt.Sprintf("mailorg-delete-%d-%s", params.ContactID, params.VanityName),
		TaskQueue: workflow.TaskQueue,
	}, "DeleteOrganizationWorkflow", params)
	if err != nil {
		return "", fmt.Errorf("start DeleteOrganizationWorkflow: %w", err)
	}
	return run.GetID(), nil
}

func (s *ProvisioningService) StartSMTPCredential(ctx context.Context, params model.CreateSMTPCredentialParams) (string, error) {
	run, err := s.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        fmt.Sprintf("mailorg-smtp-%d-%s", params.ContactID, params.VanityName),
		TaskQueue: workflow.TaskQueue,
	}, "CreateSMTPCredentialWorkflow", params)
	if err != nil {
		return "", fmt.Errorf("start CreateSMTPCredentialWorkflow: %w", err)
	}
	return run.GetID(), nil
}

// GetRegistration retrieves the registration for a contact and domain.
func (s *ProvisioningService) GetRegistration(ctx context.Context, contactID int64, vanityName string) (*model.OrganizationRegistration, error) {
	var r model.OrganizationRegistration
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, email_username, vanity_name, organization_id, state, created_at, updated_at
		 FROM organization_registrations WHERE owner_id = $1 AND vanity_name = $2 LIMIT 1`,
		contactID, vanityName,
	).Scan(&r.ID, &r.OwnerID, &r.EmailUsername, &r.VanityName, &r.OrganizationID, &r.State, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get registration for contact %d domain %s: %w", contactID, vanityName, err)
	}
	return &r, nil
}

package workflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/edvin/mailorg/internal/activity"
	"github.com/edvin/mailorg/internal/model"
)

type DeleteOrganizationWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *DeleteOrganizationWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	registerActivities(s.env)
}

func (s *DeleteOrganizationWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func deleteParams() model.DeleteOrganizationParams {
	return model.DeleteOrganizationParams{ContactID: 42, VanityName: "example.com"}
}

func (s *DeleteOrganizationWorkflowTestSuite) TestSuccess() {
	s.env.OnActivity("LookupOrganization", mock.Anything, activity.LookupOrganizationParams{
		OwnerID: 42, VanityName: "example.com",
	}).Return("m-org-1", nil)
	s.env.OnActivity("DeleteOrganization", mock.Anything, mock.Anything).
		Return(&model.DeleteOrganizationResult{OrganizationID: "m-org-1", State: "DELETED"}, nil)
	s.env.OnActivity("DeleteRegistration", mock.Anything, activity.LookupOrganizationParams{
		OwnerID: 42, VanityName: "example.com",
	}).Return(nil)
	s.env.OnActivity("CRMApplyTag", mock.Anything, activity.ApplyTagParams{
		ContactID: 42, Tag: activity.TagCancelled,
	}).Return(nil)

	s.env.ExecuteWorkflow(DeleteOrganizationWorkflow, deleteParams())
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result model.DeleteOrganizationResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal("m-org-1", result.OrganizationID)
	s.Equal("DELETED", result.State)
}

func (s *DeleteOrganizationWorkflowTestSuite) TestUnknownRegistrationStopsBeforeDeletion() {
	s.env.OnActivity("LookupOrganization", mock.Anything, activity.LookupOrganizationParams{
		OwnerID: 42, VanityName: "example.com",
	}).Return("", temporal.NewNonRetryableApplicationError("no organization registered", "RegistrationNotFound", nil))

	// No DeleteOrganization mock: nothing upstream may be touched.
	s.env.ExecuteWorkflow(DeleteOrganizationWorkflow, deleteParams())
	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func (s *DeleteOrganizationWorkflowTestSuite) TestRowCleanupFailureStillCompletes() {
	s.env.OnActivity("LookupOrganization", mock.Anything, mock.Anything).Return("m-org-1", nil)
	s.env.OnActivity("DeleteOrganization", mock.Anything, mock.Anything).
		Return(&model.DeleteOrganizationResult{OrganizationID: "m-org-1", State: "DELETED"}, nil)
	s.env.OnActivity("DeleteRegistration", mock.Anything, mock.Anything).
		Return(fmt.Errorf("database unavailable"))
	s.env.OnActivity("CRMApplyTag", mock.Anything, activity.ApplyTagParams{
		ContactID: 42, Tag: activity.TagCancelled,
	}).Return(nil)

	s.env.ExecuteWorkflow(DeleteOrganizationWorkflow, deleteParams())
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result model.DeleteOrganizationResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal("DELETED", result.State)
}

func TestDeleteOrganizationWorkflow(t *testing.T) {
	suite.Run(t, new(DeleteOrganizationWorkflowTestSuite))
}

package workmail

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsworkmail "github.com/aws/aws-sdk-go-v2/service/workmail"
	"github.com/aws/aws-sdk-go-v2/service/workmail/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mailorg/internal/apperr"
)

type fakeAPI struct {
	API

	describeOut  *awsworkmail.DescribeOrganizationOutput
	getDomainOut *awsworkmail.GetMailDomainOutput
	err          error
}

func (f *fakeAPI) DescribeOrganization(ctx context.Context, params *awsworkmail.DescribeOrganizationInput, optFns ...func(*awsworkmail.Options)) (*awsworkmail.DescribeOrganizationOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.describeOut, nil
}

func (f *fakeAPI) GetMailDomain(ctx context.Context, params *awsworkmail.GetMailDomainInput, optFns ...func(*awsworkmail.Options)) (*awsworkmail.GetMailDomainOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.getDomainOut, nil
}

func TestDescribeOrganizationUppercasesState(t *testing.T) {
	c := NewClient(&fakeAPI{describeOut: &awsworkmail.DescribeOrganizationOutput{
		State:        aws.String("Active"),
		ErrorMessage: aws.String(""),
	}}, nil)

	status, err := c.DescribeOrganization(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", status.State)
}

func TestDescribeOrganizationClassifiesNotFound(t *testing.T) {
	c := NewClient(&fakeAPI{err: &smithy.GenericAPIError{
		Code:    "OrganizationNotFoundException",
		Message: "no such organization",
	}}, nil)

	_, err := c.DescribeOrganization(context.Background(), "m-missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindBusiness, apperr.KindOf(err))
}

func TestCheckDomainVerificationBothVerified(t *testing.T) {
	c := NewClient(&fakeAPI{getDomainOut: &awsworkmail.GetMailDomainOutput{
		OwnershipVerificationStatus: types.DnsRecordVerificationStatusVerified,
		DkimVerificationStatus:      types.DnsRecordVerificationStatusVerified,
	}}, nil)

	v, err := c.CheckDomainVerification(context.Background(), "m-1", "example.com")
	require.NoError(t, err)
	assert.True(t, v.Verified)
	assert.Equal(t, "VERIFIED", v.Ownership)
	assert.Equal(t, "VERIFIED", v.DKIM)
}

func TestCheckDomainVerificationPendingDKIM(t *testing.T) {
	c := NewClient(&fakeAPI{getDomainOut: &awsworkmail.GetMailDomainOutput{
		OwnershipVerificationStatus: types.DnsRecordVerificationStatusVerified,
		DkimVerificationStatus:      types.DnsRecordVerificationStatusPending,
	}}, nil)

	v, err := c.CheckDomainVerification(context.Background(), "m-1", "example.com")
	require.NoError(t, err)
	assert.False(t, v.Verified)
	assert.Equal(t, "PENDING", v.DKIM)
}

func TestCheckDomainVerificationMissingStatusIsUpstream(t *testing.T) {
	c := NewClient(&fakeAPI{getDomainOut: &awsworkmail.GetMailDomainOutput{
		OwnershipVerificationStatus: types.DnsRecordVerificationStatusVerified,
	}}, nil)

	_, err := c.CheckDomainVerification(context.Background(), "m-1", "example.com")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestGetMailDomainRecords(t *testing.T) {
	c := NewClient(&fakeAPI{getDomainOut: &awsworkmail.GetMailDomainOutput{
		Records: []types.DnsRecord{
			{Type: aws.String("MX"), Hostname: aws.String("example.com."), Value: aws.String("10 inbound-smtp.us-east-1.amazonaws.com.")},
			{Type: aws.String("TXT"), Hostname: aws.String("_amazonses.example.com."), Value: aws.String("token")},
		},
	}}, nil)

	records, err := c.GetMailDomainRecords(context.Background(), "m-1", "example.com")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "MX", records[0].Type)
	assert.Equal(t, "_amazonses.example.com.", records[1].Hostname)
}

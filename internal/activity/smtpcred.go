package activity

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/edvin/mailorg/internal/apperr"
	"github.com/edvin/mailorg/internal/model"
)

// IAMAPI is the subset of the IAM client used for SMTP credential
// provisioning.
type IAMAPI interface {
	CreateUser(ctx context.Context, params *iam.CreateUserInput, optFns ...func(*iam.Options)) (*iam.CreateUserOutput, error)
	PutUserPolicy(ctx context.Context, params *iam.PutUserPolicyInput, optFns ...func(*iam.Options)) (*iam.PutUserPolicyOutput, error)
	CreateAccessKey(ctx context.Context, params *iam.CreateAccessKeyInput, optFns ...func(*iam.Options)) (*iam.CreateAccessKeyOutput, error)
}

// SMTP contains activities that provision IAM sending credentials.
type SMTP struct {
	iam       IAMAPI
	accountID string
}

// NewSMTP creates a new SMTP activity struct.
func NewSMTP(iamClient IAMAPI, accountID string) *SMTP {
	return &SMTP{iam: iamClient, accountID: accountID}
}

// CreateSMTPUser creates a dedicated IAM user scoped to sending through
// the domain identity and returns its access key. The secret key is
// delivered downstream and never logged.
func (a *SMTP) CreateSMTPUser(ctx context.Context, domain string) (*model.SMTPCredential, error) {
	userName := "mailorg-smtp-" + domain

	_, err := a.iam.CreateUser(ctx, &iam.CreateUserInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return nil, apperr.FromAWS("iam.CreateUser", err)
	}

	policy := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Action": "ses:SendRawEmail",
    "Resource": "arn:aws:ses:*:%s:identity/%s"
  }]
}`, a.accountID, domain)

	_, err = a.iam.PutUserPolicy(ctx, &iam.PutUserPolicyInput{
		UserName:       aws.String(userName),
		PolicyName:     aws.String("mailorg-smtp-send"),
		PolicyDocument: aws.String(policy),
	})
	if err != nil {
		return nil, apperr.FromAWS("iam.PutUserPolicy", err)
	}

	out, err := a.iam.CreateAccessKey(ctx, &iam.CreateAccessKeyInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return nil, apperr.FromAWS("iam.CreateAccessKey", err)
	}
	if out.AccessKey == nil {
		return nil, apperr.New(apperr.KindUpstream, "iam.CreateAccessKey", "provider returned no access key")
	}

	return &model.SMTPCredential{
		UserName:        userName,
		AccessKeyID:     aws.ToString(out.AccessKey.AccessKeyId),
		SecretAccessKey: aws.ToString(out.AccessKey.SecretAccessKey),
	}, nil
}

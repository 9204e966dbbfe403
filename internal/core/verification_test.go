package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mailorg/internal/model"
)

type fakeVerifier struct {
	result model.DomainVerification
	err    error
}

func (f *fakeVerifier) CheckDomainVerification(ctx context.Context, organizationID, domain string) (model.DomainVerification, error) {
	return f.result, f.err
}

func TestVerificationService_Check(t *testing.T) {
	svc := NewVerificationService(&fakeVerifier{result: model.DomainVerification{
		Ownership: "VERIFIED",
		DKIM:      "PENDING",
	}})

	v, err := svc.Check(context.Background(), "m-org-1", "example.com")
	require.NoError(t, err)
	assert.Equal(t, "VERIFIED", v.Ownership)
	assert.Equal(t, "PENDING", v.DKIM)
	assert.False(t, v.Verified)
}

func TestVerificationService_CheckPropagatesError(t *testing.T) {
	svc := NewVerificationService(&fakeVerifier{err: errors.New("domain not found")})

	_, err := svc.Check(context.Background(), "m-org-1", "example.com")
	require.Error(t, err)
}

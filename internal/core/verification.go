package core

import (
	"context"

	"github.com/edvin/mailorg/internal/model"
)

// MailVerifier reports a domain's verification state in the mail
// service. *workmail.Client satisfies this interface.
type MailVerifier interface {
	CheckDomainVerification(ctx context.Context, organizationID, domain string) (model.DomainVerification, error)
}

// VerificationService answers on-demand domain verification checks.
// Read-only: nothing is persisted and nothing upstream is mutated.
type VerificationService struct {
	mail MailVerifier
}

func NewVerificationService(mail MailVerifier) *VerificationService {
	return &VerificationService{mail: mail}
}

func (s *VerificationService) Check(ctx context.Context, organizationID, domain string) (model.DomainVerification, error) {
	return s.mail.CheckDomainVerification(ctx, organizationID, domain)
}

package activity

import (
	"context"

	"github.com/edvin/mailorg/internal/dnszone"
	"github.com/edvin/mailorg/internal/model"
)

// DNSZone contains activities that manage hosted zones for vanity
// domains.
type DNSZone struct {
	client *dnszone.Client
}

// NewDNSZone creates a new DNSZone activity struct.
func NewDNSZone(client *dnszone.Client) *DNSZone {
	return &DNSZone{client: client}
}

// CreateHostedZoneParams holds the parameters for CreateHostedZone.
type CreateHostedZoneParams struct {
	Domain           string `json:"domain"`
	IdempotencyToken string `json:"idempotency_token"`
}

// CreateHostedZone creates a zone for the domain and returns its ID.
func (a *DNSZone) CreateHostedZone(ctx context.Context, params CreateHostedZoneParams) (string, error) {
	return a.client.CreateHostedZone(ctx, params.Domain, params.IdempotencyToken)
}

// UpsertDNSRecordsParams holds the parameters for UpsertDNSRecords.
type UpsertDNSRecordsParams struct {
	ZoneID  string            `json:"zone_id"`
	Records []model.DNSRecord `json:"records"`
}

// UpsertDNSRecords writes the mail service's expected records into the
// zone.
func (a *DNSZone) UpsertDNSRecords(ctx context.Context, params UpsertDNSRecordsParams) error {
	return a.client.UpsertRecords(ctx, params.ZoneID, params.Records)
}

// Package dnszone adapts the Route 53 API for hosted zone creation and
// record population.
package dnszone

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"

	"github.com/edvin/mailorg/internal/apperr"
	"github.com/edvin/mailorg/internal/model"
)

const recordTTL = 300

// Route53API is the subset of the Route 53 client the adapter uses.
type Route53API interface {
	CreateHostedZone(ctx context.Context, params *route53.CreateHostedZoneInput, optFns ...func(*route53.Options)) (*route53.CreateHostedZoneOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
}

// Options configures where new zones are created. When VPCID is set the
// zone is private and associated with that VPC; otherwise the zone is
// public and placed in the reusable delegation set.
type Options struct {
	VPCID           string
	VPCRegion       string
	DelegationSetID string
}

type Client struct {
	api  Route53API
	opts Options
}

func NewClient(api Route53API, opts Options) *Client {
	return &Client{api: api, opts: opts}
}

// CreateHostedZone creates a zone for the domain and returns its ID.
// The caller reference doubles as the idempotency token.
func (c *Client) CreateHostedZone(ctx context.Context, domain, callerReference string) (string, error) {
	const op = "route53.CreateHostedZone"

	input := &route53.CreateHostedZoneInput{
		Name:            aws.String(domain),
		CallerReference: aws.String(callerReference),
		HostedZoneConfig: &types.HostedZoneConfig{
			Comment:     aws.String("mailorg managed zone for " + domain),
			PrivateZone: c.opts.VPCID != "",
		},
	}
	if c.opts.VPCID != "" {
		input.VPC = &types.VPC{
			VPCId:     aws.String(c.opts.VPCID),
			VPCRegion: types.VPCRegion(c.opts.VPCRegion),
		}
	} else if c.opts.DelegationSetID != "" {
		input.DelegationSetId = aws.String(c.opts.DelegationSetID)
	}

	out, err := c.api.CreateHostedZone(ctx, input)
	if err != nil {
		return "", apperr.FromAWS(op, err)
	}
	if out.HostedZone == nil || out.HostedZone.Id == nil {
		return "", apperr.New(apperr.KindUpstream, op, "provider returned no hosted zone id")
	}
	return *out.HostedZone.Id, nil
}

// UpsertRecords writes the given records into the zone in one change
// batch. TXT record values are quote-wrapped as the API requires.
func (c *Client) UpsertRecords(ctx context.Context, zoneID string, records []model.DNSRecord) error {
	const op = "route53.ChangeResourceRecordSets"

	if len(records) == 0 {
		return nil
	}

	changes := make([]types.Change, 0, len(records))
	for _, r := range records {
		value := r.Value
		if r.Type == "TXT" {
			value = fmt.Sprintf("%q", value)
		}
		changes = append(changes, types.Change{
			Action: types.ChangeActionUpsert,
			ResourceRecordSet: &types.ResourceRecordSet{
				Name:            aws.String(r.Hostname),
				Type:            types.RRType(r.Type),
				TTL:             aws.Int64(recordTTL),
				ResourceRecords: []types.ResourceRecord{{Value: aws.String(value)}},
			},
		})
	}

	_, err := c.api.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch:  &types.ChangeBatch{Changes: changes},
	})
	if err != nil {
		return apperr.FromAWS(op, err)
	}
	return nil
}

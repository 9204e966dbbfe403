package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	workmailsdk "github.com/aws/aws-sdk-go-v2/service/workmail"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/edvin/mailorg/internal/activity"
	"github.com/edvin/mailorg/internal/config"
	"github.com/edvin/mailorg/internal/crm"
	"github.com/edvin/mailorg/internal/db"
	"github.com/edvin/mailorg/internal/dnszone"
	"github.com/edvin/mailorg/internal/logging"
	"github.com/edvin/mailorg/internal/metrics"
	"github.com/edvin/mailorg/internal/secrets"
	"github.com/edvin/mailorg/internal/workflow"
	"github.com/edvin/mailorg/internal/workmail"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	tc, err := temporalclient.Dial(temporalclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load AWS configuration")
	}

	provider := secrets.NewProvider(secretsmanager.NewFromConfig(awsCfg))
	keapAPIKey, err := provider.Value(ctx, cfg.KeapAPIKeySecretName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve CRM API key secret")
	}

	mailClient := workmail.NewClient(workmailsdk.NewFromConfig(awsCfg), ses.NewFromConfig(awsCfg))
	zoneClient := dnszone.NewClient(route53.NewFromConfig(awsCfg), dnszone.Options{
		VPCID:           cfg.VPCID,
		VPCRegion:       cfg.VPCRegion,
		DelegationSetID: cfg.DelegationSetID,
	})
	crmClient := crm.NewClient(crm.Options{
		BaseURL:       cfg.KeapBaseURL,
		Token:         keapAPIKey,
		ProxyEndpoint: cfg.ProxyEndpoint,
		ProxyHost:     cfg.ProxyEndpointHost,
	})

	w := worker.New(tc, workflow.TaskQueue, worker.Options{})

	// Register activities
	w.RegisterActivity(activity.NewRegistration(pool))

	w.RegisterActivity(activity.NewWorkMail(mailClient, workmail.NotificationRoutes{
		BounceARN:    cfg.SNSBounceARN,
		ComplaintARN: cfg.SNSComplaintARN,
		DeliveryARN:  cfg.SNSDeliveryARN,
	}))

	w.RegisterActivity(activity.NewDNSZone(zoneClient))

	w.RegisterActivity(activity.NewCRM(crmClient, activity.TagIDs{
		Pending:   cfg.KeapTagPending,
		Complete:  cfg.KeapTagComplete,
		Cancelled: cfg.KeapTagCancelled,
	}))

	w.RegisterActivity(activity.NewSMTP(iam.NewFromConfig(awsCfg), cfg.AWSAccountID))

	// Register workflows
	w.RegisterWorkflow(workflow.CreateOrganizationWorkflow)
	w.RegisterWorkflow(workflow.DeleteOrganizationWorkflow)
	w.RegisterWorkflow(workflow.CreateSMTPCredentialWorkflow)

	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsAddr)
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	logger.Info().Str("taskQueue", workflow.TaskQueue).Msg("starting temporal worker")
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal().Err(err).Msg("worker failed")
	}
}

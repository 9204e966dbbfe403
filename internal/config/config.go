package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL     string
	TemporalAddress string
	HTTPListenAddr  string
	MetricsAddr     string
	LogLevel        string
	ServiceName     string

	// Mail-service notification routing targets.
	SNSBounceARN    string
	SNSComplaintARN string
	SNSDeliveryARN  string

	// Hosted zone creation.
	VPCID           string
	VPCRegion       string
	DelegationSetID string

	// CRM access. The API key is resolved from Secrets Manager at
	// startup, never read from the environment directly.
	KeapBaseURL          string
	KeapAPIKeySecretName string
	KeapTagPending       int64
	KeapTagComplete      int64
	KeapTagCancelled     int64
	ProxyEndpoint        string
	ProxyEndpointHost    string

	// IAM SMTP credential provisioning.
	AWSAccountID string

	// Request authorization: exact-match token (resolved from Secrets
	// Manager) or HS256 JWT verification when JWTSecret is set.
	APITokenSecretName string
	JWTSecret          string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		TemporalAddress:      getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		HTTPListenAddr:       getEnv("HTTP_LISTEN_ADDR", ":8080"),
		MetricsAddr:          getEnv("METRICS_ADDR", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		ServiceName:          getEnv("SERVICE_NAME", "mailorg"),
		SNSBounceARN:         getEnv("SNS_BOUNCE_ARN", ""),
		SNSComplaintARN:      getEnv("SNS_COMPLAINT_ARN", ""),
		SNSDeliveryARN:       getEnv("SNS_DELIVERY_ARN", ""),
		VPCID:                getEnv("VPC_ID", ""),
		VPCRegion:            getEnv("VPC_REGION", ""),
		DelegationSetID:      getEnv("DELEGATION_SET_ID", ""),
		KeapBaseURL:          getEnv("KEAP_BASE_URL", ""),
		KeapAPIKeySecretName: getEnv("KEAP_API_KEY_SECRET_NAME", ""),
		ProxyEndpoint:        getEnv("PROXY_ENDPOINT", ""),
		ProxyEndpointHost:    getEnv("PROXY_ENDPOINT_HOST", ""),
		AWSAccountID:         getEnv("AWS_ACCOUNT_ID", ""),
		APITokenSecretName:   getEnv("API_TOKEN_SECRET_NAME", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
	}

	for _, tag := range []struct {
		env  string
		dest *int64
	}{
		{"KEAP_TAG_PENDING", &cfg.KeapTagPending},
		{"KEAP_TAG_COMPLETE", &cfg.KeapTagComplete},
		{"KEAP_TAG_CANCELLED", &cfg.KeapTagCancelled},
	} {
		raw := os.Getenv(tag.env)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", tag.env, err)
		}
		*tag.dest = v
	}

	return cfg, nil
}

// Validate checks that every variable the given component needs is
// set, failing fast before any external call is made.
func (c *Config) Validate(component string) error {
	required := map[string][]struct {
		name  string
		value string
	}{
		"api": {
			{"DATABASE_URL", c.DatabaseURL},
			{"TEMPORAL_ADDRESS", c.TemporalAddress},
		},
		"worker": {
			{"DATABASE_URL", c.DatabaseURL},
			{"TEMPORAL_ADDRESS", c.TemporalAddress},
			{"SNS_BOUNCE_ARN", c.SNSBounceARN},
			{"SNS_COMPLAINT_ARN", c.SNSComplaintARN},
			{"SNS_DELIVERY_ARN", c.SNSDeliveryARN},
			{"DELEGATION_SET_ID", c.DelegationSetID},
			{"KEAP_BASE_URL", c.KeapBaseURL},
			{"KEAP_API_KEY_SECRET_NAME", c.KeapAPIKeySecretName},
			{"AWS_ACCOUNT_ID", c.AWSAccountID},
		},
	}

	vars, ok := required[component]
	if !ok {
		return fmt.Errorf("unknown component %q", component)
	}
	for _, v := range vars {
		if v.value == "" {
			return fmt.Errorf("environment variable %s is required but not set", v.name)
		}
	}

	if component == "api" && c.APITokenSecretName == "" && c.JWTSecret == "" {
		return fmt.Errorf("either API_TOKEN_SECRET_NAME or JWT_SECRET must be set")
	}

	// A VPC ID switches hosted zone creation to private zones and then
	// needs the zone region alongside it.
	if component == "worker" && c.VPCID != "" && c.VPCRegion == "" {
		return fmt.Errorf("environment variable VPC_REGION is required when VPC_ID is set")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

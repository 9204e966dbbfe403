package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	workmailsdk "github.com/aws/aws-sdk-go-v2/service/workmail"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/mailorg/internal/api"
	mw "github.com/edvin/mailorg/internal/api/middleware"
	"github.com/edvin/mailorg/internal/config"
	"github.com/edvin/mailorg/internal/core"
	"github.com/edvin/mailorg/internal/db"
	"github.com/edvin/mailorg/internal/logging"
	"github.com/edvin/mailorg/internal/secrets"
	"github.com/edvin/mailorg/internal/workmail"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("api"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

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

	var staticToken string
	if cfg.APITokenSecretName != "" {
		provider := secrets.NewProvider(secretsmanager.NewFromConfig(awsCfg))
		staticToken, err = provider.Value(ctx, cfg.APITokenSecretName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to resolve API token secret")
		}
	}

	mail := workmail.NewClient(workmailsdk.NewFromConfig(awsCfg), nil)
	services := core.NewServices(pool, tc, mail)
	auth := mw.NewAuthenticator(staticToken, cfg.JWTSecret)

	srv := api.NewServer(logger, services, pool, tc, auth)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

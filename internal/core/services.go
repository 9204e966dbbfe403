package core

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/mailorg/internal/workmail"
)

// DB defines the database operations used by services.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Services struct {
	Provisioning *ProvisioningService
	Verification *VerificationService
}

func NewServices(db DB, tc temporalclient.Client, mail *workmail.Client) *Services {
	return &Services{
		Provisioning: NewProvisioningService(db, tc),
		Verification: NewVerificationService(mail),
	}
}

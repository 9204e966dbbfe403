package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrganizationsProvisioned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailorg_organizations_provisioned_total",
		Help: "Number of mailbox organizations that reached the ACTIVE state.",
	})

	OrganizationsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailorg_organizations_deleted_total",
		Help: "Number of mailbox organizations removed from the mail service.",
	})
)

// Package metrics defines all custom Prometheus metrics for the school
// portal API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry
// at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "failure", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts successfully created principals via /signup.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created through signup.",
	},
)

// StudentsEnrolledTotal counts provisioned student accounts.
// Label:
//   - mode: "single" or "bulk"
var StudentsEnrolledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "students_enrolled_total",
		Help:      "Total number of student accounts provisioned, by mode.",
	},
	[]string{"mode"},
)

// EnrollmentErrorsTotal counts failed enrollment requests.
// Label:
//   - mode: "single" or "bulk"
var EnrollmentErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollment_errors_total",
		Help:      "Total number of enrollment requests that failed.",
	},
	[]string{"mode"},
)

// PasswordResetsTotal counts issued temporary credentials.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of temporary passwords issued.",
	},
)

// AccessDeniedTotal counts requests rejected by the access gate.
// Label:
//   - reason: "token_required", "token_expired", "token_invalid", or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)

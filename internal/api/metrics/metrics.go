// Package metrics defines and registers the custom Prometheus metrics of the
// employee portal API. It is the single source of truth for metric names,
// labels and help strings.
//
// Metrics are registered with the default registry on package load, so the
// /metrics handler exposes them together with the echoprometheus HTTP series.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Identity metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "user_not_found", "inactive", "invalid_password", "invalid_input" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts self-service sign-ups.
// Label:
//   - result: "success", "duplicate", "invalid_input" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthorizationDenialsTotal counts requests refused by the authorization gate.
// Label:
//   - permission: the missing permission, or "owner" for record-ownership denials
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by the authorization gate.",
	},
	[]string{"permission"},
)

// ── Workflow metrics ──────────────────────────────────────────────────────────

// WorkflowTransitionsTotal counts timesheet and leave workflow steps.
// Labels:
//   - entity: "timesheet" or "leave"
//   - to: the requested target status (e.g. "Approved")
//   - changed: "true" when the record moved, "false" when the step was ignored
var WorkflowTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_transitions_total",
		Help:      "Total number of workflow transitions, by entity, target status and outcome.",
	},
	[]string{"entity", "to", "changed"},
)

// ── Employee metrics ──────────────────────────────────────────────────────────

// EmployeeActionsTotal counts employee lifecycle writes.
// Label:
//   - action: "create", "update", "delete", "promote", "transfer" or "salary"
var EmployeeActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employee_actions_total",
		Help:      "Total number of employee lifecycle actions, by action.",
	},
	[]string{"action"},
)

// ObserveTransition records one workflow step.
func ObserveTransition(entity, to string, changed bool) {
	WorkflowTransitionsTotal.WithLabelValues(entity, to, strconv.FormatBool(changed)).Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		viewsRenderedTotal,
		staleDeletesTotal,
		usersRegisteredTotal,
		adminCommandsTotal,
		callbacksTotal,
	)
}

var (
	viewsRenderedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storefront_views_rendered_total",
			Help:      "Views sent to users by view id.",
		},
		[]string{"view"},
	)

	staleDeletesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storefront_stale_deletes_total",
			Help:      "Best-effort deletions of the previous live message by result.",
		},
		[]string{"result"},
	)

	usersRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storefront_users_registered_total",
			Help:      "Users seen for the first time.",
		},
	)

	adminCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storefront_admin_commands_total",
			Help:      "Privileged command invocations by command and outcome.",
		},
		[]string{"command", "outcome"},
	)

	callbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storefront_callbacks_total",
			Help:      "Inline button activations by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

func IncViewRendered(view string) {
	viewsRenderedTotal.WithLabelValues(norm(view)).Inc()
}

// IncStaleDelete records one cleanup attempt; ok reports whether the platform accepted it.
func IncStaleDelete(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	staleDeletesTotal.WithLabelValues(result).Inc()
}

func IncUsersRegistered() {
	usersRegisteredTotal.Inc()
}

func IncAdminCommand(command, outcome string) {
	adminCommandsTotal.WithLabelValues(norm(command), norm(outcome)).Inc()
}

func IncCallback(kind, outcome string) {
	callbacksTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}

// Package metrics содержит prometheus-метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения метки result.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultError   = "error"
	ResultOK      = "ok"
	ResultFailed  = "failed"
)

var (
	// EntitlementChecks проверки доступа по типу учетных данных.
	EntitlementChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notice",
		Name:      "entitlement_checks_total",
		Help:      "Entitlement checks by credential method and result.",
	}, []string{"method", "result"})

	// VotesCast поданные голоса.
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notice",
		Name:      "votes_cast_total",
		Help:      "Votes cast by direction and whether the store recorded them.",
	}, []string{"direction", "result"})

	// RateLimited отклоненные ограничителем запросы.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notice",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	}, []string{"op"})

	// RelayDeliveries доставки уведомлений по приемникам.
	RelayDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notice",
		Name:      "relay_deliveries_total",
		Help:      "Notification relay deliveries by sink and result.",
	}, []string{"sink", "result"})
)

// Result переводит bool в метку result.
func Result(ok bool) string {
	if ok {
		return ResultOK
	}
	return ResultFailed
}

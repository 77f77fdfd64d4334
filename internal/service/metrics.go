package service

import (
	"cashdunia/internal/economy"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_operations_total",
			Help: "Economy operations by outcome",
		},
		[]string{"op", "result"},
	)
	coinsCredited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_coins_credited_total",
			Help: "Coins credited by ledger reason",
		},
		[]string{"reason"},
	)
	coinsDebited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_coins_debited_total",
			Help: "Coins debited by ledger reason",
		},
		[]string{"reason"},
	)
	txConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_tx_conflicts_total",
			Help: "Transactions aborted by a concurrent update and retried",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(operationsTotal)
	prometheus.MustRegister(coinsCredited)
	prometheus.MustRegister(coinsDebited)
	prometheus.MustRegister(txConflicts)
}

// resultLabel buckets an operation error into ok, rejected (business rule)
// or error.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case economy.IsRuleViolation(err):
		return "rejected"
	default:
		return "error"
	}
}

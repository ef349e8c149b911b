// Package metrics exposes Prometheus collectors for the wallet ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsTotal counts ledger entries by type and outcome.
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_transactions_total",
		Help: "Total wallet ledger entries written, by transaction type and result",
	}, []string{"type", "result"})

	// ClearancesTotal counts auto and manual clearances.
	ClearancesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_clearances_total",
		Help: "Total wallet clearances performed, by trigger",
	}, []string{"trigger"})

	// OperationDuration observes ledger operation latency.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_operation_duration_seconds",
		Help:    "Duration of wallet ledger operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// RecordTransaction increments the transaction counter.
func RecordTransaction(txType, result string) {
	TransactionsTotal.WithLabelValues(txType, result).Inc()
}

// RecordClearance increments the clearance counter.
func RecordClearance(trigger string) {
	ClearancesTotal.WithLabelValues(trigger).Inc()
}

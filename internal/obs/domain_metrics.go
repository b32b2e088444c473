package obs

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// BillCalculationsTotal counts bill calculation outcomes.
	BillCalculationsTotal *prometheus.CounterVec
	// RateLookupsTotal counts exchange-rate lookups by source and result.
	RateLookupsTotal *prometheus.CounterVec
	// ProviderCallDuration records upstream rate provider latency in milliseconds.
	ProviderCallDuration *prometheus.HistogramVec
	// ProviderCallsTotal counts upstream rate provider calls by outcome.
	ProviderCallsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		BillCalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bill_calculations_total",
			Help:      "Count of bill calculation outcomes.",
		}, []string{"result"})
		RateLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_lookups_total",
			Help:      "Count of exchange-rate lookups by source and result.",
		}, []string{"source", "result"})
		ProviderCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_ms",
			Help:      "Latency of upstream rate provider calls in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"provider"})
		ProviderCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Count of upstream rate provider calls by outcome.",
		}, []string{"provider", "result"})

		mustRegisterCollector(reg, BillCalculationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BillCalculationsTotal = v
			}
		})
		mustRegisterCollector(reg, RateLookupsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				RateLookupsTotal = v
			}
		})
		mustRegisterCollector(reg, ProviderCallDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				ProviderCallDuration = v
			}
		})
		mustRegisterCollector(reg, ProviderCallsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ProviderCallsTotal = v
			}
		})
	})
}

// ObserveBillCalculation records the outcome of one bill calculation. Safe to
// call before MustRegisterDomainMetrics, as in unit tests.
func ObserveBillCalculation(result string) {
	if BillCalculationsTotal == nil {
		return
	}
	BillCalculationsTotal.WithLabelValues(result).Inc()
}

// ObserveRateLookup records one rate lookup against a source (cache or
// provider name) with its result.
func ObserveRateLookup(source, result string) {
	if RateLookupsTotal == nil {
		return
	}
	RateLookupsTotal.WithLabelValues(source, result).Inc()
}

// ObserveProviderCall records latency and outcome for one upstream call.
func ObserveProviderCall(provider string, ok bool, d time.Duration) {
	result := "error"
	if ok {
		result = "ok"
	}
	if ProviderCallsTotal != nil {
		ProviderCallsTotal.WithLabelValues(provider, result).Inc()
	}
	if ProviderCallDuration != nil {
		ProviderCallDuration.WithLabelValues(provider).Observe(DurationMillis(d))
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}

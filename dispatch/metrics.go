package dispatch

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

type dispatchMetrics struct {
	sentTokens    atomic.Int64
	failedTokens  atomic.Int64
	dispatchCount atomic.Int64
}

func registerMetrics(reg *prometheus.Registry, d *dispatcher) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "notify",
		Subsystem: "dispatch",
		Name:      "sent_tokens",
		Help:      "total count of tokens sent",
	}, func() float64 {
		return float64(d.metrics.sentTokens.Load())
	}))
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "notify",
		Subsystem: "dispatch",
		Name:      "failed_tokens",
		Help:      "total count of tokens that failed to send",
	}, func() float64 {
		return float64(d.metrics.failedTokens.Load())
	}))
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "notify",
		Subsystem: "dispatch",
		Name:      "dispatch_count",
		Help:      "total count of dispatch operations",
	}, func() float64 {
		return float64(d.metrics.dispatchCount.Load())
	}))
}

package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vaultnet/vaultd/logx"
)

type nodePromMetrics struct {
	nodeUpUnixSeconds     prometheus.Gauge
	processedInstructions *prometheus.CounterVec
	rejectedInstructions  *prometheus.CounterVec
	accountCount          prometheus.Gauge
	panicCount            prometheus.Counter
}

var metrics = &nodePromMetrics{
	nodeUpUnixSeconds: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vaultd_node_up_unix_seconds",
		Help: "Unix timestamp at which the node came up",
	}),
	processedInstructions: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vaultd_processed_instruction_count",
		Help: "Successfully applied instructions by command",
	}, []string{"command"}),
	rejectedInstructions: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vaultd_rejected_instruction_count",
		Help: "Rejected instructions by reason",
	}, []string{"reason"}),
	accountCount: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vaultd_account_count",
		Help: "Number of provisioned account slots",
	}),
	panicCount: promauto.NewCounter(prometheus.CounterOpts{
		Name: "vaultd_panic_count",
		Help: "Recovered panics in background goroutines",
	}),
}

func IncreaseProcessedInstruction(command string) {
	metrics.processedInstructions.WithLabelValues(command).Inc()
}

func IncreaseRejectedInstruction(reason string) {
	metrics.rejectedInstructions.WithLabelValues(reason).Inc()
}

func IncreaseAccountCount() {
	metrics.accountCount.Inc()
}

func IncreasePanicCount() {
	metrics.panicCount.Inc()
}

// Run serves the prometheus endpoint until the listener fails. Intended to be
// launched through exception.SafeGo.
func Run(addr string) {
	metrics.nodeUpUnixSeconds.Set(float64(time.Now().Unix()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logx.Info("MONITORING", fmt.Sprintf("Serving metrics on %s/metrics", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logx.Error("MONITORING", "Metrics server stopped:", err.Error())
	}
}

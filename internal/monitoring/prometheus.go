package monitoring

import (
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/platformbuilds/evitalab-core/internal/config"
)

var buildInfo = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
	Name: "evitalab_core_build_info",
	Help: "Build information for evitaLab core",
	ConstLabels: prometheus.Labels{
		"version":    config.ServiceVersion,
		"component":  config.ServiceName,
		"go_version": runtime.Version(),
	},
}, func() float64 { return 1 })

// SetupPrometheusMetrics exposes the default registry on path. The
// application metrics register themselves through promauto.
func SetupPrometheusMetrics(router gin.IRoutes, path string) {
	if path == "" {
		path = "/metrics"
	}

	// Register build info (ignore if already registered)
	_ = prometheus.Register(buildInfo)

	router.GET(path, gin.WrapH(promhttp.Handler()))
}

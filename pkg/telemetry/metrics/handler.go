package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the HTTP handler for the /metrics endpoint.
//
// It serves every metric registered with the collector's registry in the
// Prometheus text exposition format (text/plain; version=0.0.4).
// OpenMetrics negotiation is disabled so the content type is stable for
// scrapers that pin it. Rendering never fails: a series with zero
// observations simply emits no lines, and errors while gathering are
// reported inline rather than aborting the scrape.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: false,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

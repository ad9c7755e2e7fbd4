package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Mediation
	MetricGMLCLatency     = "gmlc.request_latency"
	MetricMediationErrors = "mediation.failures"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricLocationsResolved   = "business.locations_resolved"
	MetricNotificationsServed = "business.notifications_served"
)

package metrics

func InitPrometheusMetrics() {
	Version = PromVersion()
	Apply = PromApplyMetrics()
	API = PromAPIMetrics()
}

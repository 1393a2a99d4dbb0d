package metrics

var (
	Apply = NopApplyMetrics()
	API   = NopAPIMetrics()
)

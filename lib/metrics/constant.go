package metrics

const (
	Namespace      = "agora"
	ApplySubsystem = "apply"
	APISubsystem   = "api"
)

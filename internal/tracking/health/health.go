package health

// Status levels for a component and for the service overall.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusCritical Status = "critical"
)

// ComponentHealth is the check result for one dependency.
type ComponentHealth struct {
	Component string `json:"component"`
	Status    Status `json:"status"`
	Detail    string `json:"detail,omitempty"`
}

// Report maps component name to its latest check result.
type Report map[string]ComponentHealth

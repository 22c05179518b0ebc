package routes

const (
	// Health
	Health = "/health"

	// Maintenance requests
	Requests        = "/requests/"
	RequestByID     = "/requests/{id}"
	RequestAssign   = "/requests/{id}/assign"
	RequestNotes    = "/requests/{id}/notes"
	RequestComplete = "/requests/{id}/complete"

	// Directory
	Buildings    = "/buildings/"
	BuildingByID = "/buildings/{id}"
	Units        = "/units/"
	UnitByID     = "/units/{id}"
	Tenants      = "/tenants/"
	TenantByID   = "/tenants/{id}"
	Staff        = "/staff/"
	StaffByID    = "/staff/{id}"

	// Metrics
	MetricsOverview            = "/metrics/overview"
	MetricsRequestsByStatus    = "/metrics/requests-by-status"
	MetricsRequestsByPriority  = "/metrics/requests-by-priority"
	MetricsRequestsOverTime    = "/metrics/requests-over-time"
	MetricsBuildingPerformance = "/metrics/building-performance"
	MetricsStaffPerformance    = "/metrics/staff-performance"
)

package dtos

/*
Dashboard payloads. Field names (including the `_id` keys on the
performance rows) match what the dashboard consumers already expect.
*/

type IssueTypeCountDTO struct {
	IssueType string `json:"issue_type"`
	Count     int    `json:"count"`
}

type MetricsOverviewResponse struct {
	TotalOpenRequests     int                 `json:"total_open_requests"`
	TotalClosedRequests   int                 `json:"total_closed_requests"`
	TotalRequests         int                 `json:"total_requests"`
	AverageResolutionTime float64             `json:"average_resolution_time"`
	TopIssueTypes         []IssueTypeCountDTO `json:"top_issue_types"`
	SLABreachCount        int                 `json:"sla_breach_count"`
	CompletionRate        float64             `json:"completion_rate"`
}

type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type PriorityCountDTO struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

type DateCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type BuildingPerformanceDTO struct {
	BuildingID     string `json:"_id"`
	BuildingName   string `json:"building_name"`
	TotalRequests  int    `json:"total_requests"`
	OpenRequests   int    `json:"open_requests"`
	ClosedRequests int    `json:"closed_requests"`
}

type StaffPerformanceDTO struct {
	StaffID              string `json:"_id"`
	StaffName            string `json:"staff_name"`
	StaffRole            string `json:"staff_role"`
	TotalAssignments     int    `json:"total_assignments"`
	CompletedAssignments int    `json:"completed_assignments"`
	ActiveAssignments    int    `json:"active_assignments"`
}

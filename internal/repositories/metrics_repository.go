package repositories

import (
	"context"
	"time"
)

// Aggregation rows returned by MetricsRepository. These are projections,
// not entities, so they live here rather than in models.
type (
	IssueTypeCount struct {
		IssueType string
		Count     int
	}

	StatusCount struct {
		Status string
		Count  int
	}

	PriorityCount struct {
		Priority string
		Count    int
	}

	DateCount struct {
		Date  string
		Count int
	}

	BuildingPerformanceRow struct {
		BuildingID     string
		BuildingName   string
		TotalRequests  int
		OpenRequests   int
		ClosedRequests int
	}

	// AssignmentRow is one flattened assignment document across all requests.
	AssignmentRow struct {
		StaffID   string
		Completed bool
	}
)

type MetricsRepository interface {
	CountOpenRequests(ctx context.Context) (int, error)
	CountClosedRequests(ctx context.Context) (int, error)
	AverageResolutionHours(ctx context.Context) (float64, error)
	TopIssueTypes(ctx context.Context, limit int) ([]IssueTypeCount, error)
	SLABreachCount(ctx context.Context) (int, error)

	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByPriority(ctx context.Context) ([]PriorityCount, error)
	CountOverTime(ctx context.Context, since time.Time) ([]DateCount, error)
	BuildingPerformance(ctx context.Context) ([]BuildingPerformanceRow, error)
	AllAssignments(ctx context.Context) ([]AssignmentRow, error)
}

type metricsRepo struct {
	db DB
}

func NewMetricsRepository(db DB) MetricsRepository {
	return &metricsRepo{db: db}
}

func (r *metricsRepo) CountOpenRequests(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM requests WHERE status IN ('OPEN','IN_PROGRESS','PENDING')`)
}

func (r *metricsRepo) CountClosedRequests(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM requests WHERE status IN ('CLOSED','COMPLETED')`)
}

func (r *metricsRepo) AverageResolutionHours(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx, `
		SELECT AVG(EXTRACT(EPOCH FROM (closed_at - created_at)) / 3600)
		FROM requests
		WHERE status IN ('CLOSED','COMPLETED') AND closed_at IS NOT NULL
	`).Scan(&avg)
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *metricsRepo) TopIssueTypes(ctx context.Context, limit int) ([]IssueTypeCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT issue_type, COUNT(*) AS count
		FROM requests
		GROUP BY issue_type
		ORDER BY count DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []IssueTypeCount{}
	for rows.Next() {
		var row IssueTypeCount
		if err := rows.Scan(&row.IssueType, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *metricsRepo) SLABreachCount(ctx context.Context) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM requests
		WHERE status IN ('CLOSED','COMPLETED')
		AND closed_at IS NOT NULL
		AND EXTRACT(EPOCH FROM (closed_at - created_at)) / 3600 > target_sla_hours
	`)
}

func (r *metricsRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*) AS count
		FROM requests
		GROUP BY status
		ORDER BY count DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StatusCount{}
	for rows.Next() {
		var row StatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *metricsRepo) CountByPriority(ctx context.Context) ([]PriorityCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT priority, COUNT(*) AS count
		FROM requests
		GROUP BY priority
		ORDER BY count DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PriorityCount{}
	for rows.Next() {
		var row PriorityCount
		if err := rows.Scan(&row.Priority, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *metricsRepo) CountOverTime(ctx context.Context, since time.Time) ([]DateCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM requests
		WHERE created_at >= $1
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at)
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DateCount{}
	for rows.Next() {
		var row DateCount
		if err := rows.Scan(&row.Date, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *metricsRepo) BuildingPerformance(ctx context.Context) ([]BuildingPerformanceRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.building_id, b.name,
			COUNT(*) AS total_requests,
			SUM(CASE WHEN r.status IN ('OPEN','IN_PROGRESS') THEN 1 ELSE 0 END) AS open_requests,
			SUM(CASE WHEN r.status IN ('CLOSED','COMPLETED') THEN 1 ELSE 0 END) AS closed_requests
		FROM requests r
		JOIN buildings b ON r.building_id = b.id
		GROUP BY r.building_id, b.name
		ORDER BY total_requests DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BuildingPerformanceRow{}
	for rows.Next() {
		var row BuildingPerformanceRow
		if err := rows.Scan(&row.BuildingID, &row.BuildingName, &row.TotalRequests, &row.OpenRequests, &row.ClosedRequests); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AllAssignments flattens the assignment documents of every request so the
// service layer can aggregate per-staff stats.
func (r *metricsRepo) AllAssignments(ctx context.Context) ([]AssignmentRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a->>'staff_id', (a->>'completed_at') IS NOT NULL
		FROM requests, jsonb_array_elements(assignments) AS a
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AssignmentRow{}
	for rows.Next() {
		var row AssignmentRow
		if err := rows.Scan(&row.StaffID, &row.Completed); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *metricsRepo) count(ctx context.Context, sql string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, sql).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep/internal/dtos"
	"github.com/upkeephq/upkeep/internal/models"
	"github.com/upkeephq/upkeep/internal/repositories"
)

type fakeMetricsRepo struct {
	open        int
	closed      int
	avgHours    float64
	topTypes    []repositories.IssueTypeCount
	breaches    int
	assignments []repositories.AssignmentRow
}

func (f *fakeMetricsRepo) CountOpenRequests(ctx context.Context) (int, error)   { return f.open, nil }
func (f *fakeMetricsRepo) CountClosedRequests(ctx context.Context) (int, error) { return f.closed, nil }
func (f *fakeMetricsRepo) AverageResolutionHours(ctx context.Context) (float64, error) {
	return f.avgHours, nil
}
func (f *fakeMetricsRepo) TopIssueTypes(ctx context.Context, limit int) ([]repositories.IssueTypeCount, error) {
	if len(f.topTypes) > limit {
		return f.topTypes[:limit], nil
	}
	return f.topTypes, nil
}
func (f *fakeMetricsRepo) SLABreachCount(ctx context.Context) (int, error) { return f.breaches, nil }
func (f *fakeMetricsRepo) CountByStatus(ctx context.Context) ([]repositories.StatusCount, error) {
	return nil, nil
}
func (f *fakeMetricsRepo) CountByPriority(ctx context.Context) ([]repositories.PriorityCount, error) {
	return nil, nil
}
func (f *fakeMetricsRepo) CountOverTime(ctx context.Context, since time.Time) ([]repositories.DateCount, error) {
	return nil, nil
}
func (f *fakeMetricsRepo) BuildingPerformance(ctx context.Context) ([]repositories.BuildingPerformanceRow, error) {
	return nil, nil
}
func (f *fakeMetricsRepo) AllAssignments(ctx context.Context) ([]repositories.AssignmentRow, error) {
	return f.assignments, nil
}

func TestOverviewCompletionRate(t *testing.T) {
	repo := &fakeMetricsRepo{
		open:     3,
		closed:   9,
		avgHours: 26.4567,
		topTypes: []repositories.IssueTypeCount{{IssueType: "plumbing", Count: 5}},
		breaches: 2,
	}
	svc := NewMetricsService(repo, newFakeStaffRepo())

	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, o.TotalRequests)
	require.Equal(t, 75.0, o.CompletionRate)
	require.Equal(t, 26.46, o.AverageResolutionTime)
	require.Equal(t, 2, o.SLABreachCount)
	require.Len(t, o.TopIssueTypes, 1)
}

func TestOverviewEmptyDataset(t *testing.T) {
	svc := NewMetricsService(&fakeMetricsRepo{}, newFakeStaffRepo())

	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, o.TotalRequests)
	require.Equal(t, 0.0, o.CompletionRate)
	require.NotNil(t, o.TopIssueTypes)
	require.Empty(t, o.TopIssueTypes)
}

func TestStaffPerformanceTalliesAndSorts(t *testing.T) {
	ctx := context.Background()
	staff := newFakeStaffRepo()
	busy := &models.Staff{ID: uuid.New(), FullName: "Lee Park", Email: "lee@example.com", Role: "Technician", Active: true}
	require.NoError(t, staff.Create(ctx, busy))

	repo := &fakeMetricsRepo{assignments: []repositories.AssignmentRow{
		{StaffID: busy.ID.String(), Completed: true},
		{StaffID: busy.ID.String(), Completed: false},
		{StaffID: busy.ID.String(), Completed: true},
		{StaffID: "ghost-id", Completed: false},
	}}
	svc := NewMetricsService(repo, staff)

	rows, err := svc.StaffPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Busiest staff first.
	require.Equal(t, busy.ID.String(), rows[0].StaffID)
	require.Equal(t, "Lee Park", rows[0].StaffName)
	require.Equal(t, "Technician", rows[0].StaffRole)
	require.Equal(t, 3, rows[0].TotalAssignments)
	require.Equal(t, 2, rows[0].CompletedAssignments)
	require.Equal(t, 1, rows[0].ActiveAssignments)

	// Unresolvable staff ids still get a row, with both name and role
	// reported as Unknown.
	require.Equal(t, "ghost-id", rows[1].StaffID)
	require.Equal(t, "Unknown", rows[1].StaffName)
	require.Equal(t, "Unknown", rows[1].StaffRole)
	require.Equal(t, 1, rows[1].TotalAssignments)
}

func TestOverviewTruncatesTopIssueTypes(t *testing.T) {
	types := []repositories.IssueTypeCount{
		{IssueType: "plumbing", Count: 9},
		{IssueType: "electrical", Count: 8},
		{IssueType: "hvac", Count: 7},
		{IssueType: "appliance", Count: 6},
		{IssueType: "pest", Count: 5},
		{IssueType: "other", Count: 4},
	}
	svc := NewMetricsService(&fakeMetricsRepo{topTypes: types}, newFakeStaffRepo())

	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, o.TopIssueTypes, 5)
	require.Equal(t, dtos.IssueTypeCountDTO{IssueType: "plumbing", Count: 9}, o.TopIssueTypes[0])
}

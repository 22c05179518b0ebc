package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep/internal/dtos"
	"github.com/upkeephq/upkeep/internal/repositories"
)

const topIssueTypesLimit = 5

type MetricsService struct {
	metricsRepo repositories.MetricsRepository
	staffRepo   repositories.StaffRepository
}

func NewMetricsService(metricsRepo repositories.MetricsRepository, staffRepo repositories.StaffRepository) *MetricsService {
	return &MetricsService{metricsRepo: metricsRepo, staffRepo: staffRepo}
}

func (s *MetricsService) Overview(ctx context.Context) (*dtos.MetricsOverviewResponse, error) {
	open, err := s.metricsRepo.CountOpenRequests(ctx)
	if err != nil {
		return nil, err
	}
	closed, err := s.metricsRepo.CountClosedRequests(ctx)
	if err != nil {
		return nil, err
	}
	avgHours, err := s.metricsRepo.AverageResolutionHours(ctx)
	if err != nil {
		return nil, err
	}
	topTypes, err := s.metricsRepo.TopIssueTypes(ctx, topIssueTypesLimit)
	if err != nil {
		return nil, err
	}
	breaches, err := s.metricsRepo.SLABreachCount(ctx)
	if err != nil {
		return nil, err
	}

	total := open + closed
	completionRate := 0.0
	if total > 0 {
		completionRate = round2(float64(closed) / float64(total) * 100)
	}

	types := make([]dtos.IssueTypeCountDTO, 0, len(topTypes))
	for _, t := range topTypes {
		types = append(types, dtos.IssueTypeCountDTO{IssueType: t.IssueType, Count: t.Count})
	}

	return &dtos.MetricsOverviewResponse{
		TotalOpenRequests:     open,
		TotalClosedRequests:   closed,
		TotalRequests:         total,
		AverageResolutionTime: round2(avgHours),
		TopIssueTypes:         types,
		SLABreachCount:        breaches,
		CompletionRate:        completionRate,
	}, nil
}

func (s *MetricsService) ByStatus(ctx context.Context) ([]dtos.StatusCountDTO, error) {
	rows, err := s.metricsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dtos.StatusCountDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dtos.StatusCountDTO{Status: r.Status, Count: r.Count})
	}
	return out, nil
}

func (s *MetricsService) ByPriority(ctx context.Context) ([]dtos.PriorityCountDTO, error) {
	rows, err := s.metricsRepo.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dtos.PriorityCountDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dtos.PriorityCountDTO{Priority: r.Priority, Count: r.Count})
	}
	return out, nil
}

// OverTime reports daily request counts for the trailing window.
func (s *MetricsService) OverTime(ctx context.Context, days int) ([]dtos.DateCountDTO, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.metricsRepo.CountOverTime(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]dtos.DateCountDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dtos.DateCountDTO{Date: r.Date, Count: r.Count})
	}
	return out, nil
}

func (s *MetricsService) BuildingPerformance(ctx context.Context) ([]dtos.BuildingPerformanceDTO, error) {
	rows, err := s.metricsRepo.BuildingPerformance(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dtos.BuildingPerformanceDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dtos.BuildingPerformanceDTO{
			BuildingID:     r.BuildingID,
			BuildingName:   r.BuildingName,
			TotalRequests:  r.TotalRequests,
			OpenRequests:   r.OpenRequests,
			ClosedRequests: r.ClosedRequests,
		})
	}
	return out, nil
}

// StaffPerformance aggregates assignment documents per staff member and
// enriches the rows with names and roles from the staff table.
func (s *MetricsService) StaffPerformance(ctx context.Context) ([]dtos.StaffPerformanceDTO, error) {
	assignments, err := s.metricsRepo.AllAssignments(ctx)
	if err != nil {
		return nil, err
	}

	type tally struct {
		total     int
		completed int
	}
	tallies := map[string]*tally{}
	for _, a := range assignments {
		t, ok := tallies[a.StaffID]
		if !ok {
			t = &tally{}
			tallies[a.StaffID] = t
		}
		t.total++
		if a.Completed {
			t.completed++
		}
	}

	out := make([]dtos.StaffPerformanceDTO, 0, len(tallies))
	for staffID, t := range tallies {
		row := dtos.StaffPerformanceDTO{
			StaffID:              staffID,
			StaffName:            "Unknown",
			StaffRole:            "Unknown",
			TotalAssignments:     t.total,
			CompletedAssignments: t.completed,
			ActiveAssignments:    t.total - t.completed,
		}
		if id, err := uuid.Parse(staffID); err == nil {
			st, err := s.staffRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if st != nil {
				row.StaffName = st.FullName
				row.StaffRole = st.Role
			}
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAssignments != out[j].TotalAssignments {
			return out[i].TotalAssignments > out[j].TotalAssignments
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

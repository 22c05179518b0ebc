package services

import (
	"context"
	"time"

	"github.com/upkeephq/upkeep/internal/dtos"
	"github.com/upkeephq/upkeep/internal/models"
	"github.com/upkeephq/upkeep/internal/repositories"
	"github.com/upkeephq/upkeep/internal/utils"
)

// SLAMonitorService sweeps open requests that have outlived their SLA
// target, flags each one exactly once and hands the breach to the notifier.
type SLAMonitorService struct {
	requestRepo repositories.RequestRepository
	notifier    *Notifier
}

func NewSLAMonitorService(requestRepo repositories.RequestRepository, notifier *Notifier) *SLAMonitorService {
	return &SLAMonitorService{requestRepo: requestRepo, notifier: notifier}
}

// RunSLACheck is invoked on the cron schedule. A failed update on one
// request never aborts the sweep.
func (s *SLAMonitorService) RunSLACheck(ctx context.Context) error {
	utils.Logger.Debug("Running SLA breach sweep...")

	overdue, err := s.requestRepo.ListOverdue(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	flagged := 0
	for _, req := range overdue {
		err := s.requestRepo.UpdateWithRetry(ctx, req.ID, func(r *models.MaintenanceRequest) error {
			if r.SLABreached || r.Status.IsTerminal() {
				return nil
			}
			r.SLABreached = true
			return nil
		})
		if err != nil {
			utils.Logger.WithError(err).Warnf("RunSLACheck: failed to flag request %s", req.ID)
			continue
		}
		flagged++

		ageHours := now.Sub(req.CreatedAt).Hours()
		utils.Logger.Warnf(
			"SLA breach: request=%s priority=%s issue_type=%s age=%.1fh target=%dh",
			req.ID, req.Priority, req.IssueType, ageHours, req.TargetSLAHours,
		)

		if s.notifier != nil && s.notifier.Enabled() {
			s.notifier.NotifySLABreach(dtos.SLABreachEvent{
				RequestID:      req.ID,
				BuildingID:     req.BuildingID,
				Status:         string(req.Status),
				IssueType:      string(req.IssueType),
				Priority:       string(req.Priority),
				TargetSLAHours: req.TargetSLAHours,
				CreatedAt:      req.CreatedAt,
				AgeHours:       ageHours,
			})
		}
	}

	if flagged > 0 {
		utils.Logger.Infof("SLA sweep flagged %d overdue request(s)", flagged)
	}
	return nil
}

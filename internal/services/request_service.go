package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep/internal/dtos"
	"github.com/upkeephq/upkeep/internal/models"
	"github.com/upkeephq/upkeep/internal/repositories"
	"github.com/upkeephq/upkeep/internal/utils"
)

const defaultTargetSLAHours = 72

// RequestService owns the maintenance-request lifecycle: creation, the
// unguarded status overwrite, staff assignment, note appends and
// assignment completion. Every mutation of the embedded assignment/note
// documents goes through the optimistic UpdateWithRetry loop so concurrent
// appends never drop entries.
type RequestService struct {
	requestRepo  repositories.RequestRepository
	tenantRepo   repositories.TenantRepository
	unitRepo     repositories.UnitRepository
	buildingRepo repositories.BuildingRepository
	staffRepo    repositories.StaffRepository
}

func NewRequestService(
	requestRepo repositories.RequestRepository,
	tenantRepo repositories.TenantRepository,
	unitRepo repositories.UnitRepository,
	buildingRepo repositories.BuildingRepository,
	staffRepo repositories.StaffRepository,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		tenantRepo:   tenantRepo,
		unitRepo:     unitRepo,
		buildingRepo: buildingRepo,
		staffRepo:    staffRepo,
	}
}

func (s *RequestService) Create(ctx context.Context, in dtos.CreateRequestRequest) (*models.MaintenanceRequest, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, utils.NotFoundError("Tenant not found")
	}

	unit, err := s.unitRepo.GetByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, utils.NotFoundError("Unit not found")
	}

	building, err := s.buildingRepo.GetByID(ctx, in.BuildingID)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, utils.NotFoundError("Building not found")
	}

	status := models.StatusOpen
	if in.Status != "" {
		status = models.RequestStatus(in.Status)
	}
	slaHours := defaultTargetSLAHours
	if in.TargetSLAHours != nil {
		slaHours = *in.TargetSLAHours
	}

	req := &models.MaintenanceRequest{
		ID:             uuid.New(),
		ExternalID:     in.ExternalID,
		TenantID:       in.TenantID,
		UnitID:         in.UnitID,
		BuildingID:     in.BuildingID,
		IssueType:      models.IssueType(in.IssueType),
		Priority:       models.Priority(in.Priority),
		Status:         status,
		Description:    in.Description,
		TargetSLAHours: slaHours,
		Assignments:    []models.Assignment{},
		Notes:          []models.Note{},
	}
	if in.LocationDetails != nil {
		req.LocationDetails = &models.LocationDetails{
			Neighborhood: in.LocationDetails.Neighborhood,
			Latitude:     in.LocationDetails.Latitude,
			Longitude:    in.LocationDetails.Longitude,
		}
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return s.requestRepo.GetByID(ctx, req.ID)
}

func (s *RequestService) List(ctx context.Context, q dtos.ListRequestsQuery) ([]*models.MaintenanceRequest, error) {
	skip, limit := normalizePage(q.Skip, q.Limit)
	filter := repositories.RequestFilter{
		Status:     q.Status,
		TenantID:   q.TenantID,
		BuildingID: q.BuildingID,
		IssueType:  q.IssueType,
		Priority:   q.Priority,
	}
	list, err := s.requestRepo.List(ctx, filter, skip, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.MaintenanceRequest{}
	}
	return list, nil
}

func (s *RequestService) Get(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, utils.NotFoundError("Request not found")
	}
	return req, nil
}

// Update applies a partial overwrite. There is deliberately no transition
// table on status: any of the five values may replace any other. Moving
// into COMPLETED or CLOSED stamps closed_at once; it is never cleared.
func (s *RequestService) Update(ctx context.Context, id uuid.UUID, in dtos.UpdateRequestRequest) (*models.MaintenanceRequest, error) {
	if in.IsEmpty() {
		return nil, utils.BadRequestError("No fields to update")
	}

	err := s.requestRepo.UpdateWithRetry(ctx, id, func(req *models.MaintenanceRequest) error {
		if in.IssueType != nil {
			req.IssueType = models.IssueType(*in.IssueType)
		}
		if in.Priority != nil {
			req.Priority = models.Priority(*in.Priority)
		}
		if in.Description != nil {
			req.Description = *in.Description
		}
		if in.TargetSLAHours != nil {
			req.TargetSLAHours = *in.TargetSLAHours
		}
		if in.ResolutionNotes != nil {
			req.ResolutionNotes = in.ResolutionNotes
		}
		if in.Status != nil {
			req.Status = models.RequestStatus(*in.Status)
			if req.Status.IsTerminal() && req.ClosedAt == nil {
				now := time.Now().UTC()
				req.ClosedAt = &now
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapNoRows(err, "Request not found")
	}
	return s.Get(ctx, id)
}

func (s *RequestService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return mapNoRows(err, "Request not found")
	}
	return nil
}

// Assign appends one assignment and forces the request into IN_PROGRESS.
// A staff member with an uncompleted assignment on the request cannot be
// assigned again.
func (s *RequestService) Assign(ctx context.Context, id uuid.UUID, in dtos.AssignStaffRequest) (*models.MaintenanceRequest, error) {
	staff, err := s.staffRepo.GetByID(ctx, in.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, utils.NotFoundError("Staff member not found")
	}

	err = s.requestRepo.UpdateWithRetry(ctx, id, func(req *models.MaintenanceRequest) error {
		if req.ActiveAssignment(in.StaffID) != nil {
			return utils.BadRequestError("Staff member already assigned to this request")
		}
		req.Assignments = append(req.Assignments, models.Assignment{
			StaffID:    in.StaffID,
			AssignedAt: time.Now().UTC(),
			Notes:      in.Notes,
		})
		req.Status = models.StatusInProgress
		return nil
	})
	if err != nil {
		return nil, mapNoRows(err, "Request not found")
	}
	return s.Get(ctx, id)
}

// AddNote appends an immutable note; notes are never edited or removed.
func (s *RequestService) AddNote(ctx context.Context, id uuid.UUID, in dtos.AddNoteRequest) (*models.MaintenanceRequest, error) {
	err := s.requestRepo.UpdateWithRetry(ctx, id, func(req *models.MaintenanceRequest) error {
		req.Notes = append(req.Notes, models.Note{
			ID:         uuid.New(),
			AuthorType: in.AuthorType,
			AuthorID:   in.AuthorID,
			AuthorName: in.AuthorName,
			Body:       in.Body,
			CreatedAt:  time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, mapNoRows(err, "Request not found")
	}
	return s.Get(ctx, id)
}

// Complete stamps completed_at on the staff member's active assignment and
// forces the request into COMPLETED.
func (s *RequestService) Complete(ctx context.Context, id uuid.UUID, staffID uuid.UUID) (*models.MaintenanceRequest, error) {
	err := s.requestRepo.UpdateWithRetry(ctx, id, func(req *models.MaintenanceRequest) error {
		assignment := req.ActiveAssignment(staffID)
		if assignment == nil {
			return utils.NotFoundError("Active assignment not found for this staff member")
		}
		now := time.Now().UTC()
		assignment.CompletedAt = &now
		req.Status = models.StatusCompleted
		if req.ClosedAt == nil {
			req.ClosedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, mapNoRows(err, "Request not found")
	}
	return s.Get(ctx, id)
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep/internal/dtos"
	"github.com/upkeephq/upkeep/internal/models"
	"github.com/upkeephq/upkeep/internal/repositories"
	"github.com/upkeephq/upkeep/internal/utils"
)

type TenantService struct {
	tenantRepo  repositories.TenantRepository
	unitRepo    repositories.UnitRepository
	requestRepo repositories.RequestRepository
}

func NewTenantService(
	tenantRepo repositories.TenantRepository,
	unitRepo repositories.UnitRepository,
	requestRepo repositories.RequestRepository,
) *TenantService {
	return &TenantService{tenantRepo: tenantRepo, unitRepo: unitRepo, requestRepo: requestRepo}
}

func (s *TenantService) Create(ctx context.Context, in dtos.CreateTenantRequest) (*models.Tenant, error) {
	unit, err := s.unitRepo.GetByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, utils.NotFoundError("Unit not found")
	}

	existing, err := s.tenantRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.BadRequestError("Email already registered")
	}

	t := &models.Tenant{
		ID:           uuid.New(),
		UnitID:       in.UnitID,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		MoveInDate:   in.MoveInDate,
		LeaseEndDate: in.LeaseEndDate,
		Active:       true,
	}
	if in.EmergencyContact != nil {
		t.EmergencyContact = &models.EmergencyContact{
			Name:         in.EmergencyContact.Name,
			Phone:        in.EmergencyContact.Phone,
			Relationship: in.EmergencyContact.Relationship,
		}
	}
	if err := s.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.tenantRepo.GetByID(ctx, t.ID)
}

func (s *TenantService) List(ctx context.Context, unitID string, skip, limit int) ([]*models.Tenant, error) {
	skip, limit = normalizePage(skip, limit)

	var (
		list []*models.Tenant
		err  error
	)
	if unitID != "" {
		uid, parseErr := uuid.Parse(unitID)
		if parseErr != nil {
			return nil, utils.BadRequestError("Invalid unit_id")
		}
		list, err = s.tenantRepo.ListByUnitID(ctx, uid, skip, limit)
	} else {
		list, err = s.tenantRepo.List(ctx, skip, limit)
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Tenant{}
	}
	return list, nil
}

func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, utils.NotFoundError("Tenant not found")
	}
	return t, nil
}

func (s *TenantService) Update(ctx context.Context, id uuid.UUID, in dtos.UpdateTenantRequest) (*models.Tenant, error) {
	if in.IsEmpty() {
		return nil, utils.BadRequestError("No fields to update")
	}

	if in.Email != nil {
		existing, err := s.tenantRepo.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, utils.BadRequestError("Email already registered")
		}
	}

	err := s.tenantRepo.UpdateWithRetry(ctx, id, func(t *models.Tenant) error {
		if in.UnitID != nil {
			t.UnitID = *in.UnitID
		}
		if in.FullName != nil {
			t.FullName = *in.FullName
		}
		if in.Email != nil {
			t.Email = *in.Email
		}
		if in.Phone != nil {
			t.Phone = in.Phone
		}
		if in.MoveInDate != nil {
			t.MoveInDate = in.MoveInDate
		}
		if in.LeaseEndDate != nil {
			t.LeaseEndDate = in.LeaseEndDate
		}
		if in.EmergencyContact != nil {
			t.EmergencyContact = &models.EmergencyContact{
				Name:         in.EmergencyContact.Name,
				Phone:        in.EmergencyContact.Phone,
				Relationship: in.EmergencyContact.Relationship,
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapNoRows(err, "Tenant not found")
	}
	return s.Get(ctx, id)
}

// Delete refuses to remove a tenant that still owns requests.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.requestRepo.CountByTenantID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.BadRequestError(fmt.Sprintf("Cannot delete tenant with %d associated requests", count))
	}
	if err := s.tenantRepo.Delete(ctx, id); err != nil {
		return mapNoRows(err, "Tenant not found")
	}
	return nil
}

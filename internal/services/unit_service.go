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

type UnitService struct {
	unitRepo     repositories.UnitRepository
	buildingRepo repositories.BuildingRepository
	tenantRepo   repositories.TenantRepository
}

func NewUnitService(
	unitRepo repositories.UnitRepository,
	buildingRepo repositories.BuildingRepository,
	tenantRepo repositories.TenantRepository,
) *UnitService {
	return &UnitService{unitRepo: unitRepo, buildingRepo: buildingRepo, tenantRepo: tenantRepo}
}

func (s *UnitService) Create(ctx context.Context, in dtos.CreateUnitRequest) (*models.Unit, error) {
	building, err := s.buildingRepo.GetByID(ctx, in.BuildingID)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, utils.NotFoundError("Building not found")
	}

	dup, err := s.unitRepo.CountByBuildingAndNumber(ctx, in.BuildingID, in.UnitNumber, nil)
	if err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, utils.BadRequestError("Unit number already exists in this building")
	}

	u := &models.Unit{
		ID:         uuid.New(),
		BuildingID: in.BuildingID,
		UnitNumber: in.UnitNumber,
		Floor:      in.Floor,
		Bedrooms:   in.Bedrooms,
		Bathrooms:  in.Bathrooms,
		SquareFeet: in.SquareFeet,
	}
	if err := s.unitRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.unitRepo.GetByID(ctx, u.ID)
}

func (s *UnitService) List(ctx context.Context, buildingID string, skip, limit int) ([]*models.Unit, error) {
	skip, limit = normalizePage(skip, limit)

	var (
		list []*models.Unit
		err  error
	)
	if buildingID != "" {
		bldgID, parseErr := uuid.Parse(buildingID)
		if parseErr != nil {
			return nil, utils.BadRequestError("Invalid building_id")
		}
		list, err = s.unitRepo.ListByBuildingID(ctx, bldgID, skip, limit)
	} else {
		list, err = s.unitRepo.List(ctx, skip, limit)
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Unit{}
	}
	return list, nil
}

func (s *UnitService) Get(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	u, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, utils.NotFoundError("Unit not found")
	}
	return u, nil
}

func (s *UnitService) Update(ctx context.Context, id uuid.UUID, in dtos.UpdateUnitRequest) (*models.Unit, error) {
	if in.IsEmpty() {
		return nil, utils.BadRequestError("No fields to update")
	}

	err := s.unitRepo.UpdateWithRetry(ctx, id, func(u *models.Unit) error {
		if in.BuildingID != nil {
			u.BuildingID = *in.BuildingID
		}
		if in.UnitNumber != nil {
			u.UnitNumber = *in.UnitNumber
		}
		if in.Floor != nil {
			u.Floor = in.Floor
		}
		if in.Bedrooms != nil {
			u.Bedrooms = in.Bedrooms
		}
		if in.Bathrooms != nil {
			u.Bathrooms = in.Bathrooms
		}
		if in.SquareFeet != nil {
			u.SquareFeet = in.SquareFeet
		}

		// Re-check uniqueness when the number or building moved.
		if in.UnitNumber != nil || in.BuildingID != nil {
			dup, err := s.unitRepo.CountByBuildingAndNumber(ctx, u.BuildingID, u.UnitNumber, &u.ID)
			if err != nil {
				return err
			}
			if dup > 0 {
				return utils.BadRequestError("Unit number already exists in this building")
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapNoRows(err, "Unit not found")
	}
	return s.Get(ctx, id)
}

// Delete refuses to remove a unit that still houses tenants.
func (s *UnitService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.tenantRepo.CountByUnitID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.BadRequestError(fmt.Sprintf("Cannot delete unit with %d associated tenants", count))
	}
	if err := s.unitRepo.Delete(ctx, id); err != nil {
		return mapNoRows(err, "Unit not found")
	}
	return nil
}

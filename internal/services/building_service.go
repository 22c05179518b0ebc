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

type BuildingService struct {
	buildingRepo repositories.BuildingRepository
	unitRepo     repositories.UnitRepository
}

func NewBuildingService(buildingRepo repositories.BuildingRepository, unitRepo repositories.UnitRepository) *BuildingService {
	return &BuildingService{buildingRepo: buildingRepo, unitRepo: unitRepo}
}

func (s *BuildingService) Create(ctx context.Context, in dtos.CreateBuildingRequest) (*models.Building, error) {
	city, state := in.City, in.State
	if city == "" {
		city = "Boston"
	}
	if state == "" {
		state = "MA"
	}
	b := &models.Building{
		ID:           uuid.New(),
		Name:         in.Name,
		Address:      in.Address,
		Neighborhood: in.Neighborhood,
		City:         city,
		State:        state,
		ZipCode:      in.ZipCode,
	}
	if err := s.buildingRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return s.buildingRepo.GetByID(ctx, b.ID)
}

func (s *BuildingService) List(ctx context.Context, skip, limit int) ([]*models.Building, error) {
	skip, limit = normalizePage(skip, limit)
	list, err := s.buildingRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Building{}
	}
	return list, nil
}

func (s *BuildingService) Get(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	b, err := s.buildingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, utils.NotFoundError("Building not found")
	}
	return b, nil
}

func (s *BuildingService) Update(ctx context.Context, id uuid.UUID, in dtos.UpdateBuildingRequest) (*models.Building, error) {
	if in.IsEmpty() {
		return nil, utils.BadRequestError("No fields to update")
	}
	err := s.buildingRepo.UpdateWithRetry(ctx, id, func(b *models.Building) error {
		if in.Name != nil {
			b.Name = *in.Name
		}
		if in.Address != nil {
			b.Address = *in.Address
		}
		if in.Neighborhood != nil {
			b.Neighborhood = in.Neighborhood
		}
		if in.City != nil {
			b.City = *in.City
		}
		if in.State != nil {
			b.State = *in.State
		}
		if in.ZipCode != nil {
			b.ZipCode = in.ZipCode
		}
		return nil
	})
	if err != nil {
		return nil, mapNoRows(err, "Building not found")
	}
	return s.Get(ctx, id)
}

// Delete refuses to remove a building that still has units.
func (s *BuildingService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.unitRepo.CountByBuildingID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.BadRequestError(fmt.Sprintf("Cannot delete building with %d associated units", count))
	}
	if err := s.buildingRepo.Delete(ctx, id); err != nil {
		return mapNoRows(err, "Building not found")
	}
	return nil
}

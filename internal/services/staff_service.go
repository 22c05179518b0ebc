package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep/internal/dtos"
	"github.com/upkeephq/upkeep/internal/models"
	"github.com/upkeephq/upkeep/internal/repositories"
	"github.com/upkeephq/upkeep/internal/utils"
)

type StaffService struct {
	staffRepo repositories.StaffRepository
}

func NewStaffService(staffRepo repositories.StaffRepository) *StaffService {
	return &StaffService{staffRepo: staffRepo}
}

func (s *StaffService) Create(ctx context.Context, in dtos.CreateStaffRequest) (*models.Staff, error) {
	existing, err := s.staffRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.BadRequestError("Email already registered")
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	specialties := in.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	st := &models.Staff{
		ID:          uuid.New(),
		FullName:    in.FullName,
		Email:       in.Email,
		Phone:       in.Phone,
		Role:        in.Role,
		Specialties: specialties,
		HireDate:    in.HireDate,
		Active:      active,
	}
	if err := s.staffRepo.Create(ctx, st); err != nil {
		return nil, err
	}
	return s.staffRepo.GetByID(ctx, st.ID)
}

func (s *StaffService) List(ctx context.Context, active *bool, skip, limit int) ([]*models.Staff, error) {
	skip, limit = normalizePage(skip, limit)
	list, err := s.staffRepo.List(ctx, active, skip, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Staff{}
	}
	return list, nil
}

func (s *StaffService) Get(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	st, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, utils.NotFoundError("Staff member not found")
	}
	return st, nil
}

func (s *StaffService) Update(ctx context.Context, id uuid.UUID, in dtos.UpdateStaffRequest) (*models.Staff, error) {
	if in.IsEmpty() {
		return nil, utils.BadRequestError("No fields to update")
	}

	if in.Email != nil {
		existing, err := s.staffRepo.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, utils.BadRequestError("Email already registered")
		}
	}

	err := s.staffRepo.UpdateWithRetry(ctx, id, func(st *models.Staff) error {
		if in.FullName != nil {
			st.FullName = *in.FullName
		}
		if in.Email != nil {
			st.Email = *in.Email
		}
		if in.Phone != nil {
			st.Phone = in.Phone
		}
		if in.Role != nil {
			st.Role = *in.Role
		}
		if in.Specialties != nil {
			st.Specialties = in.Specialties
		}
		if in.HireDate != nil {
			st.HireDate = in.HireDate
		}
		if in.Active != nil {
			st.Active = *in.Active
		}
		return nil
	})
	if err != nil {
		return nil, mapNoRows(err, "Staff member not found")
	}
	return s.Get(ctx, id)
}

// Delete deactivates rather than removes, so past assignments keep a
// resolvable staff record.
func (s *StaffService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.staffRepo.Deactivate(ctx, id); err != nil {
		return mapNoRows(err, "Staff member not found")
	}
	return nil
}

package dtos

import (
	"time"

	"github.com/google/uuid"
)

/* ───────────── buildings ───────────── */

type CreateBuildingRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Address      string  `json:"address" validate:"required"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	City         string  `json:"city,omitempty"`
	State        string  `json:"state,omitempty"`
	ZipCode      *string `json:"zip_code,omitempty"`
}

type UpdateBuildingRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Address      *string `json:"address,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	ZipCode      *string `json:"zip_code,omitempty"`
}

func (u *UpdateBuildingRequest) IsEmpty() bool {
	return u.Name == nil && u.Address == nil && u.Neighborhood == nil &&
		u.City == nil && u.State == nil && u.ZipCode == nil
}

/* ───────────── units ───────────── */

type CreateUnitRequest struct {
	BuildingID uuid.UUID `json:"building_id" validate:"required"`
	UnitNumber string    `json:"unit_number" validate:"required,max=50"`
	Floor      *int      `json:"floor,omitempty"`
	Bedrooms   *int      `json:"bedrooms,omitempty"`
	Bathrooms  *int      `json:"bathrooms,omitempty"`
	SquareFeet *int      `json:"square_feet,omitempty"`
}

type UpdateUnitRequest struct {
	BuildingID *uuid.UUID `json:"building_id,omitempty"`
	UnitNumber *string    `json:"unit_number,omitempty" validate:"omitempty,max=50"`
	Floor      *int       `json:"floor,omitempty"`
	Bedrooms   *int       `json:"bedrooms,omitempty"`
	Bathrooms  *int       `json:"bathrooms,omitempty"`
	SquareFeet *int       `json:"square_feet,omitempty"`
}

func (u *UpdateUnitRequest) IsEmpty() bool {
	return u.BuildingID == nil && u.UnitNumber == nil && u.Floor == nil &&
		u.Bedrooms == nil && u.Bathrooms == nil && u.SquareFeet == nil
}

/* ───────────── tenants ───────────── */

type EmergencyContactDTO struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
}

type CreateTenantRequest struct {
	UnitID           uuid.UUID            `json:"unit_id" validate:"required"`
	FullName         string               `json:"full_name" validate:"required,max=200"`
	Email            string               `json:"email" validate:"required,email"`
	Phone            *string              `json:"phone,omitempty"`
	MoveInDate       *time.Time           `json:"move_in_date,omitempty"`
	LeaseEndDate     *time.Time           `json:"lease_end_date,omitempty"`
	EmergencyContact *EmergencyContactDTO `json:"emergency_contact,omitempty" validate:"omitempty"`
}

type UpdateTenantRequest struct {
	UnitID           *uuid.UUID           `json:"unit_id,omitempty"`
	FullName         *string              `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Email            *string              `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string              `json:"phone,omitempty"`
	MoveInDate       *time.Time           `json:"move_in_date,omitempty"`
	LeaseEndDate     *time.Time           `json:"lease_end_date,omitempty"`
	EmergencyContact *EmergencyContactDTO `json:"emergency_contact,omitempty" validate:"omitempty"`
}

func (u *UpdateTenantRequest) IsEmpty() bool {
	return u.UnitID == nil && u.FullName == nil && u.Email == nil &&
		u.Phone == nil && u.MoveInDate == nil && u.LeaseEndDate == nil &&
		u.EmergencyContact == nil
}

/* ───────────── staff ───────────── */

type CreateStaffRequest struct {
	FullName    string     `json:"full_name" validate:"required,max=200"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       *string    `json:"phone,omitempty"`
	Role        string     `json:"role" validate:"required,max=100"`
	Specialties []string   `json:"specialties,omitempty"`
	HireDate    *time.Time `json:"hire_date,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

type UpdateStaffRequest struct {
	FullName    *string    `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string    `json:"phone,omitempty"`
	Role        *string    `json:"role,omitempty" validate:"omitempty,max=100"`
	Specialties []string   `json:"specialties,omitempty"`
	HireDate    *time.Time `json:"hire_date,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

func (u *UpdateStaffRequest) IsEmpty() bool {
	return u.FullName == nil && u.Email == nil && u.Phone == nil &&
		u.Role == nil && u.Specialties == nil && u.HireDate == nil &&
		u.Active == nil
}

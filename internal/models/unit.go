package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit represents a tenant-addressable space inside a building.
type Unit struct {
	Versioned

	ID         uuid.UUID `json:"id"`
	BuildingID uuid.UUID `json:"building_id"`
	UnitNumber string    `json:"unit_number"`
	Floor      *int      `json:"floor,omitempty"`
	Bedrooms   *int      `json:"bedrooms,omitempty"`
	Bathrooms  *int      `json:"bathrooms,omitempty"`
	SquareFeet *int      `json:"square_feet,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *Unit) GetID() string { return u.ID.String() }

package models

import (
	"time"

	"github.com/google/uuid"
)

type Building struct {
	Versioned

	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Neighborhood *string   `json:"neighborhood,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      *string   `json:"zip_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (b *Building) GetID() string { return b.ID.String() }

package models

import (
	"time"

	"github.com/google/uuid"
)

type Staff struct {
	Versioned

	ID          uuid.UUID  `json:"id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Specialties []string   `json:"specialties"`
	HireDate    *time.Time `json:"hire_date,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (s *Staff) GetID() string { return s.ID.String() }

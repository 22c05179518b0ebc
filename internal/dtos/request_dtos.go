package dtos

import (
	"time"

	"github.com/google/uuid"
)

/*
ListRequestsQuery is the request DTO for GET /requests/. Empty strings mean
the filter was omitted from the query string.
*/
type ListRequestsQuery struct {
	Status     string
	TenantID   string
	BuildingID string
	IssueType  string
	Priority   string
	Skip       int
	Limit      int
}

type LocationDetailsDTO struct {
	Neighborhood *string  `json:"neighborhood,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

type CreateRequestRequest struct {
	ExternalID      *string             `json:"external_id,omitempty"`
	TenantID        uuid.UUID           `json:"tenant_id" validate:"required"`
	UnitID          uuid.UUID           `json:"unit_id" validate:"required"`
	BuildingID      uuid.UUID           `json:"building_id" validate:"required"`
	IssueType       string              `json:"issue_type" validate:"required,oneof=Plumbing Electrical HVAC Appliances Cleaning 'Pest Control' Security Structural Other"`
	Priority        string              `json:"priority" validate:"required,oneof=Low Medium High Emergency"`
	Description     string              `json:"description" validate:"required,max=2000"`
	Status          string              `json:"status,omitempty" validate:"omitempty,oneof=OPEN IN_PROGRESS PENDING COMPLETED CLOSED"`
	TargetSLAHours  *int                `json:"target_sla_hours,omitempty" validate:"omitempty,gt=0"`
	LocationDetails *LocationDetailsDTO `json:"location_details,omitempty"`
}

// UpdateRequestRequest is a partial update; nil fields are left untouched.
// Status accepts any of the five values with no transition guard - a direct
// overwrite, matching the documented lifecycle contract.
type UpdateRequestRequest struct {
	IssueType       *string `json:"issue_type,omitempty" validate:"omitempty,oneof=Plumbing Electrical HVAC Appliances Cleaning 'Pest Control' Security Structural Other"`
	Priority        *string `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High Emergency"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=OPEN IN_PROGRESS PENDING COMPLETED CLOSED"`
	TargetSLAHours  *int    `json:"target_sla_hours,omitempty" validate:"omitempty,gt=0"`
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
}

// IsEmpty reports whether no field is set, which the update endpoint
// rejects outright.
func (u *UpdateRequestRequest) IsEmpty() bool {
	return u.IssueType == nil && u.Priority == nil && u.Description == nil &&
		u.Status == nil && u.TargetSLAHours == nil && u.ResolutionNotes == nil
}

type AssignStaffRequest struct {
	StaffID uuid.UUID `json:"staff_id" validate:"required"`
	Notes   *string   `json:"notes,omitempty"`
}

type AddNoteRequest struct {
	AuthorType string    `json:"author_type" validate:"required,oneof=staff tenant"`
	AuthorID   uuid.UUID `json:"author_id" validate:"required"`
	AuthorName string    `json:"author_name" validate:"required"`
	Body       string    `json:"body" validate:"required,max=2000"`
}

// SLABreachEvent is handed to the notifier when the monitor flags a request.
type SLABreachEvent struct {
	RequestID      uuid.UUID
	BuildingID     uuid.UUID
	Status         string
	IssueType      string
	Priority       string
	TargetSLAHours int
	CreatedAt      time.Time
	AgeHours       float64
}

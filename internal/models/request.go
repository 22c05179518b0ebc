package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusOpen       RequestStatus = "OPEN"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusPending    RequestStatus = "PENDING"
	StatusCompleted  RequestStatus = "COMPLETED"
	StatusClosed     RequestStatus = "CLOSED"
)

// IsTerminal reports whether the status counts as closed for metrics and
// SLA purposes.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusClosed
}

type Priority string

const (
	PriorityLow       Priority = "Low"
	PriorityMedium    Priority = "Medium"
	PriorityHigh      Priority = "High"
	PriorityEmergency Priority = "Emergency"
)

type IssueType string

const (
	IssuePlumbing    IssueType = "Plumbing"
	IssueElectrical  IssueType = "Electrical"
	IssueHVAC        IssueType = "HVAC"
	IssueAppliances  IssueType = "Appliances"
	IssueCleaning    IssueType = "Cleaning"
	IssuePestControl IssueType = "Pest Control"
	IssueSecurity    IssueType = "Security"
	IssueStructural  IssueType = "Structural"
	IssueOther       IssueType = "Other"
)

// Assignment links a staff member to a request. Completion is signaled by
// the presence of CompletedAt; once set it is never retracted.
type Assignment struct {
	StaffID     uuid.UUID  `json:"staff_id"`
	AssignedAt  time.Time  `json:"assigned_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// Note is an append-only communication entry on a request, authored by
// staff or the request's tenant.
type Note struct {
	ID         uuid.UUID `json:"id"`
	AuthorType string    `json:"author_type"` // "staff" or "tenant"
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type LocationDetails struct {
	Neighborhood *string  `json:"neighborhood,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// MaintenanceRequest is the one entity with a real lifecycle: status
// transitions, staff assignments and notes all live on this row. The
// assignment and note sequences are stored as ordered JSONB documents.
type MaintenanceRequest struct {
	Versioned

	ID         uuid.UUID `json:"id"`
	ExternalID *string   `json:"external_id,omitempty"`
	TenantID   uuid.UUID `json:"tenant_id"`
	UnitID     uuid.UUID `json:"unit_id"`
	BuildingID uuid.UUID `json:"building_id"`

	IssueType   IssueType     `json:"issue_type"`
	Priority    Priority      `json:"priority"`
	Status      RequestStatus `json:"status"`
	Description string        `json:"description"`

	TargetSLAHours  int              `json:"target_sla_hours"`
	LocationDetails *LocationDetails `json:"location_details,omitempty"`
	ResolutionNotes *string          `json:"resolution_notes,omitempty"`
	SLABreached     bool             `json:"sla_breached"`

	Assignments []Assignment `json:"assignments"`
	Notes       []Note       `json:"notes"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

func (r *MaintenanceRequest) GetID() string {
	return r.ID.String()
}

// ActiveAssignment returns the first uncompleted assignment for the given
// staff member, or nil.
func (r *MaintenanceRequest) ActiveAssignment(staffID uuid.UUID) *Assignment {
	for i := range r.Assignments {
		a := &r.Assignments[i]
		if a.StaffID == staffID && a.CompletedAt == nil {
			return a
		}
	}
	return nil
}

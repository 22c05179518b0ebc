package client

import (
	"encoding/json"
	"time"
)

// Entity types as seen over the wire. Identifiers are strings so the
// client stays agnostic about the server's id scheme.

type Assignment struct {
	StaffID     string     `json:"staff_id"`
	AssignedAt  time.Time  `json:"assigned_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type Note struct {
	ID         string    `json:"id"`
	AuthorType string    `json:"author_type"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type Request struct {
	ID              string       `json:"id"`
	TenantID        string       `json:"tenant_id"`
	UnitID          string       `json:"unit_id"`
	BuildingID      string       `json:"building_id"`
	IssueType       string       `json:"issue_type"`
	Priority        string       `json:"priority"`
	Status          string       `json:"status"`
	Description     string       `json:"description"`
	TargetSLAHours  int          `json:"target_sla_hours"`
	ResolutionNotes *string      `json:"resolution_notes,omitempty"`
	SLABreached     bool         `json:"sla_breached"`
	Assignments     []Assignment `json:"assignments"`
	Notes           []Note       `json:"notes"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	ClosedAt        *time.Time   `json:"closed_at,omitempty"`
}

// Some backends emit `_id` instead of `id`. Both are folded into ID here
// so nothing downstream ever sees the underscore variant.
func (r *Request) UnmarshalJSON(data []byte) error {
	type alias Request
	aux := struct {
		*alias
		AltID string `json:"_id"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = aux.AltID
	}
	return nil
}

type Building struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      *string `json:"zip_code,omitempty"`
}

func (b *Building) UnmarshalJSON(data []byte) error {
	type alias Building
	aux := struct {
		*alias
		AltID string `json:"_id"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = aux.AltID
	}
	return nil
}

type Unit struct {
	ID         string `json:"id"`
	BuildingID string `json:"building_id"`
	UnitNumber string `json:"unit_number"`
	Floor      *int   `json:"floor,omitempty"`
	Bedrooms   *int   `json:"bedrooms,omitempty"`
	Bathrooms  *int   `json:"bathrooms,omitempty"`
	SquareFeet *int   `json:"square_feet,omitempty"`
}

func (u *Unit) UnmarshalJSON(data []byte) error {
	type alias Unit
	aux := struct {
		*alias
		AltID string `json:"_id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.AltID
	}
	return nil
}

type Tenant struct {
	ID           string     `json:"id"`
	UnitID       string     `json:"unit_id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone,omitempty"`
	MoveInDate   *time.Time `json:"move_in_date,omitempty"`
	LeaseEndDate *time.Time `json:"lease_end_date,omitempty"`
	Active       bool       `json:"active"`
}

func (t *Tenant) UnmarshalJSON(data []byte) error {
	type alias Tenant
	aux := struct {
		*alias
		AltID string `json:"_id"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = aux.AltID
	}
	return nil
}

type Staff struct {
	ID          string     `json:"id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Specialties []string   `json:"specialties"`
	HireDate    *time.Time `json:"hire_date,omitempty"`
	Active      bool       `json:"active"`
}

func (s *Staff) UnmarshalJSON(data []byte) error {
	type alias Staff
	aux := struct {
		*alias
		AltID string `json:"_id"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = aux.AltID
	}
	return nil
}

// RequestFilter narrows ListRequests. Empty values are omitted from the
// query string entirely rather than sent as empty-string matches.
type RequestFilter struct {
	Status     string
	TenantID   string
	BuildingID string
	IssueType  string
	Priority   string
}

type CreateRequestInput struct {
	TenantID        string  `json:"tenant_id"`
	UnitID          string  `json:"unit_id"`
	BuildingID      string  `json:"building_id"`
	IssueType       string  `json:"issue_type"`
	Priority        string  `json:"priority"`
	Description     string  `json:"description"`
	Status          string  `json:"status,omitempty"`
	TargetSLAHours  int     `json:"target_sla_hours,omitempty"`
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
}

type MetricsOverview struct {
	TotalOpenRequests     int     `json:"total_open_requests"`
	TotalClosedRequests   int     `json:"total_closed_requests"`
	TotalRequests         int     `json:"total_requests"`
	AverageResolutionTime float64 `json:"average_resolution_time"`
	TopIssueTypes         []struct {
		IssueType string `json:"issue_type"`
		Count     int    `json:"count"`
	} `json:"top_issue_types"`
	SLABreachCount int     `json:"sla_breach_count"`
	CompletionRate float64 `json:"completion_rate"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type BuildingPerformance struct {
	BuildingID     string `json:"_id"`
	BuildingName   string `json:"building_name"`
	TotalRequests  int    `json:"total_requests"`
	OpenRequests   int    `json:"open_requests"`
	ClosedRequests int    `json:"closed_requests"`
}

type StaffPerformance struct {
	StaffID              string `json:"_id"`
	StaffName            string `json:"staff_name"`
	StaffRole            string `json:"staff_role"`
	TotalAssignments     int    `json:"total_assignments"`
	CompletedAssignments int    `json:"completed_assignments"`
	ActiveAssignments    int    `json:"active_assignments"`
}

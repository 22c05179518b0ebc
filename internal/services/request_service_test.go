package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep/internal/dtos"
	"github.com/upkeephq/upkeep/internal/models"
	"github.com/upkeephq/upkeep/internal/utils"
)

type requestFixture struct {
	svc      *RequestService
	requests *fakeRequestRepo
	staff    *fakeStaffRepo
	tenantID uuid.UUID
	unitID   uuid.UUID
	bldgID   uuid.UUID
	staffID  uuid.UUID
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	ctx := context.Background()

	buildings := newFakeBuildingRepo()
	units := newFakeUnitRepo()
	tenants := newFakeTenantRepo()
	staff := newFakeStaffRepo()
	requests := newFakeRequestRepo()

	f := &requestFixture{
		svc:      NewRequestService(requests, tenants, units, buildings, staff),
		requests: requests,
		staff:    staff,
		tenantID: uuid.New(),
		unitID:   uuid.New(),
		bldgID:   uuid.New(),
		staffID:  uuid.New(),
	}

	require.NoError(t, buildings.Create(ctx, &models.Building{ID: f.bldgID, Name: "Harbor Tower", Address: "1 Pier St", City: "Boston", State: "MA"}))
	require.NoError(t, units.Create(ctx, &models.Unit{ID: f.unitID, BuildingID: f.bldgID, UnitNumber: "4B"}))
	require.NoError(t, tenants.Create(ctx, &models.Tenant{ID: f.tenantID, UnitID: f.unitID, FullName: "Dana Reyes", Email: "dana@example.com", Active: true}))
	require.NoError(t, staff.Create(ctx, &models.Staff{ID: f.staffID, FullName: "Lee Park", Email: "lee@example.com", Role: "Technician", Active: true}))
	return f
}

func (f *requestFixture) create(t *testing.T) *models.MaintenanceRequest {
	t.Helper()
	req, err := f.svc.Create(context.Background(), dtos.CreateRequestRequest{
		TenantID:    f.tenantID,
		UnitID:      f.unitID,
		BuildingID:  f.bldgID,
		IssueType:   "Plumbing",
		Priority:    "Medium",
		Description: "Leaky faucet",
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequestDefaults(t *testing.T) {
	f := newRequestFixture(t)
	req := f.create(t)

	require.Equal(t, models.StatusOpen, req.Status)
	require.Equal(t, 72, req.TargetSLAHours)
	require.Empty(t, req.Assignments)
	require.Empty(t, req.Notes)
	require.False(t, req.SLABreached)
}

func TestCreateRequestUnknownTenant(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.svc.Create(context.Background(), dtos.CreateRequestRequest{
		TenantID:    uuid.New(),
		UnitID:      f.unitID,
		BuildingID:  f.bldgID,
		IssueType:   "Plumbing",
		Priority:    "Low",
		Description: "x",
	})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)
	require.Equal(t, "Tenant not found", appErr.Detail)
}

func TestUpdateRequestRejectsEmptyBody(t *testing.T) {
	f := newRequestFixture(t)
	req := f.create(t)

	_, err := f.svc.Update(context.Background(), req.ID, dtos.UpdateRequestRequest{})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 400, appErr.StatusCode)
	require.Equal(t, "No fields to update", appErr.Detail)
}

func TestUpdateStatusIsUnguardedOverwrite(t *testing.T) {
	f := newRequestFixture(t)
	req := f.create(t)
	ctx := context.Background()

	closed := "CLOSED"
	updated, err := f.svc.Update(ctx, req.ID, dtos.UpdateRequestRequest{Status: &closed})
	require.NoError(t, err)
	require.Equal(t, models.StatusClosed, updated.Status)
	require.NotNil(t, updated.ClosedAt)
	firstClosedAt := *updated.ClosedAt

	// Reopening is allowed and does not clear closed_at.
	open := "OPEN"
	reopened, err := f.svc.Update(ctx, req.ID, dtos.UpdateRequestRequest{Status: &open})
	require.NoError(t, err)
	require.Equal(t, models.StatusOpen, reopened.Status)
	require.NotNil(t, reopened.ClosedAt)

	// Closing again keeps the original stamp.
	reclosed, err := f.svc.Update(ctx, req.ID, dtos.UpdateRequestRequest{Status: &closed})
	require.NoError(t, err)
	require.Equal(t, firstClosedAt, *reclosed.ClosedAt)
}

func TestAssignForcesInProgressAndBlocksDuplicates(t *testing.T) {
	f := newRequestFixture(t)
	req := f.create(t)
	ctx := context.Background()

	updated, err := f.svc.Assign(ctx, req.ID, dtos.AssignStaffRequest{StaffID: f.staffID})
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, updated.Status)
	require.Len(t, updated.Assignments, 1)
	require.Equal(t, f.staffID, updated.Assignments[0].StaffID)
	require.Nil(t, updated.Assignments[0].CompletedAt)

	_, err = f.svc.Assign(ctx, req.ID, dtos.AssignStaffRequest{StaffID: f.staffID})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 400, appErr.StatusCode)
	require.Equal(t, "Staff member already assigned to this request", appErr.Detail)
}

func TestAssignUnknownStaff(t *testing.T) {
	f := newRequestFixture(t)
	req := f.create(t)

	_, err := f.svc.Assign(context.Background(), req.ID, dtos.AssignStaffRequest{StaffID: uuid.New()})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)
	require.Equal(t, "Staff member not found", appErr.Detail)
}

func TestCompleteStampsAssignmentAndClosesRequest(t *testing.T) {
	f := newRequestFixture(t)
	req := f.create(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, req.ID, dtos.AssignStaffRequest{StaffID: f.staffID})
	require.NoError(t, err)

	completed, err := f.svc.Complete(ctx, req.ID, f.staffID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, completed.Status)
	require.NotNil(t, completed.Assignments[0].CompletedAt)
	require.NotNil(t, completed.ClosedAt)

	// The assignment is no longer active, so completing again is a 404.
	_, err = f.svc.Complete(ctx, req.ID, f.staffID)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)
	require.Equal(t, "Active assignment not found for this staff member", appErr.Detail)
}

func TestCompleteAllowsReassignment(t *testing.T) {
	f := newRequestFixture(t)
	req := f.create(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, req.ID, dtos.AssignStaffRequest{StaffID: f.staffID})
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, req.ID, f.staffID)
	require.NoError(t, err)

	// After completion the same staff member can take a fresh assignment.
	updated, err := f.svc.Assign(ctx, req.ID, dtos.AssignStaffRequest{StaffID: f.staffID})
	require.NoError(t, err)
	require.Len(t, updated.Assignments, 2)
	require.Equal(t, models.StatusInProgress, updated.Status)
}

func TestAddNoteAppends(t *testing.T) {
	f := newRequestFixture(t)
	req := f.create(t)
	ctx := context.Background()

	first, err := f.svc.AddNote(ctx, req.ID, dtos.AddNoteRequest{
		AuthorType: "staff",
		AuthorID:   f.staffID,
		AuthorName: "Lee Park",
		Body:       "Ordered a replacement valve.",
	})
	require.NoError(t, err)
	require.Len(t, first.Notes, 1)

	second, err := f.svc.AddNote(ctx, req.ID, dtos.AddNoteRequest{
		AuthorType: "tenant",
		AuthorID:   f.tenantID,
		AuthorName: "Dana Reyes",
		Body:       "Still dripping.",
	})
	require.NoError(t, err)
	require.Len(t, second.Notes, 2)
	require.Equal(t, first.Notes[0].ID, second.Notes[0].ID)
	require.NotEqual(t, second.Notes[0].ID, second.Notes[1].ID)
	require.False(t, second.Notes[1].CreatedAt.IsZero())
}

func TestListRequestsFilters(t *testing.T) {
	f := newRequestFixture(t)
	f.create(t)
	req2, err := f.svc.Create(context.Background(), dtos.CreateRequestRequest{
		TenantID:    f.tenantID,
		UnitID:      f.unitID,
		BuildingID:  f.bldgID,
		IssueType:   "Electrical",
		Priority:    "High",
		Description: "Sparking outlet",
	})
	require.NoError(t, err)

	list, err := f.svc.List(context.Background(), dtos.ListRequestsQuery{IssueType: "Electrical"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, req2.ID, list[0].ID)

	all, err := f.svc.List(context.Background(), dtos.ListRequestsQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestGetRequestNotFound(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.svc.Get(context.Background(), uuid.New())

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)
	require.Equal(t, "Request not found", appErr.Detail)
}

func TestSLAMonitorFlagsBreachOnce(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	req := f.create(t)
	// Age the request past its SLA target.
	stored, _ := f.requests.GetByID(ctx, req.ID)
	stored.CreatedAt = time.Now().UTC().Add(-100 * time.Hour)
	require.NoError(t, f.requests.Update(ctx, stored))

	monitor := NewSLAMonitorService(f.requests, nil)
	require.NoError(t, monitor.RunSLACheck(ctx))

	flagged, err := f.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.True(t, flagged.SLABreached)

	// A second sweep must not pick it up again.
	overdue, err := f.requests.ListOverdue(ctx)
	require.NoError(t, err)
	require.Empty(t, overdue)
}

package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	"github.com/upkeephq/upkeep/internal/models"
)

// RequestFilter narrows List results. Empty string fields mean "no filter",
// mirroring the query-string contract where unset filters are omitted.
type RequestFilter struct {
	Status     string
	TenantID   string
	BuildingID string
	IssueType  string
	Priority   string
}

/* ───────────── public interface ───────────── */

type RequestRepository interface {
	Create(ctx context.Context, req *models.MaintenanceRequest) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error)
	List(ctx context.Context, filter RequestFilter, skip, limit int) ([]*models.MaintenanceRequest, error)
	ListOverdue(ctx context.Context) ([]*models.MaintenanceRequest, error)
	CountByTenantID(ctx context.Context, tenantID uuid.UUID) (int, error)

	Update(ctx context.Context, req *models.MaintenanceRequest) error
	UpdateIfVersion(ctx context.Context, req *models.MaintenanceRequest, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.MaintenanceRequest) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type requestRepo struct {
	*BaseVersionedRepo[*models.MaintenanceRequest]
	db DB
}

func NewRequestRepository(db DB) RequestRepository {
	r := &requestRepo{db: db}
	selectStmt := baseSelectRequest() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanRequest)
	return r
}

/* ---------- create ---------- */

func (r *requestRepo) Create(ctx context.Context, req *models.MaintenanceRequest) error {
	assignments, err := jsonbDoc(req.Assignments)
	if err != nil {
		return err
	}
	notes, err := jsonbDoc(req.Notes)
	if err != nil {
		return err
	}
	loc, err := jsonbOrNull(req.LocationDetails)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO requests (
			id, external_id, tenant_id, unit_id, building_id,
			issue_type, priority, status, description, target_sla_hours,
			location_details, resolution_notes, sla_breached, assignments, notes,
			created_at, updated_at, closed_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,FALSE,$13,$14, NOW(), NOW(), NULL, 1)
	`,
		req.ID, req.ExternalID, req.TenantID, req.UnitID, req.BuildingID,
		req.IssueType, req.Priority, req.Status, req.Description, req.TargetSLAHours,
		loc, req.ResolutionNotes, assignments, notes,
	)
	return err
}

/* ---------- reads ---------- */

func (r *requestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *requestRepo) List(ctx context.Context, filter RequestFilter, skip, limit int) ([]*models.MaintenanceRequest, error) {
	sql := baseSelectRequest()
	var (
		conds []string
		args  []any
	)
	addCond := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	addCond("status", filter.Status)
	addCond("tenant_id", filter.TenantID)
	addCond("building_id", filter.BuildingID)
	addCond("issue_type", filter.IssueType)
	addCond("priority", filter.Priority)

	for i, cond := range conds {
		if i == 0 {
			sql += " WHERE " + cond
		} else {
			sql += " AND " + cond
		}
	}
	args = append(args, skip, limit)
	sql += fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// ListOverdue returns non-terminal requests whose age exceeds their SLA
// target and that have not been flagged yet.
func (r *requestRepo) ListOverdue(ctx context.Context) ([]*models.MaintenanceRequest, error) {
	rows, err := r.db.Query(ctx, baseSelectRequest()+`
		WHERE status NOT IN ('COMPLETED','CLOSED')
		AND sla_breached=FALSE
		AND created_at + (target_sla_hours * INTERVAL '1 hour') < NOW()
		ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepo) CountByTenantID(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM requests WHERE tenant_id=$1`, tenantID).Scan(&n)
	return n, err
}

/* ---------- update / delete ---------- */

func (r *requestRepo) Update(ctx context.Context, req *models.MaintenanceRequest) error {
	_, err := r.update(ctx, req, false, 0)
	return err
}

func (r *requestRepo) UpdateIfVersion(ctx context.Context, req *models.MaintenanceRequest, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, req, true, expected)
}

func (r *requestRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.MaintenanceRequest) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *requestRepo) update(ctx context.Context, req *models.MaintenanceRequest, check bool, expected int64) (pgconn.CommandTag, error) {
	assignments, err := jsonbDoc(req.Assignments)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	notes, err := jsonbDoc(req.Notes)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	loc, err := jsonbOrNull(req.LocationDetails)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	sql := `
		UPDATE requests
		SET issue_type=$1, priority=$2, status=$3, description=$4,
		target_sla_hours=$5, location_details=$6, resolution_notes=$7,
		sla_breached=$8, assignments=$9, notes=$10, closed_at=$11, updated_at=NOW()
	`
	args := []any{
		req.IssueType, req.Priority, req.Status, req.Description,
		req.TargetSLAHours, loc, req.ResolutionNotes,
		req.SLABreached, assignments, notes, req.ClosedAt,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$12 AND row_version=$13`
		args = append(args, req.ID, expected)
	} else {
		sql += ` WHERE id=$12`
		args = append(args, req.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *requestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectRequest() string {
	return `
		SELECT id, external_id, tenant_id, unit_id, building_id,
		issue_type, priority, status, description, target_sla_hours,
		location_details, resolution_notes, sla_breached, assignments, notes,
		created_at, updated_at, closed_at, row_version
		FROM requests`
}

func scanRequest(row pgx.Row) (*models.MaintenanceRequest, error) {
	var (
		req         models.MaintenanceRequest
		loc         pgtype.JSONB
		assignments pgtype.JSONB
		notes       pgtype.JSONB
	)
	if err := row.Scan(
		&req.ID, &req.ExternalID, &req.TenantID, &req.UnitID, &req.BuildingID,
		&req.IssueType, &req.Priority, &req.Status, &req.Description, &req.TargetSLAHours,
		&loc, &req.ResolutionNotes, &req.SLABreached, &assignments, &notes,
		&req.CreatedAt, &req.UpdatedAt, &req.ClosedAt, &req.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if loc.Status == pgtype.Present {
		if err := json.Unmarshal(loc.Bytes, &req.LocationDetails); err != nil {
			return nil, err
		}
	}
	if assignments.Status == pgtype.Present {
		if err := json.Unmarshal(assignments.Bytes, &req.Assignments); err != nil {
			return nil, err
		}
	}
	if notes.Status == pgtype.Present {
		if err := json.Unmarshal(notes.Bytes, &req.Notes); err != nil {
			return nil, err
		}
	}
	if req.Assignments == nil {
		req.Assignments = []models.Assignment{}
	}
	if req.Notes == nil {
		req.Notes = []models.Note{}
	}
	return &req, nil
}

func scanRequests(rows pgx.Rows) ([]*models.MaintenanceRequest, error) {
	var out []*models.MaintenanceRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// jsonbDoc marshals a slice into a JSONB document, mapping nil to the empty
// array so the column is never NULL.
func jsonbDoc(v any) (pgtype.JSONB, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return pgtype.JSONB{Status: pgtype.Null}, err
	}
	if string(b) == "null" {
		b = []byte("[]")
	}
	return pgtype.JSONB{Bytes: b, Status: pgtype.Present}, nil
}

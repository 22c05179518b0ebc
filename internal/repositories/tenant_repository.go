package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	"github.com/upkeephq/upkeep/internal/models"
)

/* ───────────── public interface ───────────── */

type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByEmail(ctx context.Context, email string) (*models.Tenant, error)
	List(ctx context.Context, skip, limit int) ([]*models.Tenant, error)
	ListByUnitID(ctx context.Context, unitID uuid.UUID, skip, limit int) ([]*models.Tenant, error)
	CountByUnitID(ctx context.Context, unitID uuid.UUID) (int, error)

	Update(ctx context.Context, t *models.Tenant) error
	UpdateIfVersion(ctx context.Context, t *models.Tenant, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Tenant) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type tenantRepo struct {
	*BaseVersionedRepo[*models.Tenant]
	db DB
}

func NewTenantRepository(db DB) TenantRepository {
	r := &tenantRepo{db: db}
	selectStmt := baseSelectTenant() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanTenant)
	return r
}

func (r *tenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	ec, err := jsonbOrNull(t.EmergencyContact)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO tenants (
			id, unit_id, full_name, email, phone, move_in_date, lease_end_date,
			emergency_contact, active, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW(), 1)
	`, t.ID, t.UnitID, t.FullName, t.Email, t.Phone, t.MoveInDate, t.LeaseEndDate, ec, t.Active)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *tenantRepo) GetByEmail(ctx context.Context, email string) (*models.Tenant, error) {
	row := r.db.QueryRow(ctx, baseSelectTenant()+" WHERE email=$1 LIMIT 1", email)
	return scanTenant(row)
}

func (r *tenantRepo) List(ctx context.Context, skip, limit int) ([]*models.Tenant, error) {
	rows, err := r.db.Query(ctx, baseSelectTenant()+" ORDER BY full_name OFFSET $1 LIMIT $2", skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTenants(rows)
}

func (r *tenantRepo) ListByUnitID(ctx context.Context, unitID uuid.UUID, skip, limit int) ([]*models.Tenant, error) {
	rows, err := r.db.Query(ctx,
		baseSelectTenant()+" WHERE unit_id=$1 ORDER BY full_name OFFSET $2 LIMIT $3",
		unitID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTenants(rows)
}

func (r *tenantRepo) CountByUnitID(ctx context.Context, unitID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tenants WHERE unit_id=$1`, unitID).Scan(&n)
	return n, err
}

func (r *tenantRepo) Update(ctx context.Context, t *models.Tenant) error {
	_, err := r.update(ctx, t, false, 0)
	return err
}

func (r *tenantRepo) UpdateIfVersion(ctx context.Context, t *models.Tenant, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, t, true, expected)
}

func (r *tenantRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Tenant) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *tenantRepo) update(ctx context.Context, t *models.Tenant, check bool, expected int64) (pgconn.CommandTag, error) {
	ec, err := jsonbOrNull(t.EmergencyContact)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	sql := `
		UPDATE tenants
		SET unit_id=$1, full_name=$2, email=$3, phone=$4, move_in_date=$5,
		lease_end_date=$6, emergency_contact=$7, active=$8, updated_at=NOW()
	`
	args := []any{t.UnitID, t.FullName, t.Email, t.Phone, t.MoveInDate, t.LeaseEndDate, ec, t.Active}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$9 AND row_version=$10`
		args = append(args, t.ID, expected)
	} else {
		sql += ` WHERE id=$9`
		args = append(args, t.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *tenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tenants WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectTenant() string {
	return `
		SELECT id, unit_id, full_name, email, phone, move_in_date, lease_end_date,
		emergency_contact, active, created_at, updated_at, row_version
		FROM tenants`
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var (
		t  models.Tenant
		ec pgtype.JSONB
	)
	if err := row.Scan(
		&t.ID, &t.UnitID, &t.FullName, &t.Email, &t.Phone,
		&t.MoveInDate, &t.LeaseEndDate, &ec, &t.Active,
		&t.CreatedAt, &t.UpdatedAt, &t.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if ec.Status == pgtype.Present {
		if err := json.Unmarshal(ec.Bytes, &t.EmergencyContact); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func scanTenants(rows pgx.Rows) ([]*models.Tenant, error) {
	var out []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// jsonbOrNull marshals v into a JSONB parameter, mapping nil pointers and
// empty slices to SQL NULL.
func jsonbOrNull(v any) (pgtype.JSONB, error) {
	out := pgtype.JSONB{Status: pgtype.Null}
	if v == nil {
		return out, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if string(b) == "null" {
		return out, nil
	}
	out.Bytes = b
	out.Status = pgtype.Present
	return out, nil
}

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

type StaffRepository interface {
	Create(ctx context.Context, s *models.Staff) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error)
	GetByEmail(ctx context.Context, email string) (*models.Staff, error)
	List(ctx context.Context, active *bool, skip, limit int) ([]*models.Staff, error)

	Update(ctx context.Context, s *models.Staff) error
	UpdateIfVersion(ctx context.Context, s *models.Staff, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Staff) error) error

	// Deactivate is the delete operation: staff records are never removed,
	// only flipped inactive, so historical assignments keep resolving.
	Deactivate(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type staffRepo struct {
	*BaseVersionedRepo[*models.Staff]
	db DB
}

func NewStaffRepository(db DB) StaffRepository {
	r := &staffRepo{db: db}
	selectStmt := baseSelectStaff() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanStaff)
	return r
}

func (r *staffRepo) Create(ctx context.Context, s *models.Staff) error {
	specs, err := jsonbOrNull(s.Specialties)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO staff (
			id, full_name, email, phone, role, specialties, hire_date, active,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
	`, s.ID, s.FullName, s.Email, s.Phone, s.Role, specs, s.HireDate, s.Active)
	return err
}

func (r *staffRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *staffRepo) GetByEmail(ctx context.Context, email string) (*models.Staff, error) {
	row := r.db.QueryRow(ctx, baseSelectStaff()+" WHERE email=$1 LIMIT 1", email)
	return scanStaff(row)
}

func (r *staffRepo) List(ctx context.Context, active *bool, skip, limit int) ([]*models.Staff, error) {
	sql := baseSelectStaff()
	args := []any{}
	if active != nil {
		sql += " WHERE active=$1 ORDER BY full_name OFFSET $2 LIMIT $3"
		args = append(args, *active, skip, limit)
	} else {
		sql += " ORDER BY full_name OFFSET $1 LIMIT $2"
		args = append(args, skip, limit)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStaffList(rows)
}

func (r *staffRepo) Update(ctx context.Context, s *models.Staff) error {
	_, err := r.update(ctx, s, false, 0)
	return err
}

func (r *staffRepo) UpdateIfVersion(ctx context.Context, s *models.Staff, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, s, true, expected)
}

func (r *staffRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Staff) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *staffRepo) update(ctx context.Context, s *models.Staff, check bool, expected int64) (pgconn.CommandTag, error) {
	specs, err := jsonbOrNull(s.Specialties)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	sql := `
		UPDATE staff
		SET full_name=$1, email=$2, phone=$3, role=$4, specialties=$5,
		hire_date=$6, active=$7, updated_at=NOW()
	`
	args := []any{s.FullName, s.Email, s.Phone, s.Role, specs, s.HireDate, s.Active}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$8 AND row_version=$9`
		args = append(args, s.ID, expected)
	} else {
		sql += ` WHERE id=$8`
		args = append(args, s.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *staffRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE staff SET active=FALSE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectStaff() string {
	return `
		SELECT id, full_name, email, phone, role, specialties, hire_date, active,
		created_at, updated_at, row_version
		FROM staff`
}

func scanStaff(row pgx.Row) (*models.Staff, error) {
	var (
		s     models.Staff
		specs pgtype.JSONB
	)
	if err := row.Scan(
		&s.ID, &s.FullName, &s.Email, &s.Phone, &s.Role,
		&specs, &s.HireDate, &s.Active,
		&s.CreatedAt, &s.UpdatedAt, &s.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if specs.Status == pgtype.Present {
		if err := json.Unmarshal(specs.Bytes, &s.Specialties); err != nil {
			return nil, err
		}
	}
	if s.Specialties == nil {
		s.Specialties = []string{}
	}
	return &s, nil
}

func scanStaffList(rows pgx.Rows) ([]*models.Staff, error) {
	var out []*models.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

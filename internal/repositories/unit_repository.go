package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/upkeephq/upkeep/internal/models"
)

/* ───────────── public interface ───────────── */

type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	List(ctx context.Context, skip, limit int) ([]*models.Unit, error)
	ListByBuildingID(ctx context.Context, bldgID uuid.UUID, skip, limit int) ([]*models.Unit, error)
	CountByBuildingID(ctx context.Context, bldgID uuid.UUID) (int, error)
	CountByBuildingAndNumber(ctx context.Context, bldgID uuid.UUID, unitNumber string, excludeID *uuid.UUID) (int, error)

	Update(ctx context.Context, u *models.Unit) error
	UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	*BaseVersionedRepo[*models.Unit]
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	r := &unitRepo{db: db}
	selectStmt := baseSelectUnit() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanUnit)
	return r
}

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO units (
			id, building_id, unit_number, floor, bedrooms, bathrooms, square_feet,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW(), 1)
	`, u.ID, u.BuildingID, u.UnitNumber, u.Floor, u.Bedrooms, u.Bathrooms, u.SquareFeet)
	return err
}

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *unitRepo) List(ctx context.Context, skip, limit int) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, baseSelectUnit()+" ORDER BY unit_number OFFSET $1 LIMIT $2", skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUnits(rows)
}

func (r *unitRepo) ListByBuildingID(ctx context.Context, bldgID uuid.UUID, skip, limit int) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx,
		baseSelectUnit()+" WHERE building_id=$1 ORDER BY unit_number OFFSET $2 LIMIT $3",
		bldgID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUnits(rows)
}

func (r *unitRepo) CountByBuildingID(ctx context.Context, bldgID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM units WHERE building_id=$1`, bldgID).Scan(&n)
	return n, err
}

// CountByBuildingAndNumber backs the duplicate-unit-number guard; excludeID
// skips the row being updated.
func (r *unitRepo) CountByBuildingAndNumber(ctx context.Context, bldgID uuid.UUID, unitNumber string, excludeID *uuid.UUID) (int, error) {
	sql := `SELECT COUNT(*) FROM units WHERE building_id=$1 AND unit_number=$2`
	args := []any{bldgID, unitNumber}
	if excludeID != nil {
		sql += ` AND id<>$3`
		args = append(args, *excludeID)
	}
	var n int
	err := r.db.QueryRow(ctx, sql, args...).Scan(&n)
	return n, err
}

func (r *unitRepo) Update(ctx context.Context, u *models.Unit) error {
	_, err := r.update(ctx, u, false, 0)
	return err
}

func (r *unitRepo) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, u, true, expected)
}

func (r *unitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *unitRepo) update(ctx context.Context, u *models.Unit, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE units
		SET building_id=$1, unit_number=$2, floor=$3, bedrooms=$4, bathrooms=$5, square_feet=$6, updated_at=NOW()
	`
	args := []any{u.BuildingID, u.UnitNumber, u.Floor, u.Bedrooms, u.Bathrooms, u.SquareFeet}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$7 AND row_version=$8`
		args = append(args, u.ID, expected)
	} else {
		sql += ` WHERE id=$7`
		args = append(args, u.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *unitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM units WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectUnit() string {
	return `
		SELECT id, building_id, unit_number, floor, bedrooms, bathrooms, square_feet,
		created_at, updated_at, row_version
		FROM units`
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	if err := row.Scan(
		&u.ID, &u.BuildingID, &u.UnitNumber,
		&u.Floor, &u.Bedrooms, &u.Bathrooms, &u.SquareFeet,
		&u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func scanUnits(rows pgx.Rows) ([]*models.Unit, error) {
	var out []*models.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

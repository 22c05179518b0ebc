package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/upkeephq/upkeep/internal/models"
	"github.com/upkeephq/upkeep/internal/repositories"
)

// In-memory repository fakes. They reproduce the row_version semantics of
// the real repositories so the optimistic-locking paths in the services
// run unchanged against them.

var (
	tagUpdated  = pgconn.CommandTag("UPDATE 1")
	tagNoChange = pgconn.CommandTag("UPDATE 0")
)

/* ───────────── buildings ───────────── */

type fakeBuildingRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Building
}

func newFakeBuildingRepo() *fakeBuildingRepo {
	return &fakeBuildingRepo{items: map[uuid.UUID]*models.Building{}}
}

func (f *fakeBuildingRepo) Create(_ context.Context, b *models.Building) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	cp.RowVersion = 1
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBuildingRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Building, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBuildingRepo) List(_ context.Context, skip, limit int) ([]*models.Building, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Building
	for _, b := range f.items {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, skip, limit), nil
}

func (f *fakeBuildingRepo) Update(_ context.Context, b *models.Building) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBuildingRepo) UpdateIfVersion(_ context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[b.ID]
	if !ok || stored.RowVersion != expected {
		return tagNoChange, nil
	}
	cp := *b
	cp.RowVersion = expected + 1
	f.items[b.ID] = &cp
	return tagUpdated, nil
}

func (f *fakeBuildingRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error {
	b, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return pgx.ErrNoRows
	}
	if err := mutate(b); err != nil {
		return err
	}
	_, err = f.UpdateIfVersion(ctx, b, b.RowVersion)
	return err
}

func (f *fakeBuildingRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

/* ───────────── units ───────────── */

type fakeUnitRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{items: map[uuid.UUID]*models.Unit{}}
}

func (f *fakeUnitRepo) Create(_ context.Context, u *models.Unit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	cp.RowVersion = 1
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUnitRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUnitRepo) List(_ context.Context, skip, limit int) ([]*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Unit
	for _, u := range f.items {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitNumber < out[j].UnitNumber })
	return page(out, skip, limit), nil
}

func (f *fakeUnitRepo) ListByBuildingID(ctx context.Context, bldgID uuid.UUID, skip, limit int) ([]*models.Unit, error) {
	all, _ := f.List(ctx, 0, len(f.items))
	var out []*models.Unit
	for _, u := range all {
		if u.BuildingID == bldgID {
			out = append(out, u)
		}
	}
	return page(out, skip, limit), nil
}

func (f *fakeUnitRepo) CountByBuildingID(_ context.Context, bldgID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.items {
		if u.BuildingID == bldgID {
			n++
		}
	}
	return n, nil
}

func (f *fakeUnitRepo) CountByBuildingAndNumber(_ context.Context, bldgID uuid.UUID, unitNumber string, excludeID *uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.items {
		if u.BuildingID == bldgID && u.UnitNumber == unitNumber {
			if excludeID != nil && u.ID == *excludeID {
				continue
			}
			n++
		}
	}
	return n, nil
}

func (f *fakeUnitRepo) Update(_ context.Context, u *models.Unit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUnitRepo) UpdateIfVersion(_ context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[u.ID]
	if !ok || stored.RowVersion != expected {
		return tagNoChange, nil
	}
	cp := *u
	cp.RowVersion = expected + 1
	f.items[u.ID] = &cp
	return tagUpdated, nil
}

func (f *fakeUnitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return pgx.ErrNoRows
	}
	if err := mutate(u); err != nil {
		return err
	}
	_, err = f.UpdateIfVersion(ctx, u, u.RowVersion)
	return err
}

func (f *fakeUnitRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

/* ───────────── tenants ───────────── */

type fakeTenantRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{items: map[uuid.UUID]*models.Tenant{}}
}

func (f *fakeTenantRepo) Create(_ context.Context, t *models.Tenant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	cp.RowVersion = 1
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTenantRepo) GetByEmail(_ context.Context, email string) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.items {
		if strings.EqualFold(t.Email, email) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantRepo) List(_ context.Context, skip, limit int) ([]*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Tenant
	for _, t := range f.items {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return page(out, skip, limit), nil
}

func (f *fakeTenantRepo) ListByUnitID(ctx context.Context, unitID uuid.UUID, skip, limit int) ([]*models.Tenant, error) {
	all, _ := f.List(ctx, 0, len(f.items))
	var out []*models.Tenant
	for _, t := range all {
		if t.UnitID == unitID {
			out = append(out, t)
		}
	}
	return page(out, skip, limit), nil
}

func (f *fakeTenantRepo) CountByUnitID(_ context.Context, unitID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.items {
		if t.UnitID == unitID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTenantRepo) Update(_ context.Context, t *models.Tenant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTenantRepo) UpdateIfVersion(_ context.Context, t *models.Tenant, expected int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[t.ID]
	if !ok || stored.RowVersion != expected {
		return tagNoChange, nil
	}
	cp := *t
	cp.RowVersion = expected + 1
	f.items[t.ID] = &cp
	return tagUpdated, nil
}

func (f *fakeTenantRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Tenant) error) error {
	t, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return pgx.ErrNoRows
	}
	if err := mutate(t); err != nil {
		return err
	}
	_, err = f.UpdateIfVersion(ctx, t, t.RowVersion)
	return err
}

func (f *fakeTenantRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

/* ───────────── staff ───────────── */

type fakeStaffRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{items: map[uuid.UUID]*models.Staff{}}
}

func (f *fakeStaffRepo) Create(_ context.Context, s *models.Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	cp.RowVersion = 1
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.items {
		if strings.EqualFold(s.Email, email) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStaffRepo) List(_ context.Context, active *bool, skip, limit int) ([]*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Staff
	for _, s := range f.items {
		if active != nil && s.Active != *active {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return page(out, skip, limit), nil
}

func (f *fakeStaffRepo) Update(_ context.Context, s *models.Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeStaffRepo) UpdateIfVersion(_ context.Context, s *models.Staff, expected int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[s.ID]
	if !ok || stored.RowVersion != expected {
		return tagNoChange, nil
	}
	cp := *s
	cp.RowVersion = expected + 1
	f.items[s.ID] = &cp
	return tagUpdated, nil
}

func (f *fakeStaffRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Staff) error) error {
	s, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return pgx.ErrNoRows
	}
	if err := mutate(s); err != nil {
		return err
	}
	_, err = f.UpdateIfVersion(ctx, s, s.RowVersion)
	return err
}

func (f *fakeStaffRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.Active = false
	s.RowVersion++
	return nil
}

/* ───────────── requests ───────────── */

type fakeRequestRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.MaintenanceRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{items: map[uuid.UUID]*models.MaintenanceRequest{}}
}

func copyRequest(r *models.MaintenanceRequest) *models.MaintenanceRequest {
	cp := *r
	cp.Assignments = append([]models.Assignment{}, r.Assignments...)
	cp.Notes = append([]models.Note{}, r.Notes...)
	return &cp
}

func (f *fakeRequestRepo) Create(_ context.Context, r *models.MaintenanceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := copyRequest(r)
	cp.RowVersion = 1
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	cp.UpdatedAt = time.Now().UTC()
	f.items[r.ID] = cp
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return copyRequest(r), nil
}

func (f *fakeRequestRepo) List(_ context.Context, filter repositories.RequestFilter, skip, limit int) ([]*models.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MaintenanceRequest
	for _, r := range f.items {
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if filter.TenantID != "" && r.TenantID.String() != filter.TenantID {
			continue
		}
		if filter.BuildingID != "" && r.BuildingID.String() != filter.BuildingID {
			continue
		}
		if filter.IssueType != "" && string(r.IssueType) != filter.IssueType {
			continue
		}
		if filter.Priority != "" && string(r.Priority) != filter.Priority {
			continue
		}
		out = append(out, copyRequest(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, skip, limit), nil
}

func (f *fakeRequestRepo) ListOverdue(_ context.Context) ([]*models.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MaintenanceRequest
	for _, r := range f.items {
		if r.Status.IsTerminal() || r.SLABreached {
			continue
		}
		if time.Since(r.CreatedAt).Hours() < float64(r.TargetSLAHours) {
			continue
		}
		out = append(out, copyRequest(r))
	}
	return out, nil
}

func (f *fakeRequestRepo) CountByTenantID(_ context.Context, tenantID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.items {
		if r.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRequestRepo) Update(_ context.Context, r *models.MaintenanceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[r.ID] = copyRequest(r)
	return nil
}

func (f *fakeRequestRepo) UpdateIfVersion(_ context.Context, r *models.MaintenanceRequest, expected int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[r.ID]
	if !ok || stored.RowVersion != expected {
		return tagNoChange, nil
	}
	cp := copyRequest(r)
	cp.RowVersion = expected + 1
	f.items[r.ID] = cp
	return tagUpdated, nil
}

func (f *fakeRequestRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.MaintenanceRequest) error) error {
	r, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return pgx.ErrNoRows
	}
	if err := mutate(r); err != nil {
		return err
	}
	_, err = f.UpdateIfVersion(ctx, r, r.RowVersion)
	return err
}

func (f *fakeRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

/* ───────────── shared ───────────── */

func page[T any](in []T, skip, limit int) []T {
	if skip >= len(in) {
		return []T{}
	}
	in = in[skip:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

package sqlite

import (
	"context"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
)

type departmentsRepo struct {
	db DBTX
}

func (r *departmentsRepo) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, heading FROM departments ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Title, &d.Heading); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *departmentsRepo) GetDepartment(ctx context.Context, id string) (domain.Department, error) {
	var d domain.Department
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, heading FROM departments WHERE id = ?`, id,
	).Scan(&d.ID, &d.Title, &d.Heading)
	if err != nil {
		return domain.Department{}, mapNotFound(err)
	}
	return d, nil
}

func (r *departmentsRepo) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	return existingIDs(ctx, r.db, `SELECT id FROM departments WHERE id IN (/*IDS*/)`, ids)
}

package sqlite

import (
	"context"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
)

type moderatorsRepo struct {
	db DBTX
}

func (r *moderatorsRepo) GetModeratorByMember(ctx context.Context, memberID string) (domain.Moderator, error) {
	var (
		m          domain.Moderator
		assignedAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT mo.member_id, mo.department_id, mo.rank, mo.assigned_at, d.title
		FROM moderators mo
		JOIN departments d ON d.id = mo.department_id
		WHERE mo.member_id = ?`,
		memberID,
	).Scan(&m.MemberID, &m.DepartmentID, &m.Rank, &assignedAt, &m.DepartmentTitle)
	if err != nil {
		return domain.Moderator{}, mapNotFound(err)
	}
	m.AssignedAt = fromMillis(assignedAt)
	return m, nil
}

func (r *moderatorsRepo) ListByDepartment(ctx context.Context, departmentID string) ([]domain.Moderator, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT mo.member_id, mo.department_id, mo.rank, mo.assigned_at, d.title
		FROM moderators mo
		JOIN departments d ON d.id = mo.department_id
		WHERE mo.department_id = ?
		ORDER BY mo.rank DESC`,
		departmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Moderator
	for rows.Next() {
		var (
			m          domain.Moderator
			assignedAt int64
		)
		if err := rows.Scan(&m.MemberID, &m.DepartmentID, &m.Rank, &assignedAt, &m.DepartmentTitle); err != nil {
			return nil, err
		}
		m.AssignedAt = fromMillis(assignedAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *moderatorsRepo) DeleteByDepartmentRank(ctx context.Context, departmentID string, rank domain.Rank) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM moderators WHERE department_id = ? AND rank = ?`,
		departmentID, string(rank),
	)
	return err
}

func (r *moderatorsRepo) DeleteByMember(ctx context.Context, memberID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM moderators WHERE member_id = ?`, memberID)
	return err
}

func (r *moderatorsRepo) CreateModerator(ctx context.Context, m domain.Moderator) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO moderators (member_id, department_id, rank, assigned_at) VALUES (?, ?, ?, ?)`,
		m.MemberID, m.DepartmentID, string(m.Rank), toMillis(m.AssignedAt),
	)
	return mapConstraint(err)
}

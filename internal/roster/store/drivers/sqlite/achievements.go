package sqlite

import (
	"context"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
)

type achievementsRepo struct {
	db DBTX
}

func (r *achievementsRepo) CreateAchievement(ctx context.Context, a domain.Achievement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO achievements (id, title, description, image, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Description, a.Image, a.Score, toMillis(a.CreatedAt),
	)
	if err != nil {
		return mapConstraint(err)
	}

	for _, memberID := range dedupe(a.MemberIDs) {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO achievement_members (achievement_id, member_id) VALUES (?, ?)`,
			a.ID, memberID,
		); err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *achievementsRepo) ListForMember(
	ctx context.Context,
	memberID, cursor string,
	limit int,
) ([]domain.Achievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.title, a.description, a.image, a.score, a.created_at
		FROM achievements a
		JOIN achievement_members am ON am.achievement_id = a.id
		WHERE am.member_id = ?1 AND (?2 = '' OR a.id < ?2)
		ORDER BY a.id DESC
		LIMIT ?3`,
		memberID, cursor, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Achievement
	for rows.Next() {
		var (
			a         domain.Achievement
			createdAt int64
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Image, &a.Score, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt = fromMillis(createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

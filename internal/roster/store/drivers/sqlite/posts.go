package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
)

type postsRepo struct {
	db DBTX
}

const postColumns = `p.id, p.heading, p.description, p.image, p.posted_at, p.author_id, p.department_id`

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, heading, description, image, posted_at, author_id, department_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Heading, p.Description, p.Image, toMillis(p.PostedAt), p.AuthorID, p.DepartmentID,
	)
	return mapConstraint(err)
}

func (r *postsRepo) ListFeed(ctx context.Context, cursor string, limit int) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		WHERE (?1 = '' OR p.id < ?1)
		ORDER BY p.id DESC
		LIMIT ?2`,
		cursor, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (r *postsRepo) ListDigest(ctx context.Context, memberID string, since time.Time) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT `+postColumns+`
		FROM posts p
		JOIN moderators mo ON mo.member_id = p.author_id
		JOIN member_departments md ON md.department_id = mo.department_id
		WHERE md.member_id = ? AND p.posted_at >= ?
		ORDER BY p.posted_at DESC, p.id DESC`,
		memberID, toMillis(since),
	)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]domain.Post, error) {
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		var (
			p        domain.Post
			postedAt int64
		)
		if err := rows.Scan(&p.ID, &p.Heading, &p.Description, &p.Image, &postedAt,
			&p.AuthorID, &p.DepartmentID); err != nil {
			return nil, err
		}
		p.PostedAt = fromMillis(postedAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

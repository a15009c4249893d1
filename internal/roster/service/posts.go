package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/idx"
	"github.com/aussiebroadwan/roster/pkg/slogx"
	"github.com/aussiebroadwan/roster/pkg/textx"
)

// DigestWindow is how far back the notification digest looks.
const DigestWindow = 48 * time.Hour

const maxHeadingLength = 100

// PostInput is a new announcement.
type PostInput struct {
	Heading     string
	Description string
	Image       *media.Upload
}

// PostService publishes and lists moderator announcements.
type PostService struct {
	Store store.Store
	Media media.Store
	Clock Clock
}

// Create publishes a post under the actor's current seat.
func (s *PostService) Create(ctx context.Context, actor policy.Actor, in PostInput) (domain.Post, error) {
	if !policy.CanPost(actor) {
		return domain.Post{}, ErrForbidden
	}

	heading := textx.Sanitize(in.Heading)
	verr := NewValidationError()
	if n := textx.Length(heading); n == 0 || n > maxHeadingLength {
		verr.Add("heading", "must be between 1 and 100 characters")
	}
	if in.Image != nil {
		if _, err := media.ValidateImage(in.Image); err != nil {
			verr.Add("image", imageError(err))
		}
	}
	if err := verr.OrNil(); err != nil {
		return domain.Post{}, err
	}

	now := s.Clock.now()
	p := domain.Post{
		ID:           idx.NewAt(now).String(),
		Heading:      heading,
		Description:  textx.Sanitize(in.Description),
		PostedAt:     now,
		AuthorID:     actor.Member.ID,
		DepartmentID: actor.Moderator.DepartmentID,
	}

	if in.Image != nil {
		ref, err := media.SaveImage(ctx, s.Media, media.PostPrefix(p.ID), in.Image)
		if err != nil {
			return domain.Post{}, err
		}
		p.Image = ref
	}

	if err := s.Store.Posts().CreatePost(ctx, p); err != nil {
		if p.Image != "" {
			_ = s.Media.DeletePrefix(ctx, media.PostPrefix(p.ID))
		}
		return domain.Post{}, err
	}

	slogx.FromContext(ctx).Info("post published",
		slog.String("post_id", p.ID),
		slog.String("department_id", p.DepartmentID),
	)
	return p, nil
}

// Feed pages every post, newest first.
func (s *PostService) Feed(ctx context.Context, cursor string) (Page[domain.Post], error) {
	if cursor != "" && !idx.Valid(cursor) {
		return Page[domain.Post]{}, Invalid("cursor", "malformed cursor")
	}
	items, err := s.Store.Posts().ListFeed(ctx, cursor, PageSize+1)
	if err != nil {
		return Page[domain.Post]{}, err
	}
	return pageOf(items, func(p domain.Post) string { return p.ID }), nil
}

// Digest lists recent posts by the current moderators of the actor's
// departments.
func (s *PostService) Digest(ctx context.Context, actor policy.Actor) ([]domain.Post, error) {
	if actor.Member == nil {
		return nil, ErrUnauthorized
	}
	return s.Store.Posts().ListDigest(ctx, actor.Member.ID, s.Clock.now().Add(-DigestWindow))
}

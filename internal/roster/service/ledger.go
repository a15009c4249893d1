package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/idx"
	"github.com/aussiebroadwan/roster/pkg/slogx"
	"github.com/aussiebroadwan/roster/pkg/textx"
)

const (
	// DefaultAchievementScore applies when an award omits its score.
	DefaultAchievementScore = 10

	maxTitleLength = 100
)

// AwardInput describes one achievement.
type AwardInput struct {
	Title       string
	Description string
	Score       *int64
	MemberIDs   []string
	Image       *media.Upload
}

// AwardResult lists the members that were actually credited.
type AwardResult struct {
	AchievementID string   `json:"achievement_id"`
	MemberIDs     []string `json:"member_ids"`
}

// LedgerService records achievements and the scores they carry.
type LedgerService struct {
	Store store.Store
	Media media.Store
	Clock Clock
}

// Award creates an achievement and credits its score to every existing
// member in the input. Unknown ids are skipped; repeated ids count once.
func (s *LedgerService) Award(ctx context.Context, actor policy.Actor, in AwardInput) (AwardResult, error) {
	l := slogx.FromContext(ctx)

	if !policy.CanAdminister(actor) {
		return AwardResult{}, ErrForbidden
	}

	// 1. Validate
	title := textx.Sanitize(in.Title)
	score := int64(DefaultAchievementScore)
	if in.Score != nil {
		score = *in.Score
	}
	verr := NewValidationError()
	if len(in.MemberIDs) == 0 {
		verr.Add("member_ids", "at least one member is required")
	}
	if score < 0 {
		verr.Add("score", "must not be negative")
	}
	if n := textx.Length(title); n == 0 || n > maxTitleLength {
		verr.Add("title", "must be between 1 and 100 characters")
	}
	if in.Image != nil {
		if _, err := media.ValidateImage(in.Image); err != nil {
			verr.Add("image", imageError(err))
		}
	}
	if err := verr.OrNil(); err != nil {
		return AwardResult{}, err
	}

	now := s.Clock.now()
	a := domain.Achievement{
		ID:          idx.NewAt(now).String(),
		Title:       title,
		Description: textx.Sanitize(in.Description),
		Score:       score,
		CreatedAt:   now,
	}

	// 2. Optional image
	if in.Image != nil {
		ref, err := media.SaveImage(ctx, s.Media, media.AchievementPrefix(a.ID), in.Image)
		if err != nil {
			return AwardResult{}, err
		}
		a.Image = ref
	}

	// 3. Create, resolve, link and credit in one transaction
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		ids, err := tx.Members().ExistingIDs(ctx, in.MemberIDs)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return Invalid("member_ids", "none of the given members exist")
		}
		a.MemberIDs = ids

		if err := tx.Achievements().CreateAchievement(ctx, a); err != nil {
			return err
		}
		return tx.Members().AddScore(ctx, ids, a.Score)
	})
	if err != nil {
		if a.Image != "" {
			_ = s.Media.DeletePrefix(ctx, media.AchievementPrefix(a.ID))
		}
		if !errors.Is(err, ErrValidation) {
			l.Error("failed to record achievement", slog.Any("error", err))
		}
		return AwardResult{}, err
	}

	l.Info("achievement awarded",
		slog.String("achievement_id", a.ID),
		slog.Int64("score", a.Score),
		slog.Int("members", len(a.MemberIDs)),
		slog.String("actor_id", actor.ID()),
	)
	return AwardResult{AchievementID: a.ID, MemberIDs: a.MemberIDs}, nil
}

// History pages a member's achievements. Pending and unknown members are
// not found.
func (s *LedgerService) History(ctx context.Context, memberID, cursor string) (Page[domain.Achievement], error) {
	m, err := s.Store.Members().GetMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Page[domain.Achievement]{}, ErrNotFound
		}
		return Page[domain.Achievement]{}, err
	}
	if !m.IsApproved() {
		return Page[domain.Achievement]{}, ErrNotFound
	}
	if cursor != "" && !idx.Valid(cursor) {
		return Page[domain.Achievement]{}, Invalid("cursor", "malformed cursor")
	}

	items, err := s.Store.Achievements().ListForMember(ctx, m.ID, cursor, PageSize+1)
	if err != nil {
		return Page[domain.Achievement]{}, err
	}
	return pageOf(items, func(a domain.Achievement) string { return a.ID }), nil
}

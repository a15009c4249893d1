package http

import (
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

// urlOf turns a stored media reference into a public URL.
func urlOf(m media.Store, ref string) string {
	if ref == "" {
		return ""
	}
	return m.URL(ref)
}

func toProfile(m media.Store, p policy.Profile) rostersdk.Profile {
	p.MapImages(func(ref string) string { return urlOf(m, ref) })
	return rostersdk.Profile(p)
}

func toSelf(m media.Store, v service.SelfView) rostersdk.SelfProfile {
	return rostersdk.SelfProfile{
		Profile:     toProfile(m, v.Profile),
		Settings:    rostersdk.Settings(v.Settings),
		Departments: v.Departments,
		IsStaff:     v.IsStaff,
		IsSuperuser: v.IsSuperuser,
	}
}

func toPost(m media.Store, p domain.Post) rostersdk.Post {
	return rostersdk.Post{
		ID:           p.ID,
		Heading:      p.Heading,
		Description:  p.Description,
		Image:        urlOf(m, p.Image),
		PostedAt:     p.PostedAt.UTC().Format(time.RFC3339),
		AuthorID:     p.AuthorID,
		DepartmentID: p.DepartmentID,
	}
}

// toDigestPost keeps the fields the notification digest carries.
func toDigestPost(m media.Store, p domain.Post) rostersdk.Post {
	return rostersdk.Post{
		ID:       p.ID,
		Heading:  p.Heading,
		Image:    urlOf(m, p.Image),
		PostedAt: p.PostedAt.UTC().Format(time.RFC3339),
	}
}

func toAchievement(m media.Store, a domain.Achievement) rostersdk.Achievement {
	return rostersdk.Achievement{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Image:       urlOf(m, a.Image),
		Score:       a.Score,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toPage[T, U any](p service.Page[T], fn func(T) U) rostersdk.Page[U] {
	out := rostersdk.Page[U]{Results: make([]U, 0, len(p.Results)), NextCursor: p.NextCursor}
	for _, item := range p.Results {
		out.Results = append(out.Results, fn(item))
	}
	return out
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, item := range in {
		out = append(out, fn(item))
	}
	return out
}

func toTokens(t domain.TokenPair) rostersdk.TokenResponse {
	return rostersdk.TokenResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/stretchr/testify/require"
)

func TestMember_Scopes(t *testing.T) {
	require.Equal(t, []string{"member"}, domain.Member{}.Scopes())
	require.Equal(t, []string{"member", "staff"}, domain.Member{IsStaff: true}.Scopes())
	require.Equal(t, []string{"member", "staff", "superuser"}, domain.Member{IsSuperuser: true}.Scopes())
}

func TestMember_IsApproved(t *testing.T) {
	now := time.Now()
	require.False(t, domain.Member{}.IsApproved())
	require.True(t, domain.Member{LastLogin: &now}.IsApproved())
}

func TestMember_InDepartment(t *testing.T) {
	m := domain.Member{DepartmentIDs: []string{"media", "arts"}}
	require.True(t, m.InDepartment("arts"))
	require.False(t, m.InDepartment("software"))
}

func TestSettings(t *testing.T) {
	t.Run("effective applies defaults", func(t *testing.T) {
		eff := domain.Settings(nil).Effective()
		require.Equal(t, domain.DefaultSettings(), eff)
	})

	t.Run("merge ignores unknown keys", func(t *testing.T) {
		s := domain.Settings{}.Merge(map[string]bool{
			"show_date_of_birth": false,
			"show_everything":    true,
		})
		require.Equal(t, domain.Settings{"show_date_of_birth": false}, s)

		eff := s.Effective()
		require.False(t, eff["show_date_of_birth"])
		require.True(t, eff["show_personal_image"])
		require.False(t, eff["show_dark_mode"])
	})

	t.Run("shows", func(t *testing.T) {
		s := domain.Settings{"show_personal_image": false}
		require.False(t, s.Shows("personal_image"))
		require.True(t, s.Shows("date_of_birth"))
		require.True(t, s.Shows("first_name"))
	})
}

func TestRank_Valid(t *testing.T) {
	require.True(t, domain.RankPrimary.Valid())
	require.True(t, domain.RankDeputy.Valid())
	require.False(t, domain.Rank("P").Valid())
}

func TestRefreshToken_Usable(t *testing.T) {
	now := time.Now()
	require.True(t, domain.RefreshToken{ExpiresAt: now.Add(time.Hour)}.Usable(now))
	require.False(t, domain.RefreshToken{ExpiresAt: now.Add(-time.Hour)}.Usable(now))
	require.False(t, domain.RefreshToken{ExpiresAt: now.Add(time.Hour), Revoked: true}.Usable(now))
}

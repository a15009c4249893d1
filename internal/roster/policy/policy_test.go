package policy

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/stretchr/testify/require"
)

func member(staff, super bool, departments ...string) *domain.Member {
	now := time.Now()
	return &domain.Member{
		ID:            "m1",
		IsStaff:       staff,
		IsSuperuser:   super,
		LastLogin:     &now,
		DepartmentIDs: departments,
	}
}

func seat(dept string, rank domain.Rank) *domain.Moderator {
	return &domain.Moderator{MemberID: "m1", DepartmentID: dept, Rank: rank, DepartmentTitle: dept}
}

func TestTier(t *testing.T) {
	t.Parallel()

	require.Equal(t, TierAnonymous, Anonymous().Tier())
	require.Equal(t, TierMember, Actor{Member: member(false, false)}.Tier())
	require.Equal(t, TierModerator, Actor{Member: member(false, false), Moderator: seat("media", domain.RankPrimary)}.Tier())
	require.Equal(t, TierStaff, Actor{Member: member(true, false)}.Tier())
	require.Equal(t, TierSuperuser, Actor{Member: member(false, true)}.Tier())
	require.Equal(t, "superuser", TierSuperuser.String())
}

func TestDepartmentScopedRules(t *testing.T) {
	t.Parallel()

	mod := Actor{Member: member(false, false, "media"), Moderator: seat("media", domain.RankDeputy)}

	t.Run("moderate needs intersecting departments", func(t *testing.T) {
		require.True(t, CanModerate(mod, []string{"arts", "media"}))
		require.False(t, CanModerate(mod, []string{"arts"}))
		require.False(t, CanModerate(mod, nil))
	})

	t.Run("staff without a seat cannot moderate", func(t *testing.T) {
		staff := Actor{Member: member(true, false)}
		require.False(t, CanModerate(staff, []string{"media"}))
		require.False(t, CanPost(staff))
	})

	t.Run("pending list needs the exact department", func(t *testing.T) {
		require.True(t, CanListPending(mod, "media"))
		require.False(t, CanListPending(mod, "arts"))
		require.False(t, CanListPending(Anonymous(), "media"))
	})

	t.Run("posting needs a seat", func(t *testing.T) {
		require.True(t, CanPost(mod))
		require.False(t, CanPost(Actor{Member: member(false, false)}))
		require.False(t, CanPost(Anonymous()))
	})
}

func TestAdministrativeRules(t *testing.T) {
	t.Parallel()

	plain := Actor{Member: member(false, false)}
	staff := Actor{Member: member(true, false)}
	super := Actor{Member: member(false, true)}

	require.False(t, CanAdminister(plain))
	require.True(t, CanAdminister(staff))
	require.True(t, CanAdminister(super))

	require.False(t, CanToggleLock(staff))
	require.True(t, CanToggleLock(super))

	require.False(t, CanGrantStaff(staff))
	require.True(t, CanGrantStaff(super))
}

func TestSearchImageVisible(t *testing.T) {
	t.Parallel()

	hidden := domain.MemberSummary{Settings: domain.Settings{domain.SettingShowPersonalImage: false}}
	shown := domain.MemberSummary{}

	require.True(t, SearchImageVisible(Anonymous(), shown))
	require.False(t, SearchImageVisible(Anonymous(), hidden))
	require.True(t, SearchImageVisible(Actor{Member: member(true, false)}, hidden))
}

func TestProfiles(t *testing.T) {
	t.Parallel()

	target := domain.Member{
		ID:          "t1",
		FirstName:   "علي",
		LastName:    "حسن",
		ThirdName:   "كريم",
		Email:       "ali@example.com",
		PhoneNumber: "07701234567",
		DateOfBirth: "1999-05-01",
		Documents:   domain.Documents{PersonalImage: "members/t1/me.png", IDCardFront: "members/t1/id.png"},
		Settings:    domain.Settings{domain.SettingShowDateOfBirth: false},
		Score:       30,
	}

	t.Run("public view honours settings", func(t *testing.T) {
		p := PublicProfile(target, nil)
		require.Empty(t, p.DateOfBirth)
		require.Equal(t, "members/t1/me.png", p.PersonalImage)
		require.Empty(t, p.Email)
		require.Empty(t, p.IDCardFront)

		raw, err := json.Marshal(p)
		require.NoError(t, err)
		require.NotContains(t, string(raw), "date_of_birth")
		require.NotContains(t, string(raw), "is_mod")
	})

	t.Run("admin view is unredacted", func(t *testing.T) {
		p := AdminProfile(target, seat("media", domain.RankPrimary))
		require.Equal(t, "1999-05-01", p.DateOfBirth)
		require.Equal(t, "ali@example.com", p.Email)
		require.Equal(t, "members/t1/id.png", p.IDCardFront)
		require.Equal(t, "primary", p.IsMod)
		require.Equal(t, "media", p.IsModOf)
	})

	t.Run("profile for picks by tier", func(t *testing.T) {
		require.Empty(t, ProfileFor(Anonymous(), target, nil).Email)
		require.NotEmpty(t, ProfileFor(Actor{Member: member(true, false)}, target, nil).Email)
	})

	t.Run("map images", func(t *testing.T) {
		p := AdminProfile(target, nil)
		p.MapImages(func(ref string) string { return "/media/" + ref })
		require.Equal(t, "/media/members/t1/me.png", p.PersonalImage)
		require.Empty(t, p.ResidenceIDBack)
	})
}

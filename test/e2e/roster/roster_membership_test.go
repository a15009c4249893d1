package roster_test

import (
	"testing"

	"github.com/aussiebroadwan/roster/pkg/rostersdk"
	"github.com/stretchr/testify/require"
)

// seatRoot makes the superuser primary moderator of media. Seats are read
// from the store on every request so the existing session picks it up.
func seatRoot(t *testing.T, root *rostersdk.Session) {
	t.Helper()

	_, err := root.AssignModerator(t.Context(), rostersdk.ModeratorRequest{
		MemberID: root.MemberID, DepartmentID: "media", Rank: "primary",
	})
	require.NoError(t, err)
}

// TestApplicationLifecycle walks applications from signup to approval or
// rejection and checks department scoping along the way.
func TestApplicationLifecycle(t *testing.T) {
	baseURL, cleanup := setupRosterContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := rostersdk.NewClient(baseURL)
	bootstrapService(t, client)
	root := performLogin(t, client, rootEmail)

	applicant := signupApplicant(t, client, "ali@example.com", "media", "arts")
	require.Equal(t, "ali", applicant.Username)

	// Without a seat even a superuser cannot decide
	err := root.Accept(ctx, applicant.MemberID)
	assertCode(t, err, rostersdk.CodeForbidden)

	seatRoot(t, root)

	pending, err := root.Pending(ctx, "media")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, applicant.MemberID, pending[0].ID)

	_, err = root.Pending(ctx, "arts")
	assertCode(t, err, rostersdk.CodeForbidden)

	require.NoError(t, root.Accept(ctx, applicant.MemberID))
	assertCode(t, root.Accept(ctx, applicant.MemberID), rostersdk.CodeConflict)

	// The approved member can log in and sees their departments
	member := performLogin(t, client, "ali@example.com")
	me, err := member.Me(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"media", "arts"}, me.Departments)
	require.False(t, me.IsStaff)

	// A declined applicant is gone and may apply again
	declined := signupApplicant(t, client, "sara@example.com", "media")
	require.NoError(t, root.Decline(ctx, declined.MemberID))
	assertCode(t, root.Decline(ctx, declined.MemberID), rostersdk.CodeNotFound)
	signupApplicant(t, client, "sara@example.com", "media")

	// Members cannot see each other's documents
	_, err = member.AdminProfile(ctx, root.MemberID)
	assertCode(t, err, rostersdk.CodeForbidden)

	full, err := root.AdminProfile(ctx, member.MemberID)
	require.NoError(t, err)
	require.NotEmpty(t, full.IDCardFront)
	require.Equal(t, "07701234567", full.PhoneNumber)

	public, err := client.Profile(ctx, member.MemberID)
	require.NoError(t, err)
	require.Empty(t, public.PhoneNumber)
	require.Empty(t, public.IDCardFront)
}

// TestPostsAndAwards covers announcements, the digest and the score ledger.
func TestPostsAndAwards(t *testing.T) {
	baseURL, cleanup := setupRosterContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := rostersdk.NewClient(baseURL)
	bootstrapService(t, client)
	root := performLogin(t, client, rootEmail)
	seatRoot(t, root)

	memberID := approvedMember(t, client, root, "ali@example.com", "media")
	member := performLogin(t, client, "ali@example.com")

	image := &rostersdk.File{Name: "cover.png", Data: pngBytes(t)}
	_, err := member.CreatePost(ctx, rostersdk.PostRequest{Heading: "Hello", Image: image})
	assertCode(t, err, rostersdk.CodeForbidden)

	post, err := root.CreatePost(ctx, rostersdk.PostRequest{
		Heading:     "Volunteer day",
		Description: "<p>Friday</p><script>alert(1)</script>",
		Image:       image,
	})
	require.NoError(t, err)
	require.NotContains(t, post.Description, "script")

	feed, err := client.Feed(ctx, "")
	require.NoError(t, err)
	require.Len(t, feed.Results, 1)

	digest, err := member.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, digest, 1)
	require.Equal(t, post.ID, digest[0].ID)

	score := int64(25)
	award, err := root.Award(ctx, rostersdk.AwardRequest{
		Title:     "Cleanup",
		Score:     &score,
		MemberIDs: []string{memberID, memberID, "unknown"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{memberID}, award.MemberIDs)

	_, err = member.Award(ctx, rostersdk.AwardRequest{Title: "Self", MemberIDs: []string{memberID}})
	assertCode(t, err, rostersdk.CodeForbidden)

	history, err := client.History(ctx, memberID, "")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)

	profile, err := client.Profile(ctx, memberID)
	require.NoError(t, err)
	require.EqualValues(t, 25, profile.Score)
}

// TestKillSwitch verifies only superusers get through while locked.
func TestKillSwitch(t *testing.T) {
	baseURL, cleanup := setupRosterContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := rostersdk.NewClient(baseURL)
	bootstrapService(t, client)
	root := performLogin(t, client, rootEmail)

	require.NoError(t, root.Lock(ctx))

	_, err := client.Departments(ctx)
	assertCode(t, err, rostersdk.CodeServiceLocked)

	health, err := client.GetLiveness(ctx)
	assertHealthy(t, health, err)

	_, err = root.Me(ctx)
	require.NoError(t, err)

	require.NoError(t, root.Unlock(ctx))
	_, err = client.Departments(ctx)
	require.NoError(t, err)
}

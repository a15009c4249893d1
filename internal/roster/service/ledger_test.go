package service

import (
	"context"
	"sync"
	"testing"

	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/stretchr/testify/require"
)

func score(t *testing.T, e *testEnv, id string) int64 {
	t.Helper()
	m, err := e.store.Members().GetMemberByID(context.Background(), id)
	require.NoError(t, err)
	return m.Score
}

func TestAwardCreditsEachMemberOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	staff := e.actor(t, e.addStaff(t, "staff@example.com", false).ID)
	a := e.addMember(t, "a@example.com", true)
	b := e.addMember(t, "b@example.com", true)

	res, err := e.ledger.Award(ctx, staff, AwardInput{
		Title:     "Cleanup day",
		MemberIDs: []string{a.ID, b.ID, a.ID, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"},
		Image:     media.FromBytes("cup.png", pngBytes(t)),
	})
	require.NoError(t, err)
	require.Equal(t, []string{a.ID, b.ID}, res.MemberIDs)

	require.EqualValues(t, DefaultAchievementScore, score(t, e, a.ID))
	require.EqualValues(t, DefaultAchievementScore, score(t, e, b.ID))

	page, err := e.ledger.History(ctx, a.ID, "")
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	require.Equal(t, "Cleanup day", page.Results[0].Title)
	require.NotEmpty(t, page.Results[0].Image)
}

func TestAwardConcurrent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	staff := e.actor(t, e.addStaff(t, "staff@example.com", false).ID)
	a := e.addMember(t, "a@example.com", true)
	b := e.addMember(t, "b@example.com", true)

	five, ten := int64(5), int64(10)
	inputs := []AwardInput{
		{Title: "First", Score: &five, MemberIDs: []string{a.ID}},
		{Title: "Second", Score: &ten, MemberIDs: []string{a.ID, b.ID}},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(inputs))
	for i, in := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.ledger.Award(ctx, staff, in)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 15, score(t, e, a.ID))
	require.EqualValues(t, 10, score(t, e, b.ID))
}

func TestAwardValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	staff := e.actor(t, e.addStaff(t, "staff@example.com", false).ID)
	a := e.addMember(t, "a@example.com", true)
	negative := int64(-1)

	_, err := e.ledger.Award(ctx, e.actor(t, a.ID), AwardInput{Title: "x", MemberIDs: []string{a.ID}})
	require.ErrorIs(t, err, ErrForbidden)

	var verr *ValidationError
	_, err = e.ledger.Award(ctx, staff, AwardInput{Title: "", Score: &negative})
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "title")
	require.Contains(t, verr.Fields, "score")
	require.Contains(t, verr.Fields, "member_ids")

	_, err = e.ledger.Award(ctx, staff, AwardInput{Title: "Ghosts", MemberIDs: []string{"01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"}})
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "member_ids")

	page, err := e.ledger.History(ctx, a.ID, "")
	require.NoError(t, err)
	require.Empty(t, page.Results)
}

func TestHistoryPaging(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	staff := e.actor(t, e.addStaff(t, "staff@example.com", false).ID)
	a := e.addMember(t, "a@example.com", true)
	pending := e.addMember(t, "p@example.com", false)

	for range PageSize + 2 {
		_, err := e.ledger.Award(ctx, staff, AwardInput{Title: "Shift", MemberIDs: []string{a.ID}})
		require.NoError(t, err)
	}

	first, err := e.ledger.History(ctx, a.ID, "")
	require.NoError(t, err)
	require.Len(t, first.Results, PageSize)
	require.NotEmpty(t, first.NextCursor)

	second, err := e.ledger.History(ctx, a.ID, first.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Results, 2)
	require.Empty(t, second.NextCursor)
	require.Greater(t, first.Results[PageSize-1].ID, second.Results[0].ID)

	_, err = e.ledger.History(ctx, a.ID, "bogus")
	require.ErrorIs(t, err, ErrValidation)

	_, err = e.ledger.History(ctx, pending.ID, "")
	require.ErrorIs(t, err, ErrNotFound)
}

package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sograves/hpk14-padel/internal/domain"
	"github.com/sograves/hpk14-padel/internal/testsupport"
)

func newFixture() (*domain.Service, *testsupport.ActivityRepo, *testsupport.SignupRepo, *testsupport.UnavailableRepo) {
	activities := testsupport.NewActivityRepo()
	signups := testsupport.NewSignupRepo()
	unavailable := testsupport.NewUnavailableRepo()
	service := domain.NewService(activities, signups, unavailable)
	return service, activities, signups, unavailable
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func seedActivity(repo *testsupport.ActivityRepo, id string, date time.Time) domain.Activity {
	activity := domain.Activity{
		ID:        id,
		Name:      "Padel " + id,
		Type:      "training",
		Date:      date,
		Location:  "Court 1",
		CreatedAt: time.Now().UTC(),
	}
	repo.Seed(activity)
	return activity
}

func TestListUpcomingFiltersPastAndSortsByDate(t *testing.T) {
	service, activities, signups, unavailable := newFixture()
	today := startOfToday()

	seedActivity(activities, "next-week", today.AddDate(0, 0, 7))
	seedActivity(activities, "yesterday", today.AddDate(0, 0, -1))
	seedActivity(activities, "tomorrow", today.AddDate(0, 0, 1))
	// Dated exactly at the start of today: still listed.
	seedActivity(activities, "today", today)

	signups.Seed(domain.Signup{ID: "s1", ActivityID: "tomorrow", Name: "Ana", SignedUpAt: time.Now().UTC()})
	signups.Seed(domain.Signup{ID: "s2", ActivityID: "tomorrow", Name: "Ben", SignedUpAt: time.Now().UTC()})
	unavailable.Seed(domain.UnavailableMark{ID: "u1", ActivityID: "today", Name: "Cleo", MarkedAt: time.Now().UTC()})

	summaries, err := service.ListUpcoming(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		ids = append(ids, summary.ID)
	}
	require.Equal(t, []string{"today", "tomorrow", "next-week"}, ids)

	require.Equal(t, 1, summaries[0].UnavailableCount)
	require.Equal(t, 0, summaries[0].SignupCount)
	require.Equal(t, 2, summaries[1].SignupCount)
	require.Equal(t, 0, summaries[2].SignupCount)
}

func TestListUpcomingEmptyBoard(t *testing.T) {
	service, _, _, _ := newFixture()

	summaries, err := service.ListUpcoming(context.Background())
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestCreateActivityGeneratesIDAndCreatedAt(t *testing.T) {
	service, activities, _, _ := newFixture()

	created, err := service.CreateActivity(context.Background(), domain.ActivityInput{
		Name:     "Padel",
		Type:     "training",
		Date:     time.Date(2099, 1, 1, 18, 0, 0, 0, time.UTC),
		Location: "Court 1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.WithinDuration(t, time.Now().UTC(), created.CreatedAt, time.Minute)
	require.Nil(t, created.MaxParticipants)
	require.Nil(t, created.Description)

	stored, err := activities.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, *created, *stored)
}

func TestCreateActivityNormalizesCapacity(t *testing.T) {
	service, _, _, _ := newFixture()

	zero := 0
	created, err := service.CreateActivity(context.Background(), domain.ActivityInput{
		Name:            "Open session",
		Type:            "social",
		Date:            time.Date(2099, 1, 1, 18, 0, 0, 0, time.UTC),
		Location:        "Clubhouse",
		MaxParticipants: &zero,
	})
	require.NoError(t, err)
	require.Nil(t, created.MaxParticipants)

	eight := 8
	created, err = service.CreateActivity(context.Background(), domain.ActivityInput{
		Name:            "Match",
		Type:            "match",
		Date:            time.Date(2099, 1, 2, 18, 0, 0, 0, time.UTC),
		Location:        "Court 2",
		MaxParticipants: &eight,
	})
	require.NoError(t, err)
	require.NotNil(t, created.MaxParticipants)
	require.Equal(t, 8, *created.MaxParticipants)
}

func TestUpdateActivityPreservesCreatedAt(t *testing.T) {
	service, activities, _, _ := newFixture()
	original := seedActivity(activities, "a1", time.Date(2099, 1, 1, 18, 0, 0, 0, time.UTC))

	desc := "bring water"
	updated, err := service.UpdateActivity(context.Background(), "a1", domain.ActivityInput{
		Name:        "Renamed",
		Type:        "match",
		Date:        time.Date(2099, 2, 1, 18, 0, 0, 0, time.UTC),
		Location:    "Court 3",
		Description: &desc,
	})
	require.NoError(t, err)
	require.Equal(t, original.CreatedAt, updated.CreatedAt)
	require.Equal(t, "Renamed", updated.Name)
	// Full replace: capacity not supplied this time, so it becomes unlimited.
	require.Nil(t, updated.MaxParticipants)
}

func TestUpdateActivityNotFound(t *testing.T) {
	service, _, _, _ := newFixture()

	_, err := service.UpdateActivity(context.Background(), "missing", domain.ActivityInput{
		Name:     "x",
		Type:     "other",
		Date:     time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
		Location: "y",
	})
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestDeleteActivityCascades(t *testing.T) {
	service, activities, signups, unavailable := newFixture()
	seedActivity(activities, "a1", time.Date(2099, 1, 1, 18, 0, 0, 0, time.UTC))
	signups.Seed(domain.Signup{ID: "s1", ActivityID: "a1", Name: "Ana", SignedUpAt: time.Now().UTC()})
	signups.Seed(domain.Signup{ID: "s2", ActivityID: "a1", Name: "Ben", SignedUpAt: time.Now().UTC()})
	unavailable.Seed(domain.UnavailableMark{ID: "u1", ActivityID: "a1", Name: "Cleo", MarkedAt: time.Now().UTC()})

	require.NoError(t, service.DeleteActivity(context.Background(), "a1"))

	require.Equal(t, 0, activities.Len())
	remaining, err := signups.ListByActivity(context.Background(), "a1")
	require.NoError(t, err)
	require.Empty(t, remaining)
	marks, err := unavailable.ListByActivity(context.Background(), "a1")
	require.NoError(t, err)
	require.Empty(t, marks)
}

func TestDeleteActivityNotFound(t *testing.T) {
	service, _, _, _ := newFixture()
	require.ErrorIs(t, service.DeleteActivity(context.Background(), "missing"), domain.ErrActivityNotFound)
}

func TestAddSignupEnforcesCapacity(t *testing.T) {
	service, activities, signups, _ := newFixture()
	one := 1
	activities.Seed(domain.Activity{
		ID:              "a1",
		Name:            "Match",
		Type:            "match",
		Date:            time.Date(2099, 1, 1, 18, 0, 0, 0, time.UTC),
		Location:        "Court 1",
		MaxParticipants: &one,
		CreatedAt:       time.Now().UTC(),
	})

	first, err := service.AddSignup(context.Background(), "a1", "Ana")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = service.AddSignup(context.Background(), "a1", "Ben")
	require.ErrorIs(t, err, domain.ErrActivityFull)

	count, err := signups.CountByActivity(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, 1, count, "rejected signup must not persist")
}

func TestAddSignupUnknownActivity(t *testing.T) {
	service, _, _, _ := newFixture()
	_, err := service.AddSignup(context.Background(), "missing", "Ana")
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestAddSignupTrimsName(t *testing.T) {
	service, activities, _, _ := newFixture()
	seedActivity(activities, "a1", time.Date(2099, 1, 1, 18, 0, 0, 0, time.UTC))

	signup, err := service.AddSignup(context.Background(), "a1", "  Ana  ")
	require.NoError(t, err)
	require.Equal(t, "Ana", signup.Name)
}

func TestAddUnavailableSkipsExistenceCheck(t *testing.T) {
	service, _, _, unavailable := newFixture()

	mark, err := service.AddUnavailable(context.Background(), "never-created", " Ben ")
	require.NoError(t, err)
	require.Equal(t, "Ben", mark.Name)

	count, err := unavailable.CountByActivity(context.Background(), "never-created")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRemoveSignupNotFound(t *testing.T) {
	service, _, _, _ := newFixture()
	require.ErrorIs(t, service.RemoveSignup(context.Background(), "a1", "missing"), domain.ErrSignupNotFound)
}

func TestRemoveUnavailableNotFound(t *testing.T) {
	service, _, _, _ := newFixture()
	require.ErrorIs(t, service.RemoveUnavailable(context.Background(), "a1", "missing"), domain.ErrMarkNotFound)
}

func TestGetDetailSortsParticipants(t *testing.T) {
	service, activities, signups, unavailable := newFixture()
	seedActivity(activities, "a1", time.Date(2099, 1, 1, 18, 0, 0, 0, time.UTC))

	base := time.Date(2099, 1, 1, 10, 0, 0, 0, time.UTC)
	signups.Seed(domain.Signup{ID: "s-late", ActivityID: "a1", Name: "Ben", SignedUpAt: base.Add(2 * time.Hour)})
	signups.Seed(domain.Signup{ID: "s-early", ActivityID: "a1", Name: "Ana", SignedUpAt: base})
	unavailable.Seed(domain.UnavailableMark{ID: "u-late", ActivityID: "a1", Name: "Dan", MarkedAt: base.Add(time.Hour)})
	unavailable.Seed(domain.UnavailableMark{ID: "u-early", ActivityID: "a1", Name: "Cleo", MarkedAt: base})

	detail, err := service.GetDetail(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, "a1", detail.Activity.ID)
	require.Equal(t, []string{"s-early", "s-late"}, []string{detail.Signups[0].ID, detail.Signups[1].ID})
	require.Equal(t, []string{"u-early", "u-late"}, []string{detail.Unavailable[0].ID, detail.Unavailable[1].ID})
}

func TestGetDetailNotFound(t *testing.T) {
	service, _, _, _ := newFixture()
	_, err := service.GetDetail(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

type capturingPublisher struct {
	events []domain.ActivityEvent
}

func (p *capturingPublisher) PublishActivityEvent(ctx context.Context, event domain.ActivityEvent) {
	p.events = append(p.events, event)
}

func TestLifecycleEventsPublished(t *testing.T) {
	activities := testsupport.NewActivityRepo()
	publisher := &capturingPublisher{}
	service := domain.NewService(activities, testsupport.NewSignupRepo(), testsupport.NewUnavailableRepo(),
		domain.WithPublisher(publisher))

	created, err := service.CreateActivity(context.Background(), domain.ActivityInput{
		Name:     "Padel",
		Type:     "training",
		Date:     time.Date(2099, 1, 1, 18, 0, 0, 0, time.UTC),
		Location: "Court 1",
	})
	require.NoError(t, err)
	require.NoError(t, service.DeleteActivity(context.Background(), created.ID))

	require.Len(t, publisher.events, 2)
	require.Equal(t, "activity.created", publisher.events[0].Type)
	require.Equal(t, created.ID, publisher.events[0].ActivityID)
	require.Equal(t, "activity.deleted", publisher.events[1].Type)
}

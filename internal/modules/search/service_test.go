package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/repository"

	_ "modernc.org/sqlite"
)

type testEnv struct {
	svc      *Service
	users    *repository.UserRepository
	profiles *repository.TutorProfileRepository
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:search_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	users := repository.NewUserRepository(db)
	profiles := repository.NewTutorProfileRepository(db)
	return testEnv{svc: NewService(profiles, users), users: users, profiles: profiles}
}

func seedApprovedTutor(t *testing.T, env testEnv, n int, subjects []string, availability []time.Time) *domain.TutorProfile {
	t.Helper()
	ctx := context.Background()
	u := &domain.User{ClerkID: fmt.Sprintf("clerk_%s_%d", t.Name(), n), Role: domain.RoleTutor, Name: fmt.Sprintf("Tutor %d", n), Email: fmt.Sprintf("t%d@example.com", n)}
	require.NoError(t, env.users.Create(ctx, u))

	p := &domain.TutorProfile{
		UserID:       u.ID,
		Subjects:     subjects,
		HourlyRate:   2000,
		Availability: availability,
		IsApproved:   true,
		CreatedAt:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute),
	}
	require.NoError(t, env.profiles.Create(ctx, p))
	return p
}

func TestPaginationWalksAllTutorsOnce(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		seedApprovedTutor(t, env, i, []string{"math"}, nil)
	}

	seen := map[int64]bool{}
	var sizes []int
	cursor := ""
	for {
		page, err := env.svc.ListApprovedFiltered(ctx, cursor, 5, Filter{})
		require.NoError(t, err)
		sizes = append(sizes, len(page.Tutors))
		for _, tr := range page.Tutors {
			assert.False(t, seen[tr.ID], "tutor %d returned twice", tr.ID)
			seen[tr.ID] = true
			require.NotNil(t, tr.User)
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	assert.Equal(t, []int{5, 5, 2}, sizes)
	assert.Len(t, seen, 12)
}

func TestPaginationOrderIsCreationTime(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		seedApprovedTutor(t, env, i, []string{"math"}, nil)
	}

	page, err := env.svc.ListApprovedFiltered(ctx, "", 10, Filter{})
	require.NoError(t, err)
	require.Len(t, page.Tutors, 4)
	for i := 1; i < len(page.Tutors); i++ {
		assert.False(t, page.Tutors[i].CreatedAt.Before(page.Tutors[i-1].CreatedAt))
	}
	assert.Nil(t, page.NextCursor)
}

func TestUnapprovedTutorsAreHidden(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	seedApprovedTutor(t, env, 0, []string{"math"}, nil)

	u := &domain.User{ClerkID: "clerk_hidden", Role: domain.RoleTutor, Name: "Hidden", Email: "h@example.com"}
	require.NoError(t, env.users.Create(ctx, u))
	require.NoError(t, env.profiles.Create(ctx, &domain.TutorProfile{
		UserID: u.ID, Subjects: []string{"math"}, HourlyRate: 2000,
	}))

	page, err := env.svc.ListApprovedFiltered(ctx, "", 10, Filter{})
	require.NoError(t, err)
	assert.Len(t, page.Tutors, 1)
}

func TestJointDayHourFilter(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	mon10 := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
	mon14 := time.Date(2025, 7, 14, 14, 0, 0, 0, time.UTC)
	wed10 := time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC)

	hit := seedApprovedTutor(t, env, 0, []string{"math"}, []time.Time{mon10})
	// Monday and 10:00 slots exist but never on the same slot.
	seedApprovedTutor(t, env, 1, []string{"math"}, []time.Time{mon14, wed10})
	seedApprovedTutor(t, env, 2, []string{"math"}, nil)

	page, err := env.svc.ListApprovedFiltered(ctx, "", 10, Filter{Days: []int{1}, Hours: []int{10}})
	require.NoError(t, err)
	require.Len(t, page.Tutors, 1)
	assert.Equal(t, hit.ID, page.Tutors[0].ID)

	// Day-only filter matches both tutors with Monday slots.
	page, err = env.svc.ListApprovedFiltered(ctx, "", 10, Filter{Days: []int{1}})
	require.NoError(t, err)
	assert.Len(t, page.Tutors, 2)
}

func TestSearchApprovedSubstring(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	seedApprovedTutor(t, env, 0, []string{"Mathematics"}, nil)
	seedApprovedTutor(t, env, 1, []string{"physics"}, nil)
	seedApprovedTutor(t, env, 2, []string{"applied math"}, nil)

	page, err := env.svc.SearchApproved(ctx, "MATH")
	require.NoError(t, err)
	assert.Len(t, page.Tutors, 2)
	assert.Nil(t, page.NextCursor)

	page, err = env.svc.SearchApproved(ctx, "")
	require.NoError(t, err)
	assert.Len(t, page.Tutors, 3)
}

func TestMalformedCursorRejected(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.svc.ListApprovedFiltered(context.Background(), "garbage", 5, Filter{})
	assert.ErrorIs(t, err, ErrBadCursor)
}

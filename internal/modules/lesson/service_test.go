package lesson

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
	svc     *Service
	users   *repository.UserRepository
	lessons *repository.LessonRepository
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:lesson_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	users := repository.NewUserRepository(db)
	lessons := repository.NewLessonRepository(db)
	return testEnv{svc: NewService(db, lessons, users), users: users, lessons: lessons}
}

func seedUser(t *testing.T, env testEnv, clerkID string, role domain.UserRole) *domain.User {
	t.Helper()
	u := &domain.User{ClerkID: clerkID, Role: role, Name: string(role), Email: clerkID + "@example.com"}
	require.NoError(t, env.users.Create(context.Background(), u))
	return u
}

func seedLesson(t *testing.T, env testEnv, tutorID, studentID int64, at time.Time, cost int64, status domain.LessonStatus) *domain.Lesson {
	t.Helper()
	l := &domain.Lesson{
		TutorID:         tutorID,
		StudentID:       studentID,
		Datetime:        at,
		DurationMinutes: 60,
		Cost:            cost,
		Status:          status,
	}
	require.NoError(t, env.lessons.Create(context.Background(), l))
	return l
}

func TestUpdateStatusLegalPath(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tutor := seedUser(t, env, "t1", domain.RoleTutor)
	student := seedUser(t, env, "s1", domain.RoleStudent)
	l := seedLesson(t, env, tutor.ID, student.ID, time.Now().UTC().Truncate(time.Hour), 2000, domain.LessonBooked)

	got, err := env.svc.UpdateStatus(ctx, l.ID, tutor.ID, domain.LessonStarted)
	require.NoError(t, err)
	assert.Equal(t, domain.LessonStarted, got.Status)

	got, err = env.svc.UpdateStatus(ctx, l.ID, tutor.ID, domain.LessonCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.LessonCompleted, got.Status)
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tutor := seedUser(t, env, "t2", domain.RoleTutor)
	student := seedUser(t, env, "s2", domain.RoleStudent)

	booked := seedLesson(t, env, tutor.ID, student.ID, time.Now().UTC().Truncate(time.Hour), 0, domain.LessonBooked)
	_, err := env.svc.UpdateStatus(ctx, booked.ID, tutor.ID, domain.LessonCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	done := seedLesson(t, env, tutor.ID, student.ID, time.Now().UTC().Truncate(time.Hour).Add(time.Hour), 0, domain.LessonCompleted)
	_, err = env.svc.UpdateStatus(ctx, done.ID, tutor.ID, domain.LessonStarted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.svc.UpdateStatus(ctx, booked.ID, tutor.ID, domain.LessonStatus("paused"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusRequiresParticipant(t *testing.T) {
	env := setupTestEnv(t)
	tutor := seedUser(t, env, "t3", domain.RoleTutor)
	student := seedUser(t, env, "s3", domain.RoleStudent)
	stranger := seedUser(t, env, "x3", domain.RoleStudent)
	l := seedLesson(t, env, tutor.ID, student.ID, time.Now().UTC().Truncate(time.Hour), 0, domain.LessonBooked)

	_, err := env.svc.UpdateStatus(context.Background(), l.ID, stranger.ID, domain.LessonStarted)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelBookedLessonRefundsStudent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tutor := seedUser(t, env, "t4", domain.RoleTutor)
	student := seedUser(t, env, "s4", domain.RoleStudent)
	l := seedLesson(t, env, tutor.ID, student.ID, time.Now().UTC().Truncate(time.Hour), 2500, domain.LessonBooked)

	_, err := env.svc.UpdateStatus(ctx, l.ID, student.ID, domain.LessonCancelled)
	require.NoError(t, err)

	got, err := env.users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), got.Credits)
}

func TestSetCallIDIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tutor := seedUser(t, env, "t5", domain.RoleTutor)
	student := seedUser(t, env, "s5", domain.RoleStudent)
	l := seedLesson(t, env, tutor.ID, student.ID, time.Now().UTC().Truncate(time.Hour), 0, domain.LessonBooked)

	got, err := env.svc.SetCallID(ctx, l.ID, tutor.ID, "call-abc")
	require.NoError(t, err)
	assert.Equal(t, "call-abc", got.CallID)

	// A second attach keeps the first id.
	got, err = env.svc.SetCallID(ctx, l.ID, student.ID, "call-xyz")
	require.NoError(t, err)
	assert.Equal(t, "call-abc", got.CallID)
}

func TestListJoinable(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tutor := seedUser(t, env, "t6", domain.RoleTutor)
	student := seedUser(t, env, "s6", domain.RoleStudent)
	other := seedUser(t, env, "o6", domain.RoleStudent)

	now := time.Now().UTC().Truncate(time.Hour)
	booked := seedLesson(t, env, tutor.ID, student.ID, now.Add(24*time.Hour), 2000, domain.LessonBooked)
	recent := seedLesson(t, env, tutor.ID, student.ID, now, 2000, domain.LessonStarted)
	seedLesson(t, env, tutor.ID, student.ID, now.Add(-3*time.Hour), 2000, domain.LessonStarted)
	seedLesson(t, env, tutor.ID, student.ID, now.Add(-2*time.Hour), 2000, domain.LessonCompleted)
	seedLesson(t, env, tutor.ID, other.ID, now.Add(25*time.Hour), 2000, domain.LessonBooked)

	got, err := env.svc.ListJoinable(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	ids := []int64{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []int64{booked.ID, recent.ID}, ids)
	for _, jl := range got {
		require.NotNil(t, jl.Counterpart)
		assert.Equal(t, tutor.ID, jl.Counterpart.ID)
	}
}

func TestCancelStaleRefundsAndIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tutor := seedUser(t, env, "t7", domain.RoleTutor)
	student := seedUser(t, env, "s7", domain.RoleStudent)

	now := time.Now().UTC()
	stale := seedLesson(t, env, tutor.ID, student.ID, now.Add(-20*time.Minute), 3500, domain.LessonBooked)
	fresh := seedLesson(t, env, tutor.ID, student.ID, now.Add(-5*time.Minute), 2000, domain.LessonBooked)
	future := seedLesson(t, env, tutor.ID, student.ID, now.Add(24*time.Hour), 2000, domain.LessonBooked)

	n, err := env.svc.CancelStale(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := env.lessons.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LessonCancelled, got.Status)

	u, err := env.users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), u.Credits)

	for _, id := range []int64{fresh.ID, future.ID} {
		l, err := env.lessons.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.LessonBooked, l.Status)
	}

	// A second sweep finds nothing and refunds nothing.
	n, err = env.svc.CancelStale(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, n)

	u, _ = env.users.GetByID(ctx, student.ID)
	assert.Equal(t, int64(3500), u.Credits)
}

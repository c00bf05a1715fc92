package admin

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
	"github.com/dagi345/Tutorly/internal/modules/review"
	"github.com/dagi345/Tutorly/internal/modules/tutorprofile"
	"github.com/dagi345/Tutorly/internal/repository"

	_ "modernc.org/sqlite"
)

type testEnv struct {
	svc      *Service
	reviews  *review.Service
	users    *repository.UserRepository
	profiles *repository.TutorProfileRepository
	lessons  *repository.LessonRepository
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:admin_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	users := repository.NewUserRepository(db)
	profiles := repository.NewTutorProfileRepository(db)
	lessons := repository.NewLessonRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	profileSvc := tutorprofile.NewService(profiles, users, reviewRepo, lessons)
	reviewSvc := review.NewService(reviewRepo, lessons, profileSvc)

	return testEnv{
		svc:      NewService(users, profiles, lessons, reviewSvc),
		reviews:  reviewSvc,
		users:    users,
		profiles: profiles,
		lessons:  lessons,
	}
}

func seedTutor(t *testing.T, env testEnv, name string, approved bool) *domain.User {
	t.Helper()
	ctx := context.Background()
	u := &domain.User{ClerkID: "clerk_" + name, Role: domain.RoleTutor, Name: name, Email: name + "@example.com"}
	require.NoError(t, env.users.Create(ctx, u))
	require.NoError(t, env.profiles.Create(ctx, &domain.TutorProfile{
		UserID: u.ID, Subjects: []string{"math"}, HourlyRate: 2000, IsApproved: approved,
	}))
	return u
}

func seedStudent(t *testing.T, env testEnv, name string) *domain.User {
	t.Helper()
	u := &domain.User{ClerkID: "clerk_" + name, Role: domain.RoleStudent, Name: name, Email: name + "@example.com"}
	require.NoError(t, env.users.Create(context.Background(), u))
	return u
}

func seedCompleted(t *testing.T, env testEnv, tutorID, studentID int64, at time.Time, cost int64) *domain.Lesson {
	t.Helper()
	l := &domain.Lesson{
		TutorID: tutorID, StudentID: studentID, Datetime: at,
		DurationMinutes: 60, Cost: cost, Status: domain.LessonCompleted,
	}
	require.NoError(t, env.lessons.Create(context.Background(), l))
	return l
}

func TestApprovalFlow(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tutor := seedTutor(t, env, "pending", false)

	pending, err := env.svc.PendingApprovals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].User)
	assert.Equal(t, tutor.ID, pending[0].User.ID)

	// A stray rating before approval gets wiped on approve.
	require.NoError(t, env.profiles.SetRating(ctx, tutor.ID, 4.2))
	require.NoError(t, env.svc.ApproveTutor(ctx, tutor.ID))

	p, err := env.profiles.GetByUserID(ctx, tutor.ID)
	require.NoError(t, err)
	assert.True(t, p.IsApproved)
	assert.Zero(t, p.Rating)

	pending, err = env.svc.PendingApprovals(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, env.svc.HideTutor(ctx, tutor.ID))
	p, _ = env.profiles.GetByUserID(ctx, tutor.ID)
	assert.False(t, p.IsApproved)

	assert.ErrorIs(t, env.svc.ApproveTutor(ctx, 9999), ErrTutorNotFound)
}

func TestKPIsAndRevenue(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tutor := seedTutor(t, env, "kpi_tutor", true)
	student := seedStudent(t, env, "kpi_student")

	jul := time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC)
	aug := time.Date(2025, 8, 2, 10, 0, 0, 0, time.UTC)
	seedCompleted(t, env, tutor.ID, student.ID, jul, 2000)
	seedCompleted(t, env, tutor.ID, student.ID, jul.Add(time.Hour), 3000)
	seedCompleted(t, env, tutor.ID, student.ID, aug, 1000)

	// Booked lessons do not count as revenue.
	booked := &domain.Lesson{TutorID: tutor.ID, StudentID: student.ID, Datetime: aug.Add(time.Hour), DurationMinutes: 60, Cost: 500, Status: domain.LessonBooked}
	require.NoError(t, env.lessons.Create(ctx, booked))

	kpis, err := env.svc.KPIs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, kpis.TotalUsers)
	assert.Equal(t, 1, kpis.TotalTutors)
	assert.Equal(t, 1, kpis.TotalStudents)
	assert.Equal(t, 4, kpis.TotalLessons)
	assert.Equal(t, 3, kpis.CompletedLessons)
	assert.Equal(t, int64(6000), kpis.TotalRevenue)

	months, err := env.svc.RevenueByMonth(ctx)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, MonthRevenue{Month: "2025-07", Revenue: 5000, Lessons: 2}, months[0])
	assert.Equal(t, MonthRevenue{Month: "2025-08", Revenue: 1000, Lessons: 1}, months[1])
}

func TestTopTutorsAndPayouts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	busy := seedTutor(t, env, "busy", true)
	slow := seedTutor(t, env, "slow", true)
	idle := seedTutor(t, env, "idle", true)
	student := seedStudent(t, env, "payer")

	at := time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC)
	seedCompleted(t, env, busy.ID, student.ID, at, 4000)
	seedCompleted(t, env, busy.ID, student.ID, at.Add(time.Hour), 4000)
	seedCompleted(t, env, slow.ID, student.ID, at.Add(2*time.Hour), 1500)

	top, err := env.svc.TopTutors(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, busy.ID, top[0].Tutor.ID)
	assert.Equal(t, int64(8000), top[0].Revenue)
	assert.Equal(t, 2, top[0].CompletedLessons)

	payouts, err := env.svc.PendingPayouts(ctx)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	for _, p := range payouts {
		assert.NotEqual(t, idle.ID, p.Tutor.ID)
	}
}

func TestRemoveReviewRecalculatesRating(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tutor := seedTutor(t, env, "reviewed", true)
	student := seedStudent(t, env, "reviewer")
	l := seedCompleted(t, env, tutor.ID, student.ID, time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC), 2000)

	rv, err := env.reviews.Create(ctx, student.ID, l.ID, 5, "great")
	require.NoError(t, err)

	p, _ := env.profiles.GetByUserID(ctx, tutor.ID)
	assert.InDelta(t, 5.0, p.Rating, 1e-9)

	require.NoError(t, env.svc.RemoveReview(ctx, rv.ID))
	p, _ = env.profiles.GetByUserID(ctx, tutor.ID)
	assert.Zero(t, p.Rating)
}

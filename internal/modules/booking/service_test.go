package booking

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
	lessons  *repository.LessonRepository
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:booking_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	users := repository.NewUserRepository(db)
	profiles := repository.NewTutorProfileRepository(db)
	lessons := repository.NewLessonRepository(db)
	return testEnv{
		svc:      NewService(db, users, profiles, lessons),
		users:    users,
		profiles: profiles,
		lessons:  lessons,
	}
}

// nextSlot returns a future hour-aligned UTC instant at least two days out.
func nextSlot() time.Time {
	return time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)
}

func seedStudent(t *testing.T, env testEnv, credits int64) *domain.User {
	t.Helper()
	u := &domain.User{ClerkID: fmt.Sprintf("student_%s", t.Name()), Role: domain.RoleStudent, Name: "Student", Email: "s@example.com"}
	require.NoError(t, env.users.Create(context.Background(), u))
	if credits > 0 {
		require.NoError(t, env.users.AddCredits(context.Background(), u.ID, credits))
	}
	return u
}

func seedTutor(t *testing.T, env testEnv, rate int64, approved bool, availability []time.Time) *domain.User {
	t.Helper()
	ctx := context.Background()
	u := &domain.User{ClerkID: fmt.Sprintf("tutor_%s", t.Name()), Role: domain.RoleTutor, Name: "Tutor", Email: "t@example.com"}
	require.NoError(t, env.users.Create(ctx, u))
	p := &domain.TutorProfile{
		UserID:       u.ID,
		Subjects:     []string{"math"},
		HourlyRate:   rate,
		Availability: availability,
		IsApproved:   approved,
	}
	require.NoError(t, env.profiles.Create(ctx, p))
	return u
}

func TestBookDeductsCostAndCreatesLesson(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	at := nextSlot()

	student := seedStudent(t, env, 5000)
	tutor := seedTutor(t, env, 3000, true, []time.Time{at})

	lesson, err := env.svc.Book(ctx, student.ID, tutor.ID, at, false, false)
	require.NoError(t, err)
	assert.Equal(t, domain.LessonBooked, lesson.Status)
	assert.Equal(t, int64(3000), lesson.Cost)
	assert.Equal(t, at, lesson.Datetime.UTC())

	got, err := env.users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got.Credits)
}

func TestBookRejectsDoubleBooking(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	at := nextSlot()

	student := seedStudent(t, env, 10000)
	tutor := seedTutor(t, env, 2000, true, []time.Time{at})

	_, err := env.svc.Book(ctx, student.ID, tutor.ID, at, false, false)
	require.NoError(t, err)

	_, err = env.svc.Book(ctx, student.ID, tutor.ID, at, false, false)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookAllowsRebookingCancelledSlot(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	at := nextSlot()

	student := seedStudent(t, env, 10000)
	tutor := seedTutor(t, env, 2000, true, []time.Time{at})

	first, err := env.svc.Book(ctx, student.ID, tutor.ID, at, false, false)
	require.NoError(t, err)
	require.NoError(t, env.lessons.UpdateStatus(ctx, first.ID, domain.LessonCancelled))

	_, err = env.svc.Book(ctx, student.ID, tutor.ID, at, false, false)
	assert.NoError(t, err)
}

func TestBookRejectsSlotOutsideAvailability(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	at := nextSlot()

	student := seedStudent(t, env, 5000)
	tutor := seedTutor(t, env, 2000, true, []time.Time{at})

	_, err := env.svc.Book(ctx, student.ID, tutor.ID, at.Add(time.Hour), false, false)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBookAcceptsDriftedAvailabilityStamp(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	at := nextSlot()

	student := seedStudent(t, env, 5000)
	// The stored stamp is a week behind the requested instant; weekday and
	// hour still match.
	tutor := seedTutor(t, env, 2000, true, []time.Time{at.Add(-7 * 24 * time.Hour)})

	_, err := env.svc.Book(ctx, student.ID, tutor.ID, at, false, false)
	assert.NoError(t, err)
}

func TestBookRejectsPastAndMisalignedTimes(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	at := nextSlot()

	student := seedStudent(t, env, 5000)
	tutor := seedTutor(t, env, 2000, true, []time.Time{at})

	_, err := env.svc.Book(ctx, student.ID, tutor.ID, at.Add(30*time.Minute), false, false)
	assert.ErrorIs(t, err, ErrValidation)

	past := time.Now().UTC().Truncate(time.Hour).Add(-24 * time.Hour)
	_, err = env.svc.Book(ctx, student.ID, tutor.ID, past, false, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookRejectsUnapprovedTutor(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	at := nextSlot()

	student := seedStudent(t, env, 5000)
	tutor := seedTutor(t, env, 2000, false, []time.Time{at})

	_, err := env.svc.Book(ctx, student.ID, tutor.ID, at, false, false)
	assert.ErrorIs(t, err, ErrTutorNotApproved)
}

func TestBookInsufficientCreditsLeavesNoLesson(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	at := nextSlot()

	student := seedStudent(t, env, 1000)
	tutor := seedTutor(t, env, 3000, true, []time.Time{at})

	_, err := env.svc.Book(ctx, student.ID, tutor.ID, at, false, false)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	lessons, err := env.lessons.ListByTutor(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Empty(t, lessons)

	got, _ := env.users.GetByID(ctx, student.ID)
	assert.Equal(t, int64(1000), got.Credits)
}

func TestBookTrialIsFreeAndCountsUsage(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	at := nextSlot()

	student := seedStudent(t, env, 0)
	tutor := seedTutor(t, env, 3000, true, []time.Time{at})

	lesson, err := env.svc.Book(ctx, student.ID, tutor.ID, at, true, false)
	require.NoError(t, err)
	assert.True(t, lesson.IsTrial)
	assert.Zero(t, lesson.Cost)

	p, err := env.profiles.GetByUserID(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TrialUsedCount)
}

func TestCostRounding(t *testing.T) {
	assert.Equal(t, int64(3000), Cost(3000, 60))
	assert.Equal(t, int64(1500), Cost(3000, 30))
	assert.Equal(t, int64(50), Cost(100, 30))
	assert.Equal(t, int64(13), Cost(25, 30))
}

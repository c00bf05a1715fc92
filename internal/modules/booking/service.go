package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/pkg/slots"
	"github.com/dagi345/Tutorly/internal/repository"
)

// DefaultDurationMinutes is the length of every bookable slot.
const DefaultDurationMinutes = 60

type Service struct {
	db       *gorm.DB
	users    *repository.UserRepository
	profiles *repository.TutorProfileRepository
	lessons  *repository.LessonRepository
}

func NewService(
	db *gorm.DB,
	users *repository.UserRepository,
	profiles *repository.TutorProfileRepository,
	lessons *repository.LessonRepository,
) *Service {
	return &Service{db: db, users: users, profiles: profiles, lessons: lessons}
}

// Cost is the price of a lesson in credits, rounded to the nearest whole
// credit.
func Cost(hourlyRate int64, durationMinutes int) int64 {
	return (hourlyRate*int64(durationMinutes) + 30) / 60
}

// Book validates the requested slot against the tutor's availability and
// existing lessons, then deducts the cost and inserts the lesson in a single
// transaction. Trial lessons are free and bump the tutor's trial counter.
func (s *Service) Book(ctx context.Context, studentUserID, tutorUserID int64, datetime time.Time, isTrial, isRecurring bool) (*domain.Lesson, error) {
	if _, err := s.users.GetByID(ctx, studentUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tutor, err := s.users.GetByID(ctx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}
	if tutor.Role != domain.RoleTutor {
		return nil, ErrTutorNotFound
	}

	profile, err := s.profiles.GetByUserID(ctx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}
	if !profile.IsApproved {
		return nil, ErrTutorNotApproved
	}

	at := datetime.UTC()
	if !at.Truncate(time.Hour).Equal(at) {
		return nil, ErrValidation
	}
	if !at.After(time.Now().UTC()) {
		return nil, ErrValidation
	}
	if !slots.Covers(profile.Availability, at) {
		return nil, ErrSlotUnavailable
	}

	taken, err := s.lessons.CountActiveAt(ctx, tutorUserID, at)
	if err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrSlotTaken
	}

	cost := Cost(profile.HourlyRate, DefaultDurationMinutes)
	if isTrial {
		cost = 0
	}

	lesson := &domain.Lesson{
		TutorID:         tutorUserID,
		StudentID:       studentUserID,
		Datetime:        at,
		DurationMinutes: DefaultDurationMinutes,
		Cost:            cost,
		Status:          domain.LessonBooked,
		IsTrial:         isTrial,
		IsRecurring:     isRecurring,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cost > 0 {
			if err := repository.DeductCreditsTx(tx, studentUserID, cost); err != nil {
				return err
			}
		}
		if isTrial {
			if err := repository.IncrementTrialUsedTx(tx, tutorUserID); err != nil {
				return err
			}
		}
		return repository.CreateLessonTx(tx, lesson)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientCredits):
			return nil, ErrInsufficientCredits
		case repository.IsUniqueViolation(err):
			return nil, ErrSlotTaken
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}

	return lesson, nil
}

package lesson

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/repository"
)

// joinableWindow is how long after its start a started lesson still shows
// up on the join screen.
const joinableWindow = time.Hour

type Service struct {
	db      *gorm.DB
	lessons *repository.LessonRepository
	users   *repository.UserRepository
}

func NewService(db *gorm.DB, lessons *repository.LessonRepository, users *repository.UserRepository) *Service {
	return &Service{db: db, lessons: lessons, users: users}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Lesson, error) {
	l, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// UpdateStatus moves a lesson through the status graph. The actor must be
// the lesson's tutor or student, and the move must be a legal transition.
// Cancelling a paid booked lesson refunds the student.
func (s *Service) UpdateStatus(ctx context.Context, lessonID, actorID int64, to domain.LessonStatus) (*domain.Lesson, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	l, err := s.Get(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if l.TutorID != actorID && l.StudentID != actorID {
		return nil, ErrForbidden
	}
	if !domain.CanTransition(l.Status, to) {
		return nil, ErrInvalidTransition
	}

	refund := to == domain.LessonCancelled && l.Status == domain.LessonBooked && l.Cost > 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.UpdateLessonStatusTx(tx, l.ID, to); err != nil {
			return err
		}
		if refund {
			return repository.AddCreditsTx(tx, l.StudentID, l.Cost)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	l.Status = to
	return l, nil
}

// SetCallID attaches a call id to a lesson. Attaching the same id again is
// a no-op; a different id on a lesson that already has one is rejected so
// two participants creating the call concurrently agree on a single room.
func (s *Service) SetCallID(ctx context.Context, lessonID, actorID int64, callID string) (*domain.Lesson, error) {
	l, err := s.Get(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if l.TutorID != actorID && l.StudentID != actorID {
		return nil, ErrForbidden
	}
	if l.CallID != "" {
		return l, nil
	}

	if err := s.lessons.SetCallID(ctx, lessonID, callID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	l.CallID = callID
	return l, nil
}

// ListJoinable returns the lessons the user can join right now: everything
// still booked, plus started lessons within the join window. Each lesson
// carries the user on the other side.
func (s *Service) ListJoinable(ctx context.Context, userID int64) ([]JoinableLesson, error) {
	candidates, err := s.lessons.ListByStatuses(ctx, domain.LessonBooked, domain.LessonStarted)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]JoinableLesson, 0)
	for i := range candidates {
		l := candidates[i]
		if l.TutorID != userID && l.StudentID != userID {
			continue
		}
		if l.Status == domain.LessonStarted && now.Sub(l.Datetime) > joinableWindow {
			continue
		}

		counterpartID := l.TutorID
		if l.TutorID == userID {
			counterpartID = l.StudentID
		}
		counterpart, err := s.users.GetByID(ctx, counterpartID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		out = append(out, JoinableLesson{Lesson: &candidates[i], Counterpart: counterpart})
	}
	return out, nil
}

// ListMine returns all lessons the user participates in, as tutor or
// student, ordered by start time.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Lesson, error) {
	asTutor, err := s.lessons.ListByTutor(ctx, userID)
	if err != nil {
		return nil, err
	}
	asStudent, err := s.lessons.ListByStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := append(asTutor, asStudent...)
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

// CancelStale cancels every booked lesson whose start time is more than
// grace in the past and refunds its cost. Each lesson gets its own
// transaction so one bad row does not abort the sweep; the booked status
// filter makes reruns no-ops.
func (s *Service) CancelStale(ctx context.Context, grace time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-grace)
	stale, err := s.lessons.ListStaleBooked(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, l := range stale {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := repository.UpdateLessonStatusTx(tx, l.ID, domain.LessonCancelled); err != nil {
				return err
			}
			if l.Cost > 0 {
				return repository.AddCreditsTx(tx, l.StudentID, l.Cost)
			}
			return nil
		})
		if err != nil {
			log.Printf("sweep: cancel failed lesson_id=%d err=%v", l.ID, err)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

package review

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/modules/tutorprofile"
	"github.com/dagi345/Tutorly/internal/repository"
)

type Service struct {
	reviews  *repository.ReviewRepository
	lessons  *repository.LessonRepository
	profiles *tutorprofile.Service
}

func NewService(reviews *repository.ReviewRepository, lessons *repository.LessonRepository, profiles *tutorprofile.Service) *Service {
	return &Service{reviews: reviews, lessons: lessons, profiles: profiles}
}

// Create adds a review for a completed lesson. Only the lesson's student
// may review, once per lesson. The tutor's rating is recalculated after the
// insert.
func (s *Service) Create(ctx context.Context, studentUserID, lessonID int64, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrValidation
	}

	l, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonMissing
		}
		return nil, err
	}
	if l.StudentID != studentUserID {
		return nil, ErrNotAllowed
	}
	if l.Status != domain.LessonCompleted {
		return nil, ErrNotAllowed
	}

	if _, err := s.reviews.GetByLesson(ctx, lessonID); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rv := &domain.Review{
		LessonID:  lessonID,
		TutorID:   l.TutorID,
		StudentID: studentUserID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	if err := s.profiles.RecalcRating(ctx, l.TutorID); err != nil && !errors.Is(err, tutorprofile.ErrNotFound) {
		return nil, err
	}
	return rv, nil
}

// ListByTutor returns a tutor's reviews, newest first.
func (s *Service) ListByTutor(ctx context.Context, tutorUserID int64) ([]domain.Review, error) {
	return s.reviews.ListByTutor(ctx, tutorUserID)
}

// Remove deletes a review and recalculates the tutor's rating. Moderation
// path, admin only.
func (s *Service) Remove(ctx context.Context, reviewID int64) error {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.profiles.RecalcRating(ctx, rv.TutorID); err != nil && !errors.Is(err, tutorprofile.ErrNotFound) {
		return err
	}
	return nil
}

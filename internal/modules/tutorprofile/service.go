package tutorprofile

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/pkg/slots"
	"github.com/dagi345/Tutorly/internal/repository"
)

type Service struct {
	profiles *repository.TutorProfileRepository
	users    *repository.UserRepository
	reviews  *repository.ReviewRepository
	lessons  *repository.LessonRepository
}

func NewService(
	profiles *repository.TutorProfileRepository,
	users *repository.UserRepository,
	reviews *repository.ReviewRepository,
	lessons *repository.LessonRepository,
) *Service {
	return &Service{profiles: profiles, users: users, reviews: reviews, lessons: lessons}
}

// CreateProfile creates the one-and-only profile for a user. Availability
// entries are normalized to hour-aligned UTC before storing. New profiles
// start unapproved with rating 0.
func (s *Service) CreateProfile(ctx context.Context, userID int64, req CreateProfileRequest) (*domain.TutorProfile, error) {
	if userID <= 0 || req.HourlyRate <= 0 || len(req.Subjects) == 0 {
		return nil, ErrValidation
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.profiles.GetByUserID(ctx, userID); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &domain.TutorProfile{
		UserID:       userID,
		Subjects:     req.Subjects,
		HourlyRate:   req.HourlyRate,
		Bio:          req.Bio,
		Availability: slots.Normalize(req.Availability),
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return p, nil
}

// UpdateProfile patches the provided fields; availability, when present, is
// normalized like on create.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) error {
	fields := map[string]any{}
	if req.Subjects != nil {
		if len(*req.Subjects) == 0 {
			return ErrValidation
		}
		fields["subjects"] = *req.Subjects
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate <= 0 {
			return ErrValidation
		}
		fields["hourly_rate"] = *req.HourlyRate
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Availability != nil {
		fields["availability"] = slots.Normalize(*req.Availability)
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.profiles.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// SetAvailability replaces the entire availability list atomically; there
// is no partial merge.
func (s *Service) SetAvailability(ctx context.Context, userID int64, availability []time.Time) error {
	err := s.profiles.SetAvailability(ctx, userID, slots.Normalize(availability))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// RecalcRating recomputes a tutor's rating as the arithmetic mean of all
// their reviews (0 with none) and persists it. Called after every review
// creation and removal.
func (s *Service) RecalcRating(ctx context.Context, tutorUserID int64) error {
	reviews, err := s.reviews.ListByTutor(ctx, tutorUserID)
	if err != nil {
		return err
	}

	var rating float64
	if len(reviews) > 0 {
		var sum int
		for _, rv := range reviews {
			sum += rv.Rating
		}
		rating = float64(sum) / float64(len(reviews))
	}

	err = s.profiles.SetRating(ctx, tutorUserID, rating)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) GetByUserID(ctx context.Context, userID int64) (*domain.TutorProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetWithUser returns a profile enriched with its owning user row.
func (s *Service) GetWithUser(ctx context.Context, profileID int64) (*domain.TutorProfile, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.User = u
	return p, nil
}

// GetWithUserByUserID is GetWithUser keyed by the owning user instead of
// the profile row.
func (s *Service) GetWithUserByUserID(ctx context.Context, userID int64) (*domain.TutorProfile, error) {
	p, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.GetWithUser(ctx, p.ID)
}

// HasBooked reports whether the student ever booked this tutor, regardless
// of lesson status.
func (s *Service) HasBooked(ctx context.Context, tutorUserID, studentUserID int64) (bool, error) {
	lessons, err := s.lessons.ListByStudent(ctx, studentUserID)
	if err != nil {
		return false, err
	}
	for _, l := range lessons {
		if l.TutorID == tutorUserID {
			return true, nil
		}
	}
	return false, nil
}

// CompletedLessonCount counts completed lessons the tutor has taught.
func (s *Service) CompletedLessonCount(ctx context.Context, tutorUserID int64) (int, error) {
	lessons, err := s.lessons.ListByTutor(ctx, tutorUserID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range lessons {
		if l.Status == domain.LessonCompleted {
			n++
		}
	}
	return n, nil
}

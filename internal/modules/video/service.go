package video

import (
	"context"
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/modules/lesson"
)

var (
	ErrLessonMissing = errors.New("lesson not found")
	ErrForbidden     = errors.New("not a participant of this lesson")
)

// Service mints call tokens compatible with the video provider's HS256
// scheme and manages lesson call rooms. No outbound provider RPCs are made;
// clients take the token and the call id straight to the provider SDK.
type Service struct {
	secret  []byte
	ttl     time.Duration
	lessons *lesson.Service
}

func NewService(streamSecret string, ttl time.Duration, lessons *lesson.Service) *Service {
	return &Service{secret: []byte(streamSecret), ttl: ttl, lessons: lessons}
}

type callClaims struct {
	UserID int64 `json:"user_id"`
	jwtlib.RegisteredClaims
}

// Token mints a short-lived call token for the user.
func (s *Service) Token(userID int64) (string, error) {
	now := time.Now()
	claims := callClaims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// CreateCall attaches a fresh call id to the lesson. Concurrent creation by
// both participants settles on whichever id landed first.
func (s *Service) CreateCall(ctx context.Context, lessonID, actorID int64) (*domain.Lesson, error) {
	l, err := s.lessons.SetCallID(ctx, lessonID, actorID, uuid.NewString())
	if err != nil {
		return nil, mapLessonErr(err)
	}
	return l, nil
}

// CallInfo returns the lesson with its call id for the join screen. Only
// participants may look.
func (s *Service) CallInfo(ctx context.Context, lessonID, actorID int64) (*domain.Lesson, error) {
	l, err := s.lessons.Get(ctx, lessonID)
	if err != nil {
		return nil, mapLessonErr(err)
	}
	if l.TutorID != actorID && l.StudentID != actorID {
		return nil, ErrForbidden
	}
	return l, nil
}

func mapLessonErr(err error) error {
	switch {
	case errors.Is(err, lesson.ErrNotFound):
		return ErrLessonMissing
	case errors.Is(err, lesson.ErrForbidden):
		return ErrForbidden
	}
	return err
}

package admin

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/modules/review"
	"github.com/dagi345/Tutorly/internal/repository"
)

var ErrTutorNotFound = errors.New("tutor profile not found")

type Service struct {
	users    *repository.UserRepository
	profiles *repository.TutorProfileRepository
	lessons  *repository.LessonRepository
	reviews  *review.Service
}

func NewService(
	users *repository.UserRepository,
	profiles *repository.TutorProfileRepository,
	lessons *repository.LessonRepository,
	reviews *review.Service,
) *Service {
	return &Service{users: users, profiles: profiles, lessons: lessons, reviews: reviews}
}

// PendingApprovals lists unapproved tutor profiles, oldest first, with
// their users attached.
func (s *Service) PendingApprovals(ctx context.Context) ([]domain.TutorProfile, error) {
	pending, err := s.profiles.ListUnapproved(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		u, err := s.users.GetByID(ctx, pending[i].UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		pending[i].User = u
	}
	return pending, nil
}

// ApproveTutor makes a tutor visible in search. The rating is reset to 0
// so moderation history does not leak into a fresh listing.
func (s *Service) ApproveTutor(ctx context.Context, tutorUserID int64) error {
	if err := s.profiles.SetApproval(ctx, tutorUserID, true); err != nil {
		return mapProfileErr(err)
	}
	return mapProfileErr(s.profiles.SetRating(ctx, tutorUserID, 0))
}

// RejectTutor keeps (or puts back) a profile out of the listing.
func (s *Service) RejectTutor(ctx context.Context, tutorUserID int64) error {
	return mapProfileErr(s.profiles.SetApproval(ctx, tutorUserID, false))
}

// HideTutor unlists an already approved tutor; the profile and its history
// stay intact.
func (s *Service) HideTutor(ctx context.Context, tutorUserID int64) error {
	return mapProfileErr(s.profiles.SetApproval(ctx, tutorUserID, false))
}

// RemoveReview is the moderation delete; the tutor's rating is
// recalculated by the review service.
func (s *Service) RemoveReview(ctx context.Context, reviewID int64) error {
	return s.reviews.Remove(ctx, reviewID)
}

func (s *Service) KPIs(ctx context.Context) (*KPIs, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	lessons, err := s.lessons.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &KPIs{TotalUsers: len(users), TotalLessons: len(lessons)}
	for _, u := range users {
		switch u.Role {
		case domain.RoleTutor:
			out.TotalTutors++
		case domain.RoleStudent:
			out.TotalStudents++
		}
	}
	for _, l := range lessons {
		if l.Status == domain.LessonCompleted {
			out.CompletedLessons++
			out.TotalRevenue += l.Cost
		}
	}
	return out, nil
}

// RevenueByMonth buckets completed lesson revenue by the lesson's start
// month, ascending.
func (s *Service) RevenueByMonth(ctx context.Context) ([]MonthRevenue, error) {
	lessons, err := s.lessons.ListByStatuses(ctx, domain.LessonCompleted)
	if err != nil {
		return nil, err
	}

	buckets := map[string]*MonthRevenue{}
	for _, l := range lessons {
		month := l.Datetime.UTC().Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &MonthRevenue{Month: month}
			buckets[month] = b
		}
		b.Revenue += l.Cost
		b.Lessons++
	}

	out := make([]MonthRevenue, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// TopTutors ranks tutors by completed lesson revenue, then count.
func (s *Service) TopTutors(ctx context.Context, limit int) ([]TutorStanding, error) {
	if limit <= 0 {
		limit = 5
	}
	out, err := s.standings(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// standings tallies completed lessons and revenue per tutor, best first.
func (s *Service) standings(ctx context.Context) ([]TutorStanding, error) {
	lessons, err := s.lessons.ListByStatuses(ctx, domain.LessonCompleted)
	if err != nil {
		return nil, err
	}

	type tally struct {
		completed int
		revenue   int64
	}
	byTutor := map[int64]*tally{}
	for _, l := range lessons {
		t, ok := byTutor[l.TutorID]
		if !ok {
			t = &tally{}
			byTutor[l.TutorID] = t
		}
		t.completed++
		t.revenue += l.Cost
	}

	out := make([]TutorStanding, 0, len(byTutor))
	for tutorID, t := range byTutor {
		u, err := s.users.GetByID(ctx, tutorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		standing := TutorStanding{Tutor: u, CompletedLessons: t.completed, Revenue: t.revenue}
		if p, err := s.profiles.GetByUserID(ctx, tutorID); err == nil {
			standing.Rating = p.Rating
		}
		out = append(out, standing)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].CompletedLessons > out[j].CompletedLessons
	})
	return out, nil
}

func (s *Service) RecentLessons(ctx context.Context, limit int) ([]domain.Lesson, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.lessons.ListRecent(ctx, limit)
}

func (s *Service) NewUsers(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.users.ListRecent(ctx, limit)
}

// PendingPayouts sums completed lesson earnings per tutor. There is no
// payout ledger yet, so everything completed counts as owed.
func (s *Service) PendingPayouts(ctx context.Context) ([]PendingPayout, error) {
	standings, err := s.standings(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PendingPayout, 0, len(standings))
	for _, st := range standings {
		if st.Revenue == 0 {
			continue
		}
		out = append(out, PendingPayout{Tutor: st.Tutor, Amount: st.Revenue})
	}
	return out, nil
}

func mapProfileErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTutorNotFound
	}
	return err
}

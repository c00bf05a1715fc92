package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/pkg/slots"
	"github.com/dagi345/Tutorly/internal/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

var ErrBadCursor = errors.New("malformed cursor")

type Service struct {
	profiles *repository.TutorProfileRepository
	users    *repository.UserRepository
}

func NewService(profiles *repository.TutorProfileRepository, users *repository.UserRepository) *Service {
	return &Service{profiles: profiles, users: users}
}

// cursor is a (created_at, id) watermark over the creation-time ordering.
// The id tiebreak keeps pagination stable when two profiles share a
// timestamp.
type cursor struct {
	createdNano int64
	id          int64
}

func encodeCursor(p domain.TutorProfile) string {
	return fmt.Sprintf("%d_%d", p.CreatedAt.UnixNano(), p.ID)
}

func decodeCursor(s string) (cursor, error) {
	nanoStr, idStr, ok := strings.Cut(s, "_")
	if !ok {
		return cursor{}, ErrBadCursor
	}
	nano, err := strconv.ParseInt(nanoStr, 10, 64)
	if err != nil {
		return cursor{}, ErrBadCursor
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return cursor{}, ErrBadCursor
	}
	return cursor{createdNano: nano, id: id}, nil
}

func (c cursor) before(p domain.TutorProfile) bool {
	nano := p.CreatedAt.UnixNano()
	return nano > c.createdNano || (nano == c.createdNano && p.ID > c.id)
}

// matches reports whether one availability slot satisfies the day and hour
// lists jointly.
func matches(p domain.TutorProfile, f Filter) bool {
	if len(f.Days) == 0 && len(f.Hours) == 0 {
		return true
	}
	for _, stamp := range p.Availability {
		utc := stamp.UTC()
		if dayOK(int(utc.Weekday()), f.Days) && hourOK(utc.Hour(), f.Hours) {
			return true
		}
	}
	return false
}

func dayOK(day int, days []int) bool {
	if len(days) == 0 {
		return true
	}
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func hourOK(hour int, hours []int) bool {
	if len(hours) == 0 {
		return true
	}
	for _, h := range hours {
		if h == hour {
			return true
		}
	}
	return false
}

// ListApprovedFiltered pages over approved tutors in creation order,
// applying the slot filter, and returns the page plus the cursor for the
// next one. A short or exact-length final page gets a nil cursor.
func (s *Service) ListApprovedFiltered(ctx context.Context, cursorStr string, limit int, filter Filter) (*Page, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var after *cursor
	if cursorStr != "" {
		c, err := decodeCursor(cursorStr)
		if err != nil {
			return nil, err
		}
		after = &c
	}

	all, err := s.profiles.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	page := &Page{Tutors: make([]TutorResult, 0, limit)}
	for i := range all {
		p := all[i]
		if after != nil && !after.before(p) {
			continue
		}
		if !matches(p, filter) {
			continue
		}

		if len(page.Tutors) == limit {
			next := encodeCursor(*page.Tutors[limit-1].TutorProfile)
			page.NextCursor = &next
			return page, nil
		}

		res, err := s.enrich(ctx, &all[i])
		if err != nil {
			return nil, err
		}
		page.Tutors = append(page.Tutors, res)
	}
	return page, nil
}

// SearchApproved returns approved tutors teaching a subject that contains
// the query, case-insensitively. No pagination.
func (s *Service) SearchApproved(ctx context.Context, query string) (*Page, error) {
	all, err := s.profiles.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	page := &Page{Tutors: make([]TutorResult, 0)}
	for i := range all {
		if q != "" && !subjectMatch(all[i].Subjects, q) {
			continue
		}
		res, err := s.enrich(ctx, &all[i])
		if err != nil {
			return nil, err
		}
		page.Tutors = append(page.Tutors, res)
	}
	return page, nil
}

func subjectMatch(subjects []string, q string) bool {
	for _, subj := range subjects {
		if strings.Contains(strings.ToLower(subj), q) {
			return true
		}
	}
	return false
}

func (s *Service) enrich(ctx context.Context, p *domain.TutorProfile) (TutorResult, error) {
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Orphaned profile; surface it without the user.
			return TutorResult{TutorProfile: p, WeeklyRanges: slots.ToRanges(p.Availability)}, nil
		}
		return TutorResult{}, err
	}
	p.User = u
	return TutorResult{TutorProfile: p, WeeklyRanges: slots.ToRanges(p.Availability)}, nil
}

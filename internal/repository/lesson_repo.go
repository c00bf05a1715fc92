package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
)

type LessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

type lessonModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	TutorID         int64     `gorm:"column:tutor_id;index"`
	StudentID       int64     `gorm:"column:student_id;index"`
	Datetime        time.Time `gorm:"column:datetime"`
	DurationMinutes int       `gorm:"column:duration_minutes;not null;default:60"`
	Cost            int64     `gorm:"column:cost;not null;default:0"`
	Status          string    `gorm:"column:status;index"`
	IsTrial         bool      `gorm:"column:is_trial;not null;default:false"`
	IsRecurring     bool      `gorm:"column:is_recurring;not null;default:false"`
	CallID          *string   `gorm:"column:call_id"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (lessonModel) TableName() string { return "lessons" }

func toDomainLesson(m lessonModel) *domain.Lesson {
	var callID string
	if m.CallID != nil {
		callID = *m.CallID
	}

	return &domain.Lesson{
		ID:              m.ID,
		TutorID:         m.TutorID,
		StudentID:       m.StudentID,
		Datetime:        m.Datetime,
		DurationMinutes: m.DurationMinutes,
		Cost:            m.Cost,
		Status:          domain.LessonStatus(m.Status),
		IsTrial:         m.IsTrial,
		IsRecurring:     m.IsRecurring,
		CallID:          callID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toLessonModel(l *domain.Lesson) lessonModel {
	var callID *string
	if l.CallID != "" {
		v := l.CallID
		callID = &v
	}

	return lessonModel{
		ID:              l.ID,
		TutorID:         l.TutorID,
		StudentID:       l.StudentID,
		Datetime:        l.Datetime,
		DurationMinutes: l.DurationMinutes,
		Cost:            l.Cost,
		Status:          string(l.Status),
		IsTrial:         l.IsTrial,
		IsRecurring:     l.IsRecurring,
		CallID:          callID,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func (r *LessonRepository) Create(ctx context.Context, l *domain.Lesson) error {
	return CreateLessonTx(r.db.WithContext(ctx), l)
}

// CreateLessonTx inserts a lesson inside an existing transaction so the
// insert can share atomicity with the credit deduction.
func CreateLessonTx(tx *gorm.DB, l *domain.Lesson) error {
	m := toLessonModel(l)
	if err := tx.Create(&m).Error; err != nil {
		return err
	}
	*l = *toDomainLesson(m)
	return nil
}

func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*domain.Lesson, error) {
	var m lessonModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLesson(m), nil
}

// CountActiveAt counts non-cancelled lessons for a tutor at an exact slot
// instant; the booking validator uses it for conflict detection.
func (r *LessonRepository) CountActiveAt(ctx context.Context, tutorID int64, at time.Time) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&lessonModel{}).
		Where("tutor_id = ? AND datetime = ? AND status <> ?", tutorID, at.UTC(), string(domain.LessonCancelled)).
		Count(&cnt)
	return cnt, tx.Error
}

func (r *LessonRepository) ListByTutor(ctx context.Context, tutorID int64) ([]domain.Lesson, error) {
	return r.list(ctx, "tutor_id = ?", tutorID)
}

func (r *LessonRepository) ListByStudent(ctx context.Context, studentID int64) ([]domain.Lesson, error) {
	return r.list(ctx, "student_id = ?", studentID)
}

func (r *LessonRepository) ListByStatuses(ctx context.Context, statuses ...domain.LessonStatus) ([]domain.Lesson, error) {
	vals := make([]string, 0, len(statuses))
	for _, s := range statuses {
		vals = append(vals, string(s))
	}
	return r.list(ctx, "status IN ?", vals)
}

func (r *LessonRepository) ListAll(ctx context.Context) ([]domain.Lesson, error) {
	var rows []lessonModel
	if err := r.db.WithContext(ctx).Order("datetime asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLessons(rows), nil
}

func (r *LessonRepository) ListRecent(ctx context.Context, limit int) ([]domain.Lesson, error) {
	var rows []lessonModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLessons(rows), nil
}

// ListStaleBooked returns booked lessons whose scheduled start is before
// the cutoff, the sweep's work set.
func (r *LessonRepository) ListStaleBooked(ctx context.Context, cutoff time.Time) ([]domain.Lesson, error) {
	var rows []lessonModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND datetime < ?", string(domain.LessonBooked), cutoff.UTC()).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLessons(rows), nil
}

func (r *LessonRepository) UpdateStatus(ctx context.Context, id int64, status domain.LessonStatus) error {
	return UpdateLessonStatusTx(r.db.WithContext(ctx), id, status)
}

// UpdateLessonStatusTx patches a lesson's status inside an existing
// transaction.
func UpdateLessonStatusTx(tx *gorm.DB, id int64, status domain.LessonStatus) error {
	res := tx.Model(&lessonModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LessonRepository) SetCallID(ctx context.Context, id int64, callID string) error {
	res := r.db.WithContext(ctx).Model(&lessonModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"call_id": callID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LessonRepository) list(ctx context.Context, query string, args ...any) ([]domain.Lesson, error) {
	var rows []lessonModel
	if err := r.db.WithContext(ctx).Where(query, args...).Order("datetime asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLessons(rows), nil
}

func toDomainLessons(rows []lessonModel) []domain.Lesson {
	out := make([]domain.Lesson, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainLesson(m))
	}
	return out
}

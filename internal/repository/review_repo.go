package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	LessonID  int64     `gorm:"column:lesson_id;uniqueIndex"`
	TutorID   int64     `gorm:"column:tutor_id;index"`
	StudentID int64     `gorm:"column:student_id"`
	Rating    int       `gorm:"column:rating"`
	Comment   *string   `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	var comment string
	if m.Comment != nil {
		comment = *m.Comment
	}

	return &domain.Review{
		ID:        m.ID,
		LessonID:  m.LessonID,
		TutorID:   m.TutorID,
		StudentID: m.StudentID,
		Rating:    m.Rating,
		Comment:   comment,
		CreatedAt: m.CreatedAt,
	}
}

func toReviewModel(rv *domain.Review) reviewModel {
	var comment *string
	if rv.Comment != "" {
		v := rv.Comment
		comment = &v
	}

	return reviewModel{
		ID:        rv.ID,
		LessonID:  rv.LessonID,
		TutorID:   rv.TutorID,
		StudentID: rv.StudentID,
		Rating:    rv.Rating,
		Comment:   comment,
		CreatedAt: rv.CreatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) GetByLesson(ctx context.Context, lessonID int64) (*domain.Review, error) {
	var m reviewModel
	tx := r.db.WithContext(ctx).Where("lesson_id = ?", lessonID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) ListByTutor(ctx context.Context, tutorID int64) ([]domain.Review, error) {
	var rows []reviewModel
	if err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&reviewModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
